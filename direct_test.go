package slicklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectLoggerWritesSynchronously(t *testing.T) {
	sink := newCaptureSink(WithName("direct"))
	d := NewDirectLogger(sink)

	d.Info("count={}", 3)

	lines := sink.snapshot()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[INFO]")
	assert.Contains(t, lines[0], "count=3")
}

func TestDirectLoggerHonorsSinkLevel(t *testing.T) {
	sink := newCaptureSink(WithMinLevel(LevelError))
	d := NewDirectLogger(sink)

	d.Info("filtered")
	d.Error("passes")

	lines := sink.snapshot()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "passes")
}

// TestDirectLoggerNilSafe verifies a failed Direct lookup yields a usable
// no-op logger
func TestDirectLoggerNilSafe(t *testing.T) {
	logger, _ := newTestLogger(t)

	d, ok := logger.Direct("missing")
	assert.False(t, ok)
	assert.NotPanics(t, func() { d.Info("dropped") })
}

// TestDirectLoggerReachesDedicated verifies direct addressing works without
// the logger running
func TestDirectLoggerReachesDedicated(t *testing.T) {
	sink := newCaptureSink(WithName("audit"), WithDedicated())
	logger := NewLogger()
	logger.AddSink(sink)

	d, ok := logger.Direct("audit")
	require.True(t, ok)
	d.Warn("recorded")

	lines := sink.snapshot()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[WARN] recorded")
}
