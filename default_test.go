package slicklog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultLogger exercises the package-level convenience surface against
// the shared default instance
func TestDefaultLogger(t *testing.T) {
	sink := newCaptureSink(WithName("capture"))

	cfg := DefaultConfig()
	cfg.EnableFile = false
	require.NoError(t, Init(cfg))
	Default().AddSink(sink)
	defer func() {
		require.NoError(t, Shutdown(5*time.Second))
		require.NoError(t, Default().Reset())
	}()

	Info("via package func {}", 1)
	Debug("below default level")
	require.NoError(t, Default().Flush(2*time.Second))

	lines := sink.snapshot()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "via package func 1")
}
