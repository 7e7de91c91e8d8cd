package slicklog

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records every dispatched line in memory
type captureSink struct {
	*baseSink
	lines []string
}

func newCaptureSink(opts ...SinkOption) *captureSink {
	return &captureSink{baseSink: newBaseSink(opts)}
}

func (s *captureSink) Write(rec Record, msg string) {
	line := s.formatLine(rec, msg)
	s.mu.Lock()
	s.lines = append(s.lines, string(line))
	s.mu.Unlock()
}

func (s *captureSink) Flush() error { return nil }
func (s *captureSink) Close() error { return nil }

func (s *captureSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// newTestLogger builds a started logger that writes only to the returned
// capture sink
func newTestLogger(t *testing.T, opts ...func(*Builder)) (*Logger, *captureSink) {
	t.Helper()

	sink := newCaptureSink(WithName("capture"))
	b := NewBuilder().
		LevelString("trace").
		NoFile().
		PollInterval(1).
		Sink(sink)
	for _, opt := range opts {
		opt(b)
	}

	logger, err := b.BuildAndStart()
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Shutdown() })
	return logger, sink
}

// waitForLines polls until the sink holds at least n lines or the deadline
// passes
func waitForLines(t *testing.T, sink *captureSink, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		lines := sink.snapshot()
		if len(lines) >= n {
			return lines
		}
		time.Sleep(time.Millisecond)
	}
	lines := sink.snapshot()
	require.GreaterOrEqual(t, len(lines), n, "timed out waiting for %d lines", n)
	return lines
}

func TestLoggerEndToEnd(t *testing.T) {
	logger, sink := newTestLogger(t)

	logger.Info("value={}", 42)

	lines := waitForLines(t, sink, 1)
	assert.Contains(t, lines[0], "[INFO]")
	assert.Contains(t, lines[0], "value=42")
}

// TestLoggerDrainOnShutdown verifies every record published before Shutdown
// is written before it returns
func TestLoggerDrainOnShutdown(t *testing.T) {
	logger, sink := newTestLogger(t)

	const count = 500
	for i := 0; i < count; i++ {
		logger.Info("record {}", i)
	}
	require.NoError(t, logger.Shutdown(5*time.Second))

	lines := sink.snapshot()
	require.Len(t, lines, count)
	assert.Contains(t, lines[0], "record 0")
	assert.Contains(t, lines[count-1], fmt.Sprintf("record %d", count-1))
}

// TestLoggerConcurrentNoLoss verifies no records are lost when the total
// stays under the queue capacity, and per-producer order is preserved
func TestLoggerConcurrentNoLoss(t *testing.T) {
	const producers = 8
	const perProducer = 200

	logger, sink := newTestLogger(t, func(b *Builder) {
		b.QueueCapacity(producers * perProducer * 2)
	})

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				logger.Info("p{}-{}", p, i)
			}
		}(p)
	}
	wg.Wait()
	require.NoError(t, logger.Shutdown(5*time.Second))

	lines := sink.snapshot()
	require.Len(t, lines, producers*perProducer)

	lastSeen := make([]int, producers)
	for i := range lastSeen {
		lastSeen[i] = -1
	}
	seen := 0
	for _, line := range lines {
		msg := line[strings.Index(line, "] ")+2:]
		var p, i int
		if _, err := fmt.Sscanf(strings.TrimSpace(msg), "p%d-%d", &p, &i); err != nil {
			continue
		}
		seen++
		assert.Greater(t, i, lastSeen[p], "producer %d out of order", p)
		lastSeen[p] = i
	}
	assert.Equal(t, producers*perProducer, seen)
	assert.Equal(t, uint64(0), logger.Stats().Dropped)
}

// countingStringer counts how many times its String method runs
type countingStringer struct {
	calls atomic.Int64
}

func (c *countingStringer) String() string {
	c.calls.Add(1)
	return "rendered"
}

// TestLoggerRendersOnce verifies deferred formatting runs exactly once per
// record even with multiple sinks attached
func TestLoggerRendersOnce(t *testing.T) {
	second := newCaptureSink(WithName("second"))
	logger, sink := newTestLogger(t, func(b *Builder) {
		b.Sink(second)
	})

	arg := &countingStringer{}
	logger.Info("value={}", arg)

	waitForLines(t, sink, 1)
	waitForLines(t, second, 1)
	assert.Equal(t, int64(1), arg.calls.Load())
}

// TestLoggerLevelFilterSkipsRender verifies arguments of a filtered record
// are never rendered
func TestLoggerLevelFilterSkipsRender(t *testing.T) {
	logger, sink := newTestLogger(t, func(b *Builder) {
		b.Level(LevelWarn)
	})

	arg := &countingStringer{}
	logger.Debug("value={}", arg)
	logger.Warn("passes")

	waitForLines(t, sink, 1)
	assert.Equal(t, int64(0), arg.calls.Load())
	assert.Len(t, sink.snapshot(), 1)
}

// TestLoggerSinkLevelFilter verifies the per-sink filter applies on top of
// the global one
func TestLoggerSinkLevelFilter(t *testing.T) {
	errOnly := newCaptureSink(WithName("errors"), WithMinLevel(LevelError))
	logger, all := newTestLogger(t, func(b *Builder) {
		b.Sink(errOnly)
	})

	logger.Info("info line")
	logger.Error("error line")
	require.NoError(t, logger.Shutdown(5*time.Second))

	assert.Len(t, all.snapshot(), 2)
	errLines := errOnly.snapshot()
	require.Len(t, errLines, 1)
	assert.Contains(t, errLines[0], "error line")
}

// TestLoggerDedicatedSink verifies a dedicated sink never receives broadcast
// records but does receive direct ones
func TestLoggerDedicatedSink(t *testing.T) {
	dedicated := newCaptureSink(WithName("audit"), WithDedicated())
	logger, broadcast := newTestLogger(t, func(b *Builder) {
		b.Sink(dedicated)
	})

	logger.Info("broadcast only")
	waitForLines(t, broadcast, 1)
	assert.Empty(t, dedicated.snapshot())

	direct, ok := logger.Direct("audit")
	require.True(t, ok)
	direct.Info("direct only")

	lines := dedicated.snapshot()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "direct only")
	assert.Len(t, broadcast.snapshot(), 1)
}

func TestLoggerSetLevel(t *testing.T) {
	logger, sink := newTestLogger(t)

	logger.SetLevel(LevelError)
	assert.Equal(t, LevelError, logger.GetLevel())

	logger.Info("filtered")
	logger.Error("passes")
	require.NoError(t, logger.Shutdown(5*time.Second))

	lines := sink.snapshot()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "passes")
}

// TestLoggerNotStarted verifies logging before Start is a safe no-op
func TestLoggerNotStarted(t *testing.T) {
	sink := newCaptureSink()
	logger := NewLogger()
	logger.AddSink(sink)

	logger.Info("goes nowhere")
	assert.Empty(t, sink.snapshot())
}

func TestLoggerStartWithoutConfig(t *testing.T) {
	logger := NewLogger()
	err := logger.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestLoggerApplyConfigWhileRunning(t *testing.T) {
	logger, _ := newTestLogger(t)

	cfg := DefaultConfig()
	cfg.EnableFile = false
	err := logger.ApplyConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "while the logger is running")
}

func TestLoggerFlush(t *testing.T) {
	logger, sink := newTestLogger(t)

	logger.Info("before flush")
	require.NoError(t, logger.Flush(2*time.Second))
	assert.Len(t, sink.snapshot(), 1)
}

// TestLoggerFlushUnderLoad verifies flush requests are honored while
// producers keep the ring busy
func TestLoggerFlushUnderLoad(t *testing.T) {
	logger, _ := newTestLogger(t, func(b *Builder) {
		b.QueueCapacity(1024)
	})

	const producers = 4
	const perProducer = 20000

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				logger.Info("load {}", i)
			}
		}()
	}

	for i := 0; i < 5; i++ {
		assert.NoError(t, logger.Flush(5*time.Second))
	}
	wg.Wait()
	assert.NoError(t, logger.Flush(5*time.Second))
}

func TestLoggerFlushNotStarted(t *testing.T) {
	logger := NewLogger()
	err := logger.Flush(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
}

func TestLoggerSinkLookup(t *testing.T) {
	logger, _ := newTestLogger(t)

	s, ok := logger.Sink("capture")
	require.True(t, ok)
	assert.Equal(t, "capture", s.Name())

	_, ok = logger.Sink("missing")
	assert.False(t, ok)
}

func TestLoggerStats(t *testing.T) {
	logger, sink := newTestLogger(t)

	for i := 0; i < 10; i++ {
		logger.Info("record {}", i)
	}
	require.NoError(t, logger.Flush(2*time.Second))
	require.Len(t, sink.snapshot(), 10)

	stats := logger.Stats()
	assert.Equal(t, uint64(10), stats.Processed)
	assert.Equal(t, uint64(0), stats.Dropped)
}

// TestLoggerShutdownIdempotent verifies repeated Shutdown calls are safe
func TestLoggerShutdownIdempotent(t *testing.T) {
	logger, _ := newTestLogger(t)

	require.NoError(t, logger.Shutdown(5*time.Second))
	require.NoError(t, logger.Shutdown(5*time.Second))
}

// TestLoggerRestart verifies Stop followed by Start resumes processing
func TestLoggerRestart(t *testing.T) {
	logger, sink := newTestLogger(t)

	logger.Info("first run")
	require.NoError(t, logger.Stop(5*time.Second))

	logger.Info("while stopped")

	require.NoError(t, logger.Start())
	logger.Info("second run")
	require.NoError(t, logger.Shutdown(5*time.Second))

	lines := sink.snapshot()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first run")
	assert.Contains(t, lines[1], "second run")
}

// TestLoggerReset verifies Reset returns the logger to its unconfigured
// state and it can be reconfigured afterwards
func TestLoggerReset(t *testing.T) {
	logger, _ := newTestLogger(t)

	require.NoError(t, logger.Reset())
	assert.Empty(t, logger.sinkSnapshot())

	err := logger.Start()
	require.Error(t, err)

	sink := newCaptureSink(WithName("fresh"))
	cfg := DefaultConfig()
	cfg.EnableFile = false
	require.NoError(t, logger.ApplyConfig(cfg))
	logger.AddSink(sink)
	require.NoError(t, logger.Start())

	logger.Info("after reset")
	require.NoError(t, logger.Shutdown(5*time.Second))
	assert.Len(t, sink.snapshot(), 1)
}

// TestLoggerOverflowReporting verifies lapped records are counted as dropped
func TestLoggerOverflowReporting(t *testing.T) {
	logger, sink := newTestLogger(t, func(b *Builder) {
		b.QueueCapacity(4).PollInterval(50)
	})

	const total = 64
	for i := 0; i < total; i++ {
		logger.Info("burst {}", i)
	}
	require.NoError(t, logger.Shutdown(5*time.Second))

	stats := logger.Stats()
	written := uint64(len(sink.snapshot()))
	assert.Equal(t, uint64(total), written+stats.Dropped)
	assert.Positive(t, stats.Dropped)
}
