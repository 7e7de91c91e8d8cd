package slicklog

import (
	"sync"
	"sync/atomic"
	"time"
)

// Logger is the core struct that encapsulates all pipeline functionality:
// the ring buffer, the sink collection, and the writer goroutine lifecycle.
// A Logger is an explicit, shareable value; create as many independent
// instances as needed.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex

	ring atomic.Pointer[ringBuffer]

	sinksMu  sync.Mutex
	cfgSinks []Sink // sinks declared by the applied configuration
	addSinks []Sink // sinks registered through AddSink
	snapshot atomic.Value // stores []Sink, rebuilt on any sink mutation
}

// NewLogger creates a new Logger instance with default settings. Call
// ApplyConfig (or use the Builder) and Start before logging.
func NewLogger() *Logger {
	l := &Logger{}

	l.currentConfig.Store(DefaultConfig())
	l.state.Level.Store(LevelInfo)

	l.state.IsInitialized.Store(false)
	l.state.Started.Store(false)
	l.state.ShutdownCalled.Store(false)
	l.state.ProcessorExited.Store(true)

	l.state.flushRequestChan = make(chan chan struct{}, 1)
	l.snapshot.Store([]Sink{})

	return l
}

// ApplyConfig applies a validated configuration to the logger. This is the
// primary way applications should configure the logger. Sinks declared by
// the configuration replace previously configured ones; sinks registered
// through AddSink are kept.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.Started.Load() {
		return fmtErrorf("cannot apply configuration while the logger is running")
	}

	sinks, err := cfg.buildSinks()
	if err != nil {
		return err
	}

	l.currentConfig.Store(cfg.Clone())
	l.state.Level.Store(cfg.Level)

	l.sinksMu.Lock()
	for _, s := range l.cfgSinks {
		_ = s.Close()
	}
	l.cfgSinks = sinks
	l.storeSnapshotLocked()
	l.sinksMu.Unlock()

	l.state.IsInitialized.Store(true)
	l.state.ShutdownCalled.Store(false)
	return nil
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// AddSink registers an additional sink. Safe to call before Start; sinks
// added while the writer goroutine is running are picked up on its next
// dispatch pass.
func (l *Logger) AddSink(s Sink) {
	if s == nil {
		return
	}
	l.sinksMu.Lock()
	l.addSinks = append(l.addSinks, s)
	l.storeSnapshotLocked()
	l.sinksMu.Unlock()
}

// ClearSinks closes and removes every sink, configured and added alike.
func (l *Logger) ClearSinks() {
	l.sinksMu.Lock()
	for _, s := range l.cfgSinks {
		_ = s.Close()
	}
	for _, s := range l.addSinks {
		_ = s.Close()
	}
	l.cfgSinks = nil
	l.addSinks = nil
	l.storeSnapshotLocked()
	l.sinksMu.Unlock()
}

// Sink returns the first sink registered under the given name.
func (l *Logger) Sink(name string) (Sink, bool) {
	for _, s := range l.sinkSnapshot() {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// SetLevel atomically replaces the global minimum level. Safe at any time.
func (l *Logger) SetLevel(level int64) {
	l.state.Level.Store(level)
}

// GetLevel returns the current global minimum level.
func (l *Logger) GetLevel() int64 {
	return l.state.Level.Load()
}

// storeSnapshotLocked rebuilds the lock-free sink snapshot the writer
// goroutine iterates. Callers hold sinksMu.
func (l *Logger) storeSnapshotLocked() {
	combined := make([]Sink, 0, len(l.cfgSinks)+len(l.addSinks))
	combined = append(combined, l.cfgSinks...)
	combined = append(combined, l.addSinks...)
	l.snapshot.Store(combined)
}

func (l *Logger) sinkSnapshot() []Sink {
	return l.snapshot.Load().([]Sink)
}

// Start begins record processing: allocates the ring buffer at the
// configured capacity (rounded up to a power of two), computes the writer's
// starting read index, and spawns exactly one writer goroutine. Safe to call
// multiple times.
func (l *Logger) Start() error {
	if !l.state.IsInitialized.Load() {
		return fmtErrorf("logger not initialized, call ApplyConfig first")
	}

	if l.state.Started.CompareAndSwap(false, true) {
		cfg := l.getConfig()

		rb := newRingBuffer(uint64(cfg.QueueCapacity))
		l.ring.Store(rb)

		stop := make(chan struct{})
		l.state.stopChan.Store(stop)

		readCursor := rb.InitialReadingIndex()
		l.state.ProcessorExited.Store(false)
		go l.processRecords(rb, readCursor, stop)
	}

	return nil
}

// Stop halts record processing after draining everything published before
// the signal. Can be restarted with Start. Returns nil if already stopped.
func (l *Logger) Stop(timeout ...time.Duration) error {
	if !l.state.Started.CompareAndSwap(true, false) {
		return nil
	}

	var effectiveTimeout time.Duration
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		cfg := l.getConfig()
		effectiveTimeout = 2 * time.Duration(cfg.PollIntervalMs) * time.Millisecond
		if effectiveTimeout < 100*time.Millisecond {
			effectiveTimeout = 100 * time.Millisecond
		}
	}

	if stop, ok := l.state.stopChan.Load().(chan struct{}); ok && stop != nil {
		close(stop)
	}

	deadline := time.Now().Add(effectiveTimeout)
	for time.Now().Before(deadline) {
		if l.state.ProcessorExited.Load() {
			return nil
		}
		time.Sleep(minWaitTime)
	}
	return fmtErrorf("writer goroutine did not exit within timeout (%v)", effectiveTimeout)
}

// Shutdown gracefully closes the logger: drains published records, flushes
// and closes every sink. Idempotent.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	if !l.state.IsInitialized.Load() {
		l.state.ShutdownCalled.Store(false)
		l.state.ProcessorExited.Store(true)
		return nil
	}

	var stopErr error
	if l.state.Started.Load() {
		stopErr = l.Stop(timeout...)
	}

	l.state.IsInitialized.Store(false)

	var finalErr error
	for _, s := range l.sinkSnapshot() {
		if err := s.Close(); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}

	return combineErrors(finalErr, stopErr)
}

// Reset is Shutdown plus clearing all sink state, returning the logger to
// its pre-configuration surface. Safe to call repeatedly.
func (l *Logger) Reset() error {
	err := l.Shutdown()

	l.initMu.Lock()
	defer l.initMu.Unlock()

	l.sinksMu.Lock()
	l.cfgSinks = nil
	l.addSinks = nil
	l.storeSnapshotLocked()
	l.sinksMu.Unlock()

	l.currentConfig.Store(DefaultConfig())
	l.state.Level.Store(LevelInfo)
	l.state.ShutdownCalled.Store(false)
	l.ring.Store((*ringBuffer)(nil))
	return err
}

// Flush asks the writer goroutine to drain published records and flush every
// sink, waiting for completion or timeout.
func (l *Logger) Flush(timeout time.Duration) error {
	if !l.state.Started.Load() {
		return fmtErrorf("logger not started")
	}

	confirmChan := make(chan struct{})

	select {
	case l.state.flushRequestChan <- confirmChan:
	case <-time.After(minWaitTime):
		return fmtErrorf("failed to send flush request to writer (possible deadlock or high load)")
	}

	select {
	case <-confirmChan:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Log reserves a slot, writes the deferred record and publishes it. No I/O
// or rendering happens on the caller's goroutine; records below the global
// level, or arriving while the logger is not running, are discarded.
func (l *Logger) Log(level int64, template string, args ...any) {
	if !l.state.Started.Load() || level < l.state.Level.Load() {
		return
	}
	rb := l.ring.Load()
	if rb == nil {
		return
	}

	index := rb.Reserve()
	rb.WriteSlot(index, newRecord(level, template, args))
	rb.Publish(index)
}

// Trace logs a message at trace level.
func (l *Logger) Trace(template string, args ...any) {
	l.Log(LevelTrace, template, args...)
}

// Debug logs a message at debug level.
func (l *Logger) Debug(template string, args ...any) {
	l.Log(LevelDebug, template, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(template string, args ...any) {
	l.Log(LevelInfo, template, args...)
}

// Warn logs a message at warning level.
func (l *Logger) Warn(template string, args ...any) {
	l.Log(LevelWarn, template, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(template string, args ...any) {
	l.Log(LevelError, template, args...)
}

// Fatal logs a message at fatal level. The logger never exits the process;
// that choice belongs to the caller.
func (l *Logger) Fatal(template string, args ...any) {
	l.Log(LevelFatal, template, args...)
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}
