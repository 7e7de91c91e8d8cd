package slicklog

// DirectLogger addresses a single sink synchronously, bypassing the ring
// buffer and broadcast dispatch. It is the only way to reach a dedicated
// sink. Rendering and writing happen on the caller's goroutine; the sink's
// own mutex serializes against the broadcast pass.
type DirectLogger struct {
	sink Sink
}

// Direct wraps the named sink for direct logging. The second return is false
// when no sink with that name is registered.
func (l *Logger) Direct(name string) (*DirectLogger, bool) {
	s, ok := l.Sink(name)
	if !ok {
		return nil, false
	}
	return &DirectLogger{sink: s}, true
}

// NewDirectLogger wraps an arbitrary sink, registered or not.
func NewDirectLogger(s Sink) *DirectLogger {
	return &DirectLogger{sink: s}
}

// Log renders and writes one record to the wrapped sink, honoring its
// minimum level.
func (d *DirectLogger) Log(level int64, template string, args ...any) {
	if d == nil || d.sink == nil || level < d.sink.MinLevel() {
		return
	}
	rec := newRecord(level, template, args)
	d.sink.Write(rec, renderSafely(rec))
	if err := d.sink.Flush(); err != nil {
		internalLog("direct sink flush failed: %v\n", err)
	}
}

// Trace logs a message at trace level.
func (d *DirectLogger) Trace(template string, args ...any) {
	d.Log(LevelTrace, template, args...)
}

// Debug logs a message at debug level.
func (d *DirectLogger) Debug(template string, args ...any) {
	d.Log(LevelDebug, template, args...)
}

// Info logs a message at info level.
func (d *DirectLogger) Info(template string, args ...any) {
	d.Log(LevelInfo, template, args...)
}

// Warn logs a message at warning level.
func (d *DirectLogger) Warn(template string, args ...any) {
	d.Log(LevelWarn, template, args...)
}

// Error logs a message at error level.
func (d *DirectLogger) Error(template string, args ...any) {
	d.Log(LevelError, template, args...)
}

// Fatal logs a message at fatal level.
func (d *DirectLogger) Fatal(template string, args ...any) {
	d.Log(LevelFatal, template, args...)
}
