package slicklog

import (
	"time"
)

// Package-level convenience surface over a process-wide default logger. The
// core Logger type carries no singleton assumption; this wrapper only exists
// for ergonomic call sites.
var defaultLogger = NewLogger()

// Default returns the process-wide default logger.
func Default() *Logger {
	return defaultLogger
}

// Init configures and starts the default logger.
func Init(cfg *Config) error {
	if err := defaultLogger.ApplyConfig(cfg); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// Shutdown gracefully closes the default logger.
func Shutdown(timeout ...time.Duration) error {
	return defaultLogger.Shutdown(timeout...)
}

// Trace logs a message at trace level.
func Trace(template string, args ...any) {
	defaultLogger.Trace(template, args...)
}

// Debug logs a message at debug level.
func Debug(template string, args ...any) {
	defaultLogger.Debug(template, args...)
}

// Info logs a message at info level.
func Info(template string, args ...any) {
	defaultLogger.Info(template, args...)
}

// Warn logs a message at warning level.
func Warn(template string, args ...any) {
	defaultLogger.Warn(template, args...)
}

// Error logs a message at error level.
func Error(template string, args ...any) {
	defaultLogger.Error(template, args...)
}

// Fatal logs a message at fatal level.
func Fatal(template string, args ...any) {
	defaultLogger.Fatal(template, args...)
}
