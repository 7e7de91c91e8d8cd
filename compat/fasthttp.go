package compat

import (
	"fmt"
	"strings"

	"github.com/slicktech/slicklog"
)

// FastHTTPAdapter wraps slicklog.Logger to implement fasthttp's Logger
// interface
type FastHTTPAdapter struct {
	logger        *slicklog.Logger
	defaultLevel  int64
	levelDetector func(string) (int64, bool) // Function to detect log level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *slicklog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  slicklog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the default log level for Printf calls
func WithDefaultLevel(level int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message
// content. The second return reports whether a level was detected; false
// falls back to the default level.
func WithLevelDetector(detector func(string) (int64, bool)) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected, ok := a.levelDetector(msg); ok {
			level = detected
		}
	}

	a.logger.Log(level, "fasthttp: {}", msg)
}

// DetectLogLevel attempts to detect log level from message content. The
// second return is false when the message carries no recognizable level.
func DetectLogLevel(msg string) (int64, bool) {
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "error"), strings.Contains(msgLower, "failed"):
		return slicklog.LevelError, true
	case strings.Contains(msgLower, "warn"), strings.Contains(msgLower, "timeout"):
		return slicklog.LevelWarn, true
	case strings.Contains(msgLower, "debug"):
		return slicklog.LevelDebug, true
	default:
		return 0, false
	}
}
