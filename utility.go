package slicklog

import (
	"fmt"
	"os"
	"strings"
)

// internalLog writes pipeline diagnostics to stderr. The pipeline never logs
// through itself.
func internalLog(format string, args ...any) {
	if !strings.HasPrefix(format, "slicklog: ") {
		format = "slicklog: " + format
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "slicklog: ") {
		format = "slicklog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// Level converts level string to numeric constant.
func Level(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use trace, debug, info, warn, error, fatal)", levelStr)
	}
}

// levelToString converts a numeric level to its display name.
func levelToString(level int64) string {
	switch level {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// nextPowerOfTwo rounds n up to the nearest power of two.
func nextPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return defaultQueueCapacity
	}
	if n < minQueueCapacity {
		return minQueueCapacity
	}
	if n&(n-1) == 0 {
		return n
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
