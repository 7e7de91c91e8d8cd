package slicklog

import (
	"io"
	"os"
)

// ANSI color codes per level
var levelColors = map[int64]string{
	LevelTrace: "\033[90m", // dark gray
	LevelDebug: "\033[36m", // cyan
	LevelInfo:  "\033[32m", // green
	LevelWarn:  "\033[33m", // yellow
	LevelError: "\033[31m", // red
	LevelFatal: "\033[91m", // bright red
}

const colorReset = "\033[0m"

// ConsoleSink writes formatted lines to standard output, optionally routing
// Warn and above to standard error. Color wrapping and stream routing are
// independent options.
type ConsoleSink struct {
	*baseSink
	useColors   bool
	errToStderr bool
	out         io.Writer
	errOut      io.Writer
}

// NewConsoleSink creates a console sink. useColors enables ANSI color
// wrapping per level; errToStderr routes Warn and above to stderr.
func NewConsoleSink(useColors, errToStderr bool, opts ...SinkOption) *ConsoleSink {
	return &ConsoleSink{
		baseSink:    newBaseSink(opts),
		useColors:   useColors,
		errToStderr: errToStderr,
		out:         os.Stdout,
		errOut:      os.Stderr,
	}
}

func (s *ConsoleSink) Write(rec Record, msg string) {
	line := s.formatLine(rec, msg)

	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.out
	if s.errToStderr && rec.Level >= LevelWarn {
		w = s.errOut
	}

	if s.useColors {
		if color, ok := levelColors[rec.Level]; ok {
			_, _ = io.WriteString(w, color)
			_, _ = w.Write(line[:len(line)-1])
			_, _ = io.WriteString(w, colorReset+"\n")
			return
		}
	}
	_, _ = w.Write(line)
}

// Flush is a no-op: the console writers are unbuffered.
func (s *ConsoleSink) Flush() error { return nil }

func (s *ConsoleSink) Close() error { return nil }
