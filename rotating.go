package slicklog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RotationConfig holds the rotation parameters shared by the rotating and
// daily file sinks. Immutable per sink instance after construction.
type RotationConfig struct {
	// MaxFileSize is the rotation threshold in bytes. 0 disables size-based
	// rotation entirely.
	MaxFileSize uint64
	// MaxFiles is the number of files the rotating sink retains, including
	// the active one.
	MaxFiles int
	// RotationHour shifts the daily sink's day boundary: the date rolls over
	// at this hour instead of midnight. Ignored by the rotating sink.
	RotationHour int
}

// splitPath returns the path split at the extension, so "<dir>/app.log"
// yields "<dir>/app" and ".log".
func splitPath(path string) (stem, ext string) {
	ext = filepath.Ext(path)
	return strings.TrimSuffix(path, ext), ext
}

// RotatingFileSink is a FileSink that rotates by size: when the active file
// reaches MaxFileSize, retained files shift from <stem>_<i> to <stem>_<i+1>,
// the oldest is deleted, and the base path is reopened fresh.
type RotatingFileSink struct {
	FileSink
	cfg         RotationConfig
	currentSize uint64
}

// NewRotatingFileSink opens the base path for append and picks up the size
// of any existing content so a restart continues the previous rotation
// cycle.
func NewRotatingFileSink(path string, cfg RotationConfig, opts ...SinkOption) (*RotatingFileSink, error) {
	if cfg.MaxFiles < 2 {
		cfg.MaxFiles = 2
	}
	fs, err := NewFileSink(path, opts...)
	if err != nil {
		return nil, err
	}
	s := &RotatingFileSink{
		FileSink: *fs,
		cfg:      cfg,
	}
	if fi, err := os.Stat(path); err == nil {
		s.currentSize = uint64(fi.Size())
	}
	return s, nil
}

func (s *RotatingFileSink) Write(rec Record, msg string) {
	line := s.formatLine(rec, msg)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.MaxFileSize > 0 && s.currentSize >= s.cfg.MaxFileSize {
		s.rotate()
	}
	s.writeLine(line)
	s.currentSize += uint64(len(line))
}

// rotatedName returns the retained sibling for the given index:
// "<stem>_<index><ext>".
func (s *RotatingFileSink) rotatedName(index int) string {
	stem, ext := splitPath(s.path)
	return fmt.Sprintf("%s_%d%s", stem, index, ext)
}

// rotate shifts retained files and reopens the base path truncated. Callers
// hold s.mu. Shifts run from the highest index down so a crash mid-shift can
// lose the oldest file but never overwrites a not-yet-moved source.
func (s *RotatingFileSink) rotate() {
	if s.file != nil {
		_ = s.file.Sync()
		if err := s.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "slicklog: failed to close log file before rotation: %v\n", err)
		}
		s.file = nil
	}

	oldest := s.rotatedName(s.cfg.MaxFiles - 1)
	if _, err := os.Stat(oldest); err == nil {
		if err := os.Remove(oldest); err != nil {
			fmt.Fprintf(os.Stderr, "slicklog: failed to remove oldest rotated file '%s': %v\n", oldest, err)
		}
	}

	shiftFailed := false
	for i := s.cfg.MaxFiles - 1; i > 0; i-- {
		src := s.rotatedName(i - 1)
		if i == 1 {
			src = s.path
		}
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, s.rotatedName(i)); err != nil {
			fmt.Fprintf(os.Stderr, "slicklog: failed to rotate '%s': %v\n", src, err)
			shiftFailed = true
		}
	}

	// On a failed shift of the base file, reopen for append so records keep
	// flowing to the still-present file rather than being lost; the file may
	// exceed its configured size until a later rotation succeeds.
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if shiftFailed {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(s.path, flags, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "slicklog: failed to reopen log file '%s' after rotation: %v\n", s.path, err)
		return
	}
	s.file = file
	s.currentSize = 0
	if shiftFailed {
		if fi, err := file.Stat(); err == nil {
			s.currentSize = uint64(fi.Size())
		}
	}
}
