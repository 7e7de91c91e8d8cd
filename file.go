package slicklog

import (
	"fmt"
	"os"
)

// FileSink appends formatted lines to a single file. The path is opened once
// at construction; an unopenable path is a configuration error surfaced to
// the caller immediately.
type FileSink struct {
	*baseSink
	path string
	file *os.File
}

// NewFileSink opens path for append (creating it if absent) and returns the
// sink, or an error if the path cannot be opened.
func NewFileSink(path string, opts ...SinkOption) (*FileSink, error) {
	file, err := openAppend(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{
		baseSink: newBaseSink(opts),
		path:     path,
		file:     file,
	}, nil
}

func openAppend(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmtErrorf("failed to open log file '%s': %w", path, err)
	}
	return file, nil
}

// Path returns the configured destination path.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Write(rec Record, msg string) {
	line := s.formatLine(rec, msg)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeLine(line)
}

// writeLine appends one formatted line. Callers hold s.mu.
func (s *FileSink) writeLine(line []byte) {
	if s.file == nil {
		return
	}
	if _, err := s.file.Write(line); err != nil {
		fmt.Fprintf(os.Stderr, "slicklog: failed to write to log file '%s': %v\n", s.path, err)
	}
}

// Flush forces buffered bytes to disk.
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	return s.file.Sync()
}

// Close syncs and closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := combineErrors(s.file.Sync(), s.file.Close())
	s.file = nil
	return err
}
