package slicklog

import (
	"fmt"
	"io"
	"os"
	"time"
)

// DailyFileSink is a FileSink that rolls the base file over to a dated
// sibling when the calendar date changes: the base file is renamed to
// "<stem>_<YYYY-MM-DD><ext>" (copy+delete when rename fails) and reopened
// fresh. With MaxFileSize > 0 it additionally rotates by size within a day,
// producing indexed dated names "<stem>_<YYYY-MM-DD>_<NNN><ext>".
type DailyFileSink struct {
	FileSink
	cfg         RotationConfig
	currentDate string
	currentSize uint64
	now         func() time.Time
}

// NewDailyFileSink opens the base path for append. If the existing base file
// was last written on an earlier day, the pending rollover runs before the
// first write so stale content lands in its dated sibling.
func NewDailyFileSink(path string, cfg RotationConfig, opts ...SinkOption) (*DailyFileSink, error) {
	return newDailyFileSink(path, cfg, time.Now, opts...)
}

// newDailyFileSink is the clock-injectable constructor used by tests.
func newDailyFileSink(path string, cfg RotationConfig, now func() time.Time, opts ...SinkOption) (*DailyFileSink, error) {
	fs, err := NewFileSink(path, opts...)
	if err != nil {
		return nil, err
	}
	s := &DailyFileSink{
		FileSink: *fs,
		cfg:      cfg,
		now:      now,
	}
	s.currentDate = s.dayKey(now())

	if fi, err := os.Stat(path); err == nil {
		s.currentSize = uint64(fi.Size())
		// Best effort: the base file's last-modified date decides whether a
		// previous day's content is still pending rollover.
		if s.currentSize > 0 && s.dayKey(fi.ModTime()) != s.currentDate {
			s.rollover(s.dayKey(fi.ModTime()))
		}
	}
	return s, nil
}

func (s *DailyFileSink) Write(rec Record, msg string) {
	line := s.formatLine(rec, msg)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkRotation()
	s.writeLine(line)
	s.currentSize += uint64(len(line))
}

// checkRotation re-derives the date from the clock on every write and rolls
// over on a change; with size rotation enabled it also rolls when the active
// file reaches the threshold. Callers hold s.mu.
func (s *DailyFileSink) checkRotation() {
	today := s.dayKey(s.now())
	if today != s.currentDate {
		s.rollover(s.currentDate)
		s.currentDate = today
		return
	}
	if s.cfg.MaxFileSize > 0 && s.currentSize >= s.cfg.MaxFileSize {
		s.rollover(s.currentDate)
	}
}

// dayKey derives the calendar date, with the day boundary shifted to the
// configured rotation hour.
func (s *DailyFileSink) dayKey(t time.Time) string {
	if s.cfg.RotationHour > 0 {
		t = t.Add(-time.Duration(s.cfg.RotationHour) * time.Hour)
	}
	return t.Format("2006-01-02")
}

// rolloverTarget picks the dated sibling the base file moves to. The plain
// dated name is used only when size rotation is disabled and the name is
// free; otherwise the first unused "<stem>_<date>_<NNN><ext>" index is
// chosen, so an existing file from a previous rollover is never overwritten.
func (s *DailyFileSink) rolloverTarget(date string) string {
	stem, ext := splitPath(s.path)
	if s.cfg.MaxFileSize == 0 {
		plain := fmt.Sprintf("%s_%s%s", stem, date, ext)
		if _, err := os.Stat(plain); os.IsNotExist(err) {
			return plain
		}
	}
	for i := 1; ; i++ {
		indexed := fmt.Sprintf("%s_%s_%03d%s", stem, date, i, ext)
		if _, err := os.Stat(indexed); os.IsNotExist(err) {
			return indexed
		}
	}
}

// rollover moves the base file to its dated sibling and reopens the base
// path fresh. A failed rename falls back to copy+delete; if that fails too,
// the sink keeps writing to the still-open handle rather than losing
// records. Callers hold s.mu.
func (s *DailyFileSink) rollover(date string) {
	target := s.rolloverTarget(date)

	if s.file != nil {
		_ = s.file.Sync()
	}

	if err := os.Rename(s.path, target); err != nil {
		if copyErr := copyFile(s.path, target); copyErr != nil {
			fmt.Fprintf(os.Stderr, "slicklog: daily rollover of '%s' failed: %v; %v\n", s.path, err, copyErr)
			return
		}
		if err := os.Truncate(s.path, 0); err != nil {
			fmt.Fprintf(os.Stderr, "slicklog: failed to truncate '%s' after rollover copy: %v\n", s.path, err)
		}
		s.currentSize = 0
		return
	}

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "slicklog: failed to close log file during rollover: %v\n", err)
		}
		s.file = nil
	}

	file, err := openAppend(s.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "slicklog: failed to reopen log file '%s' after rollover: %v\n", s.path, err)
		return
	}
	s.file = file
	s.currentSize = 0
}

// copyFile duplicates src to dst, used when rename crosses a device
// boundary.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
