package slicklog

import (
	"sync"

	"github.com/slicktech/slicklog/timestamp"
)

// Sink is a log destination. Write persists one formatted line and Flush
// forces buffered bytes to the destination. Both may be called from the
// writer goroutine and from direct callers concurrently; implementations
// guard their internal state.
type Sink interface {
	Write(rec Record, msg string)
	Flush() error
	Close() error
	Name() string
	MinLevel() int64
	Dedicated() bool
}

// SinkOption configures the common sink state at construction time.
type SinkOption func(*baseSink)

// WithName sets the lookup key for direct addressing via Logger.Sink.
func WithName(name string) SinkOption {
	return func(b *baseSink) { b.name = name }
}

// WithMinLevel sets the per-sink level filter, applied in addition to the
// logger's global filter.
func WithMinLevel(level int64) SinkOption {
	return func(b *baseSink) { b.minLevel = level }
}

// WithDedicated excludes the sink from broadcast dispatch. A dedicated sink
// only receives records through Logger.Direct.
func WithDedicated() SinkOption {
	return func(b *baseSink) { b.dedicated = true }
}

// WithTimestampFormat selects one of the built-in timestamp layouts.
func WithTimestampFormat(f timestamp.Format) SinkOption {
	return func(b *baseSink) { b.fmtr = timestamp.New(f) }
}

// WithTimestampPattern sets a custom strftime-style timestamp pattern.
func WithTimestampPattern(pattern string) SinkOption {
	return func(b *baseSink) { b.fmtr = timestamp.NewPattern(pattern) }
}

// baseSink carries the state shared by all built-in sinks, always embedded by
// pointer so the mutex is never copied. The mutex guards destination state
// (file handle, size counter, current date) against concurrent access from
// the writer goroutine and direct callers.
type baseSink struct {
	name      string
	minLevel  int64
	dedicated bool
	fmtr      *timestamp.Formatter
	mu        sync.Mutex
}

func newBaseSink(opts []SinkOption) *baseSink {
	b := &baseSink{
		minLevel: LevelTrace,
		fmtr:     timestamp.New(timestamp.Default),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *baseSink) Name() string    { return b.name }
func (b *baseSink) MinLevel() int64 { return b.minLevel }
func (b *baseSink) Dedicated() bool { return b.dedicated }

// formatLine renders "<timestamp> [<LEVEL>] <message>\n".
func (b *baseSink) formatLine(rec Record, msg string) []byte {
	ts := b.fmtr.Format(uint64(rec.TimestampNs))
	line := make([]byte, 0, len(ts)+len(msg)+16)
	line = append(line, ts...)
	line = append(line, ' ', '[')
	line = append(line, levelToString(rec.Level)...)
	line = append(line, ']', ' ')
	line = append(line, msg...)
	line = append(line, '\n')
	return line
}
