// Package timestamp renders nanosecond epoch timestamps as display strings.
// Formatters are pure and stateless: the same input always produces the same
// output and no shared state is touched, so a single instance may be used
// from any goroutine.
package timestamp

import (
	"strconv"
	"strings"
	"time"
)

// Format selects one of the built-in timestamp layouts.
type Format int

const (
	// Default is date and time with microsecond precision.
	Default Format = iota
	// WithMilliseconds is date and time with millisecond precision.
	WithMilliseconds
	// WithMicroseconds is date and time with microsecond precision.
	WithMicroseconds
	// ISO8601 is the RFC 3339 style layout with a timezone offset.
	ISO8601
	// TimeOnly is the clock time without the date.
	TimeOnly
)

var layouts = map[Format]string{
	Default:          "2006-01-02 15:04:05.000000",
	WithMilliseconds: "2006-01-02 15:04:05.000",
	WithMicroseconds: "2006-01-02 15:04:05.000000",
	ISO8601:          "2006-01-02T15:04:05.000Z07:00",
	TimeOnly:         "15:04:05.000000",
}

// Formatter converts nanoseconds-since-epoch values to strings.
type Formatter struct {
	layout string
}

// New returns a formatter for one of the built-in formats. Unknown values
// fall back to Default.
func New(f Format) *Formatter {
	layout, ok := layouts[f]
	if !ok {
		layout = layouts[Default]
	}
	return &Formatter{layout: layout}
}

// NewPattern returns a formatter for a custom strftime-style pattern.
// Supported directives: %Y %m %d %H %M %S %f %%, where %f is six-digit
// fractional seconds. Unrecognized directives are kept literally.
func NewPattern(pattern string) *Formatter {
	return &Formatter{layout: translatePattern(pattern)}
}

// Format renders the given nanoseconds-since-epoch in local time.
func (f *Formatter) Format(ns uint64) string {
	t := time.Unix(0, int64(ns))
	if !strings.Contains(f.layout, fracPlaceholder) {
		return t.Format(f.layout)
	}
	micros := strconv.FormatInt(int64(t.Nanosecond()/1000), 10)
	if len(micros) < 6 {
		micros = strings.Repeat("0", 6-len(micros)) + micros
	}
	return strings.ReplaceAll(t.Format(f.layout), fracPlaceholder, micros)
}

// fracPlaceholder marks the %f position in a translated pattern. The rune is
// outside Go's reference-layout alphabet so time.Format passes it through.
const fracPlaceholder = "\x00f\x00"

// translatePattern converts strftime directives to a Go reference layout.
func translatePattern(pattern string) string {
	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' || i+1 >= len(pattern) {
			sb.WriteByte(pattern[i])
			continue
		}
		i++
		switch pattern[i] {
		case 'Y':
			sb.WriteString("2006")
		case 'm':
			sb.WriteString("01")
		case 'd':
			sb.WriteString("02")
		case 'H':
			sb.WriteString("15")
		case 'M':
			sb.WriteString("04")
		case 'S':
			sb.WriteString("05")
		case 'f':
			sb.WriteString(fracPlaceholder)
		case '%':
			sb.WriteByte('%')
		default:
			sb.WriteByte('%')
			sb.WriteByte(pattern[i])
		}
	}
	return sb.String()
}
