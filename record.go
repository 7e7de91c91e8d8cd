package slicklog

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// Record is one entry of the ring buffer. The Render closure owns the format
// template and argument values; it is invoked exactly once, on the writer
// goroutine, after publication.
type Record struct {
	Level       int64
	Render      func() string
	TimestampNs int64
}

// newRecord captures the template and arguments by value into a deferred
// rendering closure. No formatting work happens on the caller's goroutine.
func newRecord(level int64, template string, args []any) Record {
	return Record{
		Level: level,
		Render: func() string {
			return renderMessage(template, args)
		},
		TimestampNs: time.Now().UnixNano(),
	}
}

// renderSafely invokes the record's Render closure, containing any panic from
// user-supplied values so one bad call cannot take down the writer goroutine.
func renderSafely(rec Record) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("<RENDER_PANIC: %v>", r)
		}
	}()
	if rec.Render == nil {
		return ""
	}
	return rec.Render()
}

// renderMessage substitutes sequential {} placeholders in the template with
// the argument values. "{{" and "}}" escape literal braces. A placeholder
// with no matching argument renders the missing-argument marker instead of
// failing; surplus arguments are ignored.
func renderMessage(template string, args []any) string {
	if len(args) == 0 && !containsPlaceholder(template) {
		return template
	}

	buf := make([]byte, 0, len(template)+16*len(args))
	argIdx := 0
	for i := 0; i < len(template); {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			buf = append(buf, '{')
			i += 2
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			buf = append(buf, '}')
			i += 2
		case c == '{' && i+1 < len(template) && template[i+1] == '}':
			if argIdx < len(args) {
				buf = appendValue(buf, args[argIdx])
				argIdx++
			} else {
				buf = append(buf, missingArgMarker...)
			}
			i += 2
		default:
			buf = append(buf, c)
			i++
		}
	}
	return string(buf)
}

func containsPlaceholder(template string) bool {
	for i := 0; i+1 < len(template); i++ {
		if template[i] == '{' && (template[i+1] == '}' || template[i+1] == '{') {
			return true
		}
		if template[i] == '}' && template[i+1] == '}' {
			return true
		}
	}
	return false
}

// appendValue converts a single argument to its string representation.
// Falls back to go-spew with data structure information for types that are
// not explicitly supported.
func appendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int8:
		return strconv.AppendInt(buf, int64(val), 10)
	case int16:
		return strconv.AppendInt(buf, int64(val), 10)
	case int32:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint8:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint16:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint32:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "nil"...)
	case time.Duration:
		return append(buf, val.String()...)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	default:
		// Structs, maps, pointers, slices and the rest are delegated to spew
		// for a compact, deterministic dump.
		var b bytes.Buffer
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(&b, val)
		return append(buf, bytes.TrimSpace(b.Bytes())...)
	}
}
