package slicklog

import (
	"time"
)

// Log level constants
const (
	LevelTrace int64 = -8
	LevelDebug int64 = -4
	LevelInfo  int64 = 0
	LevelWarn  int64 = 4
	LevelError int64 = 8
	LevelFatal int64 = 12
)

// Queue sizing
const (
	// Lower bound for the ring buffer, capacities below it are rounded up
	minQueueCapacity uint64 = 2
	// Capacity used when the configured value is zero
	defaultQueueCapacity uint64 = 65536
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Idle sleep for the writer goroutine between empty polls
	defaultPollInterval = time.Millisecond
)

// Marker inserted by the renderer when a placeholder has no matching argument
const missingArgMarker = "<MISSING_ARG>"
