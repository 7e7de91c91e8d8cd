package slicklog

import (
	"sync/atomic"
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized   atomic.Bool
	Started         atomic.Bool
	ShutdownCalled  atomic.Bool
	ProcessorExited atomic.Bool // Tracks if the writer goroutine is running or has exited

	Level atomic.Int64 // Global minimum level, mutable at any time

	TotalRecordsProcessed atomic.Uint64
	DroppedRecords        atomic.Uint64

	stopChan         atomic.Value       // stores chan struct{}
	flushRequestChan chan chan struct{} // Channel to request a flush
}

// Stats is a snapshot of the logger's lifetime counters.
type Stats struct {
	Processed uint64
	Dropped   uint64
}

// Stats returns the current processed/dropped counters.
func (l *Logger) Stats() Stats {
	return Stats{
		Processed: l.state.TotalRecordsProcessed.Load(),
		Dropped:   l.state.DroppedRecords.Load(),
	}
}
