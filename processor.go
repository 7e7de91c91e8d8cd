package slicklog

import (
	"time"
)

// processRecords is the writer loop, running in its own goroutine. It is the
// only reader of the ring buffer; cooperation with producers happens solely
// through the reservation protocol. Errors never escape this loop.
func (l *Logger) processRecords(rb *ringBuffer, readCursor uint64, stop <-chan struct{}) {
	defer l.state.ProcessorExited.Store(true)

	cfg := l.getConfig()
	pollInterval := time.Duration(cfg.PollIntervalMs) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	for {
		batch, advance := rb.Read(readCursor)

		if advance == 0 {
			select {
			case <-stop:
				readCursor = l.drain(rb, readCursor)
				l.flushSinks()
				return
			case confirmChan := <-l.state.flushRequestChan:
				// Drain first so everything published before the flush request
				// is on disk when the confirmation fires.
				readCursor = l.drain(rb, readCursor)
				l.flushSinks()
				close(confirmChan)
			case <-time.After(pollInterval):
			}
			continue
		}

		if len(batch) == 0 {
			// Producers lapped the consumer: the skipped range was
			// overwritten before it could be read.
			l.state.DroppedRecords.Add(advance)
			readCursor += advance
			continue
		}

		for _, rec := range batch {
			l.dispatch(rec)
		}
		readCursor += advance
		l.flushSinks()

		// Service pending flush requests between batches too, so a flush
		// cannot starve while producers keep the ring busy.
		select {
		case confirmChan := <-l.state.flushRequestChan:
			readCursor = l.drain(rb, readCursor)
			l.flushSinks()
			close(confirmChan)
		default:
		}
	}
}

// drain consumes the ring until it reports empty, guaranteeing every record
// published before the stop signal was observed is written before shutdown
// returns.
func (l *Logger) drain(rb *ringBuffer, readCursor uint64) uint64 {
	for {
		batch, advance := rb.Read(readCursor)
		if advance == 0 {
			return readCursor
		}
		if len(batch) == 0 {
			l.state.DroppedRecords.Add(advance)
			readCursor += advance
			continue
		}
		for _, rec := range batch {
			l.dispatch(rec)
		}
		readCursor += advance
	}
}

// dispatch renders the record's message once and fans it out to every
// non-dedicated sink whose level accepts it.
func (l *Logger) dispatch(rec Record) {
	msg := renderSafely(rec)

	for _, s := range l.sinkSnapshot() {
		if s.Dedicated() {
			continue
		}
		if rec.Level < s.MinLevel() {
			continue
		}
		s.Write(rec, msg)
	}
	l.state.TotalRecordsProcessed.Add(1)
}

// flushSinks flushes every sink, dedicated ones included.
func (l *Logger) flushSinks() {
	for _, s := range l.sinkSnapshot() {
		if err := s.Flush(); err != nil {
			internalLog("sink flush failed: %v\n", err)
		}
	}
}
