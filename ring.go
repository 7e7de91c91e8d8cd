package slicklog

import (
	"sync/atomic"
)

// ringBuffer is a fixed-capacity, multi-producer single-consumer queue of
// log records. Producers claim an index with Reserve, copy their record into
// the slot with WriteSlot, and make it visible with Publish. The single
// consumer drains contiguous batches with Read.
//
// Overflow policy: overwrite-oldest. Producers never block; when reservations
// lap a slot the consumer has not read yet, the old record is lost and the
// loss is reported to the consumer as a skip count.
type ringBuffer struct {
	mask uint64
	// slots hold immutable entries published by pointer store. A lapping
	// producer replaces the whole entry, never mutates one in place, so the
	// consumer can only ever observe a complete record.
	slots []atomic.Pointer[slotEntry]
	// seq[i] holds index+1 of the record most recently published into slot i.
	// The release store in Publish pairs with the acquire load in Read so the
	// consumer always observes the slot entry for that ticket (or a newer one).
	seq []atomic.Uint64

	reserveCursor atomic.Uint64

	// batch is the consumer-owned scratch the Read result aliases.
	batch []Record
}

// slotEntry pairs a record with the ticket it was written under. The embedded
// ticket lets the consumer detect a slot that was lapped between the sequence
// check and the entry load.
type slotEntry struct {
	ticket uint64
	rec    Record
}

// newRingBuffer creates a buffer with the capacity rounded up to a power of two.
func newRingBuffer(capacity uint64) *ringBuffer {
	capacity = nextPowerOfTwo(capacity)
	return &ringBuffer{
		mask:  capacity - 1,
		slots: make([]atomic.Pointer[slotEntry], capacity),
		seq:   make([]atomic.Uint64, capacity),
		batch: make([]Record, 0, capacity),
	}
}

// Capacity returns the slot count of the backing array.
func (b *ringBuffer) Capacity() uint64 {
	return uint64(len(b.slots))
}

// Reserve atomically claims the next reservation index. Wait-free.
func (b *ringBuffer) Reserve() uint64 {
	return b.reserveCursor.Add(1) - 1
}

// WriteSlot stores the record into the slot for the given index. Only the
// reserving producer may call this, before Publish.
func (b *ringBuffer) WriteSlot(index uint64, rec Record) {
	b.slots[index&b.mask].Store(&slotEntry{ticket: index + 1, rec: rec})
}

// Publish makes the slot visible to the consumer.
func (b *ringBuffer) Publish(index uint64) {
	b.seq[index&b.mask].Store(index + 1)
}

// InitialReadingIndex returns the index the consumer should start reading
// from. Slots reserved before the consumer attached are not readable.
func (b *ringBuffer) InitialReadingIndex() uint64 {
	return b.reserveCursor.Load()
}

// Read returns the longest contiguous run of published records starting at
// cursor, and the amount the caller must advance the cursor by. The returned
// slice aliases consumer-owned scratch and is valid until the next Read.
//
// An empty slice with a non-zero advance means the producers lapped the
// consumer and that many records were overwritten before they could be read.
func (b *ringBuffer) Read(cursor uint64) ([]Record, uint64) {
	pos := cursor & b.mask
	ticket := b.seq[pos].Load()

	switch {
	case ticket < cursor+1:
		// Nothing published at the cursor yet.
		return nil, 0
	case ticket > cursor+1:
		// Slot was reused for a later index: skip the lost range. The record
		// for ticket-1 is live in this slot and picked up by the next call.
		return nil, ticket - 1 - cursor
	}

	// Collect the contiguous published run, bounded by the end of the backing
	// array so the result is a single batch. The entry's own ticket guards
	// against a producer lapping the slot between the sequence load and the
	// entry load: a mismatched entry ends the batch and the lost range
	// surfaces as a skip once the lapping producer publishes.
	limit := uint64(len(b.slots)) - pos
	b.batch = b.batch[:0]
	var n uint64
	for n < limit {
		if b.seq[pos+n].Load() != cursor+n+1 {
			break
		}
		entry := b.slots[pos+n].Load()
		if entry == nil || entry.ticket != cursor+n+1 {
			break
		}
		b.batch = append(b.batch, entry.rec)
		n++
	}
	return b.batch[:n], n
}
