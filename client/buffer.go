package client

import "sync"

// Buffer is the in-process queue of events waiting to be sent,
// oldest first. All operations are mutually exclusive; none of them
// block on anything but the mutex and none can fail.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

// NewBuffer creates and returns a new empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Enqueue appends an event to the tail of the buffer.
func (b *Buffer) Enqueue(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

// TakeNextBatch removes and returns up to limit events from the head,
// oldest first. An empty result means there is nothing to send; it is
// not an error.
func (b *Buffer) TakeNextBatch(limit int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return nil
	}

	n := limit
	if n > len(b.events) {
		n = len(b.events)
	}

	batch := make([]Event, n)
	copy(batch, b.events[:n])
	b.events = b.events[n:]

	return batch
}

// Requeue re-appends a previously taken batch to the tail. Failed
// events are deliberately retried after anything enqueued in the
// meantime; strict FIFO across a failed send is traded for
// simplicity.
func (b *Buffer) Requeue(batch []Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, batch...)
}

// Drain removes and returns the full contents of the buffer in order.
func (b *Buffer) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := b.events
	b.events = nil
	return events
}

// Append re-adds a sequence of events to the tail, preserving order.
func (b *Buffer) Append(events []Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
