package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// QueueStore persists the buffer's pending events to a single file
// slot so the queue survives process suspension. The slot and the
// in-memory buffer are never both a source of truth: Save clears the
// buffer only after the write lands, and Load consumes the slot.
type QueueStore struct {
	path string
	log  *zap.Logger
}

// NewQueueStore creates a store backed by the file at path.
func NewQueueStore(path string, log *zap.Logger) *QueueStore {
	return &QueueStore{path: path, log: log}
}

// Save serializes the buffer's full contents to the slot and clears
// the buffer. An empty buffer is a no-op that leaves the slot
// untouched. If the write fails the events are restored to the
// buffer, which stays the source of truth.
func (s *QueueStore) Save(buffer *Buffer) error {
	if buffer.Len() == 0 {
		s.log.Debug("Event buffer is empty, nothing to save")
		return nil
	}

	events := buffer.Drain()

	data, err := json.Marshal(events)
	if err != nil {
		buffer.Append(events)
		return err
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		buffer.Append(events)
		return err
	}

	s.log.Info("Saved pending events to storage", zap.Int("event_count", len(events)))
	return nil
}

// Load reads the slot, deletes it and returns its events in original
// order. A missing slot yields an empty result. A malformed slot is
// data loss for that slot only: it is logged, removed and an empty
// result is returned; the producer keeps running.
func (s *QueueStore) Load() []Event {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("Could not read pending events from storage", zap.Error(err))
		}
		return nil
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		s.log.Warn("Discarding malformed pending events slot", zap.Error(err))
		s.remove()
		return nil
	}

	s.remove()

	s.log.Info("Loaded pending events from storage", zap.Int("event_count", len(events)))
	return events
}

func (s *QueueStore) remove() {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("Could not remove pending events slot", zap.Error(err))
	}
}
