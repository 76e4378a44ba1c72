package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*QueueStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events-cache.json")
	return NewQueueStore(path, zap.NewNop()), path
}

func TestQueueStore_SaveLoadRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)

	buffer := NewBuffer()
	for _, event := range makeEvents("a", "b", "c") {
		buffer.Enqueue(event)
	}

	require.NoError(t, store.Save(buffer))
	assert.Equal(t, 0, buffer.Len(), "save must clear the buffer")

	loaded := store.Load()
	assert.Equal(t, []string{"a", "b", "c"}, eventKinds(loaded))
}

func TestQueueStore_LoadConsumesSlot(t *testing.T) {
	store, path := newTestStore(t)

	buffer := NewBuffer()
	buffer.Enqueue(Event{ID: "1", EventKind: "tap"})
	require.NoError(t, store.Save(buffer))

	first := store.Load()
	assert.Len(t, first, 1)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "slot file must be deleted on load")

	second := store.Load()
	assert.Empty(t, second)
}

func TestQueueStore_SaveEmptyBufferIsNoOp(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, store.Save(NewBuffer()))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "empty save must not create a slot")
}

func TestQueueStore_SaveFailureKeepsBuffer(t *testing.T) {
	store := NewQueueStore(filepath.Join(t.TempDir(), "missing", "cache.json"), zap.NewNop())

	buffer := NewBuffer()
	buffer.Enqueue(Event{ID: "1", EventKind: "tap"})

	err := store.Save(buffer)
	assert.Error(t, err)
	assert.Equal(t, 1, buffer.Len(), "buffer stays the source of truth on a failed save")
}

func TestQueueStore_CorruptSlotIsEmptyAndRemoved(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	loaded := store.Load()
	assert.Empty(t, loaded)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt slot must be discarded")
}

func TestQueueStore_LoadMissingSlot(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Empty(t, store.Load())
}
