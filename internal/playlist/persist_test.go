package playlist

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeksha1106/music-app/internal/state"
)

func TestStoreWriter_SaveThenLoad(t *testing.T) {
	store := state.NewMock()
	w := NewStoreWriter(store, 0, nil)
	defer w.Close()

	w.Save(Snapshot{Tracks: makeTracks("a", "b"), CurrentIndex: 1})
	w.Flush()

	raw, ok := store.Value(KeyQueueIndex)
	require.True(t, ok)
	assert.Equal(t, "1", string(raw))

	snap, found, err := w.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.True(t, equalIDs(snap.Tracks, "a", "b"))
}

func TestStoreWriter_EmptyQueueStoresArray(t *testing.T) {
	store := state.NewMock()
	w := NewStoreWriter(store, 0, nil)
	defer w.Close()

	w.Save(Snapshot{})
	w.Flush()

	raw, ok := store.Value(KeyQueueTracks)
	require.True(t, ok)
	assert.Equal(t, "[]", string(raw))
}

func TestStoreWriter_ClearRemovesKeys(t *testing.T) {
	store := state.NewMock()
	w := NewStoreWriter(store, 0, nil)
	defer w.Close()

	w.Save(Snapshot{Tracks: makeTracks("a"), CurrentIndex: 0})
	w.Clear()
	w.Flush()

	_, ok := store.Value(KeyQueueTracks)
	assert.False(t, ok)
	_, ok = store.Value(KeyQueueIndex)
	assert.False(t, ok)

	_, found, err := w.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreWriter_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		store := state.NewMock()
		w := NewStoreWriter(store, 100*time.Millisecond, nil)

		for i := range 5 {
			w.Save(Snapshot{Tracks: makeTracks("a", "b", "c", "d", "e"), CurrentIndex: i})
		}
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 1, store.SetCalls())
		raw, _ := store.Value(KeyQueueIndex)
		assert.Equal(t, "4", string(raw))

		w.Close()
	})
}

func TestStoreWriter_CloseDrainsPending(t *testing.T) {
	store := state.NewMock()
	w := NewStoreWriter(store, time.Hour, nil)

	w.Save(Snapshot{Tracks: makeTracks("a"), CurrentIndex: 0})
	w.Close()

	_, ok := store.Value(KeyQueueTracks)
	assert.True(t, ok, "Close should write the pending snapshot")

	// Writes after Close go straight to the store.
	w.Clear()
	_, ok = store.Value(KeyQueueTracks)
	assert.False(t, ok)
}

func TestStoreWriter_WriteErrorIsSwallowed(t *testing.T) {
	store := state.NewMock()
	store.SetSetError(errors.New("disk full"))
	w := NewStoreWriter(store, 0, nil)
	defer w.Close()

	w.Save(Snapshot{Tracks: makeTracks("a"), CurrentIndex: 0})
	w.Flush()

	assert.Equal(t, 1, store.SetCalls())
	_, ok := store.Value(KeyQueueTracks)
	assert.False(t, ok)
}

func TestLoadSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		tracks    string
		index     string
		wantFound bool
		wantErr   bool
	}{
		{"both keys", `[{"id":"a","name":"A","duration":10}]`, "0", true, false},
		{"missing index", `[{"id":"a"}]`, "", false, false},
		{"missing tracks", "", "0", false, false},
		{"malformed tracks", `{not json`, "0", false, true},
		{"malformed index", `[]`, "x", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := state.NewMock()
			if tt.tracks != "" {
				store.Put(KeyQueueTracks, []byte(tt.tracks))
			}
			if tt.index != "" {
				store.Put(KeyQueueIndex, []byte(tt.index))
			}

			_, found, err := LoadSnapshot(context.Background(), store)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func TestLoadSnapshot_ReadError(t *testing.T) {
	store := state.NewMock()
	store.SetGetError(errors.New("locked"))

	_, found, err := LoadSnapshot(context.Background(), store)
	require.Error(t, err)
	assert.False(t, found)
}

func TestQueue_LoadFromStore_MalformedStartsEmpty(t *testing.T) {
	store := state.NewMock()
	store.Put(KeyQueueTracks, []byte(`[{"id":`))
	store.Put(KeyQueueIndex, []byte("0"))
	w := NewStoreWriter(store, 0, nil)
	defer w.Close()

	q := NewQueue(WithPersister(w))
	q.Load(context.Background())

	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.CurrentIndex())
}

func TestQueue_PersistsThroughStore(t *testing.T) {
	store := state.NewMock()
	w := NewStoreWriter(store, 0, nil)
	defer w.Close()

	q := NewQueue(WithPersister(w))
	q.Replace(makeTracks("a", "b", "c"), 2)
	require.NoError(t, q.RemoveAt(0))
	w.Flush()

	restored := NewQueue(WithPersister(w))
	restored.Load(context.Background())

	assert.Equal(t, 1, restored.CurrentIndex())
	assert.True(t, equalIDs(restored.Tracks(), "b", "c"))
}
