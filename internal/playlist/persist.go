package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/deeksha1106/music-app/internal/state"
)

// Keys under which the queue is persisted.
const (
	KeyQueueTracks = "queue.tracks"
	KeyQueueIndex  = "queue.current_index"
)

const writeTimeout = 5 * time.Second

// StoreWriter persists queue snapshots to a state.Store from a single
// background goroutine. Pending writes coalesce: only the most recent
// snapshot (or clear) is written.
type StoreWriter struct {
	store    state.Store
	log      *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	pending *writeOp
	writing bool
	closed  bool

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
}

type writeOp struct {
	clear    bool
	snapshot Snapshot
}

// NewStoreWriter starts a writer. A positive debounce delays each write so
// bursts of mutations produce one write.
func NewStoreWriter(store state.Store, debounce time.Duration, log *slog.Logger) *StoreWriter {
	if log == nil {
		log = slog.Default()
	}
	w := &StoreWriter{
		store:    store,
		log:      log,
		debounce: debounce,
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Save schedules a snapshot write.
func (w *StoreWriter) Save(s Snapshot) {
	w.enqueue(&writeOp{snapshot: s})
}

// Clear schedules removal of the persisted queue.
func (w *StoreWriter) Clear() {
	w.enqueue(&writeOp{clear: true})
}

func (w *StoreWriter) enqueue(op *writeOp) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.apply(op)
		return
	}
	w.pending = op
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every scheduled write has been attempted.
func (w *StoreWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.pending != nil || w.writing {
		w.cond.Wait()
	}
}

// Close flushes pending writes and stops the writer.
func (w *StoreWriter) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	close(w.quit)
	<-w.stopped
}

func (w *StoreWriter) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
		case <-w.quit:
			w.drain()
			return
		}

		if w.debounce > 0 {
			timer := time.NewTimer(w.debounce)
			select {
			case <-timer.C:
			case <-w.quit:
				timer.Stop()
				w.drain()
				return
			}
		}
		w.drain()
	}
}

func (w *StoreWriter) drain() {
	for {
		w.mu.Lock()
		op := w.pending
		w.pending = nil
		if op == nil {
			w.writing = false
			w.cond.Broadcast()
			w.mu.Unlock()
			return
		}
		w.writing = true
		w.mu.Unlock()

		w.apply(op)
	}
}

func (w *StoreWriter) apply(op *writeOp) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if op.clear {
		if err := w.store.Remove(ctx, KeyQueueTracks, KeyQueueIndex); err != nil {
			w.log.Warn("clear persisted queue failed", "error", err)
		}
		return
	}

	tracks := op.snapshot.Tracks
	if tracks == nil {
		tracks = []Track{}
	}
	data, err := json.Marshal(tracks)
	if err != nil {
		w.log.Warn("encode queue failed", "error", err)
		return
	}
	err = w.store.SetMulti(ctx, map[string][]byte{
		KeyQueueTracks: data,
		KeyQueueIndex:  []byte(strconv.Itoa(op.snapshot.CurrentIndex)),
	})
	if err != nil {
		w.log.Warn("save queue failed", "error", err, "tracks", len(tracks))
	}
}

// Load reads the persisted queue. Both keys must be present for the queue to
// count as persisted.
func (w *StoreWriter) Load(ctx context.Context) (Snapshot, bool, error) {
	return LoadSnapshot(ctx, w.store)
}

// LoadSnapshot reads a queue snapshot from store.
func LoadSnapshot(ctx context.Context, store state.Store) (Snapshot, bool, error) {
	values, err := store.GetMulti(ctx, KeyQueueTracks, KeyQueueIndex)
	if errors.Is(err, state.ErrNotFound) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("read queue: %w", err)
	}

	rawTracks, okTracks := values[KeyQueueTracks]
	rawIndex, okIndex := values[KeyQueueIndex]
	if !okTracks || !okIndex || len(rawTracks) == 0 || len(rawIndex) == 0 {
		return Snapshot{}, false, nil
	}

	var tracks []Track
	if err := json.Unmarshal(rawTracks, &tracks); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode queue tracks: %w", err)
	}
	idx, err := strconv.Atoi(string(rawIndex))
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("decode queue index: %w", err)
	}
	return Snapshot{Tracks: tracks, CurrentIndex: idx}, true, nil
}

// Verify StoreWriter implements Persister at compile time.
var _ Persister = (*StoreWriter)(nil)
