package playlist

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
)

// ErrIndexOutOfRange is returned by queue mutations given an invalid position.
var ErrIndexOutOfRange = errors.New("index out of range")

// Snapshot is the persisted form of a queue.
type Snapshot struct {
	Tracks       []Track
	CurrentIndex int
}

// Persister stores queue snapshots. Save and Clear must not block on I/O
// failures; Load reports found=false when nothing has been persisted.
type Persister interface {
	Save(s Snapshot)
	Clear()
	Load(ctx context.Context) (s Snapshot, found bool, err error)
}

// Queue is the ordered list of tracks to play plus the position of the
// active one. It is safe for concurrent use.
//
// When the queue is non-empty the current index is normally in range, but
// removing the last entry while it is current leaves the index equal to Len,
// which callers must treat as "queue exhausted".
type Queue struct {
	mu           sync.RWMutex
	playlist     *Playlist
	currentIndex int
	original     []Track // order before the first shuffle, nil when not shuffled

	persister Persister
	shuffleFn func(n int, swap func(i, j int))
	log       *slog.Logger
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithPersister persists the queue after every mutation.
func WithPersister(p Persister) QueueOption {
	return func(q *Queue) { q.persister = p }
}

// WithShuffle replaces the permutation function used by Shuffle.
func WithShuffle(fn func(n int, swap func(i, j int))) QueueOption {
	return func(q *Queue) { q.shuffleFn = fn }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) QueueOption {
	return func(q *Queue) { q.log = l }
}

// NewQueue creates a new empty queue.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		playlist:  NewPlaylist(),
		shuffleFn: rand.Shuffle,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Replace installs tracks as the whole queue and makes startIndex current.
// An out-of-range startIndex falls back to 0. Any saved pre-shuffle order is
// dropped.
func (q *Queue) Replace(tracks []Track, startIndex int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.playlist.Set(tracks)
	if startIndex < 0 || startIndex >= len(tracks) {
		startIndex = 0
	}
	q.currentIndex = startIndex
	q.original = nil
	q.persistLocked()
}

// Add appends tracks without changing the current index.
func (q *Queue) Add(tracks ...Track) {
	if len(tracks) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	q.playlist.Add(tracks...)
	q.persistLocked()
}

// RemoveAt removes the track at index. Removing an entry before the current
// one shifts the index back by one; otherwise the index is unchanged, so
// removing the current track makes its successor current.
func (q *Queue) RemoveAt(index int) error {
	_, err := q.Take(index)
	return err
}

// Take is RemoveAt that also reports whether the removed entry was the
// current one, decided under the same lock as the removal.
func (q *Queue) Take(index int) (wasCurrent bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	wasCurrent = index == q.currentIndex
	if !q.playlist.Remove(index) {
		return false, ErrIndexOutOfRange
	}
	if index < q.currentIndex {
		q.currentIndex--
	}
	q.persistLocked()
	return wasCurrent, nil
}

// Clear empties the queue, resets the index and drops the saved order.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.playlist.Clear()
	q.currentIndex = 0
	q.original = nil
	if q.persister != nil {
		q.persister.Clear()
	}
}

// JumpTo makes index current. Returns the track there, or nil (and no
// change) if index is out of range.
func (q *Queue) JumpTo(index int) *Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	t := q.playlist.Track(index)
	if t == nil {
		return nil
	}
	q.currentIndex = index
	q.persistLocked()
	c := *t
	return &c
}

// Move relocates the track at fromIndex to toIndex, keeping the current
// index on the same track. If the moved track is the current one, the index
// follows it.
func (q *Queue) Move(fromIndex, toIndex int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.playlist.Move(fromIndex, toIndex) {
		return ErrIndexOutOfRange
	}

	cur := q.currentIndex
	switch {
	case fromIndex == cur:
		q.currentIndex = toIndex
	case fromIndex < cur && toIndex >= cur:
		q.currentIndex--
	case fromIndex > cur && toIndex <= cur:
		q.currentIndex++
	}
	q.persistLocked()
	return nil
}

// Shuffle randomizes the order while keeping the current track at the
// current index. The first call after an unshuffled state remembers the
// order so RestoreOriginal can bring it back.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.playlist.Len()
	if n == 0 {
		return
	}
	if q.original == nil {
		q.original = q.playlist.Tracks()
	}

	// Permute positions rather than tracks so duplicate tracks cannot
	// confuse the lookup of where the current entry landed.
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	q.shuffleFn(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

	cur := q.currentIndex
	if cur >= 0 && cur < n {
		for pos, orig := range perm {
			if orig == cur {
				perm[pos], perm[cur] = perm[cur], perm[pos]
				break
			}
		}
	}

	before := q.playlist.Tracks()
	shuffled := make([]Track, n)
	for pos, orig := range perm {
		shuffled[pos] = before[orig]
	}
	q.playlist.Set(shuffled)
	q.persistLocked()
}

// RestoreOriginal reinstates the order saved by the first Shuffle and
// reports whether there was one. The current index is left as is, so it may
// now designate a different track.
func (q *Queue) RestoreOriginal() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.original == nil {
		return false
	}
	q.playlist.Set(q.original)
	q.original = nil
	q.persistLocked()
	return true
}

// Unshuffle brings back the pre-shuffle order while keeping edits made
// since the shuffle: removed entries stay removed, added entries follow in
// their current order, and the current entry stays current. It reports
// whether a saved order existed.
func (q *Queue) Unshuffle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.original == nil {
		return false
	}

	cur := q.playlist.Tracks()
	positions := make(map[string][]int, len(cur))
	for i, t := range cur {
		positions[t.ID] = append(positions[t.ID], i)
	}

	order := make([]int, 0, len(cur))
	used := make([]bool, len(cur))
	for _, t := range q.original {
		if p := positions[t.ID]; len(p) > 0 {
			order = append(order, p[0])
			used[p[0]] = true
			positions[t.ID] = p[1:]
		}
	}
	for i := range cur {
		if !used[i] {
			order = append(order, i)
		}
	}

	restored := make([]Track, len(order))
	index := len(order)
	for pos, i := range order {
		restored[pos] = cur[i]
		if i == q.currentIndex {
			index = pos
		}
	}

	q.playlist.Set(restored)
	q.currentIndex = index
	q.original = nil
	q.persistLocked()
	return true
}

// IsShuffled reports whether a pre-shuffle order is saved.
func (q *Queue) IsShuffled() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.original != nil
}

// Load installs the persisted queue, if any. Failures are logged and leave
// the queue empty; Load never returns them.
func (q *Queue) Load(ctx context.Context) {
	if q.persister == nil {
		return
	}
	snap, found, err := q.persister.Load(ctx)
	if err != nil {
		q.log.Warn("load queue failed, starting empty", "error", err)
		found = false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.original = nil
	if !found {
		q.playlist.Clear()
		q.currentIndex = 0
		return
	}

	q.playlist.Set(snap.Tracks)
	idx := snap.CurrentIndex
	if idx < 0 {
		idx = 0
	}
	if idx > q.playlist.Len() {
		idx = q.playlist.Len()
	}
	q.currentIndex = idx
}

// Current returns a copy of the current track, or nil if none.
func (q *Queue) Current() *Track {
	return q.trackAt(func(i int) int { return i })
}

// PeekNext returns the track after the current one, or nil.
func (q *Queue) PeekNext() *Track {
	return q.trackAt(func(i int) int { return i + 1 })
}

// PeekPrevious returns the track before the current one, or nil.
func (q *Queue) PeekPrevious() *Track {
	return q.trackAt(func(i int) int { return i - 1 })
}

func (q *Queue) trackAt(offset func(int) int) *Track {
	q.mu.RLock()
	defer q.mu.RUnlock()
	t := q.playlist.Track(offset(q.currentIndex))
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// CurrentIndex returns the index of the current track.
func (q *Queue) CurrentIndex() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.currentIndex
}

// Tracks returns all tracks in the queue.
func (q *Queue) Tracks() []Track {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.playlist.Tracks()
}

// Len returns the number of tracks in the queue.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

func (q *Queue) persistLocked() {
	if q.persister == nil {
		return
	}
	q.persister.Save(Snapshot{
		Tracks:       q.playlist.Tracks(),
		CurrentIndex: q.currentIndex,
	})
}
