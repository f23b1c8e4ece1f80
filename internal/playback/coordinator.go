// internal/playback/coordinator.go
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deeksha1106/music-app/internal/player"
	"github.com/deeksha1106/music-app/internal/playlist"
)

var (
	// ErrNoPlayableSource is returned when a track has no source URL.
	ErrNoPlayableSource = errors.New("no playable source")
	// ErrClosed is returned by operations on a closed coordinator.
	ErrClosed = errors.New("playback coordinator closed")
)

// DefaultQualityPreference is the order in which source qualities are tried.
var DefaultQualityPreference = []string{"320kbps", "160kbps", "96kbps", "48kbps", "12kbps"}

// DefaultRestartThreshold is how far into a track Previous restarts it
// instead of going back.
const DefaultRestartThreshold = 3 * time.Second

// Coordinator drives one audio resource from the queue. Transport operations
// are serialized: a call made while another is in flight waits for it.
type Coordinator struct {
	opMu sync.Mutex // held for the whole of every transport operation

	mu     sync.RWMutex
	state  PlaybackState
	res    player.Resource
	gen    uint64 // bumped whenever res is replaced or dropped
	closed bool

	loader    player.Loader
	queue     Queue
	prefs     []string
	threshold time.Duration
	log       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	subsMu sync.RWMutex
	subs   []*Subscription
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithQualityPreference sets the source quality order.
func WithQualityPreference(prefs []string) Option {
	return func(c *Coordinator) {
		if len(prefs) > 0 {
			c.prefs = append([]string(nil), prefs...)
		}
	}
}

// WithRestartThreshold sets the position past which Previous restarts the
// current track.
func WithRestartThreshold(d time.Duration) Option {
	return func(c *Coordinator) { c.threshold = d }
}

// WithLogger sets the coordinator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a coordinator in the Idle state.
func New(loader player.Loader, queue Queue, opts ...Option) *Coordinator {
	c := &Coordinator{
		loader:    loader,
		queue:     queue,
		prefs:     DefaultQualityPreference,
		threshold: DefaultRestartThreshold,
		log:       slog.Default(),
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadAndPlay replaces the current resource with one for track and starts
// it. On failure the coordinator is left neither loading nor playing.
func (c *Coordinator) LoadAndPlay(ctx context.Context, track playlist.Track) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.loadAndPlayLocked(ctx, track)
}

func (c *Coordinator) loadAndPlayLocked(ctx context.Context, track playlist.Track) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	before := c.state.State()
	prev := c.state.Track
	t := track
	c.state.Track = &t
	c.state.Loading = true
	c.state.Playing = false
	c.state.Position = 0
	c.state.Duration = track.Duration
	old := c.res
	c.res = nil
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	c.emitState(before, StateLoading)
	c.emitTrack(TrackChange{Previous: prev, Current: &t, Index: c.queue.CurrentIndex()})

	if old != nil {
		if err := old.Unload(ctx); err != nil {
			c.log.Debug("unload previous resource failed", "error", err)
		}
	}

	src, ok := track.BestSource(c.prefs)
	if !ok {
		return c.failLoad(gen, track, ErrNoPlayableSource)
	}

	ctx, stop := mergeCancel(ctx, c.ctx)
	defer stop()
	res, err := c.loader.Load(ctx, src.URL, player.Options{PlayImmediately: true}, c.statusFunc(gen))
	if err != nil {
		return c.failLoad(gen, track, err)
	}
	st := res.Status()

	c.mu.Lock()
	if c.gen != gen || c.closed {
		c.mu.Unlock()
		_ = res.Unload(context.Background())
		return ErrClosed
	}
	c.res = res
	c.state.Loading = false
	c.state.Playing = true
	if st.Duration > 0 {
		c.state.Duration = st.Duration
	}
	c.mu.Unlock()

	c.log.Info("playing", "track", track.ID, "name", track.Name, "quality", src.Quality)
	c.emitState(StateLoading, StatePlaying)
	return nil
}

func (c *Coordinator) failLoad(gen uint64, track playlist.Track, err error) error {
	c.mu.Lock()
	if c.gen == gen {
		c.state.Loading = false
		c.state.Playing = false
	}
	after := c.state.State()
	c.mu.Unlock()

	c.log.Error("load track failed", "track", track.ID, "error", err)
	c.emitError(ErrorEvent{Operation: "load", TrackID: track.ID, Err: err})
	c.emitState(StateLoading, after)
	return fmt.Errorf("load %s: %w", track.ID, err)
}

// statusFunc binds status ticks to the resource generation they belong to.
func (c *Coordinator) statusFunc(gen uint64) player.StatusFunc {
	return func(st player.Status) { c.handleStatus(gen, st) }
}

func (c *Coordinator) handleStatus(gen uint64, st player.Status) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		c.log.Debug("ignoring stale status", "gen", gen)
		return
	}
	if !st.Loaded {
		c.mu.Unlock()
		return
	}
	before := c.state.State()
	c.state.Position = st.Position
	c.state.Playing = st.Playing
	if st.Duration > 0 {
		c.state.Duration = st.Duration
	}
	after := c.state.State()
	pos := PositionChange{Position: c.state.Position, Duration: c.state.Duration}
	c.mu.Unlock()

	c.emitPosition(pos)
	if before != after {
		c.emitState(before, after)
	}
	if st.DidJustFinish && !st.Looping {
		// Status may be delivered from inside a transport call holding opMu.
		go c.advanceAfterFinish(gen)
	}
}

func (c *Coordinator) advanceAfterFinish(gen uint64) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.RLock()
	stale := c.closed || gen != c.gen
	c.mu.RUnlock()
	if stale {
		return
	}
	if err := c.nextLocked(c.ctx); err != nil {
		c.log.Warn("auto-advance failed", "error", err)
	}
}

// Play resumes the loaded resource. No-op when nothing is loaded.
func (c *Coordinator) Play(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.setPlayingLocked(ctx, true)
}

// Pause pauses the loaded resource. No-op when nothing is loaded.
func (c *Coordinator) Pause(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.setPlayingLocked(ctx, false)
}

func (c *Coordinator) setPlayingLocked(ctx context.Context, playing bool) error {
	res := c.resource()
	if res == nil {
		return nil
	}

	op, call := "pause", res.Pause
	if playing {
		op, call = "play", res.Play
	}
	if err := call(ctx); err != nil {
		c.log.Error("transport call failed", "op", op, "error", err)
		c.emitError(ErrorEvent{Operation: op, TrackID: c.trackID(), Err: err})
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	before := c.state.State()
	c.state.Playing = playing
	after := c.state.State()
	c.mu.Unlock()

	if before != after {
		c.emitState(before, after)
	}
	return nil
}

// Toggle pauses when playing and plays otherwise. With nothing loaded it
// loads the queue's current track, which is how a restored queue starts.
func (c *Coordinator) Toggle(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.resource() == nil {
		if cur := c.queue.Current(); cur != nil {
			return c.loadAndPlayLocked(ctx, *cur)
		}
		return nil
	}

	c.mu.RLock()
	playing := c.state.Playing
	c.mu.RUnlock()
	return c.setPlayingLocked(ctx, !playing)
}

// SeekTo moves the loaded resource to pos, clamped to the track. The stored
// position is updated to the requested value without waiting for a tick.
func (c *Coordinator) SeekTo(ctx context.Context, pos time.Duration) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.seekLocked(ctx, pos)
}

func (c *Coordinator) seekLocked(ctx context.Context, pos time.Duration) error {
	res := c.resource()
	if res == nil {
		return nil
	}

	c.mu.RLock()
	dur := c.state.Duration
	c.mu.RUnlock()
	pos = max(pos, 0)
	if dur > 0 {
		pos = min(pos, dur)
	}

	if err := res.SeekTo(ctx, pos); err != nil {
		c.log.Error("seek failed", "position", pos, "error", err)
		c.emitError(ErrorEvent{Operation: "seek", TrackID: c.trackID(), Err: err})
		return fmt.Errorf("seek: %w", err)
	}

	c.mu.Lock()
	c.state.Position = pos
	ev := PositionChange{Position: pos, Duration: c.state.Duration}
	c.mu.Unlock()
	c.emitPosition(ev)
	return nil
}

// Next advances the queue and plays the next track. Repeat-one restarts the
// current track; repeat-all wraps at the end; otherwise the end of the queue
// pauses playback without moving the index.
func (c *Coordinator) Next(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.nextLocked(ctx)
}

func (c *Coordinator) nextLocked(ctx context.Context) error {
	c.mu.RLock()
	repeat := c.state.Repeat
	c.mu.RUnlock()

	if repeat == RepeatOne && c.resource() != nil {
		if err := c.seekLocked(ctx, 0); err != nil {
			return err
		}
		return c.setPlayingLocked(ctx, true)
	}

	next := c.queue.CurrentIndex() + 1
	switch {
	case next >= 0 && next < c.queue.Len():
		if t := c.queue.JumpTo(next); t != nil {
			return c.loadAndPlayLocked(ctx, *t)
		}
	case repeat == RepeatAll && c.queue.Len() > 0:
		if t := c.queue.JumpTo(0); t != nil {
			return c.loadAndPlayLocked(ctx, *t)
		}
	}

	c.log.Debug("queue exhausted")
	return c.setPlayingLocked(ctx, false)
}

// Previous restarts the current track when it has played past the restart
// threshold, otherwise plays the previous track. At the first track it
// restarts.
func (c *Coordinator) Previous(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	res := c.resource()
	var pos time.Duration
	if res != nil {
		pos = res.Status().Position
	}
	if res != nil && pos > c.threshold {
		return c.seekLocked(ctx, 0)
	}

	prev := c.queue.CurrentIndex() - 1
	if prev >= 0 && prev < c.queue.Len() {
		if t := c.queue.JumpTo(prev); t != nil {
			return c.loadAndPlayLocked(ctx, *t)
		}
	}
	return c.seekLocked(ctx, 0)
}

// ToggleShuffle flips the shuffle flag and returns the new value. The queue
// itself is reordered by the session.
func (c *Coordinator) ToggleShuffle() bool {
	c.mu.Lock()
	c.state.Shuffle = !c.state.Shuffle
	ev := ModeChange{RepeatMode: c.state.Repeat, Shuffle: c.state.Shuffle}
	c.mu.Unlock()

	c.emitMode(ev)
	return ev.Shuffle
}

// SetShuffle sets the shuffle flag.
func (c *Coordinator) SetShuffle(enabled bool) {
	c.mu.Lock()
	changed := c.state.Shuffle != enabled
	c.state.Shuffle = enabled
	ev := ModeChange{RepeatMode: c.state.Repeat, Shuffle: enabled}
	c.mu.Unlock()

	if changed {
		c.emitMode(ev)
	}
}

// ToggleRepeat advances the repeat mode (Off → One → All → Off) and returns
// the new mode.
func (c *Coordinator) ToggleRepeat() RepeatMode {
	c.mu.Lock()
	c.state.Repeat = c.state.Repeat.Next()
	ev := ModeChange{RepeatMode: c.state.Repeat, Shuffle: c.state.Shuffle}
	c.mu.Unlock()

	c.emitMode(ev)
	return ev.RepeatMode
}

// SetRepeatMode sets the repeat mode.
func (c *Coordinator) SetRepeatMode(mode RepeatMode) {
	c.mu.Lock()
	changed := c.state.Repeat != mode
	c.state.Repeat = mode
	ev := ModeChange{RepeatMode: mode, Shuffle: c.state.Shuffle}
	c.mu.Unlock()

	if changed {
		c.emitMode(ev)
	}
}

// Snapshot returns a copy of the playback state.
func (c *Coordinator) Snapshot() PlaybackState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Loaded reports whether an audio resource is held.
func (c *Coordinator) Loaded() bool {
	return c.resource() != nil
}

// Cleanup unloads the current resource. Track, position and modes are kept,
// so the state reads as Paused on the last track.
func (c *Coordinator) Cleanup(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.cleanupLocked(ctx)
}

func (c *Coordinator) cleanupLocked(ctx context.Context) {
	c.mu.Lock()
	res := c.res
	c.res = nil
	c.gen++
	before := c.state.State()
	c.state.Playing = false
	c.state.Loading = false
	after := c.state.State()
	c.mu.Unlock()

	if res != nil {
		if err := res.Unload(ctx); err != nil {
			c.log.Debug("unload failed", "error", err)
		}
	}
	if before != after {
		c.emitState(before, after)
	}
}

// Reset unloads the resource and returns to Idle. Repeat and shuffle modes
// survive.
func (c *Coordinator) Reset(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.cleanupLocked(ctx)

	c.mu.Lock()
	before := c.state.State()
	c.state.Track = nil
	c.state.Position = 0
	c.state.Duration = 0
	c.mu.Unlock()

	if before != StateIdle {
		c.emitState(before, StateIdle)
	}
}

// Subscribe creates a new event subscription.
func (c *Coordinator) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Publish forwards a queue change to subscribers.
func (c *Coordinator) Publish(e QueueChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendQueue(e)
	}
}

// Close unloads audio, cancels in-flight loads and ends all subscriptions.
func (c *Coordinator) Close() error {
	c.cancel()

	c.opMu.Lock()
	c.cleanupLocked(context.Background())
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.opMu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	c.opMu.Unlock()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()
	return nil
}

func (c *Coordinator) resource() player.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.res
}

func (c *Coordinator) trackID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.Track == nil {
		return ""
	}
	return c.state.Track.ID
}

func (c *Coordinator) emitState(prev, cur State) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendState(StateChange{Previous: prev, Current: cur})
	}
}

func (c *Coordinator) emitTrack(e TrackChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendTrack(e)
	}
}

func (c *Coordinator) emitPosition(e PositionChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendPosition(e)
	}
}

func (c *Coordinator) emitMode(e ModeChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendMode(e)
	}
}

func (c *Coordinator) emitError(e ErrorEvent) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendError(e)
	}
}

// mergeCancel returns a context that is done when either parent is.
func mergeCancel(ctx, other context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(other, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}
