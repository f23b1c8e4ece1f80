// Package session owns the queue and the playback coordinator and keeps the
// two consistent.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/player"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/state"
)

// KeyVolume stores the last output level.
const KeyVolume = "player.volume"

// Config holds the session's collaborators.
type Config struct {
	Store  state.Store
	Loader player.Loader
	Logger *slog.Logger

	QualityPreference []string
	RestartThreshold  time.Duration
	SaveDebounce      time.Duration

	// Shuffle overrides the queue's permutation function (tests).
	Shuffle func(n int, swap func(i, j int))
}

// Session is the top-level controller the front end talks to.
type Session struct {
	queue  *playlist.Queue
	writer *playlist.StoreWriter
	player *playback.Coordinator
	store  state.Store
	volume player.VolumeControl // nil when the loader has no output level
	log    *slog.Logger
}

// New wires a queue persisted to cfg.Store and a coordinator playing through
// cfg.Loader.
func New(cfg Config) *Session {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	writer := playlist.NewStoreWriter(cfg.Store, cfg.SaveDebounce, log.With("component", "queue-writer"))
	qopts := []playlist.QueueOption{
		playlist.WithPersister(writer),
		playlist.WithLogger(log.With("component", "queue")),
	}
	if cfg.Shuffle != nil {
		qopts = append(qopts, playlist.WithShuffle(cfg.Shuffle))
	}
	queue := playlist.NewQueue(qopts...)

	popts := []playback.Option{playback.WithLogger(log.With("component", "playback"))}
	if len(cfg.QualityPreference) > 0 {
		popts = append(popts, playback.WithQualityPreference(cfg.QualityPreference))
	}
	if cfg.RestartThreshold > 0 {
		popts = append(popts, playback.WithRestartThreshold(cfg.RestartThreshold))
	}

	vc, _ := cfg.Loader.(player.VolumeControl)
	return &Session{
		queue:  queue,
		writer: writer,
		player: playback.New(cfg.Loader, queue, popts...),
		store:  cfg.Store,
		volume: vc,
		log:    log,
	}
}

// Start restores the persisted queue and volume. Nothing starts playing.
func (s *Session) Start(ctx context.Context) {
	s.queue.Load(ctx)
	s.log.Info("queue restored", "tracks", s.queue.Len(), "index", s.queue.CurrentIndex())
	s.restoreVolume(ctx)
	s.publishQueue()
}

func (s *Session) restoreVolume(ctx context.Context) {
	if s.volume == nil {
		return
	}
	raw, err := s.store.Get(ctx, KeyVolume)
	if err != nil {
		if !errors.Is(err, state.ErrNotFound) {
			s.log.Warn("read volume", "error", err)
		}
		return
	}
	level, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		s.log.Warn("invalid stored volume", "value", string(raw))
		return
	}
	s.volume.SetVolume(level)
}

// Queue exposes the queue for rendering.
func (s *Session) Queue() *playlist.Queue { return s.queue }

// Playback exposes the coordinator for rendering and subscriptions.
func (s *Session) Playback() *playback.Coordinator { return s.player }

// PlayList replaces the queue with tracks and plays tracks[start]. With
// shuffle on, the new queue is shuffled around the chosen track.
func (s *Session) PlayList(ctx context.Context, tracks []playlist.Track, start int) error {
	if len(tracks) == 0 {
		return nil
	}
	s.queue.Replace(tracks, start)
	if s.player.Snapshot().Shuffle {
		s.queue.Shuffle()
	}
	s.publishQueue()
	return s.playCurrent(ctx)
}

// PlayIndex makes index current and plays it. Out-of-range indices are
// ignored.
func (s *Session) PlayIndex(ctx context.Context, index int) error {
	if s.queue.JumpTo(index) == nil {
		return nil
	}
	s.publishQueue()
	return s.playCurrent(ctx)
}

// Enqueue appends tracks to the queue.
func (s *Session) Enqueue(tracks ...playlist.Track) {
	if len(tracks) == 0 {
		return
	}
	s.queue.Add(tracks...)
	s.publishQueue()
}

// Remove deletes the entry at index. Removing the loaded track while it
// plays moves playback to its successor. When it is paused, or nothing
// follows it, audio is unloaded and the successor waits for Play.
func (s *Session) Remove(ctx context.Context, index int) error {
	wasCurrent, err := s.queue.Take(index)
	if err != nil {
		return err
	}
	s.publishQueue()

	if !wasCurrent || !s.player.Loaded() {
		return nil
	}
	if !s.player.Snapshot().Playing || s.queue.Current() == nil {
		s.player.Reset(ctx)
		return nil
	}
	return s.playCurrent(ctx)
}

// Move reorders the queue.
func (s *Session) Move(from, to int) error {
	if err := s.queue.Move(from, to); err != nil {
		return err
	}
	s.publishQueue()
	return nil
}

// Clear empties the queue and stops playback.
func (s *Session) Clear(ctx context.Context) {
	s.queue.Clear()
	s.player.Reset(ctx)
	s.publishQueue()
}

// ToggleShuffle flips shuffle mode. Turning it on shuffles the queue around
// the current track; turning it off restores the pre-shuffle order, keeping
// tracks queued since and the current track.
func (s *Session) ToggleShuffle() bool {
	on := s.player.ToggleShuffle()
	if on {
		s.queue.Shuffle()
	} else {
		s.queue.Unshuffle()
	}
	s.publishQueue()
	return on
}

// ToggleRepeat cycles the repeat mode.
func (s *Session) ToggleRepeat() playback.RepeatMode {
	return s.player.ToggleRepeat()
}

// Toggle plays or pauses, starting the current track if nothing is loaded.
func (s *Session) Toggle(ctx context.Context) error {
	err := s.player.Toggle(ctx)
	s.publishQueue()
	return err
}

// Next skips forward.
func (s *Session) Next(ctx context.Context) error {
	err := s.player.Next(ctx)
	s.publishQueue()
	return err
}

// Previous restarts or skips back.
func (s *Session) Previous(ctx context.Context) error {
	err := s.player.Previous(ctx)
	s.publishQueue()
	return err
}

// Play resumes playback, starting the current track if nothing is loaded.
func (s *Session) Play(ctx context.Context) error {
	if !s.player.Loaded() {
		return s.playCurrent(ctx)
	}
	return s.player.Play(ctx)
}

// Pause pauses playback.
func (s *Session) Pause(ctx context.Context) error {
	return s.player.Pause(ctx)
}

// SetShuffle switches shuffle mode on or off, reordering the queue when the
// mode changes.
func (s *Session) SetShuffle(on bool) {
	if s.player.Snapshot().Shuffle == on {
		return
	}
	s.ToggleShuffle()
}

// SetRepeatMode sets the repeat mode.
func (s *Session) SetRepeatMode(mode playback.RepeatMode) {
	s.player.SetRepeatMode(mode)
}

// Snapshot returns the playback state.
func (s *Session) Snapshot() playback.PlaybackState {
	return s.player.Snapshot()
}

// QueuePosition returns the current index and the queue length.
func (s *Session) QueuePosition() (index, length int) {
	return s.queue.CurrentIndex(), s.queue.Len()
}

// Volume returns the output level in [0, 1]. Loaders without a level report 1.
func (s *Session) Volume() float64 {
	if s.volume == nil {
		return 1
	}
	return s.volume.Volume()
}

// SetVolume changes and persists the output level.
func (s *Session) SetVolume(ctx context.Context, level float64) float64 {
	if s.volume == nil {
		return 1
	}
	s.volume.SetVolume(level)
	level = s.volume.Volume()
	if err := s.store.Set(ctx, KeyVolume, []byte(strconv.FormatFloat(level, 'f', 2, 64))); err != nil {
		s.log.Warn("save volume", "error", err)
	}
	return level
}

// SeekTo moves within the current track.
func (s *Session) SeekTo(ctx context.Context, pos time.Duration) error {
	return s.player.SeekTo(ctx, pos)
}

// SeekBy moves relative to the current position.
func (s *Session) SeekBy(ctx context.Context, delta time.Duration) error {
	return s.player.SeekTo(ctx, s.player.Snapshot().Position+delta)
}

// Close stops playback and flushes the queue to storage.
func (s *Session) Close() error {
	err := s.player.Close()
	s.writer.Close()
	return err
}

func (s *Session) playCurrent(ctx context.Context) error {
	cur := s.queue.Current()
	if cur == nil {
		return nil
	}
	return s.player.LoadAndPlay(ctx, *cur)
}

func (s *Session) publishQueue() {
	s.player.Publish(playback.QueueChange{
		Tracks: s.queue.Tracks(),
		Index:  s.queue.CurrentIndex(),
	})
}
