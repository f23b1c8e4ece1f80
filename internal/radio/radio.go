// Package radio implements radio mode: when the queue reaches its last
// track, it is extended with catalog suggestions for what is playing.
package radio

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/state"
)

// Suggester returns songs similar to a song.
type Suggester interface {
	Suggestions(ctx context.Context, id string, limit int) ([]playlist.Track, error)
}

// Config tunes track selection.
type Config struct {
	BufferSize      int           // tracks added per fill
	FetchSize       int           // suggestions requested per seed
	DecayWindow     int           // recently played tracks remembered
	DecayFactor     float64       // score multiplier for recently played tracks
	MaxArtistRepeat int           // per artist, across the window and the batch
	TitleThreshold  float64       // titles at least this similar count as the same song
	CacheTTL        time.Duration // how long suggestions are reused
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		BufferSize:      5,
		FetchSize:       20,
		DecayWindow:     30,
		DecayFactor:     0.1,
		MaxArtistRepeat: 2,
		TitleThreshold:  0.9,
		CacheTTL:        24 * time.Hour,
	}
}

// State holds the current radio mode state.
type State struct {
	Enabled        bool
	RecentlyPlayed []playlist.Track // oldest first, at most DecayWindow
}

// Radio manages radio mode.
type Radio struct {
	mu     sync.Mutex
	state  State
	config Config
	source Suggester
	cache  *Cache
	log    *slog.Logger
}

// New creates a Radio fetching from source and caching in store.
func New(source Suggester, store state.Store, cfg Config, log *slog.Logger) *Radio {
	if log == nil {
		log = slog.Default()
	}
	return &Radio{
		config: cfg,
		source: source,
		cache:  NewCache(store, cfg.CacheTTL),
		log:    log,
	}
}

// Toggle enables or disables radio mode.
func (r *Radio) Toggle() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Enabled = !r.state.Enabled
	if !r.state.Enabled {
		r.state.RecentlyPlayed = nil
	}
	return r.state.Enabled
}

// IsEnabled returns true if radio mode is enabled.
func (r *Radio) IsEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Enabled
}

// MarkPlayed records a started track for decay scoring and fallback seeds.
func (r *Radio) MarkPlayed(t playlist.Track) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.Enabled || t.ID == "" {
		return
	}
	r.state.RecentlyPlayed = slices.DeleteFunc(r.state.RecentlyPlayed, func(p playlist.Track) bool {
		return p.ID == t.ID
	})
	r.state.RecentlyPlayed = append(r.state.RecentlyPlayed, t)
	if over := len(r.state.RecentlyPlayed) - r.config.DecayWindow; over > 0 {
		r.state.RecentlyPlayed = slices.Delete(r.state.RecentlyPlayed, 0, over)
	}
}

// ShouldFill reports whether the queue needs more tracks: radio is on and
// the current track is the last one.
func (r *Radio) ShouldFill(index, length int) bool {
	return r.IsEnabled() && length > 0 && index >= length-1
}

// FillResult contains the result of filling the queue with radio tracks.
type FillResult struct {
	Tracks  []playlist.Track
	Message string // shown to the user, e.g. "No related songs found"
	Err     error
}

// Fill picks up to BufferSize tracks related to seed. Tracks in queued are
// never picked. When seed yields nothing, recently played tracks are tried
// as seeds, newest first.
func (r *Radio) Fill(ctx context.Context, seed playlist.Track, queued []playlist.Track) FillResult {
	r.mu.Lock()
	recent := slices.Clone(r.state.RecentlyPlayed)
	r.mu.Unlock()

	if seed.ID == "" {
		return FillResult{Message: "No seed song"}
	}

	ex := newExclusions(queued, r.config.TitleThreshold)

	result := r.tryFillFromSeed(ctx, seed, ex, recent)
	if result != nil {
		return *result
	}

	tried := map[string]bool{seed.ID: true}
	for i := len(recent) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			return FillResult{Err: ctx.Err()}
		}
		s := recent[i]
		if tried[s.ID] {
			continue
		}
		tried[s.ID] = true
		if result := r.tryFillFromSeed(ctx, s, ex, recent); result != nil {
			return *result
		}
	}

	return FillResult{Message: "No related songs found"}
}

// tryFillFromSeed returns nil when seed yields no candidates, so the caller
// can try another seed.
func (r *Radio) tryFillFromSeed(ctx context.Context, seed playlist.Track, ex *exclusions, recent []playlist.Track) *FillResult {
	suggestions, err := r.suggestions(ctx, seed.ID)
	if err != nil {
		return &FillResult{Err: err}
	}

	candidates := buildCandidates(suggestions, ex, recent, r.config.DecayFactor)
	if len(candidates) == 0 {
		return nil
	}

	artistCounts := make(map[string]int)
	for _, t := range recent {
		artistCounts[normalizeString(t.Artist)]++
	}
	selected := selectTracks(candidates, r.config.BufferSize, artistCounts, r.config.MaxArtistRepeat)
	if len(selected) == 0 {
		return nil
	}

	tracks := make([]playlist.Track, len(selected))
	for i := range selected {
		tracks[i] = selected[i].Track
	}
	r.log.Info("radio fill", "seed", seed.ID, "candidates", len(candidates), "added", len(tracks))
	return &FillResult{Tracks: tracks}
}

// suggestions returns suggestions from cache or fetches them.
func (r *Radio) suggestions(ctx context.Context, id string) ([]playlist.Track, error) {
	if cached, ok := r.cache.Get(ctx, id); ok {
		return cached, nil
	}

	tracks, err := r.source.Suggestions(ctx, id, r.config.FetchSize)
	if err != nil {
		return nil, err
	}

	if len(tracks) > 0 {
		if err := r.cache.Set(ctx, id, tracks); err != nil {
			r.log.Debug("cache suggestions", "id", id, "error", err)
		}
	}
	return tracks, nil
}
