package lastfm

import (
	"context"
	"log/slog"
	"time"

	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/playlist"
)

// Last.fm only accepts scrobbles for tracks longer than 30 seconds that were
// played for half their length or four minutes, whichever comes first.
const (
	minScrobbleLength = 30 * time.Second
	maxScrobbleWait   = 4 * time.Minute
)

// API is the subset of Client the scrobbler uses.
type API interface {
	UpdateNowPlaying(s Submission) error
	Scrobble(s Submission) error
}

// Scrobbler turns playback events into now-playing updates and scrobbles.
// It is not safe for concurrent use; Run drives it from one goroutine.
type Scrobbler struct {
	api API
	log *slog.Logger
	now func() time.Time

	current *playlist.Track
	started time.Time
	played  time.Duration // furthest position reached
	done    bool          // current track already scrobbled
}

// NewScrobbler creates a scrobbler. A nil logger uses slog.Default.
func NewScrobbler(api API, log *slog.Logger) *Scrobbler {
	if log == nil {
		log = slog.Default()
	}
	return &Scrobbler{api: api, log: log, now: time.Now}
}

// Run consumes sub until it is closed or ctx is done, then submits the
// last track if it qualifies.
func (s *Scrobbler) Run(ctx context.Context, sub *playback.Subscription) {
	defer s.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TrackChanged:
			s.TrackStarted(e.Current)
		case e := <-sub.PositionChanged:
			s.Progress(e.Position, e.Duration)
		}
	}
}

// TrackStarted scrobbles the previous track if it qualifies and announces
// track as now playing.
func (s *Scrobbler) TrackStarted(track *playlist.Track) {
	s.Flush()
	if track == nil {
		s.current = nil
		return
	}

	t := *track
	s.current = &t
	s.started = s.now()
	s.played = 0
	s.done = false

	if err := s.api.UpdateNowPlaying(s.submission()); err != nil {
		s.log.Warn("last.fm now playing failed", "track", t.ID, "error", err)
	}
}

// Progress records the playback position of the current track. A position
// that jumps backwards to near zero after the track qualified (repeat-one)
// counts as a new play.
func (s *Scrobbler) Progress(pos, duration time.Duration) {
	if s.current == nil {
		return
	}
	if duration > 0 {
		s.current.Duration = duration
	}
	if s.done && pos < time.Second && s.played > pos {
		s.started = s.now()
		s.played = 0
		s.done = false
	}
	s.played = max(s.played, pos)

	if s.qualifies() {
		s.submit()
	}
}

// Flush scrobbles the current track if it qualifies and has not been
// scrobbled yet.
func (s *Scrobbler) Flush() {
	if s.current != nil && s.qualifies() {
		s.submit()
	}
}

func (s *Scrobbler) qualifies() bool {
	if s.done || s.current == nil {
		return false
	}
	d := s.current.Duration
	if d <= minScrobbleLength {
		return false
	}
	return s.played >= d/2 || s.played >= maxScrobbleWait
}

func (s *Scrobbler) submit() {
	s.done = true
	if err := s.api.Scrobble(s.submission()); err != nil {
		s.log.Warn("last.fm scrobble failed", "track", s.current.ID, "error", err)
		return
	}
	s.log.Info("scrobbled", "track", s.current.ID, "name", s.current.Name)
}

func (s *Scrobbler) submission() Submission {
	return Submission{
		Artist:    s.current.Artist,
		Track:     s.current.Name,
		Album:     s.current.Album,
		Duration:  s.current.Duration,
		Timestamp: s.started,
	}
}
