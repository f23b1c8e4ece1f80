package playback

import (
	"time"

	"github.com/deeksha1106/music-app/internal/playlist"
)

// StateChange is emitted when the transport state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted every time a track is loaded, including when the
// same track is loaded again (repeat-all over a one-track queue).
//
// The app handles track-related side effects (notifications, scrobbling)
// in response to this event.
type TrackChange struct {
	Previous *playlist.Track
	Current  *playlist.Track
	Index    int
}

// QueueChange is emitted when the queue contents change.
type QueueChange struct {
	Tracks []playlist.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode RepeatMode
	Shuffle    bool
}

// PositionChange is emitted on status ticks and seeks.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// ErrorEvent is emitted when an operation fails.
type ErrorEvent struct {
	Operation string // e.g. "load", "seek"
	TrackID   string
	Err       error
}
