// internal/playback/state.go
package playback

import (
	"time"

	"github.com/deeksha1106/music-app/internal/playlist"
)

// State is the coordinator's transport state.
//
//	Idle ──load──▶ Loading ──ready──▶ Playing ◀──play/pause──▶ Paused
//	                  ▲                  │ │                      │
//	                  └──────load────────┘ └──queue exhausted─────┘
//
// Any state returns to Idle on Reset.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is loaded (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatOne
	RepeatAll
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatOne:
		return "One"
	case RepeatAll:
		return "All"
	default:
		return "Unknown"
	}
}

// Next returns the mode that follows m in the cycle Off → One → All → Off.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatOne
	case RepeatOne:
		return RepeatAll
	default:
		return RepeatOff
	}
}

// PlaybackState is what the UI renders.
type PlaybackState struct {
	Track    *playlist.Track
	Playing  bool
	Loading  bool
	Position time.Duration
	Duration time.Duration
	Repeat   RepeatMode
	Shuffle  bool
}

// State derives the transport state from the flags.
func (p PlaybackState) State() State {
	switch {
	case p.Loading:
		return StateLoading
	case p.Track == nil:
		return StateIdle
	case p.Playing:
		return StatePlaying
	default:
		return StatePaused
	}
}

// clone returns a copy that shares nothing with p.
func (p PlaybackState) clone() PlaybackState {
	if p.Track != nil {
		t := *p.Track
		p.Track = &t
	}
	return p
}
