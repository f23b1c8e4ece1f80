package lastfm

import "time"

// Submission is the track metadata sent with now-playing and scrobble calls.
type Submission struct {
	Artist    string
	Track     string
	Album     string
	Duration  time.Duration
	Timestamp time.Time // when playback started
}
