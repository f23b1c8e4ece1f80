package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrEmptyID is returned by Track.Validate for tracks without an identifier.
var ErrEmptyID = errors.New("track has no id")

// Variant is one quality-tagged URL of a track's artwork or audio.
type Variant struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// Track is an immutable description of one playable song.
type Track struct {
	ID       string
	Name     string
	Artist   string
	Album    string
	Year     string
	Duration time.Duration
	Artwork  []Variant // ordered as delivered by the catalog
	Sources  []Variant
}

// DefaultArtworkPreference orders artwork sizes from largest to smallest.
var DefaultArtworkPreference = []string{"500x500", "150x150", "50x50"}

// Validate reports whether the track can be queued.
func (t Track) Validate() error {
	if t.ID == "" {
		return ErrEmptyID
	}
	return nil
}

// BestSource picks the first source whose quality appears in prefs, in
// preference order. When none match, the first source with a URL is used.
// Reports false when the track has no usable source.
func (t Track) BestSource(prefs []string) (Variant, bool) {
	return pick(t.Sources, prefs)
}

// BestArtwork is BestSource for artwork, using DefaultArtworkPreference.
func (t Track) BestArtwork() (Variant, bool) {
	return pick(t.Artwork, DefaultArtworkPreference)
}

func pick(variants []Variant, prefs []string) (Variant, bool) {
	for _, q := range prefs {
		for _, v := range variants {
			if v.Quality == q && v.URL != "" {
				return v, true
			}
		}
	}
	for _, v := range variants {
		if v.URL != "" {
			return v, true
		}
	}
	return Variant{}, false
}

// trackJSON is the persisted shape of a Track. Duration is stored as seconds.
type trackJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Artist   string          `json:"artist"`
	Album    string          `json:"album,omitempty"`
	Year     string          `json:"year,omitempty"`
	Duration json.RawMessage `json:"duration,omitempty"`
	Artwork  []Variant       `json:"artwork,omitempty"`
	Sources  []Variant       `json:"sources,omitempty"`
}

// MarshalJSON encodes the duration as a number of seconds.
func (t Track) MarshalJSON() ([]byte, error) {
	secs := strconv.FormatFloat(t.Duration.Seconds(), 'f', -1, 64)
	return json.Marshal(trackJSON{
		ID:       t.ID,
		Name:     t.Name,
		Artist:   t.Artist,
		Album:    t.Album,
		Year:     t.Year,
		Duration: json.RawMessage(secs),
		Artwork:  t.Artwork,
		Sources:  t.Sources,
	})
}

// UnmarshalJSON accepts the duration as a number or a numeric string.
func (t *Track) UnmarshalJSON(data []byte) error {
	var raw trackJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := ParseDuration(raw.Duration)
	if err != nil {
		return fmt.Errorf("track %q: %w", raw.ID, err)
	}
	*t = Track{
		ID:       raw.ID,
		Name:     raw.Name,
		Artist:   raw.Artist,
		Album:    raw.Album,
		Year:     raw.Year,
		Duration: d,
		Artwork:  raw.Artwork,
		Sources:  raw.Sources,
	}
	return nil
}

// ParseDuration normalizes a JSON duration in seconds that may arrive as a
// number ("245", 245, 245.5) or be absent (null, "", missing) which yields 0.
func ParseDuration(raw json.RawMessage) (time.Duration, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return 0, nil
		}
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// FormatDuration formats a duration as MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
