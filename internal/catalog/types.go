package catalog

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/deeksha1106/music-app/internal/playlist"
)

// envelope wraps every response. Older deployments report status instead
// of success.
type envelope struct {
	Success *bool           `json:"success"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) ok() bool {
	if e.Success != nil {
		return *e.Success
	}
	return e.Status == "" || strings.EqualFold(e.Status, "success")
}

type searchData struct {
	Total   int       `json:"total"`
	Start   int       `json:"start"`
	Results []rawSong `json:"results"`
}

type rawSong struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Title          string          `json:"title"`
	Album          rawAlbum        `json:"album"`
	Year           flexString      `json:"year"`
	Duration       json.RawMessage `json:"duration"`
	PrimaryArtists string          `json:"primaryArtists"`
	Artists        struct {
		Primary []rawArtist `json:"primary"`
	} `json:"artists"`
	Image       []rawLink `json:"image"`
	DownloadURL []rawLink `json:"downloadUrl"`
}

type rawAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rawArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// rawLink carries its address in link or url depending on the endpoint.
type rawLink struct {
	Quality string `json:"quality"`
	Link    string `json:"link"`
	URL     string `json:"url"`
}

func (l rawLink) variant() playlist.Variant {
	u := l.Link
	if u == "" {
		u = l.URL
	}
	return playlist.Variant{Quality: l.Quality, URL: u}
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = flexString(str)
		return nil
	}
	*f = flexString(s)
	return nil
}

func (s rawSong) track() playlist.Track {
	name := s.Name
	if name == "" {
		name = s.Title
	}
	// A malformed duration is treated as unknown.
	d, _ := playlist.ParseDuration(s.Duration)

	return playlist.Track{
		ID:       s.ID,
		Name:     html.UnescapeString(name),
		Artist:   html.UnescapeString(s.artist()),
		Album:    html.UnescapeString(s.Album.Name),
		Year:     string(s.Year),
		Duration: d,
		Artwork:  variants(s.Image),
		Sources:  variants(s.DownloadURL),
	}
}

func (s rawSong) artist() string {
	if s.PrimaryArtists != "" {
		return s.PrimaryArtists
	}
	names := make([]string, 0, len(s.Artists.Primary))
	for _, a := range s.Artists.Primary {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

func variants(links []rawLink) []playlist.Variant {
	if len(links) == 0 {
		return nil
	}
	out := make([]playlist.Variant, 0, len(links))
	for _, l := range links {
		if v := l.variant(); v.URL != "" {
			out = append(out, v)
		}
	}
	return out
}
