package lyrics

import (
	"cmp"
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/deeksha1106/music-app/internal/lrclib"
	"github.com/deeksha1106/music-app/internal/playlist"
)

// Finder looks lyrics up online.
type Finder interface {
	Find(ctx context.Context, artist, title string, duration time.Duration) (*lrclib.LyricsResult, error)
}

// Origin tells where lyrics came from.
type Origin string

const (
	OriginLocal    Origin = "local"
	OriginCache    Origin = "cache"
	OriginAPI      Origin = "api"
	OriginNotFound Origin = "not_found"
)

// FetchResult contains the result of a lyrics fetch.
type FetchResult struct {
	Lyrics *Lyrics
	Origin Origin
	Err    error
}

// Source provides lyrics from local files, cache, or the lrclib API.
type Source struct {
	finder   Finder
	cacheDir string
}

// NewSource creates a lyrics source caching under cacheDir. An empty
// cacheDir disables the cache.
func NewSource(finder Finder, cacheDir string) *Source {
	return &Source{finder: finder, cacheDir: cacheDir}
}

// DefaultCacheDir returns $XDG_CACHE_HOME/music-app/lyrics.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "music-app", "lyrics")
}

// Fetch retrieves lyrics for a track, trying in order:
//  1. an .lrc file next to a downloaded song
//  2. the cache, keyed by song ID
//  3. the lrclib API, caching what it returns
func (s *Source) Fetch(ctx context.Context, t playlist.Track) FetchResult {
	if path := localPath(t); path != "" {
		if l, err := loadLRC(lrcPathForAudio(path)); err == nil && len(l.Lines) > 0 {
			return FetchResult{Lyrics: l, Origin: OriginLocal}
		}
	}

	if l := s.loadCached(t.ID); l != nil {
		return FetchResult{Lyrics: l, Origin: OriginCache}
	}

	artist, title := primaryArtist(t.Artist), cleanTitle(t.Name)
	if artist == "" || title == "" || s.finder == nil {
		return FetchResult{Origin: OriginNotFound}
	}

	res, err := s.finder.Find(ctx, artist, title, t.Duration)
	if errors.Is(err, lrclib.ErrNotFound) {
		return FetchResult{Origin: OriginNotFound}
	}
	if err != nil {
		return FetchResult{Origin: OriginNotFound, Err: err}
	}

	l := fromResult(res)
	if l == nil || len(l.Lines) == 0 {
		return FetchResult{Origin: OriginNotFound}
	}
	_ = s.saveCached(t.ID, res)
	return FetchResult{Lyrics: l, Origin: OriginAPI}
}

func fromResult(res *lrclib.LyricsResult) *Lyrics {
	var l *Lyrics
	switch {
	case res.HasSyncedLyrics():
		parsed, err := ParseLRC(strings.NewReader(res.SyncedLyrics))
		if err != nil {
			return nil
		}
		l = parsed
	case res.HasPlainLyrics():
		l = Plain(res.PlainLyrics)
	default:
		return nil
	}
	l.Title = cmp.Or(l.Title, res.TrackName)
	l.Artist = cmp.Or(l.Artist, res.ArtistName)
	l.Album = cmp.Or(l.Album, res.AlbumName)
	return l
}

// localPath returns the file behind a downloaded song's file:// source.
func localPath(t playlist.Track) string {
	for _, v := range t.Sources {
		if u, err := url.Parse(v.URL); err == nil && u.Scheme == "file" {
			return u.Path
		}
	}
	return ""
}

// lrcPathForAudio returns the expected .lrc file path for an audio file.
func lrcPathForAudio(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".lrc"
}

func loadLRC(path string) (*Lyrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseLRC(f)
}

// Synced lyrics are cached as .lrc, plain ones as .txt.
func (s *Source) cachePaths(id string) (synced, plain string) {
	if s.cacheDir == "" || id == "" {
		return "", ""
	}
	base := filepath.Join(s.cacheDir, sanitizeFilename(id))
	return base + ".lrc", base + ".txt"
}

func (s *Source) loadCached(id string) *Lyrics {
	synced, plain := s.cachePaths(id)
	if synced == "" {
		return nil
	}
	if l, err := loadLRC(synced); err == nil && len(l.Lines) > 0 {
		return l
	}
	if raw, err := os.ReadFile(plain); err == nil {
		if l := Plain(string(raw)); len(l.Lines) > 0 {
			return l
		}
	}
	return nil
}

func (s *Source) saveCached(id string, res *lrclib.LyricsResult) error {
	synced, plain := s.cachePaths(id)
	if synced == "" {
		return nil
	}
	path, content := synced, res.SyncedLyrics
	if !res.HasSyncedLyrics() {
		path, content = plain, res.PlainLyrics
	}
	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

	// film credit catalogs append to titles: `Tum Hi Ho (From "Aashiqui 2")`
	fromSuffix = regexp.MustCompile(`(?i)\s*[(\[]\s*from\s+[^)\]]*[)\]]\s*$`)
)

func sanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, " .")
	if len(name) > 100 {
		name = name[:100]
	}
	if name == "" {
		name = "_"
	}
	return name
}

func cleanTitle(name string) string {
	return strings.TrimSpace(fromSuffix.ReplaceAllString(name, ""))
}

// primaryArtist keeps the first of a comma separated artist list.
func primaryArtist(artist string) string {
	first, _, _ := strings.Cut(artist, ",")
	return strings.TrimSpace(first)
}
