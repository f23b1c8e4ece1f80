// Package downloads saves songs to disk for offline playback and keeps a
// record of them in the state store.
package downloads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/deeksha1106/music-app/internal/player"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/state"
)

// KeyDownloads is the state key holding the record of downloaded songs.
const KeyDownloads = "downloads"

// LocalQuality tags the source variant of a downloaded file.
const LocalQuality = "local"

var (
	// ErrNoSource is returned when a track has no downloadable URL.
	ErrNoSource = errors.New("track has no downloadable source")
	// ErrNotDownloaded is returned for tracks without a record.
	ErrNotDownloaded = errors.New("track not downloaded")
)

// Record describes one downloaded song.
type Record struct {
	Track        playlist.Track `json:"song"`
	Path         string         `json:"filePath"`
	Size         int64          `json:"size"`
	DownloadedAt time.Time      `json:"downloadedAt"`
}

// LocalTrack returns the track with its sources replaced by the file.
func (r Record) LocalTrack() playlist.Track {
	t := r.Track
	u := url.URL{Scheme: "file", Path: r.Path}
	t.Sources = []playlist.Variant{{Quality: LocalQuality, URL: u.String()}}
	return t
}

// HumanSize formats the file size, e.g. "4.2 MB".
func (r Record) HumanSize() string {
	return humanize.Bytes(uint64(max(r.Size, 0))) //nolint:gosec // clamped to non-negative
}

// Manager downloads songs and maintains their records.
type Manager struct {
	store  state.Store
	folder string
	client *http.Client
	prefs  []string
	log    *slog.Logger
	now    func() time.Time

	mu sync.Mutex // serializes record read-modify-write
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient sets the client used for song and cover downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.client = c }
}

// WithQualityPreference orders source qualities, best first.
func WithQualityPreference(prefs []string) Option {
	return func(m *Manager) { m.prefs = prefs }
}

// WithLogger sets the manager's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// New creates a manager writing files under folder.
func New(store state.Store, folder string, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		folder: folder,
		client: &http.Client{Timeout: 5 * time.Minute},
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Folder returns the download directory.
func (m *Manager) Folder() string { return m.folder }

// Download saves the best source of track to the download folder, tags the
// file and records it. An existing record is replaced.
func (m *Manager) Download(ctx context.Context, track playlist.Track) (Record, error) {
	if err := track.Validate(); err != nil {
		return Record{}, err
	}
	src, ok := track.BestSource(m.prefs)
	if !ok {
		return Record{}, ErrNoSource
	}

	path, size, err := m.fetch(ctx, track, src.URL)
	if err != nil {
		return Record{}, err
	}

	cover := m.cover(ctx, track)
	if err := writeTags(path, track, cover); err != nil {
		// The audio is intact; untagged files still play.
		m.log.Warn("tag download", "track", track.ID, "path", path, "error", err)
	}
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	rec := Record{Track: track, Path: path, Size: size, DownloadedAt: m.now()}
	err = m.update(ctx, func(recs map[string]Record) {
		if old, ok := recs[track.ID]; ok && old.Path != path {
			_ = os.Remove(old.Path)
		}
		recs[track.ID] = rec
	})
	if err != nil {
		return Record{}, err
	}

	m.log.Info("downloaded", "track", track.ID, "path", path, "size", rec.HumanSize())
	return rec, nil
}

// fetch streams rawURL into the download folder and returns the final path.
func (m *Manager) fetch(ctx context.Context, track playlist.Track, rawURL string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("download: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(m.folder, 0o755); err != nil {
		return "", 0, fmt.Errorf("create download folder: %w", err)
	}
	tmp, err := os.CreateTemp(m.folder, ".download-*")
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after the rename

	size, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	if size == 0 {
		return "", 0, errors.New("download: empty body")
	}

	format := detect(tmp.Name(), rawURL, resp.Header.Get("Content-Type"))
	ext := format.Ext()
	if ext == "" {
		ext = ".m4a"
	}
	path := filepath.Join(m.folder, FileName(track, ext))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", 0, fmt.Errorf("move file: %w", err)
	}
	return path, size, nil
}

func detect(path, rawURL, contentType string) player.Format {
	f, err := os.Open(path)
	if err != nil {
		return player.FormatUnknown
	}
	defer f.Close()
	head := make([]byte, 64)
	n, _ := io.ReadFull(f, head)
	return player.DetectFormat(head[:n], rawURL, contentType)
}

// cover fetches the best artwork for embedding. Failures yield nil.
func (m *Manager) cover(ctx context.Context, track playlist.Track) []byte {
	art, ok := track.BestArtwork()
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	data, _, err := player.Fetch(ctx, m.client, art.URL)
	if err != nil {
		m.log.Debug("cover download failed", "track", track.ID, "error", err)
		return nil
	}
	return data
}

// List returns all records, newest first.
func (m *Manager) List(ctx context.Context) []Record {
	m.mu.Lock()
	recs := m.load(ctx)
	m.mu.Unlock()

	out := slices.Collect(maps.Values(recs))
	slices.SortFunc(out, func(a, b Record) int {
		if c := b.DownloadedAt.Compare(a.DownloadedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Track.ID, b.Track.ID)
	})
	return out
}

// Get returns the record for id.
func (m *Manager) Get(ctx context.Context, id string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.load(ctx)[id]
	if !ok {
		return Record{}, ErrNotDownloaded
	}
	return rec, nil
}

// IsDownloaded reports whether id has a record.
func (m *Manager) IsDownloaded(ctx context.Context, id string) bool {
	_, err := m.Get(ctx, id)
	return err == nil
}

// Remove deletes the record for id and its file.
func (m *Manager) Remove(ctx context.Context, id string) error {
	var path string
	err := m.update(ctx, func(recs map[string]Record) {
		if rec, ok := recs[id]; ok {
			path = rec.Path
			delete(recs, id)
		}
	})
	if err != nil {
		return err
	}
	if path == "" {
		return ErrNotDownloaded
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// VerifyOnDisk drops records whose file no longer exists and returns their
// track IDs.
func (m *Manager) VerifyOnDisk(ctx context.Context) ([]string, error) {
	var missing []string
	err := m.update(ctx, func(recs map[string]Record) {
		for id, rec := range recs {
			if _, err := os.Stat(rec.Path); errors.Is(err, os.ErrNotExist) {
				missing = append(missing, id)
				delete(recs, id)
			}
		}
	})
	slices.Sort(missing)
	return missing, err
}

// load reads the record map. Read or decode failures yield an empty map.
// Callers hold m.mu.
func (m *Manager) load(ctx context.Context) map[string]Record {
	recs := make(map[string]Record)
	raw, err := m.store.Get(ctx, KeyDownloads)
	if err != nil {
		if !errors.Is(err, state.ErrNotFound) {
			m.log.Warn("read downloads", "error", err)
		}
		return recs
	}
	if err := json.Unmarshal(raw, &recs); err != nil {
		m.log.Warn("decode downloads", "error", err)
		return make(map[string]Record)
	}
	return recs
}

func (m *Manager) update(ctx context.Context, fn func(map[string]Record)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs := m.load(ctx)
	fn(recs)
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode downloads: %w", err)
	}
	if err := m.store.Set(ctx, KeyDownloads, data); err != nil {
		return fmt.Errorf("save downloads: %w", err)
	}
	return nil
}

var unsafeChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// FileName builds "Artist - Name [id].ext" with path-unsafe characters
// replaced.
func FileName(track playlist.Track, ext string) string {
	name := track.Name
	if track.Artist != "" {
		name = track.Artist + " - " + name
	}
	name = strings.TrimSpace(unsafeChars.Replace(name))
	if name == "" {
		name = "track"
	}
	if r := []rune(name); len(r) > 120 {
		name = string(r[:120])
	}
	return fmt.Sprintf("%s [%s]%s", name, unsafeChars.Replace(track.ID), ext)
}
