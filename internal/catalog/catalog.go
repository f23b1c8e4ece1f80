// Package catalog is a client for the song catalog HTTP API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deeksha1106/music-app/internal/playlist"
)

// ErrNotFound is returned when the catalog has no song for an ID.
var ErrNotFound = errors.New("song not found")

const userAgent = "music-app/1.0"

// SearchResult is one page of song search results.
type SearchResult struct {
	Total  int
	Start  int
	Tracks []playlist.Track
}

// Client talks to the catalog API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.httpClient = &http.Client{Timeout: d} }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchSongs returns one page of songs matching query. Pages start at 1.
func (c *Client) SearchSongs(ctx context.Context, query string, page, limit int) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, nil
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(max(page, 1)))
	q.Set("limit", strconv.Itoa(max(limit, 1)))

	var data searchData
	if err := c.get(ctx, "/api/search/songs", q, &data); err != nil {
		return SearchResult{}, fmt.Errorf("search %q: %w", query, err)
	}
	return SearchResult{
		Total:  data.Total,
		Start:  data.Start,
		Tracks: toTracks(data.Results),
	}, nil
}

// Song returns the song with the given ID.
func (c *Client) Song(ctx context.Context, id string) (playlist.Track, error) {
	var songs []rawSong
	if err := c.get(ctx, "/api/songs/"+url.PathEscape(id), nil, &songs); err != nil {
		return playlist.Track{}, fmt.Errorf("song %s: %w", id, err)
	}
	if len(songs) == 0 {
		return playlist.Track{}, fmt.Errorf("song %s: %w", id, ErrNotFound)
	}
	return songs[0].track(), nil
}

// Songs returns the songs with the given IDs, in the order the API returns
// them. Unknown IDs are skipped.
func (c *Client) Songs(ctx context.Context, ids []string) ([]playlist.Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))

	var songs []rawSong
	if err := c.get(ctx, "/api/songs", q, &songs); err != nil {
		return nil, fmt.Errorf("songs: %w", err)
	}
	return toTracks(songs), nil
}

// Suggestions returns songs similar to the one with the given ID.
func (c *Client) Suggestions(ctx context.Context, id string, limit int) ([]playlist.Track, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(max(limit, 1)))

	var songs []rawSong
	if err := c.get(ctx, "/api/songs/"+url.PathEscape(id)+"/suggestions", q, &songs); err != nil {
		return nil, fmt.Errorf("suggestions for %s: %w", id, err)
	}
	return toTracks(songs), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalog returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.ok() {
		if env.Message != "" {
			return fmt.Errorf("catalog error: %s", env.Message)
		}
		return errors.New("catalog reported failure")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func toTracks(songs []rawSong) []playlist.Track {
	tracks := make([]playlist.Track, 0, len(songs))
	for _, s := range songs {
		t := s.track()
		if t.Validate() != nil {
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks
}
