package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeksha1106/music-app/internal/playlist"
)

const songJSON = `{
	"id": "yDeAS8Eh",
	"name": "Tum Hi Ho",
	"type": "song",
	"year": 2013,
	"duration": "262",
	"album": {"id": "1139549", "name": "Aashiqui 2"},
	"artists": {"primary": [{"id": "459320", "name": "Arijit Singh"}, {"id": "1", "name": "Mithoon"}]},
	"image": [
		{"quality": "50x50", "url": "https://c.test/50.jpg"},
		{"quality": "500x500", "url": "https://c.test/500.jpg"}
	],
	"downloadUrl": [
		{"quality": "96kbps", "url": "https://a.test/96.mp4"},
		{"quality": "320kbps", "link": "https://a.test/320.mp4", "url": "https://a.test/ignored.mp4"}
	]
}`

func newTestServer(t *testing.T, routes map[string]string) *Client {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, body := range routes {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("User-Agent") != userAgent {
				t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithHTTPClient(srv.Client()))
}

func TestSearchSongs(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/search/songs", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"success": true, "data": {"total": 120, "start": 21, "results": [` + songJSON + `]}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.SearchSongs(context.Background(), "  tum hi ho ", 2, 20)
	require.NoError(t, err)

	assert.Equal(t, "limit=20&page=2&query=tum+hi+ho", gotQuery)
	assert.Equal(t, 120, res.Total)
	assert.Equal(t, 21, res.Start)
	require.Len(t, res.Tracks, 1)

	tr := res.Tracks[0]
	assert.Equal(t, "yDeAS8Eh", tr.ID)
	assert.Equal(t, "Tum Hi Ho", tr.Name)
	assert.Equal(t, "Arijit Singh, Mithoon", tr.Artist)
	assert.Equal(t, "Aashiqui 2", tr.Album)
	assert.Equal(t, "2013", tr.Year)
	assert.Equal(t, 262*time.Second, tr.Duration)

	src, ok := tr.BestSource([]string{"320kbps"})
	require.True(t, ok)
	assert.Equal(t, "https://a.test/320.mp4", src.URL, "link wins over url")

	art, ok := tr.BestArtwork()
	require.True(t, ok)
	assert.Equal(t, "https://c.test/500.jpg", art.URL)
}

func TestSearchSongs_EmptyQuery(t *testing.T) {
	c := New("http://127.0.0.1:1")
	res, err := c.SearchSongs(context.Background(), "   ", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, res.Tracks)
}

func TestSearchSongs_StatusEnvelope(t *testing.T) {
	c := newTestServer(t, map[string]string{
		"/api/search/songs": `{"status": "SUCCESS", "data": {"total": 1, "start": 1, "results": [` + songJSON + `]}}`,
	})

	res, err := c.SearchSongs(context.Background(), "x", 1, 10)
	require.NoError(t, err)
	assert.Len(t, res.Tracks, 1)
}

func TestSong(t *testing.T) {
	c := newTestServer(t, map[string]string{
		"/api/songs/yDeAS8Eh": `{"success": true, "data": [` + songJSON + `]}`,
		"/api/songs/empty":    `{"success": true, "data": []}`,
	})

	tr, err := c.Song(context.Background(), "yDeAS8Eh")
	require.NoError(t, err)
	assert.Equal(t, "Tum Hi Ho", tr.Name)

	_, err = c.Song(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Song(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound, "404 maps to ErrNotFound")
}

func TestSongs(t *testing.T) {
	var gotIDs string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/songs", func(w http.ResponseWriter, r *http.Request) {
		gotIDs = r.URL.Query().Get("ids")
		_, _ = w.Write([]byte(`{"success": true, "data": [` + songJSON + `, {"id": "", "name": "broken"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	tracks, err := c.Songs(context.Background(), []string{"yDeAS8Eh", "abc"})
	require.NoError(t, err)
	assert.Equal(t, "yDeAS8Eh,abc", gotIDs)
	assert.Len(t, tracks, 1, "songs without an id are dropped")

	none, err := c.Songs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSuggestions(t *testing.T) {
	c := newTestServer(t, map[string]string{
		"/api/songs/yDeAS8Eh/suggestions": `{"success": true, "data": [` + songJSON + `]}`,
	})

	tracks, err := c.Suggestions(context.Background(), "yDeAS8Eh", 10)
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server error", http.StatusInternalServerError, "boom", "catalog returned 500: boom"},
		{"failure envelope", http.StatusOK, `{"success": false, "message": "rate limited"}`, "catalog error: rate limited"},
		{"failure without message", http.StatusOK, `{"success": false}`, "catalog reported failure"},
		{"bad json", http.StatusOK, `{"success": tru`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).SearchSongs(context.Background(), "q", 1, 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL).Suggestions(ctx, "x", 5)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRawSongMapping(t *testing.T) {
	tests := []struct {
		name string
		raw  rawSong
		want playlist.Track
	}{
		{
			name: "legacy primaryArtists and escaped names",
			raw: rawSong{
				ID:             "1",
				Name:           "Ae Dil Hai Mushkil &quot;Title Track&quot;",
				PrimaryArtists: "Pritam &amp; Arijit Singh",
				Album:          rawAlbum{Name: "Ae Dil Hai Mushkil"},
				Duration:       []byte(`269`),
				Year:           "2016",
			},
			want: playlist.Track{
				ID:       "1",
				Name:     `Ae Dil Hai Mushkil "Title Track"`,
				Artist:   "Pritam & Arijit Singh",
				Album:    "Ae Dil Hai Mushkil",
				Year:     "2016",
				Duration: 269 * time.Second,
			},
		},
		{
			name: "title fallback and malformed duration",
			raw:  rawSong{ID: "2", Title: "Untitled", Duration: []byte(`"abc"`)},
			want: playlist.Track{ID: "2", Name: "Untitled"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.raw.track())
		})
	}
}

func TestVariantsSkipEmptyLinks(t *testing.T) {
	got := variants([]rawLink{
		{Quality: "12kbps"},
		{Quality: "48kbps", URL: "https://a.test/48"},
	})
	assert.Equal(t, []playlist.Variant{{Quality: "48kbps", URL: "https://a.test/48"}}, got)
	assert.Nil(t, variants(nil))
}
