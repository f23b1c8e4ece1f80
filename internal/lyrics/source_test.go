package lyrics

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeksha1106/music-app/internal/lrclib"
	"github.com/deeksha1106/music-app/internal/playlist"
)

type fakeFinder struct {
	res   *lrclib.LyricsResult
	err   error
	calls []string
}

func (f *fakeFinder) Find(_ context.Context, artist, title string, _ time.Duration) (*lrclib.LyricsResult, error) {
	f.calls = append(f.calls, artist+"/"+title)
	return f.res, f.err
}

func tumHiHo() playlist.Track {
	return playlist.Track{
		ID:       "yDeAS8Eh",
		Name:     `Tum Hi Ho (From "Aashiqui 2")`,
		Artist:   "Arijit Singh, Mithoon",
		Duration: 262 * time.Second,
	}
}

func TestFetch_FromAPIThenCache(t *testing.T) {
	finder := &fakeFinder{res: &lrclib.LyricsResult{
		TrackName:    "Tum Hi Ho",
		ArtistName:   "Arijit Singh",
		SyncedLyrics: "[00:01.00]Hum tere bin\n[00:04.00]Ab reh nahi sakte",
	}}
	dir := t.TempDir()
	src := NewSource(finder, dir)

	res := src.Fetch(context.Background(), tumHiHo())

	require.NoError(t, res.Err)
	assert.Equal(t, OriginAPI, res.Origin)
	assert.Len(t, res.Lyrics.Lines, 2)
	assert.Equal(t, "Tum Hi Ho", res.Lyrics.Title)
	assert.Equal(t, []string{"Arijit Singh/Tum Hi Ho"}, finder.calls)
	assert.FileExists(t, filepath.Join(dir, "yDeAS8Eh.lrc"))

	again := src.Fetch(context.Background(), tumHiHo())

	assert.Equal(t, OriginCache, again.Origin)
	assert.Len(t, finder.calls, 1)
}

func TestFetch_PlainLyricsCachedAsText(t *testing.T) {
	finder := &fakeFinder{res: &lrclib.LyricsResult{PlainLyrics: "Line one\nLine two"}}
	dir := t.TempDir()
	src := NewSource(finder, dir)

	res := src.Fetch(context.Background(), tumHiHo())
	require.Equal(t, OriginAPI, res.Origin)
	assert.False(t, res.Lyrics.IsSynced())
	assert.FileExists(t, filepath.Join(dir, "yDeAS8Eh.txt"))

	again := src.Fetch(context.Background(), tumHiHo())
	assert.Equal(t, OriginCache, again.Origin)
	assert.Len(t, again.Lyrics.Lines, 2)
}

func TestFetch_LocalFileWins(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "Tum Hi Ho.mp3")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Tum Hi Ho.lrc"), []byte("[00:02.00]Local line"), 0o600))
	finder := &fakeFinder{err: errors.New("should not be called")}

	track := tumHiHo()
	track.Sources = []playlist.Variant{{Quality: "local", URL: (&url.URL{Scheme: "file", Path: audio}).String()}}
	res := NewSource(finder, "").Fetch(context.Background(), track)

	assert.Equal(t, OriginLocal, res.Origin)
	assert.Equal(t, "Local line", res.Lyrics.Lines[0].Text)
	assert.Empty(t, finder.calls)
}

func TestFetch_NotFound(t *testing.T) {
	res := NewSource(&fakeFinder{err: lrclib.ErrNotFound}, t.TempDir()).Fetch(context.Background(), tumHiHo())

	assert.Equal(t, OriginNotFound, res.Origin)
	assert.NoError(t, res.Err)
	assert.Nil(t, res.Lyrics)
}

func TestFetch_Error(t *testing.T) {
	res := NewSource(&fakeFinder{err: errors.New("timeout")}, t.TempDir()).Fetch(context.Background(), tumHiHo())

	assert.EqualError(t, res.Err, "timeout")
}

func TestFetch_InstrumentalIsNotFound(t *testing.T) {
	finder := &fakeFinder{res: &lrclib.LyricsResult{Instrumental: true}}

	res := NewSource(finder, t.TempDir()).Fetch(context.Background(), tumHiHo())

	assert.Equal(t, OriginNotFound, res.Origin)
}

func TestFetch_MissingMetadata(t *testing.T) {
	finder := &fakeFinder{}

	res := NewSource(finder, "").Fetch(context.Background(), playlist.Track{ID: "x"})

	assert.Equal(t, OriginNotFound, res.Origin)
	assert.Empty(t, finder.calls)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "/music/a.lrc", lrcPathForAudio("/music/a.m4a"))
	assert.Equal(t, "Kesariya", cleanTitle("Kesariya [From Brahmastra]"))
	assert.Equal(t, "Arijit Singh", primaryArtist(" Arijit Singh , Pritam"))
	assert.Equal(t, "a_b", sanitizeFilename("a/b"))
	assert.Equal(t, "_", sanitizeFilename(".."))
}
