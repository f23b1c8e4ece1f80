package radio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/state"
)

type fakeSuggester struct {
	byID  map[string][]playlist.Track
	err   error
	calls []string
}

func (f *fakeSuggester) Suggestions(_ context.Context, id string, _ int) ([]playlist.Track, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func song(id, name, artist string) playlist.Track {
	return playlist.Track{
		ID:      id,
		Name:    name,
		Artist:  artist,
		Sources: []playlist.Variant{{Quality: "320kbps", URL: "https://cdn.test/" + id}},
	}
}

func newTestRadio(src Suggester) *Radio {
	cfg := DefaultConfig()
	cfg.MaxArtistRepeat = 0
	r := New(src, state.NewMock(), cfg, nil)
	r.Toggle()
	return r
}

func ids(tracks []playlist.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}

func TestToggle(t *testing.T) {
	r := New(&fakeSuggester{}, nil, DefaultConfig(), nil)

	assert.False(t, r.IsEnabled())
	assert.True(t, r.Toggle())
	r.MarkPlayed(song("a", "A", "X"))
	assert.False(t, r.Toggle())
	assert.True(t, r.Toggle())

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Empty(t, r.state.RecentlyPlayed, "disabling clears history")
}

func TestShouldFill(t *testing.T) {
	r := newTestRadio(&fakeSuggester{})

	assert.True(t, r.ShouldFill(2, 3))
	assert.False(t, r.ShouldFill(1, 3))
	assert.False(t, r.ShouldFill(0, 0))

	r.Toggle()
	assert.False(t, r.ShouldFill(2, 3))
}

func TestMarkPlayed_WindowAndDedup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DecayWindow = 3
	r := New(&fakeSuggester{}, nil, cfg, nil)
	r.Toggle()

	for _, id := range []string{"a", "b", "c", "a", "d"} {
		r.MarkPlayed(song(id, id, "X"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, []string{"c", "a", "d"}, ids(r.state.RecentlyPlayed))
}

func TestFill_ExcludesQueuedAndDuplicates(t *testing.T) {
	src := &fakeSuggester{byID: map[string][]playlist.Track{
		"seed": {
			song("q1", "Already Queued", "X"),
			song("s1", "Chahun Main Ya Naa", "Arijit Singh"),
			song("s2", `Tum Hi Ho (From "Aashiqui 2")`, "Arijit Singh"),
			song("s3", "Chahun Main Ya Naa", "Arijit Singh"),
			{ID: "s4", Name: "No Source"},
		},
	}}
	r := newTestRadio(src)
	queued := []playlist.Track{song("q1", "Already Queued", "X"), song("seed", "Tum Hi Ho", "Arijit Singh")}

	res := r.Fill(context.Background(), queued[1], queued)

	require.NoError(t, res.Err)
	assert.ElementsMatch(t, []string{"s1"}, ids(res.Tracks))
}

func TestFill_LimitsToBufferSize(t *testing.T) {
	var list []playlist.Track
	for i := range 12 {
		list = append(list, song(fmt.Sprintf("s%d", i), strings.Repeat(string(rune('a'+i)), 4), fmt.Sprintf("Artist %d", i)))
	}
	r := newTestRadio(&fakeSuggester{byID: map[string][]playlist.Track{"seed": list}})

	res := r.Fill(context.Background(), song("seed", "Seed", "S"), nil)

	assert.Len(t, res.Tracks, DefaultConfig().BufferSize)
}

func TestFill_ArtistVariety(t *testing.T) {
	src := &fakeSuggester{byID: map[string][]playlist.Track{"seed": {
		song("a1", "Alpha", "Same Artist"),
		song("a2", "Bravo", "Same Artist"),
		song("a3", "Charlie", "same artist"),
		song("b1", "Delta", "Other"),
	}}}
	cfg := DefaultConfig()
	cfg.MaxArtistRepeat = 1
	r := New(src, nil, cfg, nil)
	r.Toggle()

	res := r.Fill(context.Background(), song("seed", "Seed", "S"), nil)

	assert.Len(t, res.Tracks, 2)
	assert.Contains(t, ids(res.Tracks), "b1")
}

func TestFill_FallsBackToRecentSeeds(t *testing.T) {
	src := &fakeSuggester{byID: map[string][]playlist.Track{
		"old": {song("x", "Fallback Song", "Y")},
	}}
	r := newTestRadio(src)
	r.MarkPlayed(song("old", "Old", "Y"))
	r.MarkPlayed(song("seed", "Seed", "S"))

	res := r.Fill(context.Background(), song("seed", "Seed", "S"), nil)

	assert.Equal(t, []string{"x"}, ids(res.Tracks))
	assert.Equal(t, []string{"seed", "old"}, src.calls)
}

func TestFill_NothingFound(t *testing.T) {
	r := newTestRadio(&fakeSuggester{})

	res := r.Fill(context.Background(), song("seed", "Seed", "S"), nil)

	assert.Empty(t, res.Tracks)
	assert.Equal(t, "No related songs found", res.Message)

	assert.Equal(t, "No seed song", r.Fill(context.Background(), playlist.Track{}, nil).Message)
}

func TestFill_Error(t *testing.T) {
	r := newTestRadio(&fakeSuggester{err: errors.New("503")})

	res := r.Fill(context.Background(), song("seed", "Seed", "S"), nil)

	assert.EqualError(t, res.Err, "503")
}

func TestFill_UsesCache(t *testing.T) {
	src := &fakeSuggester{byID: map[string][]playlist.Track{"seed": {song("s1", "One", "A")}}}
	r := newTestRadio(src)

	r.Fill(context.Background(), song("seed", "Seed", "S"), nil)
	res := r.Fill(context.Background(), song("seed", "Seed", "S"), nil)

	assert.Equal(t, []string{"s1"}, ids(res.Tracks))
	assert.Equal(t, []string{"seed"}, src.calls)
}

func TestSelectTracks_PrefersHighScores(t *testing.T) {
	candidates := []Candidate{
		{Track: song("low", "Low", "A"), Score: 0},
		{Track: song("high", "High", "B"), Score: 1},
	}

	got := selectTracks(candidates, 1, nil, 0)

	require.Len(t, got, 1)
	assert.Equal(t, "high", got[0].Track.ID)
}

func TestCalculateScore(t *testing.T) {
	first := calculateScore(Candidate{Rank: 0}, 0.1)
	later := calculateScore(Candidate{Rank: 5}, 0.1)
	recent := calculateScore(Candidate{Rank: 0, RecentlyPlayed: true}, 0.1)

	assert.InDelta(t, 1.0, first, 1e-9)
	assert.InDelta(t, 0.5, later, 1e-9)
	assert.InDelta(t, 0.1, recent, 1e-9)
}
