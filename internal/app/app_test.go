package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeksha1106/music-app/internal/catalog"
	"github.com/deeksha1106/music-app/internal/downloads"
	"github.com/deeksha1106/music-app/internal/lyrics"
	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/player"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/radio"
	"github.com/deeksha1106/music-app/internal/session"
	"github.com/deeksha1106/music-app/internal/state"
	"github.com/deeksha1106/music-app/internal/ui/action"
	dlview "github.com/deeksha1106/music-app/internal/ui/downloads"
	"github.com/deeksha1106/music-app/internal/ui/headerbar"
	lyricsview "github.com/deeksha1106/music-app/internal/ui/lyrics"
	"github.com/deeksha1106/music-app/internal/ui/queuepanel"
	"github.com/deeksha1106/music-app/internal/ui/results"
	"github.com/deeksha1106/music-app/internal/ui/testutil"
)

type fakeCatalog struct {
	tracks []playlist.Track
	err    error
	calls  []string
}

func (f *fakeCatalog) SearchSongs(_ context.Context, query string, page, limit int) (catalog.SearchResult, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return catalog.SearchResult{}, f.err
	}
	start := min((page-1)*limit, len(f.tracks))
	end := min(start+limit, len(f.tracks))
	return catalog.SearchResult{Total: len(f.tracks), Start: start, Tracks: f.tracks[start:end]}, nil
}

type fakeDownloads struct {
	mu      sync.Mutex
	records []downloads.Record
	err     error
}

func (f *fakeDownloads) Download(_ context.Context, track playlist.Track) (downloads.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return downloads.Record{}, f.err
	}
	rec := downloads.Record{Track: track, Path: "/music/" + track.ID + ".mp3", Size: 1024, DownloadedAt: time.Now()}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeDownloads) List(context.Context) []downloads.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]downloads.Record(nil), f.records...)
}

func (f *fakeDownloads) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.Track.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return downloads.ErrNotDownloaded
}

func (f *fakeDownloads) Rescan(context.Context) (int, error) { return 2, nil }

func (f *fakeDownloads) Folder() string { return "/music" }

func tracks(ids ...string) []playlist.Track {
	out := make([]playlist.Track, len(ids))
	for i, id := range ids {
		out[i] = playlist.Track{
			ID:       id,
			Name:     "Song " + id,
			Artist:   "Artist",
			Duration: 3 * time.Minute,
			Sources:  []playlist.Variant{{Quality: "320kbps", URL: "https://cdn.test/" + id}},
		}
	}
	return out
}

type harness struct {
	m       Model
	sess    *session.Session
	loader  *player.MockLoader
	catalog *fakeCatalog
	dl      *fakeDownloads
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, nil)
}

// newHarnessWith lets opt adjust the dependencies before the model is built.
func newHarnessWith(t *testing.T, opt func(*Deps)) *harness {
	t.Helper()
	loader := player.NewMockLoader(3 * time.Minute)
	sess := session.New(session.Config{Store: state.NewMock(), Loader: loader})
	t.Cleanup(func() { _ = sess.Close() })

	h := &harness{
		sess:    sess,
		loader:  loader,
		catalog: &fakeCatalog{tracks: tracks("a", "b", "c")},
		dl:      &fakeDownloads{},
	}
	d := Deps{Session: sess, Catalog: h.catalog, Downloads: h.dl, PageSize: 2}
	if opt != nil {
		opt(&d)
	}
	h.m = New(d)
	h.send(tea.WindowSizeMsg{Width: 120, Height: 30})
	return h
}

// send delivers msg and returns the command Update produced.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// run delivers msg and then the message of the returned command, once.
func (h *harness) run(msg tea.Msg) tea.Msg {
	cmd := h.send(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	h.send(out)
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "f2":
		return tea.KeyMsg{Type: tea.KeyF2}
	case "f3":
		return tea.KeyMsg{Type: tea.KeyF3}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_Defaults(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, headerbar.ModeSearch, h.m.ViewMode())
	assert.Equal(t, FocusMain, h.m.Focus())
	assert.True(t, h.m.queueVisible)
}

func TestSwitchFocus(t *testing.T) {
	h := newHarness(t)

	h.send(key("tab"))
	assert.Equal(t, FocusQueue, h.m.Focus())
	h.send(key("tab"))
	assert.Equal(t, FocusMain, h.m.Focus())
}

func TestNarrowTerminalHidesQueue(t *testing.T) {
	h := newHarness(t)
	h.send(key("tab"))

	h.send(tea.WindowSizeMsg{Width: 60, Height: 30})

	assert.False(t, h.m.queueVisible)
	assert.Equal(t, FocusMain, h.m.Focus())
	h.send(key("tab"))
	assert.Equal(t, FocusMain, h.m.Focus())
}

func TestSearch_FirstPageAndMore(t *testing.T) {
	h := newHarness(t)

	out := h.run(action.Msg{Source: results.Source, Action: results.Search{Query: "tum hi ho", Page: 1}})

	require.IsType(t, SearchResultMsg{}, out)
	assert.Len(t, h.m.results.Tracks(), 2)
	assert.True(t, h.m.results.HasMore())

	h.run(action.Msg{Source: results.Source, Action: results.Search{Query: "tum hi ho", Page: 2}})
	assert.Len(t, h.m.results.Tracks(), 3)
	assert.False(t, h.m.results.HasMore())
	assert.Equal(t, []string{"tum hi ho", "tum hi ho"}, h.catalog.calls)
}

func TestSearch_StalePageIgnored(t *testing.T) {
	h := newHarness(t)
	h.run(action.Msg{Source: results.Source, Action: results.Search{Query: "new", Page: 1}})

	h.send(SearchResultMsg{Query: "old", Page: 2, Result: catalog.SearchResult{Total: 9, Tracks: tracks("x")}})

	assert.Len(t, h.m.results.Tracks(), 2)
}

func TestSearch_Error(t *testing.T) {
	h := newHarness(t)
	h.catalog.err = errors.New("timeout")

	h.run(action.Msg{Source: results.Source, Action: results.Search{Query: "q", Page: 1}})

	view := testutil.StripANSI(h.m.results.View())
	assert.Contains(t, view, "Failed to search songs 'q': timeout")
}

func TestPlayFrom_StartsChosenTrack(t *testing.T) {
	h := newHarness(t)

	out := h.run(action.Msg{Source: results.Source, Action: results.PlayFrom{Tracks: tracks("a", "b", "c"), Index: 1}})

	assert.Equal(t, OpResultMsg{Op: "start playback"}, out)
	assert.Equal(t, []string{"https://cdn.test/b"}, h.loader.URLs())
	assert.Equal(t, 1, h.sess.Queue().CurrentIndex())
}

func TestPlayFrom_LoadErrorShown(t *testing.T) {
	h := newHarness(t)
	h.loader.SetLoadError(errors.New("403 forbidden"))

	h.run(action.Msg{Source: results.Source, Action: results.PlayFrom{Tracks: tracks("a"), Index: 0}})

	assert.Contains(t, h.m.ErrorText(), "Failed to start playback")
	assert.Contains(t, h.m.ErrorText(), "403 forbidden")
}

func TestEnqueue(t *testing.T) {
	h := newHarness(t)

	h.send(action.Msg{Source: results.Source, Action: results.Enqueue{Track: tracks("a")[0]}})

	assert.Equal(t, 1, h.sess.Queue().Len())
	assert.Equal(t, "Added Song a", h.m.status)
	assert.Empty(t, h.loader.URLs())
}

func TestQueueActions(t *testing.T) {
	h := newHarness(t)
	h.sess.Enqueue(tracks("a", "b", "c")...)

	h.run(action.Msg{Source: queuepanel.Source, Action: queuepanel.JumpToTrack{Index: 2}})
	assert.Equal(t, []string{"https://cdn.test/c"}, h.loader.URLs())

	h.send(action.Msg{Source: queuepanel.Source, Action: queuepanel.MoveTrack{From: 0, To: 1}})
	ids := make([]string, 0, 3)
	for _, tr := range h.sess.Queue().Tracks() {
		ids = append(ids, tr.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)

	h.send(action.Msg{Source: queuepanel.Source, Action: queuepanel.MoveTrack{From: 0, To: 9}})
	assert.Contains(t, h.m.ErrorText(), "Failed to reorder queue")

	h.run(action.Msg{Source: queuepanel.Source, Action: queuepanel.RemoveTrack{Index: 0}})
	assert.Equal(t, 2, h.sess.Queue().Len())

	h.run(action.Msg{Source: queuepanel.Source, Action: queuepanel.ClearQueue{}})
	assert.True(t, h.sess.Queue().IsEmpty())
	assert.Equal(t, playback.StateIdle, h.sess.Snapshot().State())
}

func TestDownload_RefreshesLists(t *testing.T) {
	h := newHarness(t)
	track := tracks("a")[0]

	cmd := h.send(action.Msg{Source: results.Source, Action: results.Download{Track: track}})
	assert.Equal(t, 1, h.m.downloadsV.Pending())
	assert.Equal(t, "Downloading Song a", h.m.status)

	out := h.run(cmd())
	require.IsType(t, DownloadsLoadedMsg{}, out)
	assert.Equal(t, 0, h.m.downloadsV.Pending())
	assert.Equal(t, "Downloaded Song a", h.m.status)
	assert.Len(t, h.m.downloadsV.Records(), 1)
}

func TestDownload_Error(t *testing.T) {
	h := newHarness(t)
	h.dl.err = downloads.ErrNoSource

	h.run(action.Msg{Source: results.Source, Action: results.Download{Track: tracks("a")[0]}})

	assert.Equal(t, "Failed to download song 'Song a': track has no downloadable source", h.m.ErrorText())
	assert.Equal(t, 0, h.m.downloadsV.Pending())
}

func TestDownloadsView_PlayFromUsesLocalFiles(t *testing.T) {
	h := newHarness(t)
	recs := []downloads.Record{
		{Track: tracks("a")[0], Path: "/music/a.mp3"},
		{Track: tracks("b")[0], Path: "/music/b.mp3"},
	}

	h.run(action.Msg{Source: dlview.Source, Action: dlview.PlayFrom{Records: recs, Index: 1}})

	assert.Equal(t, []string{"file:///music/b.mp3"}, h.loader.URLs())
}

func TestRescan(t *testing.T) {
	h := newHarness(t)

	cmd := h.send(action.Msg{Source: dlview.Source, Action: dlview.Rescan{}})
	assert.Equal(t, "Scanning /music", h.m.status)

	h.send(cmd())
	assert.Equal(t, "Found 2 new file(s)", h.m.status)
}

func TestGlobalKeys(t *testing.T) {
	h := newHarness(t)
	h.sess.Enqueue(tracks("a", "b")...)

	h.run(key(" "))
	assert.Equal(t, []string{"https://cdn.test/a"}, h.loader.URLs())

	h.run(key("n"))
	assert.Equal(t, "https://cdn.test/b", h.loader.Last().URL())

	h.send(key("s"))
	assert.Equal(t, "Shuffle on", h.m.status)
	assert.True(t, h.sess.Snapshot().Shuffle)

	h.send(key("r"))
	assert.Equal(t, playback.RepeatOne, h.sess.Snapshot().Repeat)

	h.send(key("-"))
	assert.Equal(t, "Volume 95%", h.m.status)
	assert.InDelta(t, 0.95, h.sess.Volume(), 1e-9)

	h.run(key("l"))
	assert.Equal(t, []time.Duration{5 * time.Second}, h.loader.Last().SeekCalls())
}

func TestViewKeys(t *testing.T) {
	h := newHarness(t)

	cmd := h.send(key("f2"))
	assert.Equal(t, headerbar.ModeDownloads, h.m.ViewMode())
	assert.IsType(t, DownloadsLoadedMsg{}, cmd())

	h.send(key("/"))
	assert.Equal(t, headerbar.ModeSearch, h.m.ViewMode())
	assert.True(t, h.m.results.IsEditing())

	// typed keys go to the query, not to playback
	h.send(key("s"))
	assert.False(t, h.sess.Snapshot().Shuffle)
}

func TestHelpOverlay(t *testing.T) {
	h := newHarness(t)

	h.send(key("?"))
	view := testutil.StripANSI(h.m.View())
	assert.Contains(t, view, "Toggle shuffle")
	assert.Contains(t, view, "space")

	h.send(key("s"))
	assert.False(t, h.m.showHelp)
	assert.False(t, h.sess.Snapshot().Shuffle, "closing key is swallowed")
}

func TestQuitKeys(t *testing.T) {
	h := newHarness(t)

	assert.IsType(t, tea.QuitMsg{}, h.send(key("q"))())
	h.send(key("/"))
	assert.IsType(t, tea.QuitMsg{}, h.send(key("ctrl+c"))())
}

func TestPlaybackEvents(t *testing.T) {
	h := newHarness(t)

	h.sess.Enqueue(tracks("a", "b")...)
	msg := WatchPlayback(h.m.sub)()
	require.IsType(t, QueueChangedMsg{}, msg)
	assert.NotNil(t, h.send(msg), "watch is re-armed")
	assert.Contains(t, testutil.StripANSI(h.m.queue.View()), "Song b")

	h.send(PlaybackErrorMsg{Operation: "seek", TrackID: "a", Err: errors.New("bad offset")})
	assert.Equal(t, "Failed to seek 'a': bad offset", h.m.ErrorText())

	h.send(TrackChangedMsg{Index: 1})
	assert.Empty(t, h.m.ErrorText())
}

func TestWatchStderr(t *testing.T) {
	lines := make(chan string, 1)
	lines <- "ALSA underrun"

	assert.Equal(t, StderrMsg{Line: "ALSA underrun"}, WatchStderr(lines)())
	close(lines)
	assert.Nil(t, WatchStderr(lines)())
	assert.Nil(t, WatchStderr(nil))
}

func TestView_Layout(t *testing.T) {
	h := newHarness(t)
	h.run(action.Msg{Source: results.Source, Action: results.PlayFrom{Tracks: tracks("a", "b"), Index: 0}})

	view := testutil.StripANSI(h.m.View())
	lines := strings.Split(view, "\n")

	assert.Contains(t, lines[0], "Music App")
	assert.Contains(t, view, "Queue")
	assert.Contains(t, view, "Song a")
	assert.Contains(t, view, "1/2")
	assert.Contains(t, lines[len(lines)-2], "03:00")
}

type fakeSuggester struct {
	mu    sync.Mutex
	byID  map[string][]playlist.Track
	err   error
	calls int
}

func (f *fakeSuggester) Suggestions(_ context.Context, id string, _ int) ([]playlist.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.byID[id], f.err
}

func newRadioHarness(t *testing.T, src *fakeSuggester) *harness {
	t.Helper()
	cfg := radio.DefaultConfig()
	cfg.MaxArtistRepeat = 0
	return newHarnessWith(t, func(d *Deps) {
		d.Radio = radio.New(src, nil, cfg, nil)
	})
}

func TestRadio_Unavailable(t *testing.T) {
	h := newHarness(t)

	assert.Nil(t, h.send(key("ctrl+r")))
	assert.Equal(t, "Radio unavailable", h.m.status)
	assert.False(t, h.m.RadioEnabled())
}

func TestRadio_ToggleFillsAfterLastTrack(t *testing.T) {
	extra := tracks("x", "y")
	src := &fakeSuggester{byID: map[string][]playlist.Track{"b": extra}}
	h := newRadioHarness(t, src)
	require.NoError(t, h.sess.PlayList(context.Background(), tracks("a", "b"), 1))

	out := h.run(key("ctrl+r"))

	require.IsType(t, RadioFillMsg{}, out)
	assert.True(t, h.m.RadioEnabled())
	assert.Equal(t, 4, h.sess.Queue().Len())
	assert.Equal(t, "Radio added 2 song(s)", h.m.status)
	assert.Contains(t, testutil.StripANSI(h.m.queue.View()), "📻")
}

func TestRadio_ToggleOff(t *testing.T) {
	h := newRadioHarness(t, &fakeSuggester{})

	h.send(key("ctrl+r"))
	h.send(key("ctrl+r"))

	assert.False(t, h.m.RadioEnabled())
	assert.Equal(t, "Radio off", h.m.status)
}

func TestRadio_TrackChangedStartsOneFill(t *testing.T) {
	src := &fakeSuggester{byID: map[string][]playlist.Track{}}
	h := newRadioHarness(t, src)
	h.send(key("ctrl+r"))
	list := tracks("a", "b")
	require.NoError(t, h.sess.PlayList(context.Background(), list, 0))

	h.send(TrackChangedMsg{Current: &list[0], Index: 0})
	assert.False(t, h.m.radioFilling, "not the last track")

	require.NoError(t, h.sess.Next(context.Background()))
	h.send(TrackChangedMsg{Current: &list[1], Index: 1})
	assert.True(t, h.m.radioFilling)

	h.send(TrackChangedMsg{Current: &list[1], Index: 1})
	assert.True(t, h.m.radioFilling, "fill still pending")

	h.send(RadioFillMsg{Message: "No related songs found"})
	assert.False(t, h.m.radioFilling)
	assert.Equal(t, "Radio: No related songs found", h.m.status)
}

func TestRadio_FillError(t *testing.T) {
	h := newRadioHarness(t, &fakeSuggester{})

	h.send(RadioFillMsg{Err: errors.New("timeout")})

	assert.Equal(t, "Failed to load suggestions: timeout", h.m.ErrorText())
}

func TestRadio_FillIgnoredAfterDisable(t *testing.T) {
	h := newRadioHarness(t, &fakeSuggester{})

	h.send(RadioFillMsg{Tracks: tracks("x")})

	assert.Equal(t, 0, h.sess.Queue().Len())
}

type fakeLyrics struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeLyrics) Fetch(_ context.Context, t playlist.Track) lyrics.FetchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, t.ID)
	return lyrics.FetchResult{
		Lyrics: &lyrics.Lyrics{Lines: []lyrics.Line{
			{Time: 10 * time.Second, Text: "Hum tere bin ab reh nahi sakte"},
			{Time: 20 * time.Second, Text: "Tere bina kya wajood mera"},
		}},
		Origin: lyrics.OriginAPI,
	}
}

func TestLyricsView_FetchesCurrentTrack(t *testing.T) {
	src := &fakeLyrics{}
	h := newHarnessWith(t, func(d *Deps) { d.Lyrics = src })
	require.NoError(t, h.sess.PlayList(context.Background(), tracks("a", "b"), 0))

	out := h.run(key("f3"))

	require.IsType(t, lyricsview.FetchedMsg{}, out)
	assert.Equal(t, headerbar.ModeLyrics, h.m.ViewMode())
	assert.Equal(t, []string{"a"}, src.calls)
	assert.Equal(t, lyricsview.StateLoaded, h.m.lyricsV.State())

	h.send(PositionChangedMsg{Position: 21 * time.Second, Duration: 3 * time.Minute})
	assert.Equal(t, 1, h.m.lyricsV.CurrentLine())
	assert.Contains(t, testutil.StripANSI(h.m.View()), "Tere bina kya wajood mera")
}

func TestLyricsView_OnlyFetchesWhileShown(t *testing.T) {
	src := &fakeLyrics{}
	h := newHarnessWith(t, func(d *Deps) { d.Lyrics = src })
	list := tracks("a", "b")

	assert.Nil(t, h.m.refreshLyrics(&list[0]), "search view shown")

	h.send(key("f3"))
	cmd := h.m.refreshLyrics(&list[1])
	require.NotNil(t, cmd)
	h.send(cmd())
	assert.Equal(t, []string{"b"}, src.calls)
}

func TestLyricsView_Unavailable(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sess.PlayList(context.Background(), tracks("a"), 0))

	assert.Nil(t, h.send(key("f3")))
	assert.Contains(t, testutil.StripANSI(h.m.View()), "Lyrics not available")
}
