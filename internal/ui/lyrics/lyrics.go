// Package lyrics is the panel showing lyrics of the playing song, following
// the playback position when they are synced.
package lyrics

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/keymap"
	"github.com/deeksha1106/music-app/internal/lyrics"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/ui"
)

// fetchTimeout bounds one lookup, lrclib search included.
const fetchTimeout = 15 * time.Second

// Fetcher finds lyrics for a song.
type Fetcher interface {
	Fetch(ctx context.Context, t playlist.Track) lyrics.FetchResult
}

var _ Fetcher = (*lyrics.Source)(nil)

// State represents what the panel shows.
type State int

const (
	StateIdle State = iota // nothing playing
	StateLoading
	StateLoaded
	StateNotFound
	StateError
)

// FetchedMsg is sent when a lookup finishes.
type FetchedMsg struct {
	TrackID string
	Result  lyrics.FetchResult
}

// Model holds the panel state.
type Model struct {
	ui.Base
	source Fetcher
	keys   *keymap.Resolver

	track        *playlist.Track
	lyrics       *lyrics.Lyrics
	state        State
	errorMsg     string
	currentLine  int
	scrollOffset int
	autoScroll   bool

	position time.Duration
	duration time.Duration
}

// New creates the panel. A nil source shows lyrics as unavailable.
func New(source Fetcher) Model {
	return Model{
		source:      source,
		keys:        keymap.ForContexts(keymap.ContextLyrics),
		currentLine: -1,
		autoScroll:  true,
	}
}

// State returns what the panel shows.
func (m Model) State() State {
	return m.state
}

// CurrentLine returns the highlighted line, -1 when none.
func (m Model) CurrentLine() int {
	return m.currentLine
}

// SetTrack shows t and returns the lookup command. It returns nil when t is
// already shown, so callers may call it on every track change.
func (m *Model) SetTrack(ctx context.Context, t *playlist.Track) tea.Cmd {
	if t == nil {
		m.track, m.lyrics, m.state = nil, nil, StateIdle
		return nil
	}
	if m.track != nil && m.track.ID == t.ID && m.state != StateError {
		return nil
	}

	track := *t
	m.track = &track
	m.lyrics = nil
	m.currentLine = -1
	m.scrollOffset = 0
	m.autoScroll = true
	m.errorMsg = ""
	if m.source == nil {
		m.state = StateNotFound
		return nil
	}
	m.state = StateLoading

	src := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		return FetchedMsg{TrackID: track.ID, Result: src.Fetch(ctx, track)}
	}
}

// HandleFetched applies a lookup result. Results for another song are
// dropped.
func (m *Model) HandleFetched(msg FetchedMsg) {
	if m.track == nil || msg.TrackID != m.track.ID {
		return
	}
	switch {
	case msg.Result.Err != nil:
		m.state = StateError
		m.errorMsg = msg.Result.Err.Error()
	case msg.Result.Lyrics == nil:
		m.state = StateNotFound
	default:
		m.lyrics = msg.Result.Lyrics
		m.state = StateLoaded
		m.currentLine = m.lyrics.LineAt(m.position)
		m.centerCurrentLine()
	}
}

// SetPosition updates the playback position.
func (m *Model) SetPosition(pos, duration time.Duration) {
	m.position, m.duration = pos, duration
	if m.lyrics == nil {
		return
	}
	if line := m.lyrics.LineAt(pos); line != m.currentLine {
		m.currentLine = line
		if m.autoScroll {
			m.centerCurrentLine()
		}
	}
}

// Update handles keys when focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return m, nil
	}
	switch m.keys.Resolve(keyMsg.String()) { //nolint:exhaustive // lyrics actions only
	case keymap.ActionScrollDown:
		m.autoScroll = false
		m.scrollOffset = min(m.scrollOffset+1, m.maxScroll())
	case keymap.ActionScrollUp:
		m.autoScroll = false
		m.scrollOffset = max(m.scrollOffset-1, 0)
	case keymap.ActionScrollTop:
		m.autoScroll = false
		m.scrollOffset = 0
	case keymap.ActionScrollEnd:
		m.autoScroll = false
		m.scrollOffset = m.maxScroll()
	case keymap.ActionFollow:
		m.autoScroll = true
		m.centerCurrentLine()
	}
	return m, nil
}

// centerCurrentLine scrolls so the current line sits mid-panel.
func (m *Model) centerCurrentLine() {
	if m.currentLine < 0 {
		return
	}
	m.scrollOffset = max(0, min(m.currentLine-m.visibleHeight()/2, m.maxScroll()))
}

// visibleHeight is the number of lyric rows: the panel minus border,
// header, separator and footer.
func (m Model) visibleHeight() int {
	return max(m.Height()-ui.PanelOverhead-1, 1)
}

func (m Model) maxScroll() int {
	if m.lyrics == nil {
		return 0
	}
	return max(len(m.lyrics.Lines)-m.visibleHeight(), 0)
}
