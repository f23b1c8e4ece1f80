// Package results is the search panel: a query input above a list of songs.
package results

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/keymap"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/ui"
	"github.com/deeksha1106/music-app/internal/ui/list"
)

// inputHeight is the input line plus its separator.
const inputHeight = 2

// Model is the search panel state.
type Model struct {
	ui.Base
	input   textinput.Model
	list    list.Model[playlist.Track]
	keys    *keymap.Resolver
	editing bool

	query   string
	page    int
	total   int
	loading bool
	err     string

	downloaded map[string]bool
}

// New creates an empty search panel.
func New() Model {
	in := textinput.New()
	in.Placeholder = "Search songs"
	in.Prompt = "/ "
	in.CharLimit = 200
	return Model{
		input:      in,
		list:       list.New[playlist.Track](ui.ScrollMargin),
		keys:       keymap.ForContexts(keymap.ContextResults),
		downloaded: make(map[string]bool),
	}
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.list.SetSize(width, height-inputHeight)
	m.input.Width = max(width-6, 1)
}

// SetFocused sets whether the panel is focused.
func (m *Model) SetFocused(focused bool) {
	m.Base.SetFocused(focused)
	m.list.SetFocused(focused && !m.editing)
	if !focused {
		m.stopEditing()
	}
}

// StartSearch focuses the query input.
func (m *Model) StartSearch() tea.Cmd {
	m.editing = true
	m.list.SetFocused(false)
	return m.input.Focus()
}

// IsEditing reports whether keys go to the query input.
func (m Model) IsEditing() bool {
	return m.editing
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.list.SetFocused(m.IsFocused())
}

// SetLoading marks a search as in flight.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
	if loading {
		m.err = ""
	}
}

// SetError shows msg in place of the results.
func (m *Model) SetError(msg string) {
	m.loading = false
	m.err = msg
}

// SetResults shows a page of results for query. Page 1 replaces the list;
// later pages of the same query append.
func (m *Model) SetResults(query string, page int, tracks []playlist.Track, total int) {
	m.loading = false
	m.err = ""
	if page <= 1 || query != m.query {
		m.query = query
		m.list.SetItems(tracks)
		m.list.ResetCursor()
	} else {
		m.list.SetItems(append(m.list.Items(), tracks...))
	}
	m.page = max(page, 1)
	m.total = total
}

// SetDownloaded marks which track IDs are saved locally.
func (m *Model) SetDownloaded(ids map[string]bool) {
	m.downloaded = ids
}

// Tracks returns the listed tracks.
func (m Model) Tracks() []playlist.Track {
	return m.list.Items()
}

// Query returns the query the results belong to.
func (m Model) Query() string {
	return m.query
}

// HasMore reports whether further pages exist.
func (m Model) HasMore() bool {
	return m.list.Len() < m.total
}

// Update handles keys for the input and the list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.editing {
		return m.updateInput(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return m, nil
	}
	if m.list.HandleKey(keyMsg) {
		return m, m.maybeLoadMore()
	}

	track, ok := m.list.Selected()
	if !ok {
		return m, nil
	}
	switch m.keys.Resolve(keyMsg.String()) { //nolint:exhaustive // panel actions only
	case keymap.ActionSelect:
		return m, send(PlayFrom{Tracks: m.list.Items(), Index: m.list.SelectedIndex()})
	case keymap.ActionAdd:
		return m, send(Enqueue{Track: track})
	case keymap.ActionDownload:
		return m, send(Download{Track: track})
	}
	return m, nil
}

func (m Model) updateInput(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type { //nolint:exhaustive // other keys edit the text
		case tea.KeyEsc:
			m.stopEditing()
			return m, nil
		case tea.KeyEnter:
			m.stopEditing()
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.SetLoading(true)
			return m, send(Search{Query: query, Page: 1})
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// maybeLoadMore requests the next page when the cursor reaches the last row.
func (m *Model) maybeLoadMore() tea.Cmd {
	if m.loading || !m.HasMore() || m.list.SelectedIndex() < m.list.Len()-1 {
		return nil
	}
	m.loading = true
	return send(Search{Query: m.query, Page: m.page + 1})
}
