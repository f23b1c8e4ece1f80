// Package downloads is the panel listing songs saved for offline playback.
package downloads

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/downloads"
	"github.com/deeksha1106/music-app/internal/keymap"
	"github.com/deeksha1106/music-app/internal/ui"
	"github.com/deeksha1106/music-app/internal/ui/list"
)

// Model is the downloads panel state.
type Model struct {
	ui.Base
	list    list.Model[downloads.Record]
	keys    *keymap.Resolver
	folder  string
	pending map[string]string // track ID -> name, downloads in flight
}

// New creates the panel for records stored under folder.
func New(folder string) Model {
	return Model{
		list:    list.New[downloads.Record](ui.ScrollMargin),
		keys:    keymap.ForContexts(keymap.ContextDownloads),
		folder:  folder,
		pending: make(map[string]string),
	}
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.list.SetSize(width, height)
}

// SetFocused sets whether the panel is focused.
func (m *Model) SetFocused(focused bool) {
	m.Base.SetFocused(focused)
	m.list.SetFocused(focused)
}

// SetRecords replaces the listed records.
func (m *Model) SetRecords(recs []downloads.Record) {
	m.list.SetItems(recs)
}

// Records returns the listed records.
func (m Model) Records() []downloads.Record {
	return m.list.Items()
}

// StartPending marks a download as in flight.
func (m *Model) StartPending(id, name string) {
	m.pending[id] = name
}

// FinishPending clears an in-flight marker.
func (m *Model) FinishPending(id string) {
	delete(m.pending, id)
}

// Pending returns the number of downloads in flight.
func (m Model) Pending() int {
	return len(m.pending)
}

// Update handles keys when focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return m, nil
	}
	if m.list.HandleKey(keyMsg) {
		return m, nil
	}

	action := m.keys.Resolve(keyMsg.String())
	if action == keymap.ActionRescan {
		return m, send(Rescan{})
	}
	rec, ok := m.list.Selected()
	if !ok {
		return m, nil
	}
	switch action { //nolint:exhaustive // panel actions only
	case keymap.ActionSelect:
		return m, send(PlayFrom{Records: m.list.Items(), Index: m.list.SelectedIndex()})
	case keymap.ActionAdd:
		return m, send(Enqueue{Record: rec})
	case keymap.ActionDelete:
		return m, send(DeleteDownload{ID: rec.Track.ID})
	}
	return m, nil
}
