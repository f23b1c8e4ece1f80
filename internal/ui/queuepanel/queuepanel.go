// Package queuepanel renders the play queue and turns keys into queue edits.
package queuepanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/keymap"
	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/ui"
	"github.com/deeksha1106/music-app/internal/ui/list"
)

// Model is the queue panel state. It mirrors the queue from QueueChange
// events and never mutates it directly.
type Model struct {
	ui.Base
	list    list.Model[playlist.Track]
	keys    *keymap.Resolver
	current int
	repeat  playback.RepeatMode
	shuffle bool
	radio   bool
}

// New creates an empty queue panel.
func New() Model {
	return Model{
		list: list.New[playlist.Track](ui.ScrollMargin),
		keys: keymap.ForContexts(keymap.ContextQueue),
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

// SetQueue replaces the mirrored queue.
func (m *Model) SetQueue(e playback.QueueChange) {
	m.list.SetItems(e.Tracks)
	m.current = e.Index
}

// SetModes updates the mode icons in the header.
func (m *Model) SetModes(e playback.ModeChange) {
	m.repeat = e.RepeatMode
	m.shuffle = e.Shuffle
}

// SetRadio shows or hides the radio icon in the header.
func (m *Model) SetRadio(on bool) {
	m.radio = on
}

// SyncCursor moves the cursor to the current entry.
func (m *Model) SyncCursor() {
	if m.current < m.list.Len() {
		m.list.Select(m.current)
	}
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
	if action == keymap.ActionClear {
		return m, send(ClearQueue{})
	}
	track, ok := m.list.Selected()
	if !ok {
		return m, nil
	}
	idx := m.list.SelectedIndex()

	switch action { //nolint:exhaustive // panel actions only
	case keymap.ActionSelect:
		return m, send(JumpToTrack{Index: idx})
	case keymap.ActionDelete:
		return m, send(RemoveTrack{Index: idx})
	case keymap.ActionMoveUp:
		if idx > 0 {
			m.list.Select(idx - 1)
			return m, send(MoveTrack{From: idx, To: idx - 1})
		}
	case keymap.ActionMoveDown:
		if idx < m.list.Len()-1 {
			m.list.Select(idx + 1)
			return m, send(MoveTrack{From: idx, To: idx + 1})
		}
	case keymap.ActionDownload:
		return m, send(DownloadTrack{Track: track})
	}
	return m, nil
}
