// Package list provides a generic scrollable list for the panels.
package list

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/ui"
	"github.com/deeksha1106/music-app/internal/ui/cursor"
)

// Model is a scrollable list of T. It handles navigation and leaves every
// other key to the owning panel, which renders rows from VisibleRange.
type Model[T any] struct {
	ui.Base
	items  []T
	cursor cursor.Cursor
}

// New creates a list with the given scroll margin.
func New[T any](margin int) Model[T] {
	return Model[T]{cursor: cursor.New(margin)}
}

// SetItems replaces the items, keeping the cursor in bounds.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.cursor.ClampToBounds(len(items), m.listHeight())
}

// Items returns the items.
func (m Model[T]) Items() []T {
	return m.items
}

// Len returns the number of items.
func (m Model[T]) Len() int {
	return len(m.items)
}

// Selected returns the item under the cursor.
func (m Model[T]) Selected() (T, bool) {
	if m.cursor.Pos() >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[m.cursor.Pos()], true
}

// SelectedIndex returns the cursor position.
func (m Model[T]) SelectedIndex() int {
	return m.cursor.Pos()
}

// Select moves the cursor to index.
func (m *Model[T]) Select(index int) {
	m.cursor.Jump(index, len(m.items), m.listHeight())
}

// ResetCursor moves the cursor to the first item.
func (m *Model[T]) ResetCursor() {
	m.cursor.Reset()
}

// VisibleRange returns [start, end) indices for rendering.
func (m Model[T]) VisibleRange() (start, end int) {
	return m.cursor.VisibleRange(len(m.items), m.listHeight())
}

// HandleKey applies navigation keys when focused and reports whether the key
// was consumed.
func (m *Model[T]) HandleKey(msg tea.KeyMsg) bool {
	if !m.IsFocused() {
		return false
	}
	return m.cursor.HandleKey(msg.String(), len(m.items), m.listHeight())
}

func (m Model[T]) listHeight() int {
	return m.ListHeight(ui.PanelOverhead)
}
