package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHandleKey_RequiresFocus(t *testing.T) {
	m := New[string](0)
	m.SetSize(40, 10)
	m.SetItems([]string{"a", "b", "c"})

	if m.HandleKey(key("j")) {
		t.Fatal("unfocused list consumed a key")
	}

	m.SetFocused(true)
	if !m.HandleKey(key("j")) {
		t.Fatal("focused list ignored j")
	}
	if got, _ := m.Selected(); got != "b" {
		t.Errorf("Selected() = %q, want b", got)
	}
}

func TestSetItems_ClampsCursor(t *testing.T) {
	m := New[int](0)
	m.SetSize(40, 10)
	m.SetItems([]int{1, 2, 3, 4})
	m.Select(3)

	m.SetItems([]int{1, 2})
	if m.SelectedIndex() != 1 {
		t.Errorf("SelectedIndex() = %d, want 1", m.SelectedIndex())
	}

	m.SetItems(nil)
	if _, ok := m.Selected(); ok {
		t.Error("Selected() on empty list reported ok")
	}
}

func TestVisibleRange(t *testing.T) {
	m := New[int](0)
	m.SetSize(40, 7) // 3 rows after panel overhead
	m.SetItems(make([]int, 10))
	m.Select(5)

	start, end := m.VisibleRange()
	if start != 3 || end != 6 {
		t.Errorf("VisibleRange() = [%d,%d), want [3,6)", start, end)
	}
}
