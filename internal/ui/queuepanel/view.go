package queuepanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/deeksha1106/music-app/internal/icons"
	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/ui"
	"github.com/deeksha1106/music-app/internal/ui/render"
	"github.com/deeksha1106/music-app/internal/ui/styles"
)

// View renders the queue panel.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	innerWidth := m.Width() - ui.BorderHeight

	lines := []string{m.renderHeader(innerWidth), render.Separator(innerWidth)}
	start, end := m.list.VisibleRange()
	for i := start; i < end; i++ {
		lines = append(lines, m.renderTrackLine(m.list.Items()[i], i, innerWidth))
	}
	for len(lines) < m.Height()-ui.BorderHeight {
		lines = append(lines, render.EmptyLine(innerWidth))
	}

	return styles.PanelStyle(m.IsFocused()).
		Width(innerWidth).
		Render(strings.Join(lines, "\n"))
}

// renderHeader shows "Queue (current/total)" with the mode icons right-aligned.
func (m Model) renderHeader(innerWidth int) string {
	pos := 0
	if m.current < m.list.Len() {
		pos = m.current + 1
	}
	text := fmt.Sprintf("Queue (%d/%d)", pos, m.list.Len())

	modes := m.modeIcons()
	textWidth := innerWidth - lipgloss.Width(modes)
	return styles.T().S().Title.Render(render.TruncateAndPad(text, textWidth)) + modes
}

func (m Model) modeIcons() string {
	var parts []string
	if m.shuffle {
		parts = append(parts, icons.Shuffle())
	}
	switch m.repeat {
	case playback.RepeatAll:
		parts = append(parts, icons.RepeatAll())
	case playback.RepeatOne:
		parts = append(parts, icons.RepeatOne())
	case playback.RepeatOff:
	}
	if m.radio {
		parts = append(parts, icons.Radio())
	}
	if len(parts) == 0 {
		return ""
	}
	return styles.T().S().Warning.Render(strings.Join(parts, " "))
}

// renderTrackLine renders "▶ title  artist" for one entry.
func (m Model) renderTrackLine(t playlist.Track, idx, width int) string {
	prefix := "  "
	if idx == m.current {
		prefix = icons.Play() + " "
	}
	const prefixWidth = 2
	content := width - prefixWidth
	titleWidth := content * 3 / 5

	line := render.TruncateAndPad(prefix, prefixWidth) +
		render.TruncateAndPad(t.Name, titleWidth) +
		render.TruncateAndPad(t.Artist, content-titleWidth)

	return m.trackStyle(idx).Render(line)
}

func (m Model) trackStyle(idx int) lipgloss.Style {
	s := styles.T().S()
	isCursor := idx == m.list.SelectedIndex() && m.IsFocused()
	isPlaying := idx == m.current
	isPlayed := idx < m.current

	switch {
	case isCursor && isPlaying:
		return s.Cursor.Inherit(s.Playing)
	case isCursor && isPlayed:
		return s.Cursor.Inherit(s.Subtle)
	case isCursor:
		return s.Cursor
	case isPlaying:
		return s.Playing
	case isPlayed:
		return s.Subtle
	default:
		return s.Base
	}
}
