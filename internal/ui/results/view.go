package results

import (
	"fmt"
	"strings"

	"github.com/deeksha1106/music-app/internal/icons"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/ui"
	"github.com/deeksha1106/music-app/internal/ui/render"
	"github.com/deeksha1106/music-app/internal/ui/styles"
)

// durationWidth fits "mm:ss" plus a leading space.
const durationWidth = 6

// View renders the panel.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	innerWidth := m.Width() - ui.BorderHeight
	s := styles.T().S()

	lines := []string{
		m.input.View(),
		render.Separator(innerWidth),
		s.Title.Render(render.TruncateAndPad(m.header(), innerWidth)),
		render.Separator(innerWidth),
	}

	listHeight := m.list.ListHeight(ui.PanelOverhead)
	switch {
	case m.err != "":
		lines = append(lines, s.Error.Render(render.Truncate(m.err, innerWidth)))
	case m.list.Len() == 0 && m.loading:
		lines = append(lines, s.Muted.Render("Searching…"))
	case m.list.Len() == 0 && m.query != "":
		lines = append(lines, s.Muted.Render("No songs found"))
	case m.list.Len() == 0:
		lines = append(lines, s.Muted.Render("Press / to search"))
	default:
		start, end := m.list.VisibleRange()
		for i := start; i < end; i++ {
			lines = append(lines, m.renderRow(m.list.Items()[i], i, innerWidth))
		}
	}
	for len(lines) < inputHeight+ui.HeaderHeight+listHeight {
		lines = append(lines, render.EmptyLine(innerWidth))
	}

	return styles.PanelStyle(m.IsFocused()).
		Width(innerWidth).
		Render(strings.Join(lines, "\n"))
}

func (m Model) header() string {
	if m.query == "" {
		return "Results"
	}
	h := fmt.Sprintf("Results for %q (%d/%d)", m.query, m.list.Len(), m.total)
	if m.loading {
		h += " …"
	}
	return h
}

func (m Model) renderRow(t playlist.Track, idx, width int) string {
	marker := "  "
	if m.downloaded[t.ID] {
		marker = icons.Downloaded() + " "
	}
	markerWidth := 2

	dur := ""
	if t.Duration > 0 {
		dur = playlist.FormatDuration(t.Duration)
	}
	content := width - markerWidth - durationWidth
	titleWidth := content / 2
	artistWidth := content - titleWidth

	line := render.TruncateAndPad(marker, markerWidth) +
		render.TruncateAndPad(t.Name, titleWidth) +
		render.TruncateAndPad(t.Artist, artistWidth) +
		fmt.Sprintf("%*s", durationWidth, dur)

	s := styles.T().S()
	if idx == m.list.SelectedIndex() && m.list.IsFocused() {
		return s.Cursor.Render(line)
	}
	return s.Base.Render(line)
}
