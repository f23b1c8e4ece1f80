package downloads

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/deeksha1106/music-app/internal/downloads"
	"github.com/deeksha1106/music-app/internal/ui"
	"github.com/deeksha1106/music-app/internal/ui/render"
	"github.com/deeksha1106/music-app/internal/ui/styles"
)

const (
	sizeWidth = 9  // "123.4 MB "
	ageWidth  = 15 // "3 minutes ago"
)

// View renders the downloads panel.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	innerWidth := m.Width() - ui.BorderHeight
	s := styles.T().S()

	lines := []string{
		s.Title.Render(render.TruncateAndPad(m.header(), innerWidth)),
		render.Separator(innerWidth),
	}
	if m.list.Len() == 0 {
		lines = append(lines, s.Muted.Render(render.Truncate("No downloads in "+m.folder, innerWidth)))
	}
	start, end := m.list.VisibleRange()
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(m.list.Items()[i], i, innerWidth))
	}
	for len(lines) < m.Height()-ui.BorderHeight {
		lines = append(lines, render.EmptyLine(innerWidth))
	}

	return styles.PanelStyle(m.IsFocused()).
		Width(innerWidth).
		Render(strings.Join(lines, "\n"))
}

func (m Model) header() string {
	var total int64
	for _, r := range m.list.Items() {
		total += r.Size
	}
	h := fmt.Sprintf("Downloads (%d, %s)", m.list.Len(), humanize.Bytes(uint64(max(total, 0)))) //nolint:gosec // clamped
	if len(m.pending) > 0 {
		names := make([]string, 0, len(m.pending))
		for _, n := range m.pending {
			names = append(names, n)
		}
		slices.Sort(names)
		h += " · downloading " + strings.Join(names, ", ")
	}
	return h
}

func (m Model) renderRow(r downloads.Record, idx, width int) string {
	content := width - sizeWidth - ageWidth
	titleWidth := content / 2

	line := render.TruncateAndPad(r.Track.Name, titleWidth) +
		render.TruncateAndPad(r.Track.Artist, content-titleWidth) +
		render.TruncateAndPad(r.HumanSize(), sizeWidth) +
		render.TruncateAndPad(humanize.Time(r.DownloadedAt), ageWidth)

	s := styles.T().S()
	if idx == m.list.SelectedIndex() && m.IsFocused() {
		return s.Cursor.Render(line)
	}
	return s.Base.Render(line)
}
