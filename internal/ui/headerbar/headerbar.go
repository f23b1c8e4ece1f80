// Package headerbar renders the top line: the app name and the view tabs.
package headerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/deeksha1106/music-app/internal/ui/render"
	"github.com/deeksha1106/music-app/internal/ui/styles"
)

// Height is the fixed height of the header bar.
const Height = 1

// Title is shown at the left edge.
const Title = "Music App"

// View modes with a tab.
const (
	ModeSearch    = "search"
	ModeDownloads = "downloads"
	ModeLyrics    = "lyrics"
)

type tab struct {
	key  string
	name string
	mode string
}

var tabs = []tab{
	{"F1", "Search", ModeSearch},
	{"F2", "Downloads", ModeDownloads},
	{"F3", "Lyrics", ModeLyrics},
}

// Render returns the header for width with currentMode highlighted.
// status is shown at the right edge when there is room.
func Render(currentMode, status string, width int) string {
	if width < 20 {
		return ""
	}
	t := styles.T()
	active := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	inactiveKey := lipgloss.NewStyle().Foreground(t.FgSubtle)
	inactiveName := lipgloss.NewStyle().Foreground(t.FgMuted)
	sep := lipgloss.NewStyle().Foreground(t.Border).Render(" │ ")

	parts := make([]string, 0, len(tabs))
	for _, tb := range tabs {
		if tb.mode == currentMode {
			parts = append(parts, active.Render(tb.key+" "+tb.name))
			continue
		}
		parts = append(parts, inactiveKey.Render(tb.key)+" "+inactiveName.Render(tb.name))
	}

	left := styles.Gradient(Title, t.Primary, t.Secondary) + "  " + strings.Join(parts, sep)
	room := width - lipgloss.Width(left) - 1
	if status == "" || room < 5 {
		return left
	}
	return render.Row(left, t.S().Muted.Render(render.Truncate(status, room)), width)
}
