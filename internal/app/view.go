// internal/app/view.go
package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/deeksha1106/music-app/internal/keymap"
	"github.com/deeksha1106/music-app/internal/ui/headerbar"
	"github.com/deeksha1106/music-app/internal/ui/overlay"
	"github.com/deeksha1106/music-app/internal/ui/playerbar"
	"github.com/deeksha1106/music-app/internal/ui/render"
	"github.com/deeksha1106/music-app/internal/ui/styles"
)

var helpSections = []struct {
	title   string
	context string
}{
	{"Global", keymap.ContextGlobal},
	{"Playback", keymap.ContextPlayback},
	{"Search results", keymap.ContextResults},
	{"Queue", keymap.ContextQueue},
	{"Downloads", keymap.ContextDownloads},
	{"Lyrics", keymap.ContextLyrics},
}

// View renders the application UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	status := m.status
	if m.errText != "" {
		status = styles.T().S().Error.Render(m.errText)
	}
	header := headerbar.Render(m.viewMode, status, m.width)

	var main string
	switch m.viewMode {
	case headerbar.ModeDownloads:
		main = m.downloadsV.View()
	case headerbar.ModeLyrics:
		main = m.lyricsV.View()
	default:
		main = m.results.View()
	}
	if m.queueVisible {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, m.queue.View())
	}

	bar := playerbar.Render(m.playerState(), m.width)
	if bar == "" {
		bar = strings.TrimSuffix(strings.Repeat(render.EmptyLine(m.width)+"\n", playerbar.Height), "\n")
	}

	view := lipgloss.JoinVertical(lipgloss.Left, header, main, bar)
	if m.showHelp {
		view = overlay.Center(view, renderHelp(), m.width, m.height)
	}
	return view
}

func (m Model) playerState() playerbar.State {
	index, length := m.session.QueuePosition()
	return playerbar.NewState(m.session.Snapshot(), m.session.Volume(), index, length)
}

func renderHelp() string {
	st := styles.T().S()
	var lines []string
	for i, sec := range helpSections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, st.Playing.Render(sec.title))
		for _, b := range keymap.ByContext(sec.context) {
			keys := make([]string, len(b.Keys))
			for j, k := range b.Keys {
				keys[j] = keyLabel(k)
			}
			lines = append(lines, st.Title.Render(render.Pad(strings.Join(keys, "/"), 18))+st.Muted.Render(b.Description))
		}
	}
	lines = append(lines, "", st.Subtle.Render("Press any key to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().BorderFocus).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
