package lyrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/deeksha1106/music-app/internal/icons"
	"github.com/deeksha1106/music-app/internal/ui"
	"github.com/deeksha1106/music-app/internal/ui/render"
	"github.com/deeksha1106/music-app/internal/ui/styles"
)

// View renders the panel.
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
	lines = append(lines, m.body(innerWidth)...)

	footerRow := m.Height() - ui.BorderHeight - 1
	for len(lines) < footerRow {
		lines = append(lines, render.EmptyLine(innerWidth))
	}
	lines = append(lines[:min(len(lines), footerRow)], s.Subtle.Render(render.TruncateAndPad(m.footer(), innerWidth)))

	return styles.PanelStyle(m.IsFocused()).
		Width(innerWidth).
		Render(strings.Join(lines, "\n"))
}

func (m Model) header() string {
	if m.track == nil {
		return "Lyrics"
	}
	h := "Lyrics · " + m.track.Name
	if m.track.Artist != "" {
		h += " - " + m.track.Artist
	}
	return h
}

func (m Model) body(width int) []string {
	s := styles.T().S()
	switch m.state {
	case StateIdle:
		return []string{s.Muted.Render("Nothing playing")}
	case StateLoading:
		return []string{s.Muted.Render("Loading lyrics…")}
	case StateNotFound:
		return []string{s.Muted.Render("Lyrics not available for this song")}
	case StateError:
		return []string{
			s.Error.Render("Error loading lyrics"),
			s.Muted.Render(render.Truncate(m.errorMsg, width)),
		}
	case StateLoaded:
	}

	start := min(m.scrollOffset, len(m.lyrics.Lines))
	end := min(start+m.visibleHeight(), len(m.lyrics.Lines))
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		text := render.TruncateAndPad("  "+m.lyrics.Lines[i].Text, width)
		if i == m.currentLine {
			out = append(out, s.Playing.Render(render.TruncateAndPad(icons.Play()+" "+m.lyrics.Lines[i].Text, width)))
			continue
		}
		out = append(out, s.Base.Render(text))
	}
	return out
}

func (m Model) footer() string {
	var parts []string
	if m.duration > 0 {
		parts = append(parts, formatDuration(m.position)+" / "+formatDuration(m.duration))
	}
	if m.state == StateLoaded {
		switch {
		case !m.lyrics.IsSynced():
			parts = append(parts, "unsynced")
		case m.autoScroll:
			parts = append(parts, "synced")
		default:
			parts = append(parts, "c follow")
		}
		if m.maxScroll() > 0 {
			parts = append(parts, "j/k scroll")
		}
	}
	return strings.Join(parts, " · ")
}

// formatDuration formats a duration as m:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", d/time.Minute, (d%time.Minute)/time.Second)
}
