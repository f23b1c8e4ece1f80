// Package playerbar renders the now-playing bar at the bottom of the screen.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/deeksha1106/music-app/internal/icons"
	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/ui/render"
	"github.com/deeksha1106/music-app/internal/ui/styles"
)

// Height is the bar height: top border, content, bottom border.
const Height = 3

// minBarWidth is the narrowest progress bar worth drawing.
const minBarWidth = 5

// State holds everything needed to render the bar.
type State struct {
	Title    string
	Artist   string
	Album    string
	Playing  bool
	Loading  bool
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Index    int // queue position, 0-based
	QueueLen int
}

// NewState builds a State from a playback snapshot. The zero State means
// nothing is loaded.
func NewState(p playback.PlaybackState, volume float64, index, queueLen int) State {
	if p.Track == nil {
		return State{}
	}
	dur := p.Duration
	if dur <= 0 {
		dur = p.Track.Duration
	}
	return State{
		Title:    p.Track.Name,
		Artist:   p.Track.Artist,
		Album:    p.Track.Album,
		Playing:  p.Playing,
		Loading:  p.Loading,
		Position: p.Position,
		Duration: dur,
		Volume:   volume,
		Index:    index,
		QueueLen: queueLen,
	}
}

// IsEmpty reports whether there is nothing to show.
func (s State) IsEmpty() bool {
	return s.Title == "" && !s.Loading
}

// Render returns the bar for width, or "" when nothing is loaded.
func Render(s State, width int) string {
	if s.IsEmpty() {
		return ""
	}
	st := styles.T().S()
	innerWidth := max(width-6, 0) // border plus padding

	status := icons.Pause()
	switch {
	case s.Loading:
		status = icons.Loading()
	case s.Playing:
		status = icons.Play()
	}

	title := s.Title
	if title == "" {
		title = "Loading…"
	}
	info := strings.Join(nonEmpty(s.Artist, s.Album), " · ")

	var right []string
	if s.QueueLen > 0 {
		right = append(right, fmt.Sprintf("%d/%d", s.Index+1, s.QueueLen))
	}
	right = append(right,
		fmt.Sprintf("%s / %s", playlist.FormatDuration(s.Position), playlist.FormatDuration(s.Duration)),
		fmt.Sprintf("%s %3d%%", icons.Volume(s.Volume), int(s.Volume*100+0.5)),
	)
	rightText := strings.Join(right, "   ")

	const sep = "   "
	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(sep)*2 + lipgloss.Width(rightText)
	text := title
	if info != "" {
		text += sep + info
	}
	textWidth := min(lipgloss.Width(text), max(innerWidth-fixed-minBarWidth, 10))
	barWidth := max(innerWidth-fixed-textWidth, minBarWidth)

	line := st.Title.Render(render.Truncate(text, textWidth)) + sep +
		status + "  " + ProgressBar(s.Position, s.Duration, barWidth) + sep +
		st.Muted.Render(rightText)

	return styles.PanelStyle(false).Padding(0, 2).Width(max(width-2, 0)).Render(line)
}

// ProgressBar draws a width-cell bar filled to position/duration.
func ProgressBar(position, duration time.Duration, width int) string {
	var ratio float64
	if duration > 0 {
		ratio = min(max(float64(position)/float64(duration), 0), 1)
	}
	filled := int(float64(width) * ratio)
	st := styles.T()
	return lipgloss.NewStyle().Foreground(st.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(st.FgSubtle).Render(strings.Repeat("─", width-filled))
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
