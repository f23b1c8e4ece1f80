// Package overlay draws a popup over a rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Center places box in the middle of base, which is width cells wide.
// Lines of base outside the box are kept as they are, styling included.
func Center(base, box string, width, height int) string {
	boxLines := strings.Split(box, "\n")
	boxWidth := lipgloss.Width(box)
	left := max((width-boxWidth)/2, 0)
	top := max((height-len(boxLines))/2, 0)

	baseLines := strings.Split(base, "\n")
	for len(baseLines) < top+len(boxLines) {
		baseLines = append(baseLines, "")
	}

	for i, boxLine := range boxLines {
		line := baseLines[top+i]
		if w := ansi.StringWidth(line); w < width {
			line += strings.Repeat(" ", width-w)
		}
		end := left + ansi.StringWidth(boxLine)
		out := ansi.Cut(line, 0, left) + boxLine
		if end < width {
			out += ansi.Cut(line, end, width)
		}
		baseLines[top+i] = out
	}
	return strings.Join(baseLines, "\n")
}
