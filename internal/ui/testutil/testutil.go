// Package testutil provides helpers for testing rendered panels.
package testutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes escape sequences from rendered output.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// FindLine returns the first line of output containing substr, or "".
func FindLine(output, substr string) string {
	for line := range strings.SplitSeq(StripANSI(output), "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// Lines splits rendered output into plain lines.
func Lines(output string) []string {
	return strings.Split(StripANSI(output), "\n")
}
