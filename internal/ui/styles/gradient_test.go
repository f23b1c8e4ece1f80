package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestGradient_PreservesText(t *testing.T) {
	tests := []string{"", "M", "Music App", "संगीत", "👩‍🎤 live"}
	for _, text := range tests {
		got := ansi.Strip(Gradient(text, T().Primary, T().Secondary))
		if got != text {
			t.Errorf("Gradient(%q) stripped = %q", text, got)
		}
	}
}

func TestGradient_NonHexFallsBack(t *testing.T) {
	got := ansi.Strip(Gradient("abc", lipgloss.Color("39"), T().Secondary))
	if got != "abc" {
		t.Errorf("stripped = %q, want abc", got)
	}
}
