package radio

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/deeksha1106/music-app/internal/playlist"
)

// fromSuffix matches the film credit catalogs append to song titles, as in
// `Tum Hi Ho (From "Aashiqui 2")`.
var fromSuffix = regexp.MustCompile(`(?i)\s*[(\[]\s*from\s+[^)\]]*[)\]]\s*$`)

// exclusions holds tracks radio must not add again: by ID, or by a title
// close enough to count as another upload of the same song.
type exclusions struct {
	ids       map[string]bool
	titles    []string
	threshold float64
}

func newExclusions(tracks []playlist.Track, threshold float64) *exclusions {
	ex := &exclusions{ids: make(map[string]bool, len(tracks)), threshold: threshold}
	for _, t := range tracks {
		ex.add(t)
	}
	return ex
}

func (ex *exclusions) add(t playlist.Track) {
	ex.ids[t.ID] = true
	if title := normalizeString(t.Name); title != "" {
		ex.titles = append(ex.titles, title)
	}
}

func (ex *exclusions) clone() *exclusions {
	c := &exclusions{
		ids:       make(map[string]bool, len(ex.ids)),
		titles:    append([]string(nil), ex.titles...),
		threshold: ex.threshold,
	}
	for id := range ex.ids {
		c.ids[id] = true
	}
	return c
}

func (ex *exclusions) excludes(t playlist.Track) bool {
	if ex.ids[t.ID] {
		return true
	}
	title := normalizeString(t.Name)
	if title == "" || ex.threshold <= 0 {
		return false
	}
	for _, other := range ex.titles {
		if similarity(title, other) >= ex.threshold {
			return true
		}
	}
	return false
}

// normalizeString normalizes a string for comparison.
// Converts to lowercase, removes punctuation, and collapses whitespace.
func normalizeString(s string) string {
	s = fromSuffix.ReplaceAllString(s, "")
	s = strings.ToLower(s)

	s = strings.TrimSuffix(s, " (remastered)")
	s = strings.TrimSuffix(s, " (remaster)")
	s = strings.TrimSuffix(s, " - remastered")
	s = strings.TrimSuffix(s, " [remastered]")

	var result strings.Builder
	lastWasSpace := true // trims leading spaces

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) {
			result.WriteRune(r)
			lastWasSpace = false
		} else if unicode.IsSpace(r) || r == '-' || r == '_' {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		}
	}

	return strings.TrimSpace(result.String())
}

// similarity calculates the similarity between two strings using Levenshtein distance.
// Returns a value between 0 and 1, where 1 means identical.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	lenA := len([]rune(a))
	lenB := len([]rune(b))
	if lenA == 0 || lenB == 0 {
		return 0.0
	}

	dist := levenshteinDistance(a, b)
	return 1.0 - float64(dist)/float64(max(lenA, lenB))
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// two rows are enough
	prev := make([]int, lenB+1)
	curr := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prev[j] = j
	}

	for i := 1; i <= lenA; i++ {
		curr[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 1
			if runesA[i-1] == runesB[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[lenB]
}
