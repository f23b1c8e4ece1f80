package radio

import (
	"math/rand/v2"
	"sort"

	"github.com/deeksha1106/music-app/internal/playlist"
)

// rankDecay lowers the score of suggestions further down the list.
const rankDecay = 0.2

// Candidate represents a potential track to add to the queue.
type Candidate struct {
	Track          playlist.Track
	Rank           int  // position in the suggestion list
	RecentlyPlayed bool // played within the decay window
	Score          float64
}

// buildCandidates scores suggestions, dropping excluded tracks and
// duplicates within the list.
func buildCandidates(suggestions []playlist.Track, ex *exclusions, recent []playlist.Track, decayFactor float64) []Candidate {
	seen := ex.clone()
	recentIDs := make(map[string]bool, len(recent))
	for _, t := range recent {
		recentIDs[t.ID] = true
	}

	var candidates []Candidate
	for i, t := range suggestions {
		if t.ID == "" || len(t.Sources) == 0 || seen.excludes(t) {
			continue
		}
		seen.add(t)

		c := Candidate{Track: t, Rank: i, RecentlyPlayed: recentIDs[t.ID]}
		c.Score = calculateScore(c, decayFactor)
		candidates = append(candidates, c)
	}
	return candidates
}

// calculateScore favors suggestions ranked first and penalizes tracks
// heard recently.
func calculateScore(c Candidate, decayFactor float64) float64 {
	score := 1 / (1 + rankDecay*float64(c.Rank))
	if c.RecentlyPlayed {
		score *= decayFactor
	}
	return score
}

// selectTracks selects tracks from candidates using weighted random selection.
// Returns up to count tracks, avoiding duplicates and enforcing artist variety.
// artistCounts holds how often each normalized artist appeared recently.
func selectTracks(candidates []Candidate, count int, artistCounts map[string]int, maxArtistRepeat int) []Candidate {
	if len(candidates) == 0 || count <= 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	totalScore := 0.0
	for i := range candidates {
		totalScore += candidates[i].Score
	}
	if totalScore == 0 {
		totalScore = float64(len(candidates))
		for i := range candidates {
			candidates[i].Score = 1.0
		}
	}

	selected := make([]Candidate, 0, count)
	used := make(map[string]bool)
	batchArtists := make(map[string]int)

	maxAttempts := count * 10
	for len(selected) < count && len(used) < len(candidates) && maxAttempts > 0 {
		maxAttempts--

		r := rand.Float64() * totalScore //nolint:gosec // crypto not needed for music selection
		cumulative := 0.0

		for i := range candidates {
			c := &candidates[i]
			if used[c.Track.ID] {
				continue
			}
			artist := normalizeString(c.Track.Artist)
			if maxArtistRepeat > 0 && artistCounts[artist]+batchArtists[artist] >= maxArtistRepeat {
				continue
			}

			cumulative += c.Score
			if r <= cumulative {
				selected = append(selected, *c)
				used[c.Track.ID] = true
				batchArtists[artist]++
				totalScore -= c.Score
				break
			}
		}
	}

	return selected
}
