// Package lyrics parses LRC lyrics and finds them for a playing song.
package lyrics

import (
	"bufio"
	"cmp"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Line represents a single timestamped lyric line.
type Line struct {
	Time time.Duration
	Text string
}

// Lyrics contains parsed lyrics with optional metadata.
type Lyrics struct {
	Lines  []Line
	Title  string
	Artist string
	Album  string
}

// Plain builds unsynced lyrics from text, one line per non-empty row.
func Plain(text string) *Lyrics {
	l := &Lyrics{}
	for row := range strings.SplitSeq(text, "\n") {
		if row = strings.TrimSpace(row); row != "" {
			l.Lines = append(l.Lines, Line{Text: row})
		}
	}
	return l
}

// IsSynced returns true if any line has a non-zero timestamp.
func (l *Lyrics) IsSynced() bool {
	return slices.ContainsFunc(l.Lines, func(line Line) bool { return line.Time > 0 })
}

// LineAt returns the index of the lyric line at the given playback position.
// Returns -1 if no line is active yet or if lyrics are unsynced.
func (l *Lyrics) LineAt(pos time.Duration) int {
	if !l.IsSynced() {
		return -1
	}
	// first line starting after pos, minus one
	i, _ := slices.BinarySearchFunc(l.Lines, pos, func(line Line, p time.Duration) int {
		if line.Time <= p {
			return -1
		}
		return 1
	})
	return i - 1
}

var (
	// [mm:ss], [mm:ss.xx] or [mm:ss:xx]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// [ar:Artist Name]
	metadataRe = regexp.MustCompile(`^\[([a-z]+):(.+)\]$`)
)

// ParseLRC parses LRC format lyrics from a reader. Lines may carry several
// timestamps; an [offset:ms] tag shifts every timestamp, positive meaning
// earlier as the format defines.
func ParseLRC(r io.Reader) (*Lyrics, error) {
	lyrics := &Lyrics{}
	var offset time.Duration
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if meta := metadataRe.FindStringSubmatch(line); meta != nil && !timestampRe.MatchString(line) {
			value := strings.TrimSpace(meta[2])
			switch strings.ToLower(meta[1]) {
			case "ar":
				lyrics.Artist = value
			case "ti":
				lyrics.Title = value
			case "al":
				lyrics.Album = value
			case "offset":
				if ms, err := strconv.Atoi(value); err == nil {
					offset = time.Duration(ms) * time.Millisecond
				}
			}
			continue
		}

		matches := timestampRe.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}
		text := strings.TrimSpace(line[matches[len(matches)-1][1]:])

		for _, match := range matches {
			ts, err := parseTimestamp(line[match[0]:match[1]])
			if err != nil {
				continue
			}
			lyrics.Lines = append(lyrics.Lines, Line{Time: ts, Text: text})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if offset != 0 {
		for i := range lyrics.Lines {
			lyrics.Lines[i].Time = max(lyrics.Lines[i].Time-offset, 0)
		}
	}
	slices.SortStableFunc(lyrics.Lines, func(a, b Line) int { return cmp.Compare(a.Time, b.Time) })

	return lyrics, nil
}

// parseTimestamp parses a timestamp like [00:12.34] into a Duration.
func parseTimestamp(s string) (time.Duration, error) {
	m := timestampRe.FindStringSubmatch(s)
	if m == nil {
		return 0, nil
	}

	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, err
	}

	var millis int
	if frac := m[3]; frac != "" {
		millis, err = strconv.Atoi(frac)
		if err != nil {
			return 0, err
		}
		switch len(frac) {
		case 1:
			millis *= 100
		case 2:
			millis *= 10
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}
