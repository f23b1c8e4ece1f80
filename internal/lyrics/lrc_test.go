package lyrics

import (
	"strings"
	"testing"
	"time"
)

func TestParseLRC_Basic(t *testing.T) {
	lrc := `[ar:Arijit Singh]
[ti:Tum Hi Ho]
[al:Aashiqui 2]
[00:12.34]Hum tere bin ab reh nahi sakte
[00:15.67]Tere bina kya wajood mera
[00:20.00]Tujhse juda agar ho jaayenge`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}

	if lyrics.Artist != "Arijit Singh" || lyrics.Title != "Tum Hi Ho" || lyrics.Album != "Aashiqui 2" {
		t.Errorf("metadata = %q / %q / %q", lyrics.Artist, lyrics.Title, lyrics.Album)
	}

	want := []Line{
		{12*time.Second + 340*time.Millisecond, "Hum tere bin ab reh nahi sakte"},
		{15*time.Second + 670*time.Millisecond, "Tere bina kya wajood mera"},
		{20 * time.Second, "Tujhse juda agar ho jaayenge"},
	}
	if len(lyrics.Lines) != len(want) {
		t.Fatalf("len(Lines) = %d, want %d", len(lyrics.Lines), len(want))
	}
	for i := range want {
		if lyrics.Lines[i] != want[i] {
			t.Errorf("Lines[%d] = %+v, want %+v", i, lyrics.Lines[i], want[i])
		}
	}
}

func TestParseLRC_MultipleTimestamps(t *testing.T) {
	lrc := `[01:30.00][00:30.00][02:30.00]Chorus line
[00:45.00]Verse`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}

	var got []time.Duration
	for _, l := range lyrics.Lines {
		got = append(got, l.Time)
	}
	want := []time.Duration{30 * time.Second, 45 * time.Second, 90 * time.Second, 150 * time.Second}
	if len(got) != len(want) {
		t.Fatalf("times = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("times = %v, want %v", got, want)
			break
		}
	}
}

func TestParseTimestamp_Formats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"[00:10]", 10 * time.Second},
		{"[00:20.5]", 20*time.Second + 500*time.Millisecond},
		{"[00:30.50]", 30*time.Second + 500*time.Millisecond},
		{"[00:40.505]", 40*time.Second + 505*time.Millisecond},
		{"[01:00:25]", time.Minute + 250*time.Millisecond},
		{"not a timestamp", 0},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in)
		if err != nil {
			t.Errorf("parseTimestamp(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLRC_Offset(t *testing.T) {
	lrc := `[offset:+500]
[00:00.20]Intro
[00:10.00]First`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}

	if lyrics.Lines[0].Time != 0 {
		t.Errorf("Lines[0].Time = %v, want clamped to 0", lyrics.Lines[0].Time)
	}
	if lyrics.Lines[1].Time != 9500*time.Millisecond {
		t.Errorf("Lines[1].Time = %v, want 9.5s", lyrics.Lines[1].Time)
	}
}

func TestParseLRC_SkipsBlankAndUntimedLines(t *testing.T) {
	lrc := `[00:10.00]First

credits without a timestamp
[00:20.00]Second`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}
	if len(lyrics.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(lyrics.Lines))
	}
}

func TestPlain(t *testing.T) {
	l := Plain("Kesariya tera ishq hai piya\n\n  Rang jaaun jo main haath lagaaun  \n")

	if len(l.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(l.Lines))
	}
	if l.Lines[1].Text != "Rang jaaun jo main haath lagaaun" {
		t.Errorf("Lines[1] = %q", l.Lines[1].Text)
	}
	if l.IsSynced() {
		t.Error("plain lyrics reported as synced")
	}
	if got := l.LineAt(time.Minute); got != -1 {
		t.Errorf("LineAt on plain lyrics = %d, want -1", got)
	}
}

func TestLyrics_LineAt(t *testing.T) {
	lyrics := &Lyrics{
		Lines: []Line{
			{Time: 10 * time.Second, Text: "First"},
			{Time: 20 * time.Second, Text: "Second"},
			{Time: 30 * time.Second, Text: "Third"},
		},
	}

	tests := []struct {
		pos  time.Duration
		want int
	}{
		{0, -1},
		{5 * time.Second, -1},
		{10 * time.Second, 0},
		{15 * time.Second, 0},
		{20 * time.Second, 1},
		{25 * time.Second, 1},
		{30 * time.Second, 2},
		{60 * time.Second, 2},
	}

	for _, tt := range tests {
		if got := lyrics.LineAt(tt.pos); got != tt.want {
			t.Errorf("LineAt(%v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestLyrics_LineAt_Empty(t *testing.T) {
	lyrics := &Lyrics{}
	if got := lyrics.LineAt(10 * time.Second); got != -1 {
		t.Errorf("LineAt on empty lyrics = %d, want -1", got)
	}
}
