//nolint:goconst // test file with repeated string literals
package playlist

import (
	"testing"
)

func ids(tracks []Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(got []Track, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].ID != want[i] {
			return false
		}
	}
	return true
}

func TestNewPlaylist(t *testing.T) {
	p := NewPlaylist()

	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0", p.Len())
	}
	if p.Tracks() == nil {
		t.Error("Tracks() should return empty slice, not nil")
	}
}

func TestPlaylist_Add_AllowsDuplicates(t *testing.T) {
	p := NewPlaylist()

	p.Add(Track{ID: "a"}, Track{ID: "b"}, Track{ID: "a"})

	if !equalIDs(p.Tracks(), "a", "b", "a") {
		t.Errorf("Tracks() = %v, want [a b a]", ids(p.Tracks()))
	}
}

func TestPlaylist_Set_Copies(t *testing.T) {
	p := NewPlaylist()
	src := []Track{{ID: "a"}, {ID: "b"}}

	p.Set(src)
	src[0].ID = "changed"

	if p.Track(0).ID != "a" {
		t.Errorf("Track(0).ID = %q, want a (Set must copy)", p.Track(0).ID)
	}
}

func TestPlaylist_Remove(t *testing.T) {
	p := NewPlaylist()
	p.Add(Track{ID: "a"}, Track{ID: "b"}, Track{ID: "c"})

	if !p.Remove(1) {
		t.Error("Remove should return true")
	}
	if !equalIDs(p.Tracks(), "a", "c") {
		t.Errorf("Tracks() = %v, want [a c]", ids(p.Tracks()))
	}
}

func TestPlaylist_Remove_InvalidIndex(t *testing.T) {
	p := NewPlaylist()
	p.Add(Track{ID: "a"})

	for _, idx := range []int{-1, 1, 10} {
		if p.Remove(idx) {
			t.Errorf("Remove(%d) should return false", idx)
		}
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestPlaylist_Tracks_ReturnsCopy(t *testing.T) {
	p := NewPlaylist()
	p.Add(Track{ID: "a"})

	tracks := p.Tracks()
	tracks[0].ID = "modified"

	if p.Track(0).ID != "a" {
		t.Error("Tracks() should return a copy")
	}
}

func TestPlaylist_Track_InvalidIndex(t *testing.T) {
	p := NewPlaylist()
	p.Add(Track{ID: "a"})

	if p.Track(-1) != nil || p.Track(1) != nil {
		t.Error("Track() with invalid index should return nil")
	}
}

func TestPlaylist_Move(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"move forward", 0, 2, []string{"b", "c", "a"}},
		{"move backward", 2, 0, []string{"c", "a", "b"}},
		{"move to same position", 1, 1, []string{"a", "b", "c"}},
		{"adjacent swap", 0, 1, []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlaylist()
			p.Add(Track{ID: "a"}, Track{ID: "b"}, Track{ID: "c"})

			if !p.Move(tt.from, tt.to) {
				t.Fatal("Move should return true")
			}
			if !equalIDs(p.Tracks(), tt.want...) {
				t.Errorf("Tracks() = %v, want %v", ids(p.Tracks()), tt.want)
			}
		})
	}
}

func TestPlaylist_Move_InvalidIndex(t *testing.T) {
	p := NewPlaylist()
	p.Add(Track{ID: "a"}, Track{ID: "b"})

	tests := []struct {
		name string
		from int
		to   int
	}{
		{"negative from", -1, 0},
		{"negative to", 0, -1},
		{"from out of bounds", 5, 0},
		{"to out of bounds", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p.Move(tt.from, tt.to) {
				t.Error("Move with invalid index should return false")
			}
		})
	}
}
