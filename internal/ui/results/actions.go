package results

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/ui/action"
)

// Source names this panel in action messages.
const Source = "results"

// Search requests a page of results for Query. Page 1 replaces the list,
// later pages append to it.
type Search struct {
	Query string
	Page  int
}

// ActionType implements action.Action.
func (Search) ActionType() string { return "results.search" }

// PlayFrom replaces the queue with Tracks and plays Tracks[Index].
type PlayFrom struct {
	Tracks []playlist.Track
	Index  int
}

// ActionType implements action.Action.
func (PlayFrom) ActionType() string { return "results.play_from" }

// Enqueue appends Track to the queue.
type Enqueue struct {
	Track playlist.Track
}

// ActionType implements action.Action.
func (Enqueue) ActionType() string { return "results.enqueue" }

// Download saves Track for offline playback.
type Download struct {
	Track playlist.Track
}

// ActionType implements action.Action.
func (Download) ActionType() string { return "results.download" }

func send(a action.Action) tea.Cmd {
	return action.Cmd(Source, a)
}
