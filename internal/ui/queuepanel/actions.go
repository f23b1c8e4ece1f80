package queuepanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/ui/action"
)

// Source names this panel in action messages.
const Source = "queuepanel"

// JumpToTrack requests playback of the queue entry at Index.
type JumpToTrack struct {
	Index int
}

// ActionType implements action.Action.
func (JumpToTrack) ActionType() string { return "queuepanel.jump_to_track" }

// RemoveTrack requests removal of the entry at Index.
type RemoveTrack struct {
	Index int
}

// ActionType implements action.Action.
func (RemoveTrack) ActionType() string { return "queuepanel.remove_track" }

// MoveTrack requests moving the entry at From to To.
type MoveTrack struct {
	From, To int
}

// ActionType implements action.Action.
func (MoveTrack) ActionType() string { return "queuepanel.move_track" }

// ClearQueue requests emptying the queue.
type ClearQueue struct{}

// ActionType implements action.Action.
func (ClearQueue) ActionType() string { return "queuepanel.clear" }

// DownloadTrack requests saving the entry's track for offline playback.
type DownloadTrack struct {
	Track playlist.Track
}

// ActionType implements action.Action.
func (DownloadTrack) ActionType() string { return "queuepanel.download" }

func send(a action.Action) tea.Cmd {
	return action.Cmd(Source, a)
}
