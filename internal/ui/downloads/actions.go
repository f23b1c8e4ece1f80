package downloads

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/downloads"
	"github.com/deeksha1106/music-app/internal/ui/action"
)

// Source names this panel in action messages.
const Source = "downloads"

// PlayFrom plays the downloaded songs starting at Index.
type PlayFrom struct {
	Records []downloads.Record
	Index   int
}

// ActionType implements action.Action.
func (PlayFrom) ActionType() string { return "downloads.play_from" }

// Enqueue appends a downloaded song to the queue.
type Enqueue struct {
	Record downloads.Record
}

// ActionType implements action.Action.
func (Enqueue) ActionType() string { return "downloads.enqueue" }

// DeleteDownload removes a downloaded song and its file.
type DeleteDownload struct {
	ID string
}

// ActionType implements action.Action.
func (DeleteDownload) ActionType() string { return "downloads.delete" }

// Rescan looks for untracked files in the download folder.
type Rescan struct{}

// ActionType implements action.Action.
func (Rescan) ActionType() string { return "downloads.rescan" }

func send(a action.Action) tea.Cmd {
	return action.Cmd(Source, a)
}
