// Package action defines the messages panels send to the app.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action is something a panel asks the app to do.
type Action interface {
	ActionType() string
}

// Msg wraps an action with the name of the panel that sent it.
type Msg struct {
	Source string // "results", "queuepanel", "downloads"
	Action Action
}

var _ tea.Msg = Msg{}

// Cmd returns a command delivering a as a Msg from source.
func Cmd(source string, a Action) tea.Cmd {
	return func() tea.Msg { return Msg{Source: source, Action: a} }
}
