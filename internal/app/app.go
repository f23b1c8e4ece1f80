// internal/app/app.go
package app

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/radio"
	"github.com/deeksha1106/music-app/internal/session"
	"github.com/deeksha1106/music-app/internal/ui/downloads"
	"github.com/deeksha1106/music-app/internal/ui/headerbar"
	lyricsview "github.com/deeksha1106/music-app/internal/ui/lyrics"
	"github.com/deeksha1106/music-app/internal/ui/queuepanel"
	"github.com/deeksha1106/music-app/internal/ui/results"
)

// DefaultPageSize is used when Deps.PageSize is zero.
const DefaultPageSize = 20

// volumeStep is the change applied by one volume key press.
const volumeStep = 0.05

// FocusTarget names the panel receiving list keys.
type FocusTarget int

const (
	FocusMain FocusTarget = iota
	FocusQueue
)

// Deps holds the collaborators of the TUI.
type Deps struct {
	Context   context.Context
	Session   *session.Session
	Catalog   Searcher
	Downloads Downloader
	Lyrics    lyricsview.Fetcher // nil shows lyrics as unavailable
	Radio     *radio.Radio       // nil disables radio mode
	Stderr    <-chan string      // captured output of audio libraries, may be nil
	PageSize  int
	Logger    *slog.Logger
}

// Model is the root application model.
type Model struct {
	ctx       context.Context
	session   *session.Session
	catalog   Searcher
	downloads Downloader
	radio     *radio.Radio
	stderr    <-chan string
	sub       *playback.Subscription
	pageSize  int
	log       *slog.Logger

	results    results.Model
	queue      queuepanel.Model
	downloadsV downloads.Model
	lyricsV    lyricsview.Model

	viewMode     string
	focus        FocusTarget
	queueVisible bool
	showHelp     bool
	status       string
	errText      string
	radioFilling bool

	width  int
	height int
}

// New builds the model and subscribes to playback events.
func New(d Deps) Model {
	ctx := d.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	pageSize := d.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	m := Model{
		ctx:          ctx,
		session:      d.Session,
		catalog:      d.Catalog,
		downloads:    d.Downloads,
		radio:        d.Radio,
		stderr:       d.Stderr,
		sub:          d.Session.Playback().Subscribe(),
		pageSize:     pageSize,
		log:          log.With("component", "app"),
		results:      results.New(),
		queue:        queuepanel.New(),
		downloadsV:   downloads.New(d.Downloads.Folder()),
		lyricsV:      lyricsview.New(d.Lyrics),
		viewMode:     headerbar.ModeSearch,
		queueVisible: true,
	}

	tracks := d.Session.Queue().Tracks()
	m.queue.SetQueue(playback.QueueChange{Tracks: tracks, Index: d.Session.Queue().CurrentIndex()})
	snap := d.Session.Snapshot()
	m.queue.SetModes(playback.ModeChange{RepeatMode: snap.Repeat, Shuffle: snap.Shuffle})
	m.queue.SetRadio(m.RadioEnabled())
	m.applyFocus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		WatchPlayback(m.sub),
		WatchStderr(m.stderr),
		m.listDownloadsCmd(),
	)
}

// Focus returns the focused panel.
func (m Model) Focus() FocusTarget {
	return m.focus
}

// ViewMode returns the main panel shown, one of the headerbar modes.
func (m Model) ViewMode() string {
	return m.viewMode
}

// RadioEnabled reports whether radio mode is on.
func (m Model) RadioEnabled() bool {
	return m.radio != nil && m.radio.IsEnabled()
}

// ErrorText returns the last error shown to the user.
func (m Model) ErrorText() string {
	return m.errText
}

func (m *Model) setViewMode(mode string) {
	m.viewMode = mode
	m.focus = FocusMain
	m.applyFocus()
}

func (m *Model) toggleFocus() {
	if !m.queueVisible || m.focus == FocusQueue {
		m.focus = FocusMain
	} else {
		m.focus = FocusQueue
	}
	m.applyFocus()
}

func (m *Model) applyFocus() {
	main := m.focus == FocusMain
	m.results.SetFocused(main && m.viewMode == headerbar.ModeSearch)
	m.downloadsV.SetFocused(main && m.viewMode == headerbar.ModeDownloads)
	m.lyricsV.SetFocused(main && m.viewMode == headerbar.ModeLyrics)
	m.queue.SetFocused(m.focus == FocusQueue)
}

func (m *Model) setError(msg string) {
	m.errText = msg
	if msg != "" {
		m.log.Warn(msg)
	}
}
