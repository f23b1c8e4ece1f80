// internal/app/update.go
package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/errmsg"
	"github.com/deeksha1106/music-app/internal/keymap"
	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/ui"
	"github.com/deeksha1106/music-app/internal/ui/action"
	"github.com/deeksha1106/music-app/internal/ui/headerbar"
	lyricsview "github.com/deeksha1106/music-app/internal/ui/lyrics"
	"github.com/deeksha1106/music-app/internal/ui/playerbar"
)

var globalKeys = keymap.ForContexts(keymap.ContextGlobal, keymap.ContextPlayback)

// Update handles messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case action.Msg:
		return m.handleAction(msg)

	case SearchResultMsg:
		m.handleSearchResult(msg)
		return m, nil

	case DownloadDoneMsg:
		return m.handleDownloadDone(msg)

	case DownloadsLoadedMsg:
		m.downloadsV.SetRecords(msg.Records)
		ids := make(map[string]bool, len(msg.Records))
		for _, r := range msg.Records {
			ids[r.Track.ID] = true
		}
		m.results.SetDownloaded(ids)
		return m, nil

	case DownloadRemovedMsg:
		if msg.Err != nil {
			m.setError(errmsg.Format(errmsg.OpDownloadDelete, msg.Err))
			return m, nil
		}
		return m, m.listDownloadsCmd()

	case RescanDoneMsg:
		if msg.Err != nil {
			m.setError(errmsg.Format(errmsg.OpDownloadList, msg.Err))
			return m, nil
		}
		m.status = fmt.Sprintf("Found %d new file(s)", msg.Added)
		return m, m.listDownloadsCmd()

	case OpResultMsg:
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) && !errors.Is(msg.Err, playback.ErrClosed) {
			m.setError(errmsg.Format(msg.Op, msg.Err))
		}
		return m, nil

	case lyricsview.FetchedMsg:
		m.lyricsV.HandleFetched(msg)
		if msg.Result.Err != nil {
			m.log.Debug("lyrics lookup failed", "track", msg.TrackID, "error", msg.Result.Err)
		}
		return m, nil

	case RadioFillMsg:
		m.handleRadioFill(msg)
		return m, nil

	case StderrMsg:
		m.status = msg.Line
		return m, WatchStderr(m.stderr)

	case PlaybackClosedMsg:
		return m, nil
	}

	if handled, cmd := m.handlePlaybackEvent(msg); handled {
		return m, tea.Batch(WatchPlayback(m.sub), cmd)
	}
	return m, nil
}

func (m *Model) handlePlaybackEvent(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case StateChangedMsg:
		// the player bar reads the live snapshot
	case PositionChangedMsg:
		m.lyricsV.SetPosition(msg.Position, msg.Duration)
	case TrackChangedMsg:
		m.errText = ""
		return true, tea.Batch(m.radioTrackStarted(msg.Current), m.refreshLyrics(msg.Current))
	case QueueChangedMsg:
		m.queue.SetQueue(playback.QueueChange(msg))
	case ModeChangedMsg:
		m.queue.SetModes(playback.ModeChange(msg))
	case PlaybackErrorMsg:
		op := errmsg.OpPlaybackStart
		if msg.Operation == "seek" {
			op = errmsg.OpPlaybackSeek
		}
		name := msg.TrackID
		if snap := m.session.Snapshot(); snap.Track != nil && snap.Track.ID == msg.TrackID {
			name = snap.Track.Name
		}
		m.setError(errmsg.FormatWith(op, name, msg.Err))
	default:
		return false, nil
	}
	return true, nil
}

// refreshLyrics looks up lyrics for t while the lyrics view is shown.
func (m *Model) refreshLyrics(t *playlist.Track) tea.Cmd {
	if m.viewMode != headerbar.ModeLyrics {
		return nil
	}
	return m.lyricsV.SetTrack(m.ctx, t)
}

// radioTrackStarted records the started track and, when it is the last one
// queued, asks radio mode for more.
func (m *Model) radioTrackStarted(t *playlist.Track) tea.Cmd {
	if m.radio == nil || t == nil {
		return nil
	}
	m.radio.MarkPlayed(*t)
	return m.maybeFillRadio(*t)
}

func (m *Model) maybeFillRadio(seed playlist.Track) tea.Cmd {
	if m.radioFilling || !m.radio.ShouldFill(m.session.QueuePosition()) {
		return nil
	}
	m.radioFilling = true
	return m.radioFillCmd(seed)
}

func (m *Model) handleRadioFill(msg RadioFillMsg) {
	m.radioFilling = false
	switch {
	case msg.Err != nil:
		if !errors.Is(msg.Err, context.Canceled) {
			m.setError(errmsg.Format(errmsg.OpCatalogSuggestions, msg.Err))
		}
	case len(msg.Tracks) > 0:
		if !m.radio.IsEnabled() {
			return
		}
		m.session.Enqueue(msg.Tracks...)
		m.status = fmt.Sprintf("Radio added %d song(s)", len(msg.Tracks))
	case msg.Message != "":
		m.status = "Radio: " + msg.Message
	}
}

func (m *Model) toggleRadio() tea.Cmd {
	if m.radio == nil {
		m.status = "Radio unavailable"
		return nil
	}
	on := m.radio.Toggle()
	m.queue.SetRadio(on)
	if !on {
		m.status = "Radio off"
		return nil
	}
	m.status = "Radio on"
	snap := m.session.Snapshot()
	if snap.Track == nil {
		return nil
	}
	m.radio.MarkPlayed(*snap.Track)
	return m.maybeFillRadio(*snap.Track)
}

// resize lays out the main panel and the queue side by side between the
// header and the player bar. The queue is hidden on narrow terminals.
func (m *Model) resize() {
	height := max(m.height-headerbar.Height-playerbar.Height, 0)
	queueWidth := m.width / ui.QueueWidthDivisor
	m.queueVisible = queueWidth >= ui.MinQueueWidth
	if !m.queueVisible {
		queueWidth = 0
		if m.focus == FocusQueue {
			m.focus = FocusMain
			m.applyFocus()
		}
	}
	mainWidth := m.width - queueWidth

	m.results.SetSize(mainWidth, height)
	m.downloadsV.SetSize(mainWidth, height)
	m.lyricsV.SetSize(mainWidth, height)
	m.queue.SetSize(queueWidth, height)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.viewMode == headerbar.ModeSearch && m.results.IsEditing() {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	if cmd, ok := m.handleGlobalKey(key); ok {
		return m, cmd
	}
	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.focus == FocusQueue:
		m.queue, cmd = m.queue.Update(msg)
	case m.viewMode == headerbar.ModeDownloads:
		m.downloadsV, cmd = m.downloadsV.Update(msg)
	case m.viewMode == headerbar.ModeLyrics:
		m.lyricsV, cmd = m.lyricsV.Update(msg)
	default:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleGlobalKey(key string) (tea.Cmd, bool) {
	s := m.session
	switch globalKeys.Resolve(key) { //nolint:exhaustive // list actions belong to the panels
	case keymap.ActionQuit:
		return tea.Quit, true
	case keymap.ActionSwitchFocus:
		m.toggleFocus()
	case keymap.ActionSearch:
		m.setViewMode(headerbar.ModeSearch)
		return m.results.StartSearch(), true
	case keymap.ActionHelp:
		m.showHelp = true
	case keymap.ActionViewSearch:
		m.setViewMode(headerbar.ModeSearch)
	case keymap.ActionViewDownloads:
		m.setViewMode(headerbar.ModeDownloads)
		return m.listDownloadsCmd(), true
	case keymap.ActionViewLyrics:
		m.setViewMode(headerbar.ModeLyrics)
		return m.refreshLyrics(m.session.Snapshot().Track), true
	case keymap.ActionPlayPause:
		return m.runOp(errmsg.OpPlaybackToggle, s.Toggle), true
	case keymap.ActionNextTrack:
		return m.runOp(errmsg.OpPlaybackNext, s.Next), true
	case keymap.ActionPrevTrack:
		return m.runOp(errmsg.OpPlaybackPrev, s.Previous), true
	case keymap.ActionSeekForward:
		return m.seekCmd(seekStep), true
	case keymap.ActionSeekBack:
		return m.seekCmd(-seekStep), true
	case keymap.ActionSeekForwardFar:
		return m.seekCmd(seekStepFar), true
	case keymap.ActionSeekBackFar:
		return m.seekCmd(-seekStepFar), true
	case keymap.ActionCycleRepeat:
		m.status = "Repeat: " + s.ToggleRepeat().String()
	case keymap.ActionToggleShuffle:
		if s.ToggleShuffle() {
			m.status = "Shuffle on"
		} else {
			m.status = "Shuffle off"
		}
	case keymap.ActionToggleRadio:
		return m.toggleRadio(), true
	case keymap.ActionVolumeUp:
		m.setVolume(s.Volume() + volumeStep)
	case keymap.ActionVolumeDown:
		m.setVolume(s.Volume() - volumeStep)
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) setVolume(level float64) {
	level = m.session.SetVolume(m.ctx, level)
	m.status = fmt.Sprintf("Volume %d%%", int(level*100+0.5))
}
