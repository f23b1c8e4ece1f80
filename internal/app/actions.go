// internal/app/actions.go
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/errmsg"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/ui/action"
	dlview "github.com/deeksha1106/music-app/internal/ui/downloads"
	"github.com/deeksha1106/music-app/internal/ui/queuepanel"
	"github.com/deeksha1106/music-app/internal/ui/results"
)

const (
	seekStep    = 5 * time.Second
	seekStepFar = 30 * time.Second
)

// handleAction routes panel actions to the session, the catalog and the
// download manager.
func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	s := m.session
	switch a := msg.Action.(type) {
	// Search results
	case results.Search:
		if a.Page <= 1 {
			m.results.SetLoading(true)
		}
		return m, m.searchCmd(a.Query, a.Page)
	case results.PlayFrom:
		return m, m.playList(a.Tracks, a.Index)
	case results.Enqueue:
		s.Enqueue(a.Track)
		m.status = "Added " + a.Track.Name
	case results.Download:
		cmd := m.startDownload(a.Track)
		return m, cmd

	// Queue
	case queuepanel.JumpToTrack:
		return m, m.runOp(errmsg.OpPlaybackStart, func(ctx context.Context) error {
			return s.PlayIndex(ctx, a.Index)
		})
	case queuepanel.RemoveTrack:
		return m, m.runOp(errmsg.OpQueueRemove, func(ctx context.Context) error {
			return s.Remove(ctx, a.Index)
		})
	case queuepanel.MoveTrack:
		if err := s.Move(a.From, a.To); err != nil {
			m.setError(errmsg.Format(errmsg.OpQueueMove, err))
		}
	case queuepanel.ClearQueue:
		return m, m.runOp(errmsg.OpQueueRemove, func(ctx context.Context) error {
			s.Clear(ctx)
			return nil
		})
	case queuepanel.DownloadTrack:
		cmd := m.startDownload(a.Track)
		return m, cmd

	// Downloads
	case dlview.PlayFrom:
		tracks := make([]playlist.Track, len(a.Records))
		for i, r := range a.Records {
			tracks[i] = r.LocalTrack()
		}
		return m, m.playList(tracks, a.Index)
	case dlview.Enqueue:
		s.Enqueue(a.Record.LocalTrack())
		m.status = "Added " + a.Record.Track.Name
	case dlview.DeleteDownload:
		return m, m.removeDownloadCmd(a.ID)
	case dlview.Rescan:
		m.status = "Scanning " + m.downloads.Folder()
		return m, m.rescanCmd()
	}
	return m, nil
}

func (m Model) playList(tracks []playlist.Track, start int) tea.Cmd {
	s := m.session
	return m.runOp(errmsg.OpPlaybackStart, func(ctx context.Context) error {
		return s.PlayList(ctx, tracks, start)
	})
}

func (m Model) seekCmd(delta time.Duration) tea.Cmd {
	s := m.session
	return m.runOp(errmsg.OpPlaybackSeek, func(ctx context.Context) error {
		return s.SeekBy(ctx, delta)
	})
}

func (m *Model) startDownload(track playlist.Track) tea.Cmd {
	m.downloadsV.StartPending(track.ID, track.Name)
	m.status = "Downloading " + track.Name
	return m.downloadCmd(track)
}

func (m Model) handleDownloadDone(msg DownloadDoneMsg) (tea.Model, tea.Cmd) {
	m.downloadsV.FinishPending(msg.Track.ID)
	if msg.Err != nil {
		m.setError(errmsg.FormatWith(errmsg.OpDownload, msg.Track.Name, msg.Err))
		return m, nil
	}
	m.status = "Downloaded " + msg.Track.Name
	return m, m.listDownloadsCmd()
}

func (m *Model) handleSearchResult(msg SearchResultMsg) {
	if msg.Page > 1 && msg.Query != m.results.Query() {
		return
	}
	if msg.Err != nil {
		m.results.SetError(errmsg.FormatWith(errmsg.OpCatalogSearch, msg.Query, msg.Err))
		return
	}
	m.results.SetResults(msg.Query, msg.Page, msg.Result.Tracks, msg.Result.Total)
}
