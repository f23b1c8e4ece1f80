// internal/app/commands.go
package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/errmsg"
	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/playlist"
)

// WatchPlayback returns a command that waits for the next playback event.
// Update re-issues it after every event.
func WatchPlayback(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateChangedMsg(e)
		case e := <-sub.TrackChanged:
			return TrackChangedMsg(e)
		case e := <-sub.PositionChanged:
			return PositionChangedMsg(e)
		case e := <-sub.QueueChanged:
			return QueueChangedMsg(e)
		case e := <-sub.ModeChanged:
			return ModeChangedMsg(e)
		case e := <-sub.Error:
			return PlaybackErrorMsg(e)
		case <-sub.Done:
			return PlaybackClosedMsg{}
		}
	}
}

// WatchStderr returns a command that waits for captured stderr output.
func WatchStderr(lines <-chan string) tea.Cmd {
	if lines == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return nil
		}
		return StderrMsg{Line: line}
	}
}

// runOp runs a session operation off the update loop, since loading a
// track waits on the network.
func (m Model) runOp(op errmsg.Op, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return OpResultMsg{Op: op, Err: fn(ctx)}
	}
}

func (m Model) searchCmd(query string, page int) tea.Cmd {
	ctx, catalog, limit := m.ctx, m.catalog, m.pageSize
	return func() tea.Msg {
		res, err := catalog.SearchSongs(ctx, query, page, limit)
		return SearchResultMsg{Query: query, Page: page, Result: res, Err: err}
	}
}

func (m Model) downloadCmd(track playlist.Track) tea.Cmd {
	ctx, dl := m.ctx, m.downloads
	return func() tea.Msg {
		rec, err := dl.Download(ctx, track)
		return DownloadDoneMsg{Track: track, Record: rec, Err: err}
	}
}

func (m Model) listDownloadsCmd() tea.Cmd {
	ctx, dl := m.ctx, m.downloads
	return func() tea.Msg {
		return DownloadsLoadedMsg{Records: dl.List(ctx)}
	}
}

func (m Model) removeDownloadCmd(id string) tea.Cmd {
	ctx, dl := m.ctx, m.downloads
	return func() tea.Msg {
		return DownloadRemovedMsg{ID: id, Err: dl.Remove(ctx, id)}
	}
}

func (m Model) rescanCmd() tea.Cmd {
	ctx, dl := m.ctx, m.downloads
	return func() tea.Msg {
		n, err := dl.Rescan(ctx)
		return RescanDoneMsg{Added: n, Err: err}
	}
}

// radioFillCmd asks radio mode for tracks related to seed.
func (m Model) radioFillCmd(seed playlist.Track) tea.Cmd {
	ctx, r, queued := m.ctx, m.radio, m.session.Queue().Tracks()
	return func() tea.Msg {
		return RadioFillMsg(r.Fill(ctx, seed, queued))
	}
}
