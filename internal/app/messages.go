// Package app is the terminal front end: it wires the search, downloads and
// queue panels to the playback session.
package app

import (
	"github.com/deeksha1106/music-app/internal/catalog"
	"github.com/deeksha1106/music-app/internal/downloads"
	"github.com/deeksha1106/music-app/internal/errmsg"
	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/radio"
)

// SearchResultMsg carries a page of catalog results.
type SearchResultMsg struct {
	Query  string
	Page   int
	Result catalog.SearchResult
	Err    error
}

// DownloadDoneMsg is sent when a download finishes or fails.
type DownloadDoneMsg struct {
	Track  playlist.Track
	Record downloads.Record
	Err    error
}

// DownloadsLoadedMsg carries the current download records.
type DownloadsLoadedMsg struct {
	Records []downloads.Record
}

// DownloadRemovedMsg is sent after a download was deleted.
type DownloadRemovedMsg struct {
	ID  string
	Err error
}

// RescanDoneMsg reports how many files a rescan adopted.
type RescanDoneMsg struct {
	Added int
	Err   error
}

// RadioFillMsg carries the tracks radio mode picked for the queue.
type RadioFillMsg radio.FillResult

// OpResultMsg reports the outcome of a session operation run in the
// background.
type OpResultMsg struct {
	Op  errmsg.Op
	Err error
}

// Playback event messages, one per subscription channel.
type (
	StateChangedMsg    playback.StateChange
	TrackChangedMsg    playback.TrackChange
	PositionChangedMsg playback.PositionChange
	QueueChangedMsg    playback.QueueChange
	ModeChangedMsg     playback.ModeChange
	PlaybackErrorMsg   playback.ErrorEvent
)

// PlaybackClosedMsg is sent once the coordinator shut down.
type PlaybackClosedMsg struct{}

// StderrMsg is sent when audio libraries write to stderr.
type StderrMsg struct {
	Line string
}
