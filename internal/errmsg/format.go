// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogSearch      Op = "search songs"
	OpCatalogSong        Op = "load song"
	OpCatalogSuggestions Op = "load suggestions"

	// Queue operations
	OpQueueLoad   Op = "load queue"
	OpQueueSave   Op = "save queue"
	OpQueueAdd    Op = "add to queue"
	OpQueueRemove Op = "remove from queue"
	OpQueueMove   Op = "reorder queue"

	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackToggle Op = "play/pause"
	OpPlaybackSeek   Op = "seek"
	OpPlaybackNext   Op = "skip to next track"
	OpPlaybackPrev   Op = "go to previous track"

	// Download operations
	OpDownload       Op = "download song"
	OpDownloadDelete Op = "delete download"
	OpDownloadList   Op = "load downloads"

	// Last.fm
	OpLastfmAuth       Op = "authenticate with Last.fm"
	OpLastfmScrobble   Op = "scrobble"
	OpLastfmNowPlaying Op = "update now playing"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
