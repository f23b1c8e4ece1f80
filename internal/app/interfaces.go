package app

import (
	"context"

	"github.com/deeksha1106/music-app/internal/catalog"
	"github.com/deeksha1106/music-app/internal/downloads"
	"github.com/deeksha1106/music-app/internal/playlist"
)

// Searcher finds songs in the remote catalog.
type Searcher interface {
	SearchSongs(ctx context.Context, query string, page, limit int) (catalog.SearchResult, error)
}

// Downloader saves songs for offline playback.
type Downloader interface {
	Download(ctx context.Context, track playlist.Track) (downloads.Record, error)
	List(ctx context.Context) []downloads.Record
	Remove(ctx context.Context, id string) error
	Rescan(ctx context.Context) (int, error)
	Folder() string
}

// Verify the implementations at compile time.
var (
	_ Searcher   = (*catalog.Client)(nil)
	_ Downloader = (*downloads.Manager)(nil)
)
