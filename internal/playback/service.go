package playback

import (
	"context"
	"time"

	"github.com/deeksha1106/music-app/internal/playlist"
)

// Service defines the playback coordinator contract.
type Service interface {
	// Transport
	LoadAndPlay(ctx context.Context, track playlist.Track) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Toggle(ctx context.Context) error
	SeekTo(ctx context.Context, pos time.Duration) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error

	// Modes
	ToggleShuffle() bool
	SetShuffle(enabled bool)
	ToggleRepeat() RepeatMode
	SetRepeatMode(mode RepeatMode)

	// State
	Snapshot() PlaybackState

	// Events
	Subscribe() *Subscription
	Publish(e QueueChange)

	// Lifecycle
	Cleanup(ctx context.Context)
	Reset(ctx context.Context)
	Close() error
}

// Queue is the part of the queue manager the coordinator drives.
type Queue interface {
	Current() *playlist.Track
	CurrentIndex() int
	Len() int
	JumpTo(index int) *playlist.Track
}

// Verify the implementations at compile time.
var (
	_ Service = (*Coordinator)(nil)
	_ Queue   = (*playlist.Queue)(nil)
)
