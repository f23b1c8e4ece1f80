// Package mpris exposes the player on the session bus as an MPRIS
// MediaPlayer2 so desktop media keys and applets can drive it.
package mpris

import (
	"context"
	"time"

	"github.com/deeksha1106/music-app/internal/playback"
)

// Controller is the part of the session the MPRIS adapter drives.
type Controller interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Toggle(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	SeekTo(ctx context.Context, pos time.Duration) error
	SeekBy(ctx context.Context, delta time.Duration) error
	SetShuffle(on bool)
	SetRepeatMode(mode playback.RepeatMode)
	Snapshot() playback.PlaybackState
	QueuePosition() (index, length int)
	Volume() float64
	SetVolume(ctx context.Context, level float64) float64
}
