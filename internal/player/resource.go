// internal/player/resource.go
package player

import (
	"context"
	"errors"
	"time"
)

// ErrUnloaded is returned by Resource methods called after Unload.
var ErrUnloaded = errors.New("audio resource unloaded")

// Status is a snapshot of a loaded audio resource.
type Status struct {
	Loaded        bool
	Position      time.Duration
	Duration      time.Duration
	Playing       bool
	DidJustFinish bool
	Looping       bool
}

// StatusFunc receives status updates from a resource. It may be called from
// any goroutine, including after Unload has returned.
type StatusFunc func(Status)

// Options controls how a resource starts.
type Options struct {
	PlayImmediately bool
}

// Loader creates audio resources from a URL.
type Loader interface {
	Load(ctx context.Context, url string, opts Options, onStatus StatusFunc) (Resource, error)
}

// Resource is a single loaded audio stream.
type Resource interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	SeekTo(ctx context.Context, pos time.Duration) error
	Status() Status
	Unload(ctx context.Context) error
}

// VolumeControl is implemented by loaders with an output level.
type VolumeControl interface {
	Volume() float64
	SetVolume(level float64)
}

// Verify BeepLoader implements Loader at compile time.
var (
	_ Loader        = (*BeepLoader)(nil)
	_ VolumeControl = (*BeepLoader)(nil)
	_ VolumeControl = (*MockLoader)(nil)
)
