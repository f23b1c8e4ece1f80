//go:build linux

package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/playlist"
)

// busName is appended to org.mpris.MediaPlayer2.
const busName = "musicapp"

// commandTimeout bounds a single bus-triggered command, which may load audio.
const commandTimeout = 30 * time.Second

// Adapter connects a Controller to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(ctrl Controller) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer(busName, &rootAdapter{}, &playerAdapter{ctrl: ctrl}),
	}

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil
}

func (r *rootAdapter) Quit() error {
	return nil // the TUI owns its lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Music App", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mp4", "audio/aac", "audio/mpeg", "audio/flac"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and the loop
// status and shuffle extensions.
type playerAdapter struct {
	ctrl Controller
}

func (p *playerAdapter) run(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return fn(ctx)
}

func (p *playerAdapter) Next() error {
	return p.run(p.ctrl.Next)
}

func (p *playerAdapter) Previous() error {
	return p.run(p.ctrl.Previous)
}

func (p *playerAdapter) Pause() error {
	return p.run(p.ctrl.Pause)
}

func (p *playerAdapter) PlayPause() error {
	return p.run(p.ctrl.Toggle)
}

// Stop pauses; the coordinator has no stopped state distinct from paused.
func (p *playerAdapter) Stop() error {
	return p.run(p.ctrl.Pause)
}

func (p *playerAdapter) Play() error {
	return p.run(p.ctrl.Play)
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.run(func(ctx context.Context) error {
		return p.ctrl.SeekBy(ctx, time.Duration(offset)*time.Microsecond)
	})
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.run(func(ctx context.Context) error {
		return p.ctrl.SeekTo(ctx, time.Duration(position)*time.Microsecond)
	})
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.ctrl.Snapshot().State()), nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.ctrl.Snapshot()), nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.ctrl.Volume(), nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	return p.run(func(ctx context.Context) error {
		p.ctrl.SetVolume(ctx, v)
		return nil
	})
}

func (p *playerAdapter) Position() (int64, error) {
	return p.ctrl.Snapshot().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	index, length := p.ctrl.QueuePosition()
	return canGoNext(index, length, p.ctrl.Snapshot().Repeat), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	_, length := p.ctrl.QueuePosition()
	return length > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	_, length := p.ctrl.QueuePosition()
	return length > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.ctrl.Snapshot().Duration > 0, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	return loopStatus(p.ctrl.Snapshot().Repeat), nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	p.ctrl.SetRepeatMode(repeatMode(status))
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.ctrl.Snapshot().Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	p.ctrl.SetShuffle(shuffle)
	return nil
}

func playbackStatus(s playback.State) types.PlaybackStatus {
	switch s {
	case playback.StatePlaying, playback.StateLoading:
		return types.PlaybackStatusPlaying
	case playback.StatePaused:
		return types.PlaybackStatusPaused
	case playback.StateIdle:
		return types.PlaybackStatusStopped
	}
	return types.PlaybackStatusStopped
}

func loopStatus(mode playback.RepeatMode) types.LoopStatus {
	switch mode {
	case playback.RepeatOne:
		return types.LoopStatusTrack
	case playback.RepeatAll:
		return types.LoopStatusPlaylist
	case playback.RepeatOff:
		return types.LoopStatusNone
	}
	return types.LoopStatusNone
}

func repeatMode(status types.LoopStatus) playback.RepeatMode {
	switch status {
	case types.LoopStatusTrack:
		return playback.RepeatOne
	case types.LoopStatusPlaylist:
		return playback.RepeatAll
	case types.LoopStatusNone:
		return playback.RepeatOff
	}
	return playback.RepeatOff
}

func canGoNext(index, length int, mode playback.RepeatMode) bool {
	if length == 0 {
		return false
	}
	return mode != playback.RepeatOff || index < length-1
}

func metadata(st playback.PlaybackState) types.Metadata {
	t := st.Track
	if t == nil {
		return types.Metadata{}
	}

	length := t.Duration
	if st.Duration > 0 {
		length = st.Duration
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(t.ID)),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   t.Name,
		Album:   t.Album,
	}
	if t.Artist != "" {
		meta.Artist = []string{t.Artist}
	}
	if art := artURL(t); art != "" {
		meta.ArtUrl = art
	}
	return meta
}

func artURL(t *playlist.Track) string {
	if v, ok := t.BestArtwork(); ok {
		return v.URL
	}
	return ""
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
