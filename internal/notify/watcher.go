package notify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/deeksha1106/music-app/internal/playback"
	"github.com/deeksha1106/music-app/internal/playlist"
)

// notificationTimeout is how long a track notification stays up, in ms.
const notificationTimeout = 5000

// TrackNotifier shows a notification whenever a new track starts, replacing
// the previous one.
type TrackNotifier struct {
	notifier Notifier
	art      *ArtworkCache
	log      *slog.Logger

	lastID uint32
}

// NewTrackNotifier creates a TrackNotifier. art may be nil to skip icons.
func NewTrackNotifier(n Notifier, art *ArtworkCache, log *slog.Logger) *TrackNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &TrackNotifier{notifier: n, art: art, log: log}
}

// Run shows notifications for track changes on sub until it is closed or
// ctx is done.
func (t *TrackNotifier) Run(ctx context.Context, sub *playback.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TrackChanged:
			if e.Current != nil {
				t.TrackStarted(ctx, *e.Current)
			}
		}
	}
}

// TrackStarted shows the notification for track.
func (t *TrackNotifier) TrackStarted(ctx context.Context, track playlist.Track) {
	n := Notification{
		Title:      track.Name,
		Body:       body(track),
		Timeout:    notificationTimeout,
		ReplacesID: t.lastID,
		Urgency:    UrgencyLow,
	}
	if t.art != nil {
		if v, ok := track.BestArtwork(); ok {
			artCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			path, err := t.art.Path(artCtx, v.URL)
			cancel()
			if err != nil {
				t.log.Debug("artwork unavailable", "track", track.ID, "error", err)
			}
			n.Icon = path
		}
	}

	id, err := t.notifier.Notify(n)
	if err != nil {
		t.log.Debug("notification failed", "track", track.ID, "error", err)
		return
	}
	t.lastID = id
}

func body(track playlist.Track) string {
	parts := make([]string, 0, 2)
	if track.Artist != "" {
		parts = append(parts, track.Artist)
	}
	if track.Album != "" {
		parts = append(parts, track.Album)
	}
	return strings.Join(parts, " - ")
}
