package radio

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/state"
)

// keyPrefix namespaces cached suggestions in the state store.
const keyPrefix = "radio.suggestions."

type cacheEntry struct {
	FetchedAt int64            `json:"fetchedAt"`
	Tracks    []playlist.Track `json:"tracks"`
}

// Cache keeps catalog suggestions in the state store.
type Cache struct {
	store state.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewCache creates a new Cache instance.
func NewCache(store state.Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl, now: time.Now}
}

// isExpired checks if a cached entry is expired.
func (c *Cache) isExpired(fetchedAt int64) bool {
	return fetchedAt < c.now().Add(-c.ttl).Unix()
}

// Get returns cached suggestions for id if present and not expired.
func (c *Cache) Get(ctx context.Context, id string) ([]playlist.Track, bool) {
	if c.store == nil || c.ttl <= 0 {
		return nil, false
	}
	raw, err := c.store.Get(ctx, keyPrefix+id)
	if err != nil {
		return nil, false
	}
	var e cacheEntry
	if err := json.Unmarshal(raw, &e); err != nil || c.isExpired(e.FetchedAt) || len(e.Tracks) == 0 {
		return nil, false
	}
	return e.Tracks, true
}

// Set caches suggestions for id.
func (c *Cache) Set(ctx context.Context, id string, tracks []playlist.Track) error {
	if c.store == nil || c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(cacheEntry{FetchedAt: c.now().Unix(), Tracks: tracks})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, keyPrefix+id, raw)
}
