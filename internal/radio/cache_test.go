package radio

import (
	"context"
	"testing"
	"time"

	"github.com/deeksha1106/music-app/internal/playlist"
	"github.com/deeksha1106/music-app/internal/state"
)

func TestCache_Empty(t *testing.T) {
	cache := NewCache(state.NewMock(), time.Hour)

	if got, ok := cache.Get(context.Background(), "x"); ok || got != nil {
		t.Errorf("Get() = %v, %v; want nil, false", got, ok)
	}
}

func TestCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(state.NewMock(), time.Hour)

	want := []playlist.Track{{ID: "a", Name: "Song A", Duration: 3 * time.Minute}}
	if err := cache.Set(ctx, "seed", want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := cache.Get(ctx, "seed")
	if !ok || len(got) != 1 || got[0].ID != "a" || got[0].Duration != 3*time.Minute {
		t.Errorf("Get() = %+v, %v", got, ok)
	}
}

func TestCache_Expired(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(state.NewMock(), time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	if err := cache.Set(ctx, "seed", []playlist.Track{{ID: "a"}}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Hour)

	if _, ok := cache.Get(ctx, "seed"); ok {
		t.Error("expired entry should miss")
	}
}

func TestCache_CorruptEntryMisses(t *testing.T) {
	store := state.NewMock()
	store.Put(keyPrefix+"seed", []byte("{not json"))

	if _, ok := NewCache(store, time.Hour).Get(context.Background(), "seed"); ok {
		t.Error("corrupt entry should miss")
	}
}

func TestCache_DisabledWithoutTTL(t *testing.T) {
	store := state.NewMock()
	cache := NewCache(store, 0)

	if err := cache.Set(context.Background(), "seed", []playlist.Track{{ID: "a"}}); err != nil {
		t.Fatal(err)
	}
	if store.SetCalls() != 0 {
		t.Error("cache with zero TTL should not write")
	}
}
