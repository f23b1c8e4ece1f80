// internal/state/interface.go
package state

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set or was removed.
var ErrNotFound = errors.New("key not found")

// Store is a byte-oriented key-value store used to persist application state
// across process restarts.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// GetMulti returns the values for the keys that exist; missing keys are
	// absent from the result rather than an error.
	GetMulti(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMulti writes all entries atomically.
	SetMulti(ctx context.Context, entries map[string][]byte) error
	Remove(ctx context.Context, keys ...string) error
	Close() error
}

// Verify Manager implements Store at compile time.
var _ Store = (*Manager)(nil)
