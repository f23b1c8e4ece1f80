// internal/state/mock.go
package state

import (
	"context"
	"sync"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu        sync.Mutex
	values    map[string][]byte
	getErr    error
	setErr    error
	removeErr error
	setCalls  int
	closed    bool
}

// NewMock creates a new empty mock store.
func NewMock() *Mock {
	return &Mock{values: make(map[string][]byte)}
}

func (m *Mock) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(v), nil
}

func (m *Mock) GetMulti(_ context.Context, keys ...string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	result := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			result[k] = clone(v)
		}
	}
	return result, nil
}

func (m *Mock) Set(ctx context.Context, key string, value []byte) error {
	return m.SetMulti(ctx, map[string][]byte{key: value})
}

func (m *Mock) SetMulti(_ context.Context, entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	for k, v := range entries {
		m.values[k] = clone(v)
	}
	return nil
}

func (m *Mock) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Test helpers

func (m *Mock) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

func (m *Mock) SetSetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

func (m *Mock) SetRemoveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeErr = err
}

// Value returns the raw stored value and whether it exists.
func (m *Mock) Value(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return clone(v), ok
}

// Put stores a raw value without counting it as a Set call.
func (m *Mock) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = clone(value)
}

func (m *Mock) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Store at compile time.
var _ Store = (*Mock)(nil)
