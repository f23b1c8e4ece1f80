// internal/player/mock.go
package player

import (
	"context"
	"sync"
	"time"
)

// MockLoader is a test double for Loader. Every successful Load returns a new
// MockResource.
type MockLoader struct {
	mu        sync.Mutex
	loadErr   error
	duration  time.Duration
	resources []*MockResource
	urls      []string
	block     chan struct{}
	volume    float64
}

// NewMockLoader creates a loader whose resources report the given duration.
func NewMockLoader(duration time.Duration) *MockLoader {
	return &MockLoader{duration: duration, volume: 1}
}

func (m *MockLoader) Load(ctx context.Context, url string, opts Options, onStatus StatusFunc) (Resource, error) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	block := m.block
	err := m.loadErr
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	r := &MockResource{
		url:      url,
		onStatus: onStatus,
		status: Status{
			Loaded:   true,
			Duration: m.duration,
			Playing:  opts.PlayImmediately,
		},
	}
	m.mu.Lock()
	m.resources = append(m.resources, r)
	m.mu.Unlock()
	return r, nil
}

func (m *MockLoader) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *MockLoader) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = ClampVolume(level)
}

// Test helpers

func (m *MockLoader) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// Block makes Load wait until the returned function is called.
func (m *MockLoader) Block() (release func()) {
	ch := make(chan struct{})
	m.mu.Lock()
	m.block = ch
	m.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.block = nil
			m.mu.Unlock()
			close(ch)
		})
	}
}

// URLs returns every URL passed to Load, in order.
func (m *MockLoader) URLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.urls...)
}

// Resources returns every resource created so far.
func (m *MockLoader) Resources() []*MockResource {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockResource(nil), m.resources...)
}

// Last returns the most recently created resource, or nil.
func (m *MockLoader) Last() *MockResource {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.resources) == 0 {
		return nil
	}
	return m.resources[len(m.resources)-1]
}

// MockResource records the calls made on it.
type MockResource struct {
	mu       sync.Mutex
	url      string
	onStatus StatusFunc
	status   Status
	seeks    []time.Duration
	plays    int
	pauses   int
	unloads  int
	playErr  error
}

func (r *MockResource) Play(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plays++
	if r.playErr != nil {
		return r.playErr
	}
	if !r.status.Loaded {
		return ErrUnloaded
	}
	r.status.Playing = true
	return nil
}

func (r *MockResource) Pause(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pauses++
	if !r.status.Loaded {
		return ErrUnloaded
	}
	r.status.Playing = false
	return nil
}

func (r *MockResource) SeekTo(_ context.Context, pos time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.status.Loaded {
		return ErrUnloaded
	}
	r.seeks = append(r.seeks, pos)
	r.status.Position = pos
	return nil
}

func (r *MockResource) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *MockResource) Unload(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unloads++
	r.status.Loaded = false
	r.status.Playing = false
	return nil
}

// Test helpers

// Emit delivers st to the status callback, as a real resource would from its
// reporting goroutine. It is delivered even after Unload so callers can
// exercise stale-callback handling.
func (r *MockResource) Emit(st Status) {
	r.mu.Lock()
	cb := r.onStatus
	r.mu.Unlock()
	if cb != nil {
		cb(st)
	}
}

// Finish emits a just-finished status.
func (r *MockResource) Finish() {
	r.mu.Lock()
	r.status.Playing = false
	r.status.Position = r.status.Duration
	st := r.status
	r.mu.Unlock()
	st.Loaded = true
	st.DidJustFinish = true
	r.Emit(st)
}

func (r *MockResource) SetPosition(pos time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Position = pos
}

func (r *MockResource) SetPlayError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playErr = err
}

func (r *MockResource) URL() string { return r.url }

func (r *MockResource) SeekCalls() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.seeks...)
}

func (r *MockResource) PlayCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.plays
}

func (r *MockResource) PauseCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pauses
}

func (r *MockResource) UnloadCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unloads
}

// Verify mocks implement the interfaces at compile time.
var (
	_ Loader   = (*MockLoader)(nil)
	_ Resource = (*MockResource)(nil)
)
