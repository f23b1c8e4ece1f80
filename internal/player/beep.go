// internal/player/beep.go
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	// speakerRate is fixed; every stream is resampled to it.
	speakerRate = beep.SampleRate(44100)

	defaultStatusInterval = 500 * time.Millisecond
	defaultFetchTimeout   = 60 * time.Second
	maxPayloadSize        = 200 << 20
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(time.Second/10))
	})
	return speakerErr
}

// BeepLoader downloads a stream into memory, decodes it and plays it on the
// system speaker.
type BeepLoader struct {
	client   *http.Client
	interval time.Duration
	log      *slog.Logger

	mu     sync.Mutex
	volume float64
	live   map[*beepResource]struct{}
}

// LoaderOption configures a BeepLoader.
type LoaderOption func(*BeepLoader)

// WithHTTPClient sets the client used to fetch streams.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *BeepLoader) { l.client = c }
}

// WithStatusInterval sets how often playing resources report status.
func WithStatusInterval(d time.Duration) LoaderOption {
	return func(l *BeepLoader) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLoaderLogger sets the loader's logger.
func WithLoaderLogger(log *slog.Logger) LoaderOption {
	return func(l *BeepLoader) { l.log = log }
}

// WithVolume sets the initial volume level (0.0 to 1.0).
func WithVolume(level float64) LoaderOption {
	return func(l *BeepLoader) { l.volume = ClampVolume(level) }
}

// NewBeepLoader creates a loader. The speaker is initialised on first Load.
func NewBeepLoader(opts ...LoaderOption) *BeepLoader {
	l := &BeepLoader{
		client:   &http.Client{Timeout: defaultFetchTimeout},
		interval: defaultStatusInterval,
		log:      slog.Default(),
		volume:   1,
		live:     make(map[*beepResource]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches rawURL, decodes it and queues it on the speaker.
func (l *BeepLoader) Load(ctx context.Context, rawURL string, opts Options, onStatus StatusFunc) (Resource, error) {
	data, contentType, err := Fetch(ctx, l.client, rawURL)
	if err != nil {
		return nil, err
	}

	kind := DetectFormat(data, rawURL, contentType)
	stream, format, err := decode(data, kind)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	if err := initSpeaker(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	var out beep.Streamer = stream
	if format.SampleRate != speakerRate {
		out = beep.Resample(4, format.SampleRate, speakerRate, stream)
	}

	l.mu.Lock()
	level := l.volume
	l.mu.Unlock()

	r := &beepResource{
		loader:   l,
		stream:   stream,
		format:   format,
		onStatus: onStatus,
		stop:     make(chan struct{}),
	}
	r.ctrl = &beep.Ctrl{Streamer: out, Paused: !opts.PlayImmediately}
	r.vol = &effects.Volume{
		Streamer: r.ctrl,
		Base:     2,
		Volume:   levelToVolume(level),
		Silent:   level <= 0,
	}
	r.playing = opts.PlayImmediately

	l.mu.Lock()
	l.live[r] = struct{}{}
	l.mu.Unlock()

	l.log.Debug("audio loaded", "format", kind.String(), "rate", int(format.SampleRate),
		"duration", format.SampleRate.D(stream.Len()))

	r.start()
	go r.report(l.interval)
	return r, nil
}

// SetVolume changes the level for current and future resources.
func (l *BeepLoader) SetVolume(level float64) {
	level = ClampVolume(level)

	l.mu.Lock()
	l.volume = level
	live := make([]*beepResource, 0, len(l.live))
	for r := range l.live {
		live = append(live, r)
	}
	l.mu.Unlock()

	speaker.Lock()
	for _, r := range live {
		r.vol.Volume = levelToVolume(level)
		r.vol.Silent = level <= 0
	}
	speaker.Unlock()
}

// Volume returns the current level.
func (l *BeepLoader) Volume() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.volume
}

func (l *BeepLoader) forget(r *beepResource) {
	l.mu.Lock()
	delete(l.live, r)
	l.mu.Unlock()
}

// Fetch reads rawURL into memory and returns the payload and content type.
// file:// URLs are read from disk, everything else over HTTP.
func Fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, string, error) {
	if u, err := url.Parse(rawURL); err == nil && u.Scheme == "file" {
		return readFile(u.Path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch audio: status %d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func readFile(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()
	data, err := readLimited(f)
	return data, "", err
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPayloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(data) > maxPayloadSize {
		return nil, errors.New("audio payload too large")
	}
	if len(data) == 0 {
		return nil, errors.New("empty audio payload")
	}
	return data, nil
}

type beepResource struct {
	loader   *BeepLoader
	stream   beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	vol      *effects.Volume
	onStatus StatusFunc
	stop     chan struct{}

	mu       sync.Mutex
	playing  bool
	finished bool
	unloaded bool
}

// start queues the resource on the speaker. It must be called without the
// speaker lock held.
func (r *beepResource) start() {
	speaker.Play(beep.Seq(r.vol, beep.Callback(func() {
		// Runs on the speaker goroutine with its lock held.
		go r.onEnd()
	})))
}

func (r *beepResource) onEnd() {
	r.mu.Lock()
	if r.unloaded {
		r.mu.Unlock()
		return
	}
	r.playing = false
	r.finished = true
	r.mu.Unlock()

	st := r.Status()
	st.DidJustFinish = true
	r.emit(st)
}

func (r *beepResource) report(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			active := r.playing && !r.unloaded
			r.mu.Unlock()
			if active {
				r.emit(r.Status())
			}
		}
	}
}

func (r *beepResource) emit(st Status) {
	if r.onStatus != nil {
		r.onStatus(st)
	}
}

func (r *beepResource) Play(_ context.Context) error {
	r.mu.Lock()
	if r.unloaded {
		r.mu.Unlock()
		return ErrUnloaded
	}
	restart := r.finished
	r.finished = false
	r.playing = true
	r.mu.Unlock()

	speaker.Lock()
	if restart {
		if err := r.stream.Seek(0); err != nil {
			speaker.Unlock()
			return fmt.Errorf("rewind: %w", err)
		}
	}
	r.ctrl.Paused = false
	speaker.Unlock()

	if restart {
		r.start()
	}
	r.emit(r.Status())
	return nil
}

func (r *beepResource) Pause(_ context.Context) error {
	r.mu.Lock()
	if r.unloaded {
		r.mu.Unlock()
		return ErrUnloaded
	}
	r.playing = false
	r.mu.Unlock()

	speaker.Lock()
	r.ctrl.Paused = true
	speaker.Unlock()

	r.emit(r.Status())
	return nil
}

func (r *beepResource) SeekTo(_ context.Context, pos time.Duration) error {
	r.mu.Lock()
	if r.unloaded {
		r.mu.Unlock()
		return ErrUnloaded
	}
	r.mu.Unlock()

	speaker.Lock()
	n := min(max(r.format.SampleRate.N(pos), 0), r.stream.Len())
	err := r.stream.Seek(n)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	r.emit(r.Status())
	return nil
}

func (r *beepResource) Status() Status {
	r.mu.Lock()
	st := Status{
		Loaded:  !r.unloaded,
		Playing: r.playing,
	}
	unloaded := r.unloaded
	r.mu.Unlock()
	if unloaded {
		return st
	}

	speaker.Lock()
	st.Position = r.format.SampleRate.D(r.stream.Position())
	st.Duration = r.format.SampleRate.D(r.stream.Len())
	speaker.Unlock()
	return st
}

// Unload detaches the stream from the speaker. It does not wait for the
// speaker goroutine; a finish callback racing with it is dropped.
func (r *beepResource) Unload(_ context.Context) error {
	r.mu.Lock()
	if r.unloaded {
		r.mu.Unlock()
		return nil
	}
	r.unloaded = true
	r.playing = false
	r.mu.Unlock()

	close(r.stop)
	r.loader.forget(r)

	speaker.Lock()
	r.ctrl.Streamer = nil
	err := r.stream.Close()
	speaker.Unlock()
	return err
}
