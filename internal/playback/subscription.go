package playback

const eventBufferSize = 16

// Subscription delivers coordinator events to one consumer. Sends never
// block the coordinator: a full channel drops the new event, except for
// position ticks where the newest tick replaces the oldest.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	states    chan StateChange
	tracks    chan TrackChange
	positions chan PositionChange
	queues    chan QueueChange
	modes     chan ModeChange
	errs      chan ErrorEvent
	done      chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		states:    make(chan StateChange, eventBufferSize),
		tracks:    make(chan TrackChange, eventBufferSize),
		positions: make(chan PositionChange, eventBufferSize),
		queues:    make(chan QueueChange, eventBufferSize),
		modes:     make(chan ModeChange, eventBufferSize),
		errs:      make(chan ErrorEvent, eventBufferSize),
		done:      make(chan struct{}),
	}
	s.StateChanged, s.TrackChanged, s.PositionChanged = s.states, s.tracks, s.positions
	s.QueueChanged, s.ModeChanged, s.Error, s.Done = s.queues, s.modes, s.errs, s.done
	return s
}

// offer sends v unless ch is full.
func offer[T any](ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
		return false
	}
}

func (s *Subscription) close() { close(s.done) }

func (s *Subscription) sendState(e StateChange) { offer(s.states, e) }
func (s *Subscription) sendTrack(e TrackChange) { offer(s.tracks, e) }
func (s *Subscription) sendQueue(e QueueChange) { offer(s.queues, e) }
func (s *Subscription) sendMode(e ModeChange)   { offer(s.modes, e) }
func (s *Subscription) sendError(e ErrorEvent)  { offer(s.errs, e) }

// sendPosition keeps the newest tick: a slow consumer only cares where
// playback is now.
func (s *Subscription) sendPosition(e PositionChange) {
	if offer(s.positions, e) {
		return
	}
	select {
	case <-s.positions:
	default:
	}
	offer(s.positions, e)
}
