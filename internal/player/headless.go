package player

import (
	"sync"
	"time"
)

// HeadlessEngine simulates media playback against the wall clock. It produces
// no audio; it exists so the transport, timeline and navigation behavior can
// run in a terminal without an embedded browser player.
//
// Position advances lazily: elapsed time is folded in whenever the engine is
// read or commanded. The session's tracking loop polls every frame, which
// gives the engine its cadence, including the end-of-track transition.
type HeadlessEngine struct {
	mu sync.Mutex

	videoID  string
	sink     EventSink
	state    EngineState
	duration float64
	position float64
	rate     float64
	volume   int
	muted    bool

	startedAt time.Time
	destroyed bool

	events chan func()
	done   chan struct{}
}

// HeadlessFactory builds HeadlessEngines. TrackDuration maps a video ID to
// its simulated length in seconds; IDs it does not know get DefaultDuration.
type HeadlessFactory struct {
	TrackDuration   map[string]float64
	DefaultDuration float64
	ReadyDelay      time.Duration
}

// NewHeadlessFactory returns a factory producing engines with the given
// default track length.
func NewHeadlessFactory(defaultDuration float64) *HeadlessFactory {
	if defaultDuration <= 0 {
		defaultDuration = 180
	}
	return &HeadlessFactory{DefaultDuration: defaultDuration}
}

// Create implements EngineFactory. The ready event is delivered
// asynchronously, never from inside Create.
func (f *HeadlessFactory) Create(videoID string, sink EventSink) Engine {
	d := f.DefaultDuration
	if v, ok := f.TrackDuration[videoID]; ok && v > 0 {
		d = v
	}

	e := &HeadlessEngine{
		videoID:  videoID,
		sink:     sink,
		state:    EngineUnstarted,
		duration: d,
		rate:     1.0,
		volume:   100,
		events:   make(chan func(), 16),
		done:     make(chan struct{}),
	}
	go e.dispatch()

	delay := f.ReadyDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	time.AfterFunc(delay, func() {
		e.emit(func() { sink.Ready() })
	})
	return e
}

// dispatch delivers events on a dedicated goroutine so the engine never
// calls into its sink while holding its own lock.
func (e *HeadlessEngine) dispatch() {
	for {
		select {
		case fn := <-e.events:
			fn()
		case <-e.done:
			return
		}
	}
}

func (e *HeadlessEngine) emit(fn func()) {
	select {
	case e.events <- fn:
	case <-e.done:
	}
}

// advanceLocked folds elapsed wall time into the stored position and fires
// the ended transition when the simulated track runs out.
func (e *HeadlessEngine) advanceLocked() {
	if e.state != EnginePlaying {
		return
	}
	now := time.Now()
	e.position += now.Sub(e.startedAt).Seconds() * e.rate
	e.startedAt = now

	if e.position >= e.duration {
		e.position = e.duration
		e.state = EngineEnded
		e.emit(func() { e.sink.StateChanged(EngineEnded) })
	}
}

// Play implements Engine.
func (e *HeadlessEngine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.advanceLocked()
	if e.state == EnginePlaying {
		return
	}
	if e.state == EngineEnded {
		e.position = 0
	}
	e.state = EnginePlaying
	e.startedAt = time.Now()
	e.emit(func() { e.sink.StateChanged(EnginePlaying) })
}

// Pause implements Engine.
func (e *HeadlessEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.advanceLocked()
	if e.state != EnginePlaying {
		return
	}
	e.state = EnginePaused
	e.emit(func() { e.sink.StateChanged(EnginePaused) })
}

// SeekTo implements Engine.
func (e *HeadlessEngine) SeekTo(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.advanceLocked()
	if seconds < 0 {
		seconds = 0
	}
	if seconds > e.duration {
		seconds = e.duration
	}
	e.position = seconds
	e.startedAt = time.Now()
	if e.state == EngineEnded && seconds < e.duration {
		e.state = EnginePaused
	}
}

// SetVolume implements Engine.
func (e *HeadlessEngine) SetVolume(v int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = v
}

// Mute implements Engine.
func (e *HeadlessEngine) Mute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = true
}

// Unmute implements Engine.
func (e *HeadlessEngine) Unmute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = false
}

// SetRate implements Engine.
func (e *HeadlessEngine) SetRate(r float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r <= 0 {
		return
	}
	e.advanceLocked()
	e.rate = r
}

// CurrentTime implements Engine.
func (e *HeadlessEngine) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advanceLocked()
	return e.position
}

// Duration implements Engine.
func (e *HeadlessEngine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// State implements Engine.
func (e *HeadlessEngine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advanceLocked()
	return e.state
}

// Destroy implements Engine. The engine emits no events afterwards.
func (e *HeadlessEngine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true
	close(e.done)
}
