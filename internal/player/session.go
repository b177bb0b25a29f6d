package player

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmix/internal/models"
	"github.com/desertthunder/ytmix/internal/shared"
)

const (
	// Engines may report duration as unavailable immediately after ready;
	// the first re-query happens quickly, later ones back off.
	durationRetryInitial = 500 * time.Millisecond
	durationRetryBackoff = time.Second

	// Engines do not guarantee synchronous seek completion; the corrected
	// position is read back after this settle delay.
	seekSettleDelay = 300 * time.Millisecond
)

// Snapshot is a point-in-time copy of the observable session state.
type Snapshot struct {
	CurrentIndex int // -1 when nothing is selected
	Track        *models.Track
	IsPlaying    bool
	CurrentTime  float64
	Duration     float64
	Volume       int
	Muted        bool
	Rate         float64
	RepeatMode   models.RepeatMode
	Shuffle      bool
	SeekInFlight bool
}

// Options carries the initial session settings.
type Options struct {
	Volume int
	Rate   float64
}

// Session is the playback session controller. It owns the playlist, the
// single live engine binding, the time tracking loop and seek arbitration.
// All methods are safe for concurrent use; engine events and scheduled
// continuations funnel through the same mutex as user intents.
type Session struct {
	mu      sync.Mutex
	factory EngineFactory
	sched   Scheduler
	nav     *Navigator
	logger  *log.Logger

	playlist models.Playlist

	current      *binding
	bindInFlight bool
	pending      *bindRequest

	currentIndex int
	isPlaying    bool
	currentTime  float64
	duration     float64
	volume       int
	muted        bool
	rate         float64
	repeatMode   models.RepeatMode
	shuffle      bool
	seekInFlight bool
}

type bindRequest struct {
	index       int
	wantPlaying bool
}

// binding ties one engine instance to one track. Its UUID is the generation
// token delayed continuations check before touching the session.
type binding struct {
	id      string
	session *Session
	engine  Engine

	wantPlaying bool
	played      bool

	cancelTick   func()
	cancelRetry  func()
	cancelSettle func()
}

// Ready implements EventSink.
func (b *binding) Ready() { b.session.engineReady(b) }

// StateChanged implements EventSink.
func (b *binding) StateChanged(state EngineState) { b.session.engineStateChanged(b, state) }

// NewSession creates a playback session. A nil scheduler gets a wall-clock
// one, a nil navigator a time-seeded one.
func NewSession(factory EngineFactory, sched Scheduler, nav *Navigator, logger *log.Logger, opts Options) *Session {
	if sched == nil {
		sched = NewClockScheduler(0)
	}
	if nav == nil {
		nav = NewNavigator(nil)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.Volume < 0 || opts.Volume > 100 {
		opts.Volume = 80
	}
	if opts.Rate <= 0 {
		opts.Rate = 1.0
	}
	return &Session{
		factory:      factory,
		sched:        sched,
		nav:          nav,
		logger:       logger,
		currentIndex: -1,
		volume:       opts.Volume,
		rate:         opts.Rate,
	}
}

// Snapshot returns a copy of the observable session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		CurrentIndex: s.currentIndex,
		IsPlaying:    s.isPlaying,
		CurrentTime:  s.currentTime,
		Duration:     s.duration,
		Volume:       s.volume,
		Muted:        s.muted,
		Rate:         s.rate,
		RepeatMode:   s.repeatMode,
		Shuffle:      s.shuffle,
		SeekInFlight: s.seekInFlight,
	}
	if s.currentIndex >= 0 && s.currentIndex < len(s.playlist) {
		t := s.playlist[s.currentIndex]
		snap.Track = &t
	}
	return snap
}

// Playlist returns a copy of the session's playlist.
func (s *Session) Playlist() models.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(models.Playlist, len(s.playlist))
	copy(out, s.playlist)
	return out
}

// SetPlaylist replaces the whole playlist. Replacing the list parks playback:
// any live binding is torn down and no track is selected.
func (s *Session) SetPlaylist(pl models.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlist = make(models.Playlist, len(pl))
	copy(s.playlist, pl)
	s.parkLocked()
}

// Append adds a track to the end of the playlist without touching playback.
func (s *Session) Append(t models.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlist.Append(t)
}

// RemoveAt removes the track at index i. Removing the playing track parks the
// session; removing an earlier track shifts the current index down.
func (s *Session) RemoveAt(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.playlist.RemoveAt(i); err != nil {
		return err
	}

	switch {
	case s.currentIndex == i:
		s.parkLocked()
	case s.currentIndex > i:
		s.currentIndex--
	}
	return nil
}

// Move relocates a track. The current index follows the playing track so
// playback is unaffected by reordering.
func (s *Session) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.playlist.Move(from, to); err != nil {
		return err
	}

	switch {
	case s.currentIndex == from:
		s.currentIndex = to
	case from < s.currentIndex && to >= s.currentIndex:
		s.currentIndex--
	case from > s.currentIndex && to <= s.currentIndex:
		s.currentIndex++
	}
	return nil
}

// PlayAt binds the track at index i and starts playback.
func (s *Session) PlayAt(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.playlist) {
		return fmt.Errorf("%w: index %d out of range (playlist has %d tracks)", shared.ErrInvalidArgument, i, len(s.playlist))
	}
	s.bindLocked(i, true)
	return nil
}

// SetPlaying forwards the authoritative play/pause intent to the engine. The
// session's playing flag follows the engine's events, not the intent.
func (s *Session) SetPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.current
	if b == nil {
		return
	}

	// A binding still initializing applies the latest intent at ready.
	b.wantPlaying = playing
	if b.engine == nil {
		return
	}
	if playing {
		b.engine.Play()
	} else {
		b.engine.Pause()
	}
}

// Next skips to the next track per the navigation policy, preserving the
// playing/paused state.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.nav.NextIndex(s.repeatMode, s.shuffle, s.currentIndex, len(s.playlist))
	if !ok {
		return
	}
	s.bindLocked(next, s.isPlaying)
}

// Previous skips to the previous track, preserving the playing/paused state.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.nav.PreviousIndex(s.repeatMode, s.shuffle, s.currentIndex, len(s.playlist))
	if !ok {
		return
	}
	s.bindLocked(prev, s.isPlaying)
}

// CanGoNext reports whether a next track exists under the current mode.
func (s *Session) CanGoNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.CanGoNext(s.repeatMode, s.shuffle, s.currentIndex, len(s.playlist))
}

// CanGoPrevious reports whether a previous track exists.
func (s *Session) CanGoPrevious() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.CanGoPrevious(s.currentIndex)
}

// Seek moves playback to target seconds. The displayed time is updated
// optimistically, the tracking loop is suppressed while the engine settles,
// and the engine's actual position is written back after the settle delay.
// Seeking with no live engine is a no-op, not an error.
func (s *Session) Seek(target float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target < 0 {
		target = 0
	}

	b := s.current
	if b == nil || b.engine == nil {
		s.seekInFlight = false
		return
	}

	s.seekInFlight = true
	s.stopTickingLocked(b)
	if b.cancelSettle != nil {
		b.cancelSettle()
	}

	s.currentTime = round2(target)
	b.engine.SeekTo(target)

	b.cancelSettle = s.sched.AfterFunc(seekSettleDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.isCurrentLocked(b) {
			return
		}
		s.currentTime = round2(b.engine.CurrentTime())
		s.seekInFlight = false
		if s.isPlaying {
			s.startTickingLocked(b)
		}
	})
}

// SetVolume stores the volume and applies it to the engine unless muted.
// Muting does not clear the stored volume.
func (s *Session) SetVolume(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	s.volume = v

	if b := s.current; b != nil && b.engine != nil && !s.muted {
		b.engine.SetVolume(v)
	}
}

// SetMuted suppresses or restores audible output. Unmuting restores the
// engine's volume from the stored value.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.muted = muted
	b := s.current
	if b == nil || b.engine == nil {
		return
	}
	if muted {
		b.engine.Mute()
		return
	}
	b.engine.Unmute()
	b.engine.SetVolume(s.volume)
}

// ToggleMute flips the mute state.
func (s *Session) ToggleMute() {
	s.mu.Lock()
	muted := s.muted
	s.mu.Unlock()
	s.SetMuted(!muted)
}

// SetRate sets the playback rate on the session and the engine.
func (s *Session) SetRate(r float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r <= 0 {
		return
	}
	s.rate = r
	if b := s.current; b != nil && b.engine != nil {
		b.engine.SetRate(r)
	}
}

// SetRepeatMode sets the repeat mode. It takes effect at the next track end.
func (s *Session) SetRepeatMode(m models.RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeatMode = m
}

// CycleRepeatMode rotates off → all → one → off and returns the new mode.
func (s *Session) CycleRepeatMode() models.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeatMode = s.repeatMode.Cycle()
	return s.repeatMode
}

// SetShuffle toggles shuffle playback selection.
func (s *Session) SetShuffle(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffle = on
}

// Teardown destroys the live binding, cancels every scheduled continuation
// and clears the bind guard. Safe to call when no binding exists.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownBindingLocked()
	s.bindInFlight = false
	s.pending = nil
	s.isPlaying = false
	s.seekInFlight = false
}

// bindLocked starts a new track binding. A bind arriving while another is in
// flight is coalesced into a single pending request holding the latest
// target; two live engine instances for one session must never race.
func (s *Session) bindLocked(index int, wantPlaying bool) {
	if s.bindInFlight {
		s.pending = &bindRequest{index: index, wantPlaying: wantPlaying}
		return
	}

	s.bindInFlight = true
	s.teardownBindingLocked()

	s.currentIndex = index
	s.currentTime = 0
	s.duration = 0
	s.seekInFlight = false

	b := &binding{
		id:          shared.GenerateID(),
		session:     s,
		wantPlaying: wantPlaying,
	}
	s.current = b
	s.logger.Debug("binding track", "binding", b.id, "index", index, "video", s.playlist[index].ID)

	b.engine = s.factory.Create(s.playlist[index].ID, b)
}

// engineReady handles the engine's ready event for a binding.
func (s *Session) engineReady(b *binding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isCurrentLocked(b) {
		return
	}
	s.pollDurationLocked(b, 0)
}

// pollDurationLocked reads the engine's duration, retrying on a backoff until
// a positive value appears. Retries are unbounded; the condition is rare and
// each poll is idempotent.
func (s *Session) pollDurationLocked(b *binding, attempt int) {
	if d := b.engine.Duration(); d > 0 {
		s.duration = d
		s.currentTime = 0
		s.finishBindLocked(b)
		return
	}

	delay := durationRetryInitial
	if attempt > 0 {
		delay = durationRetryBackoff
	}
	b.cancelRetry = s.sched.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.isCurrentLocked(b) {
			return
		}
		s.pollDurationLocked(b, attempt+1)
	})
}

// finishBindLocked applies the session settings and the desired play state to
// a ready engine, releases the bind guard and serves any coalesced bind.
func (s *Session) finishBindLocked(b *binding) {
	b.engine.SetRate(s.rate)
	b.engine.SetVolume(s.volume)
	if s.muted {
		b.engine.Mute()
	}

	if b.wantPlaying {
		b.engine.Play()
	} else {
		b.engine.Pause()
	}

	s.bindInFlight = false
	if req := s.pending; req != nil {
		s.pending = nil
		if req.index < len(s.playlist) {
			s.bindLocked(req.index, req.wantPlaying)
		}
	}
}

// engineStateChanged handles engine playback state transitions.
func (s *Session) engineStateChanged(b *binding, state EngineState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isCurrentLocked(b) {
		return
	}

	switch state {
	case EnginePlaying:
		b.played = true
		s.isPlaying = true
		// Some engines only report duration once playback begins.
		if s.duration == 0 {
			if d := b.engine.Duration(); d > 0 {
				s.duration = d
			}
		}
		if !s.seekInFlight {
			s.startTickingLocked(b)
		}

	case EnginePaused:
		s.isPlaying = false
		s.stopTickingLocked(b)

	case EngineEnded:
		// Ended is only reachable through Playing; anything else is a
		// stale or misbehaving engine.
		if b.played {
			s.resolveTrackEndLocked(b)
		}
	}
}

// resolveTrackEndLocked decides what happens when the bound track finishes.
func (s *Session) resolveTrackEndLocked(b *binding) {
	if s.repeatMode == models.RepeatOne {
		// Same track, same binding: rewind and resume, no rebind.
		s.currentTime = 0
		b.engine.SeekTo(0)
		b.engine.Play()
		return
	}

	next, ok := s.nav.NextIndex(s.repeatMode, s.shuffle, s.currentIndex, len(s.playlist))
	if !ok {
		// Park on the last track, paused, at its end position.
		s.isPlaying = false
		s.stopTickingLocked(b)
		return
	}
	s.bindLocked(next, true)
}

// startTickingLocked activates the time tracking loop for a binding. The
// loop only ever runs while the session is playing and no seek is settling.
func (s *Session) startTickingLocked(b *binding) {
	if b.cancelTick != nil {
		return
	}
	b.cancelTick = s.sched.Tick(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.isCurrentLocked(b) || !s.isPlaying || s.seekInFlight {
			return
		}
		// Only trust time read from an actively playing engine; a value
		// captured mid-transition would drag the display backward.
		if b.engine.State() != EnginePlaying {
			return
		}
		d := b.engine.Duration()
		if d <= 0 {
			return
		}
		s.currentTime = round2(b.engine.CurrentTime())
		s.duration = d
	})
}

func (s *Session) stopTickingLocked(b *binding) {
	if b.cancelTick != nil {
		b.cancelTick()
		b.cancelTick = nil
	}
}

// parkLocked tears down the binding and deselects the current track.
func (s *Session) parkLocked() {
	s.teardownBindingLocked()
	s.currentIndex = -1
	s.isPlaying = false
	s.currentTime = 0
	s.duration = 0
	s.seekInFlight = false
}

// teardownBindingLocked destroys the live binding and cancels its timers.
// Idempotent.
func (s *Session) teardownBindingLocked() {
	b := s.current
	if b == nil {
		return
	}
	s.current = nil

	s.stopTickingLocked(b)
	if b.cancelRetry != nil {
		b.cancelRetry()
		b.cancelRetry = nil
	}
	if b.cancelSettle != nil {
		b.cancelSettle()
		b.cancelSettle = nil
	}
	if b.engine != nil {
		b.engine.Destroy()
	}
	s.logger.Debug("binding destroyed", "binding", b.id)
}

func (s *Session) isCurrentLocked(b *binding) bool {
	return s.current == b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
