package player

import "time"

// EngineState is the engine-reported playback state.
type EngineState int

const (
	EngineUnstarted EngineState = iota
	EnginePlaying
	EnginePaused
	EngineEnded
)

func (s EngineState) String() string {
	switch s {
	case EnginePlaying:
		return "playing"
	case EnginePaused:
		return "paused"
	case EngineEnded:
		return "ended"
	default:
		return "unstarted"
	}
}

// Engine is the capability surface of one live media engine instance, bound
// to exactly one track. All commands are fire-and-forget; state changes come
// back through the [EventSink] the engine was created with. Duration may read
// zero for a short while after the ready event.
type Engine interface {
	Play()
	Pause()
	SeekTo(seconds float64)
	SetVolume(v int)
	Mute()
	Unmute()
	SetRate(r float64)

	CurrentTime() float64
	Duration() float64
	State() EngineState

	// Destroy releases the engine. No events are delivered afterwards.
	Destroy()
}

// EventSink receives lifecycle events from an engine host. Events are
// delivered asynchronously with respect to commands.
type EventSink interface {
	// Ready fires once the engine has initialized and accepts commands.
	Ready()

	// StateChanged fires on every engine playback state transition.
	StateChanged(state EngineState)
}

// EngineFactory creates one engine instance per track binding. Create returns
// immediately; the engine reports readiness through the sink.
type EngineFactory interface {
	Create(videoID string, sink EventSink) Engine
}

// Scheduler abstracts delayed continuations and the per-frame tick source so
// the controller can be driven by a fake clock in tests.
type Scheduler interface {
	// AfterFunc runs fn once after d. The returned cancel is idempotent.
	AfterFunc(d time.Duration, fn func()) (cancel func())

	// Tick repeatedly runs fn at display-refresh cadence until cancelled.
	// The returned cancel is idempotent.
	Tick(fn func()) (cancel func())
}
