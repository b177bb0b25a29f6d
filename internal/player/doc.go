// Package player implements the playback session controller and the
// navigation policy.
//
// # Session controller
//
// [Session] owns the relationship between the in-memory playback state and an
// external, asynchronously-initialized media engine. Engines are opaque: the
// controller only sees the [Engine] capability and the lifecycle events its
// host delivers. A session binds at most one engine at a time; every binding
// carries a UUID generation token, and every delayed continuation (duration
// retry, seek settle, time tick) checks that token before applying its effect,
// so callbacks that outlive their binding are no-ops.
//
// Per bound track the engine moves through
//
//	Uninitialized → Ready → {Playing, Paused} → Ended
//
// Ended is only honored once the binding has actually played; an engine that
// reports Ended straight from Ready is ignored.
//
// # Navigation policy
//
// [Navigator] is the pure next/previous selection logic. Shuffle is a
// memoryless selection policy (uniform over the other indices), not a
// permutation: short playlists can repeat a track on consecutive skips.
//
// # Scheduling
//
// All timing goes through the [Scheduler] interface: one-shot continuations
// and a cooperative, cancellable, self-rescheduling tick source for the time
// tracking loop. [NewClockScheduler] is the wall-clock implementation; tests
// drive a manual one.
package player
