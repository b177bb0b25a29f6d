package player

import (
	"sync"
	"time"
)

// defaultTickInterval approximates one display refresh.
const defaultTickInterval = 16 * time.Millisecond

// clockScheduler is the wall-clock Scheduler.
type clockScheduler struct {
	interval time.Duration
}

// NewClockScheduler creates a Scheduler backed by real timers. A
// non-positive tick interval falls back to display-refresh cadence.
func NewClockScheduler(tickInterval time.Duration) Scheduler {
	if tickInterval <= 0 {
		tickInterval = defaultTickInterval
	}
	return &clockScheduler{interval: tickInterval}
}

func (c *clockScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	var once sync.Once
	return func() {
		once.Do(func() { t.Stop() })
	}
}

func (c *clockScheduler) Tick(fn func()) func() {
	ticker := time.NewTicker(c.interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
