// Package clock abstracts the timers used by the game connection so tests can
// drive them with virtual time.
package clock

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented a
	// future firing.
	Stop() bool
}

// Scheduler arms one-shot and repeating callbacks.
type Scheduler interface {
	// AfterFunc calls f once after d.
	AfterFunc(d time.Duration, f func()) Timer

	// EveryFunc calls f every d until the returned timer is stopped.
	EveryFunc(d time.Duration, f func()) Timer
}

// Real is a Scheduler backed by the time package.
type Real struct{}

// AfterFunc implements Scheduler.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// EveryFunc implements Scheduler.
func (Real) EveryFunc(d time.Duration, f func()) Timer {
	t := &ticker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.loop(f)
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) loop(f func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			f()
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
