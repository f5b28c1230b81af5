package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a Scheduler driven by Advance. Callbacks run synchronously on the
// goroutine calling Advance, in deadline order.
type Fake struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	fake     *Fake
	seq      int
	deadline time.Duration
	period   time.Duration // zero for one-shot timers
	delay    time.Duration
	f        func()
	stopped  bool
}

// NewFake returns a Fake at virtual time zero.
func NewFake() *Fake {
	return &Fake{}
}

// AfterFunc implements Scheduler.
func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	return c.add(d, 0, f)
}

// EveryFunc implements Scheduler.
func (c *Fake) EveryFunc(d time.Duration, f func()) Timer {
	return c.add(d, d, f)
}

func (c *Fake) add(d, period time.Duration, f func()) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &fakeTimer{
		fake:     c,
		seq:      c.seq,
		deadline: c.now + d,
		period:   period,
		delay:    d,
		f:        f,
	}
	c.timers = append(c.timers, t)
	return t
}

// Elapsed returns the virtual time since the Fake was created.
func (c *Fake) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves virtual time forward by d, firing every callback that comes
// due. Callbacks may arm or stop timers.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.deadline
		if next.period > 0 {
			next.deadline += next.period
		} else {
			next.stopped = true
			c.removeLocked(next)
		}
		f := next.f
		c.mu.Unlock()

		f()
	}
}

// Pending returns the delays, as originally requested, of the one-shot
// timers that have not fired or been stopped.
func (c *Fake) Pending() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []time.Duration
	for _, t := range c.timers {
		if t.period == 0 {
			out = append(out, t.delay)
		}
	}
	return out
}

// Repeating returns the number of live repeating timers.
func (c *Fake) Repeating() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if t.period > 0 {
			n++
		}
	}
	return n
}

func (c *Fake) nextLocked(target time.Duration) *fakeTimer {
	due := make([]*fakeTimer, 0, len(c.timers))
	for _, t := range c.timers {
		if t.deadline <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (c *Fake) removeLocked(t *fakeTimer) {
	for i, x := range c.timers {
		if x == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

func (t *fakeTimer) Stop() bool {
	t.fake.mu.Lock()
	defer t.fake.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	t.fake.removeLocked(t)
	return true
}
