package streamtest

import (
	"sync"
	"time"

	"github.com/dmitrymomot/reactive/core/stream"
)

// Clock is a virtual stream.Clock. Time only moves when Advance is called,
// and due callbacks run synchronously on the goroutine calling Advance.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers map[*timer]struct{}
}

var _ stream.Clock = (*Clock)(nil)

// NewClock returns a virtual clock set to start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start, timers: make(map[*timer]struct{})}
}

type timer struct {
	clock *Clock
	due   time.Time
	seq   uint64
	fn    func()
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if _, ok := t.clock.timers[t]; !ok {
		return false
	}
	delete(t.clock.timers, t)
	return true
}

// Now returns the current virtual time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once the virtual time reaches Now()+d.
// It never runs f before returning, even for d <= 0.
func (c *Clock) AfterFunc(d time.Duration, f func()) stream.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &timer{clock: c, due: c.now.Add(d), seq: c.seq, fn: f}
	c.timers[t] = struct{}{}
	return t
}

// Advance moves the clock forward by d, running every callback that
// becomes due in deadline order. Callbacks scheduled while advancing run
// too if they fall within the window.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		delete(c.timers, next)
		if next.due.After(c.now) {
			c.now = next.due
		}
		c.mu.Unlock()

		next.fn()
	}
}

func (c *Clock) nextLocked(target time.Time) *timer {
	var next *timer
	for t := range c.timers {
		if t.due.After(target) {
			continue
		}
		if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

// Pending returns the number of scheduled callbacks that have not run
// and were not stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
