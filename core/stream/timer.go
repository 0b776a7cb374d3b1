package stream

import (
	"fmt"
	"sync"
	"time"
)

// Interval emits 0, 1, 2, ... one value every period, starting one period
// after subscription. It never completes; cancel the subscription (or use
// Take) to stop it, which also stops the pending timer.
//
// Interval does not wait for demand. A tick that finds the subscriber
// without outstanding demand fails the sequence with ErrOverflow.
func Interval(period time.Duration, opts ...TimerOption) Publisher[int64] {
	if period <= 0 {
		panic("stream: interval period must be positive")
	}
	cfg := newTimerConfig(opts)

	return PublisherFunc[int64](func(s Subscriber[int64]) {
		r := &intervalRun{
			clock:  cfg.clock,
			period: period,
			out:    newEmitter(s),
		}
		r.out.onCancel = r.stop
		r.start = r.clock.Now()
		r.out.start()
		r.schedule()
	})
}

type intervalRun struct {
	mu      sync.Mutex
	clock   Clock
	period  time.Duration
	start   time.Time
	n       int64
	timer   Timer
	stopped bool
	out     *emitter[int64]
}

// schedule arms the timer for tick n at an absolute deadline so that slow
// subscribers do not make the sequence drift.
func (r *intervalRun) schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	due := r.start.Add(time.Duration(r.n+1) * r.period)
	r.timer = r.clock.AfterFunc(due.Sub(r.clock.Now()), r.tick)
}

func (r *intervalRun) tick() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	n := r.n
	r.n++
	r.mu.Unlock()

	if !r.out.offer(n) {
		r.stop()
		r.out.fail(fmt.Errorf("%w: interval tick %d", ErrOverflow, n))
		return
	}
	r.schedule()
}

func (r *intervalRun) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// Delay shifts every item of src by period. Each item has its own timer,
// so items arriving close together are delayed concurrently rather than
// one after another. Items leave in the order they arrived. Completion is
// delayed until the last pending item has been emitted; errors are
// forwarded immediately and discard pending items.
func Delay[T any](src Publisher[T], period time.Duration, opts ...TimerOption) Publisher[T] {
	cfg := newTimerConfig(opts)
	return PublisherFunc[T](func(s Subscriber[T]) {
		src.Subscribe(&delaySubscriber[T]{
			clock:  cfg.clock,
			period: period,
			out:    newEmitter(s),
		})
	})
}

type delayed[T any] struct {
	v     T
	ready bool
	timer Timer
}

type delaySubscriber[T any] struct {
	mu      sync.Mutex
	clock   Clock
	period  time.Duration
	out     *emitter[T]
	up      Subscription
	pending []*delayed[T]
	upDone  bool
	stopped bool
}

func (d *delaySubscriber[T]) OnSubscribe(s Subscription) {
	d.up = s
	d.out.onRequest = s.Request
	d.out.onCancel = d.cancel
	d.out.start()
}

func (d *delaySubscriber[T]) OnNext(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	it := &delayed[T]{v: v}
	d.pending = append(d.pending, it)
	it.timer = d.clock.AfterFunc(d.period, func() { d.release(it) })
}

func (d *delaySubscriber[T]) release(it *delayed[T]) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	it.ready = true
	// Queue the ready prefix while holding the lock so concurrent timers
	// cannot reorder items.
	for len(d.pending) > 0 && d.pending[0].ready {
		d.out.enqueue(d.pending[0].v, nil)
		d.pending[0] = nil
		d.pending = d.pending[1:]
	}
	if d.upDone && len(d.pending) == 0 {
		d.out.markDone(nil)
	}
	d.mu.Unlock()

	d.out.drain()
}

func (d *delaySubscriber[T]) OnError(err error) {
	d.stopTimers()
	d.out.fail(err)
}

func (d *delaySubscriber[T]) OnComplete() {
	d.mu.Lock()
	d.upDone = true
	if !d.stopped && len(d.pending) == 0 {
		d.out.markDone(nil)
	}
	d.mu.Unlock()

	d.out.drain()
}

func (d *delaySubscriber[T]) cancel() {
	d.stopTimers()
	d.up.Cancel()
}

func (d *delaySubscriber[T]) stopTimers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for _, it := range d.pending {
		if it.timer != nil {
			it.timer.Stop()
		}
	}
	d.pending = nil
}
