package stream

import (
	"fmt"
	"sync"
)

type entry[T any] struct {
	v   T
	ack func()
}

// emitter is the downstream half of most stages. It queues items produced
// from any number of goroutines and hands them to a single Subscriber in
// order, never more than requested and never two signals at once.
//
// Producers call push/complete/fail. When several items must keep a
// relative order that is decided under the producer's own lock, the
// producer uses enqueue/markDone under that lock and calls drain after
// releasing it.
type emitter[T any] struct {
	mu         sync.Mutex
	down       Subscriber[T]
	queue      []entry[T]
	requested  int64
	done       bool
	err        error
	cancelled  bool
	terminated bool
	draining   bool

	// Set by the owning stage before start.
	onRequest func(n int64)
	onCancel  func()
}

func newEmitter[T any](down Subscriber[T]) *emitter[T] {
	return &emitter[T]{down: down}
}

// start hands the emitter to the subscriber and delivers any signal
// that does not need demand, such as completion of an empty source.
func (e *emitter[T]) start() {
	e.down.OnSubscribe(e)
	e.drain()
}

// Request implements Subscription.
func (e *emitter[T]) Request(n int64) {
	if n <= 0 {
		e.abort(fmt.Errorf("%w: got %d", ErrInvalidDemand, n))
		return
	}

	e.mu.Lock()
	if e.cancelled || e.terminated {
		e.mu.Unlock()
		return
	}
	e.requested = addCap(e.requested, n)
	hook := e.onRequest
	e.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	e.drain()
}

// Cancel implements Subscription. Queued items are discarded.
func (e *emitter[T]) Cancel() {
	e.mu.Lock()
	if e.cancelled || e.terminated {
		e.mu.Unlock()
		return
	}
	e.cancelled = true
	e.queue = nil
	hook := e.onCancel
	e.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// abort releases upstream resources and fails the subscription. Unlike
// fail it overrides a completion that is still waiting for the queue to
// drain.
func (e *emitter[T]) abort(err error) {
	e.mu.Lock()
	if e.cancelled || e.terminated {
		e.mu.Unlock()
		return
	}
	e.done = true
	e.err = err
	e.queue = nil
	hook := e.onCancel
	e.mu.Unlock()

	if hook != nil {
		hook()
	}
	e.drain()
}

func (e *emitter[T]) isCancelled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelled
}

// offer queues v only if the subscriber has room for it.
// It reports false when v would exceed the outstanding demand.
func (e *emitter[T]) offer(v T) bool {
	e.mu.Lock()
	if e.cancelled || e.done {
		e.mu.Unlock()
		return true
	}
	if e.requested != Unbounded && e.requested <= int64(len(e.queue)) {
		e.mu.Unlock()
		return false
	}
	e.queue = append(e.queue, entry[T]{v: v})
	e.mu.Unlock()

	e.drain()
	return true
}

// hasRoom reports whether another item fits in the outstanding demand.
func (e *emitter[T]) hasRoom() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.requested == Unbounded || e.requested > int64(len(e.queue))
}

// push queues v and delivers it as soon as there is demand.
// ack, when not nil, runs after v has been handed to the subscriber.
func (e *emitter[T]) push(v T, ack func()) {
	e.enqueue(v, ack)
	e.drain()
}

func (e *emitter[T]) complete() {
	e.markDone(nil)
	e.drain()
}

// fail terminates the subscription with err, dropping queued items.
func (e *emitter[T]) fail(err error) {
	e.markDone(err)
	e.drain()
}

func (e *emitter[T]) enqueue(v T, ack func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancelled || e.done {
		return
	}
	e.queue = append(e.queue, entry[T]{v: v, ack: ack})
}

func (e *emitter[T]) markDone(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancelled || e.done {
		return
	}
	e.done = true
	e.err = err
	if err != nil {
		e.queue = nil
	}
}

// drain delivers queued signals. Only one goroutine drains at a time;
// the others leave their work in the queue for the active drainer.
func (e *emitter[T]) drain() {
	e.mu.Lock()
	if e.draining {
		e.mu.Unlock()
		return
	}
	e.draining = true

	for !e.cancelled && !e.terminated {
		if len(e.queue) > 0 && e.requested > 0 {
			it := e.queue[0]
			e.queue[0] = entry[T]{}
			e.queue = e.queue[1:]
			if e.requested != Unbounded {
				e.requested--
			}
			e.mu.Unlock()

			e.down.OnNext(it.v)
			if it.ack != nil {
				it.ack()
			}

			e.mu.Lock()
			continue
		}

		if e.done && len(e.queue) == 0 {
			e.terminated = true
			err := e.err
			e.mu.Unlock()

			if err != nil {
				e.down.OnError(err)
			} else {
				e.down.OnComplete()
			}

			e.mu.Lock()
		}
		break
	}

	e.draining = false
	e.mu.Unlock()
}
