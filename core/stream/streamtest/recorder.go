package streamtest

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/reactive/core/stream"
)

// Recorder is a Subscriber that stores every signal it receives and lets
// the test control demand. It also records violations of the subscriber
// contract: signals after a terminal one, concurrent signals, items
// delivered without demand.
type Recorder[T any] struct {
	initial int64

	mu          sync.Mutex
	cond        *sync.Cond
	sub         stream.Subscription
	subscribed  int
	signals     []stream.Signal[T]
	outstanding int64
	terminated  bool
	violations  []string

	inSignal atomic.Bool
}

// NewRecorder returns a Recorder that requests initial items as soon as it
// is subscribed. Use 0 to start without demand and stream.Unbounded for no limit.
func NewRecorder[T any](initial int64) *Recorder[T] {
	r := &Recorder[T]{initial: initial}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Subscribe subscribes a new Recorder to p with the given initial demand.
func Subscribe[T any](p stream.Publisher[T], initial int64) *Recorder[T] {
	r := NewRecorder[T](initial)
	p.Subscribe(r)
	return r
}

func (r *Recorder[T]) enter(name string) {
	if !r.inSignal.CompareAndSwap(false, true) {
		r.mu.Lock()
		r.violate("concurrent %s", name)
		r.mu.Unlock()
	}
}

func (r *Recorder[T]) leave() { r.inSignal.Store(false) }

// violate records a contract violation. r.mu must be held.
func (r *Recorder[T]) violate(format string, args ...any) {
	r.violations = append(r.violations, fmt.Sprintf(format, args...))
}

// OnSubscribe implements stream.Subscriber.
func (r *Recorder[T]) OnSubscribe(s stream.Subscription) {
	r.mu.Lock()
	r.subscribed++
	if r.subscribed > 1 {
		r.violate("onSubscribe called %d times", r.subscribed)
	}
	r.sub = s
	r.mu.Unlock()

	if r.initial > 0 {
		r.Request(r.initial)
	}
}

// OnNext implements stream.Subscriber.
func (r *Recorder[T]) OnNext(v T) {
	r.enter("onNext")
	defer r.leave()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.terminated {
		r.violate("onNext(%v) after terminal signal", v)
	}
	if r.outstanding == 0 {
		r.violate("onNext(%v) without demand", v)
	} else if r.outstanding != stream.Unbounded {
		r.outstanding--
	}
	r.signals = append(r.signals, stream.Next(v))
	r.cond.Broadcast()
}

// OnError implements stream.Subscriber.
func (r *Recorder[T]) OnError(err error) {
	r.enter("onError")
	defer r.leave()
	r.terminate(stream.Failure[T](err))
}

// OnComplete implements stream.Subscriber.
func (r *Recorder[T]) OnComplete() {
	r.enter("onComplete")
	defer r.leave()
	r.terminate(stream.Complete[T]())
}

func (r *Recorder[T]) terminate(sig stream.Signal[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.terminated {
		r.violate("%s after terminal signal", sig)
	}
	r.terminated = true
	r.signals = append(r.signals, sig)
	r.cond.Broadcast()
}

// Request asks the publisher for n more items.
func (r *Recorder[T]) Request(n int64) {
	r.mu.Lock()
	s := r.sub
	if n > 0 {
		if r.outstanding > stream.Unbounded-n {
			r.outstanding = stream.Unbounded
		} else {
			r.outstanding += n
		}
	}
	r.mu.Unlock()

	if s != nil {
		s.Request(n)
	}
}

// Cancel cancels the subscription.
func (r *Recorder[T]) Cancel() {
	r.mu.Lock()
	s := r.sub
	r.mu.Unlock()

	if s != nil {
		s.Cancel()
	}
}

// Signals returns a copy of every signal received so far.
func (r *Recorder[T]) Signals() []stream.Signal[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]stream.Signal[T](nil), r.signals...)
}

// Items returns the values of the onNext signals received so far.
func (r *Recorder[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]T, 0, len(r.signals))
	for _, s := range r.signals {
		if s.Kind == stream.KindNext {
			items = append(items, s.Value)
		}
	}
	return items
}

// Err returns the error of the terminal signal, if any.
func (r *Recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.signals); n > 0 && r.signals[n-1].Kind == stream.KindError {
		return r.signals[n-1].Err
	}
	return nil
}

// Completed reports whether the sequence completed successfully.
func (r *Recorder[T]) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.signals)
	return n > 0 && r.signals[n-1].Kind == stream.KindComplete
}

// Terminated reports whether a terminal signal has been received.
func (r *Recorder[T]) Terminated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.terminated
}

// Subscribed reports whether OnSubscribe has been called.
func (r *Recorder[T]) Subscribed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscribed > 0
}

// Violations returns the contract violations observed so far.
func (r *Recorder[T]) Violations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.violations...)
}

// AwaitTerminal blocks until a terminal signal arrives or timeout elapses.
// It reports whether the sequence terminated.
func (r *Recorder[T]) AwaitTerminal(timeout time.Duration) bool {
	return r.await(timeout, func() bool { return r.terminated })
}

// AwaitItems blocks until at least n items arrived, the sequence
// terminated, or timeout elapsed. It reports whether n items arrived.
func (r *Recorder[T]) AwaitItems(n int, timeout time.Duration) bool {
	r.await(timeout, func() bool { return r.countLocked() >= n || r.terminated })
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countLocked() >= n
}

func (r *Recorder[T]) countLocked() int {
	n := len(r.signals)
	if r.terminated {
		n--
	}
	return n
}

func (r *Recorder[T]) await(timeout time.Duration, ready func() bool) bool {
	timer := time.AfterFunc(timeout, func() {
		r.mu.Lock()
		r.cond.Broadcast()
		r.mu.Unlock()
	})
	defer timer.Stop()

	deadline := time.Now().Add(timeout)
	r.mu.Lock()
	defer r.mu.Unlock()
	for !ready() {
		if !time.Now().Before(deadline) {
			return false
		}
		r.cond.Wait()
	}
	return true
}
