package stream

import "sync"

// Map transforms every item with fn. It runs inline on the upstream's
// goroutine and passes demand through unchanged.
func Map[T, R any](src Publisher[T], fn func(T) R) Publisher[R] {
	return PublisherFunc[R](func(s Subscriber[R]) {
		src.Subscribe(&mapSubscriber[T, R]{down: s, fn: fn})
	})
}

type mapSubscriber[T, R any] struct {
	down Subscriber[R]
	fn   func(T) R
}

func (m *mapSubscriber[T, R]) OnSubscribe(s Subscription) { m.down.OnSubscribe(s) }
func (m *mapSubscriber[T, R]) OnNext(v T)                 { m.down.OnNext(m.fn(v)) }
func (m *mapSubscriber[T, R]) OnError(err error)          { m.down.OnError(err) }
func (m *mapSubscriber[T, R]) OnComplete()                { m.down.OnComplete() }

// Filter drops the items for which keep returns false. Every dropped
// item is replaced by a request for one more from upstream so that the
// downstream demand is still honoured.
func Filter[T any](src Publisher[T], keep func(T) bool) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		src.Subscribe(&filterSubscriber[T]{down: s, keep: keep})
	})
}

type filterSubscriber[T any] struct {
	down Subscriber[T]
	keep func(T) bool
	up   Subscription
}

func (f *filterSubscriber[T]) OnSubscribe(s Subscription) {
	f.up = s
	f.down.OnSubscribe(s)
}

func (f *filterSubscriber[T]) OnNext(v T) {
	if f.keep(v) {
		f.down.OnNext(v)
		return
	}
	f.up.Request(1)
}

func (f *filterSubscriber[T]) OnError(err error) { f.down.OnError(err) }
func (f *filterSubscriber[T]) OnComplete()       { f.down.OnComplete() }

// DoOnNext calls fn for every item before passing it downstream.
func DoOnNext[T any](src Publisher[T], fn func(T)) Publisher[T] {
	return Map(src, func(v T) T {
		fn(v)
		return v
	})
}

// Transform applies a reusable pipeline fragment to src.
//
// Example:
//
//	upper := func(p stream.Publisher[string]) stream.Publisher[string] {
//	    return stream.Map(p, strings.ToUpper)
//	}
//	names := stream.Transform(stream.Just("alex", "ben"), upper)
func Transform[T, R any](src Publisher[T], fn func(Publisher[T]) Publisher[R]) Publisher[R] {
	return fn(src)
}

// Take emits at most n items, then cancels upstream and completes.
// Demand forwarded upstream never exceeds what is left to take.
func Take[T any](src Publisher[T], n int64) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		src.Subscribe(&takeSubscriber[T]{down: s, limit: n})
	})
}

type takeSubscriber[T any] struct {
	down  Subscriber[T]
	limit int64
	up    Subscription

	mu        sync.Mutex
	requested int64
	seen      int64
	done      bool
}

func (t *takeSubscriber[T]) OnSubscribe(s Subscription) {
	t.up = s
	if t.limit <= 0 {
		s.Cancel()
		t.done = true
		t.down.OnSubscribe(noopSubscription{})
		t.down.OnComplete()
		return
	}
	t.down.OnSubscribe(t)
}

func (t *takeSubscriber[T]) Request(n int64) {
	if n <= 0 {
		t.up.Request(n)
		return
	}
	t.mu.Lock()
	left := t.limit - t.requested
	if n > left {
		n = left
	}
	t.requested += n
	t.mu.Unlock()

	if n > 0 {
		t.up.Request(n)
	}
}

func (t *takeSubscriber[T]) Cancel() { t.up.Cancel() }

func (t *takeSubscriber[T]) OnNext(v T) {
	if t.done {
		return
	}
	t.seen++
	t.down.OnNext(v)
	if t.seen == t.limit {
		t.done = true
		t.up.Cancel()
		t.down.OnComplete()
	}
}

func (t *takeSubscriber[T]) OnError(err error) {
	if t.done {
		return
	}
	t.done = true
	t.down.OnError(err)
}

func (t *takeSubscriber[T]) OnComplete() {
	if t.done {
		return
	}
	t.done = true
	t.down.OnComplete()
}

// CollectList gathers every item and emits them as a single slice when
// src completes. An empty source yields an empty, non-nil slice.
func CollectList[T any](src Publisher[T]) Publisher[[]T] {
	return PublisherFunc[[]T](func(s Subscriber[[]T]) {
		src.Subscribe(&collectSubscriber[T]{out: newEmitter(s), items: []T{}})
	})
}

type collectSubscriber[T any] struct {
	out   *emitter[[]T]
	items []T
}

func (c *collectSubscriber[T]) OnSubscribe(s Subscription) {
	c.out.onCancel = s.Cancel
	c.out.start()
	s.Request(Unbounded)
}

func (c *collectSubscriber[T]) OnNext(v T) { c.items = append(c.items, v) }

func (c *collectSubscriber[T]) OnError(err error) {
	c.items = nil
	c.out.fail(err)
}

func (c *collectSubscriber[T]) OnComplete() {
	c.out.enqueue(c.items, nil)
	c.items = nil
	c.out.complete()
}
