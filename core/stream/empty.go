package stream

import "sync"

// SwitchIfEmpty mirrors src, or alt when src completes without emitting
// anything. Demand requested while src was active and left unmet is
// carried over to alt.
func SwitchIfEmpty[T any](src, alt Publisher[T]) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		src.Subscribe(&switchSubscriber[T]{down: s, alt: alt})
	})
}

// DefaultIfEmpty emits v when src completes without emitting anything.
func DefaultIfEmpty[T any](src Publisher[T], v T) Publisher[T] {
	return SwitchIfEmpty(src, Just(v))
}

type switchSubscriber[T any] struct {
	down Subscriber[T]
	alt  Publisher[T]

	mu        sync.Mutex
	current   Subscription
	requested int64
	cancelled bool
	switched  bool
	hasValue  bool
}

func (w *switchSubscriber[T]) OnSubscribe(s Subscription) {
	w.mu.Lock()
	if w.cancelled {
		w.mu.Unlock()
		s.Cancel()
		return
	}
	w.current = s
	switched := w.switched
	pending := w.requested
	w.mu.Unlock()

	if !switched {
		w.down.OnSubscribe(w)
		return
	}
	if pending > 0 {
		s.Request(pending)
	}
}

func (w *switchSubscriber[T]) Request(n int64) {
	w.mu.Lock()
	if n > 0 {
		w.requested = addCap(w.requested, n)
	}
	s := w.current
	w.mu.Unlock()

	s.Request(n)
}

func (w *switchSubscriber[T]) Cancel() {
	w.mu.Lock()
	w.cancelled = true
	s := w.current
	w.mu.Unlock()

	s.Cancel()
}

func (w *switchSubscriber[T]) OnNext(v T) {
	w.mu.Lock()
	w.hasValue = true
	if w.requested != Unbounded {
		w.requested--
	}
	w.mu.Unlock()

	w.down.OnNext(v)
}

func (w *switchSubscriber[T]) OnError(err error) { w.down.OnError(err) }

func (w *switchSubscriber[T]) OnComplete() {
	w.mu.Lock()
	if w.hasValue || w.switched || w.cancelled {
		w.mu.Unlock()
		w.down.OnComplete()
		return
	}
	w.switched = true
	w.mu.Unlock()

	w.alt.Subscribe(w)
}
