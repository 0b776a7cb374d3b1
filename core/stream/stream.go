package stream

import (
	"math"
	"sync"
)

// Unbounded is the demand value meaning "deliver everything".
// Once a subscription has been asked for Unbounded items its demand
// is never decremented again.
const Unbounded int64 = math.MaxInt64

// DefaultPrefetch is the number of items requested from inner and zipped
// sequences ahead of downstream consumption.
const DefaultPrefetch = 32

// Publisher is a possibly unbounded source of ordered values.
// Every call to Subscribe starts an independent execution for cold publishers.
type Publisher[T any] interface {
	Subscribe(s Subscriber[T])
}

// Subscriber receives the signals of one subscription.
// OnSubscribe is always called first and exactly once. It is followed by
// zero or more OnNext calls and at most one of OnError or OnComplete.
// Signals are never delivered concurrently to the same Subscriber.
type Subscriber[T any] interface {
	OnSubscribe(s Subscription)
	OnNext(v T)
	OnError(err error)
	OnComplete()
}

// Subscription is the demand channel between a Publisher and its Subscriber.
type Subscription interface {
	// Request adds n to the outstanding demand. n must be positive.
	Request(n int64)

	// Cancel stops delivery and releases upstream resources.
	// It is safe to call more than once and from any goroutine.
	Cancel()
}

// PublisherFunc adapts an ordinary function to the Publisher interface.
type PublisherFunc[T any] func(s Subscriber[T])

// Subscribe calls f(s).
func (f PublisherFunc[T]) Subscribe(s Subscriber[T]) {
	f(s)
}

// SubscribeFunc subscribes to p with unbounded demand and returns the
// subscription handle. Nil callbacks are ignored.
//
// Example:
//
//	sub := stream.SubscribeFunc(stream.Just("alex", "ben"),
//	    func(name string) { fmt.Println("Name is:", name) },
//	    nil, nil,
//	)
//	defer sub.Cancel()
func SubscribeFunc[T any](p Publisher[T], onNext func(T), onError func(error), onComplete func()) Subscription {
	h := &handle{}
	p.Subscribe(&funcSubscriber[T]{
		handle:     h,
		onNext:     onNext,
		onError:    onError,
		onComplete: onComplete,
	})
	return h
}

// handle is a Subscription that may be cancelled before the real
// subscription arrives.
type handle struct {
	mu        sync.Mutex
	sub       Subscription
	cancelled bool
}

func (h *handle) set(s Subscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return false
	}
	h.sub = s
	return true
}

func (h *handle) Request(n int64) {
	h.mu.Lock()
	s := h.sub
	h.mu.Unlock()
	if s != nil {
		s.Request(n)
	}
}

func (h *handle) Cancel() {
	h.mu.Lock()
	if h.cancelled {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	s := h.sub
	h.mu.Unlock()
	if s != nil {
		s.Cancel()
	}
}

type funcSubscriber[T any] struct {
	handle     *handle
	onNext     func(T)
	onError    func(error)
	onComplete func()
}

func (f *funcSubscriber[T]) OnSubscribe(s Subscription) {
	if !f.handle.set(s) {
		s.Cancel()
		return
	}
	s.Request(Unbounded)
}

func (f *funcSubscriber[T]) OnNext(v T) {
	if f.onNext != nil {
		f.onNext(v)
	}
}

func (f *funcSubscriber[T]) OnError(err error) {
	if f.onError != nil {
		f.onError(err)
	}
}

func (f *funcSubscriber[T]) OnComplete() {
	if f.onComplete != nil {
		f.onComplete()
	}
}

// addCap adds two non-negative demands, saturating at Unbounded.
func addCap(a, b int64) int64 {
	if a > Unbounded-b {
		return Unbounded
	}
	return a + b
}

// noopSubscription is handed to subscribers that are terminated
// before any upstream exists.
type noopSubscription struct{}

func (noopSubscription) Request(int64) {}
func (noopSubscription) Cancel()       {}
