package stream

import (
	"context"
	"sync"
)

// ForEach drains p, calling fn for every item and requesting the next one
// only after fn returned. It blocks until p terminates, fn returns an
// error, or ctx is done; in the last two cases the subscription is
// cancelled. ForEach never returns while fn is still running.
//
// Example:
//
//	err := stream.ForEach(ctx, feed, func(m Movie) error {
//	    return enc.Encode(m)
//	})
func ForEach[T any](ctx context.Context, p Publisher[T], fn func(T) error) error {
	fe := &forEach[T]{fn: fn, done: make(chan struct{})}
	p.Subscribe(fe)

	select {
	case <-fe.done:
	case <-ctx.Done():
		fe.stop(ctx.Err())
	}
	return fe.result()
}

type forEach[T any] struct {
	fn   func(T) error
	sub  handle
	done chan struct{}

	mu      sync.Mutex // held while fn runs
	stopped bool
	err     error
	once    sync.Once
}

func (f *forEach[T]) OnSubscribe(s Subscription) {
	if !f.sub.set(s) {
		s.Cancel()
		return
	}
	s.Request(1)
}

func (f *forEach[T]) OnNext(v T) {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return
	}
	if err := f.fn(v); err != nil {
		f.mu.Unlock()
		f.stop(err)
		return
	}
	f.mu.Unlock()

	f.sub.Request(1)
}

func (f *forEach[T]) OnError(err error) { f.finish(err) }
func (f *forEach[T]) OnComplete()       { f.finish(nil) }

func (f *forEach[T]) finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	f.stopped = true
	f.err = err
	f.once.Do(func() { close(f.done) })
}

// stop cancels the subscription and waits for an in-flight fn.
func (f *forEach[T]) stop(err error) {
	f.sub.Cancel()
	f.finish(err)
}

func (f *forEach[T]) result() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Collect drains p and returns every item it emitted.
// On failure the items received so far are returned with the error.
// An empty sequence yields an empty, non-nil slice.
func Collect[T any](ctx context.Context, p Publisher[T]) ([]T, error) {
	items := []T{}
	var mu sync.Mutex
	err := ForEach(ctx, p, func(v T) error {
		mu.Lock()
		items = append(items, v)
		mu.Unlock()
		return nil
	})
	mu.Lock()
	defer mu.Unlock()
	return items, err
}

// First returns the first item of p and cancels the rest.
// The boolean is false when p completed without emitting anything.
func First[T any](ctx context.Context, p Publisher[T]) (T, bool, error) {
	var (
		first T
		found bool
	)
	err := ForEach(ctx, Take(p, 1), func(v T) error {
		first, found = v, true
		return nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return first, found, nil
}
