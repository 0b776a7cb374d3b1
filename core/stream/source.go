package stream

import (
	"context"
	"slices"
)

// Just emits the given items in order and completes.
func Just[T any](items ...T) Publisher[T] {
	return FromSlice(items)
}

// FromSlice emits the elements of items in order and completes.
// The slice is copied, so later changes by the caller are not observed.
func FromSlice[T any](items []T) Publisher[T] {
	snapshot := slices.Clone(items)
	return PublisherFunc[T](func(s Subscriber[T]) {
		e := newEmitter(s)
		e.queue = make([]entry[T], len(snapshot))
		for i, v := range snapshot {
			e.queue[i] = entry[T]{v: v}
		}
		e.done = true
		e.start()
	})
}

// Empty completes without emitting anything.
func Empty[T any]() Publisher[T] {
	return FromSlice[T](nil)
}

// Error fails every subscriber with err without emitting anything.
func Error[T any](err error) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		e := newEmitter(s)
		e.done = true
		e.err = err
		e.start()
	})
}

// Defer calls factory for every subscription and subscribes to the result.
func Defer[T any](factory func() Publisher[T]) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		factory().Subscribe(s)
	})
}

// Sink receives the values of a producer registered with Create.
type Sink[T any] interface {
	// Next blocks until the subscriber has demand for v, then queues it.
	// It returns false, without queueing, once the subscription is cancelled.
	Next(v T) bool

	// Fail terminates the sequence with err and releases a producer blocked
	// in Next. It may be called from any goroutine.
	Fail(err error)
}

// Create adapts an asynchronous producer into a Publisher.
//
// For every subscription produce runs in its own goroutine with a context
// that is cancelled when the subscriber cancels. Returning nil completes
// the sequence; returning an error fails it. Values handed to the sink
// never exceed the subscriber's demand because Next blocks until there is room.
//
// Example:
//
//	lines := stream.Create(func(ctx context.Context, sink stream.Sink[string]) error {
//	    scanner := bufio.NewScanner(r)
//	    for scanner.Scan() {
//	        if !sink.Next(scanner.Text()) {
//	            return nil
//	        }
//	    }
//	    return scanner.Err()
//	})
func Create[T any](produce func(ctx context.Context, sink Sink[T]) error) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		ctx, cancel := context.WithCancel(context.Background())
		e := newEmitter(s)
		cs := &createSink[T]{
			ctx:    ctx,
			cancel: cancel,
			out:    e,
			wake:   make(chan struct{}, 1),
		}
		e.onRequest = cs.signal
		e.onCancel = cancel
		e.start()

		go func() {
			defer cancel()
			err := produce(ctx, cs)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				e.fail(err)
				return
			}
			e.complete()
		}()
	})
}

type createSink[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	out    *emitter[T]
	wake   chan struct{}
}

func (c *createSink[T]) signal(int64) {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *createSink[T]) Next(v T) bool {
	for {
		if c.ctx.Err() != nil {
			return false
		}
		if c.out.hasRoom() {
			c.out.push(v, nil)
			return true
		}
		select {
		case <-c.ctx.Done():
			return false
		case <-c.wake:
		}
	}
}

func (c *createSink[T]) Fail(err error) {
	c.out.fail(err)
	c.cancel()
}

// FromChannel emits the values received from ch until it is closed,
// then completes. Cancelling the subscription stops reading from ch.
func FromChannel[T any](ch <-chan T) Publisher[T] {
	return Create(func(ctx context.Context, sink Sink[T]) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-ch:
				if !ok {
					return nil
				}
				if !sink.Next(v) {
					return nil
				}
			}
		}
	})
}
