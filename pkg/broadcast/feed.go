package broadcast

import (
	"context"
	"sync/atomic"

	"github.com/dmitrymomot/reactive/core/stream"
)

// State is the delivery phase of a feed.
type State int

const (
	// StateReplaying means the feed is still delivering items that were
	// published before it was created.
	StateReplaying State = iota
	// StateLive means the feed has caught up and delivers new items as
	// they are published.
	StateLive
	// StateClosed means the feed has terminated.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReplaying:
		return "replaying"
	case StateLive:
		return "live"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Feed is one subscriber's view of a Hub: a cursor into the shared log.
// It is a single-use stream.Publisher; a second subscriber receives
// stream.ErrAlreadySubscribed.
type Feed[T any] struct {
	hub       *Hub[T]
	id        string
	replayEnd int64
	wake      chan struct{}

	cursor     atomic.Int64
	subscribed atomic.Bool
	finished   atomic.Bool
	sink       atomic.Pointer[stream.Sink[T]]

	overwhelmed bool // guarded by hub.mu
}

var _ stream.Publisher[int] = (*Feed[int])(nil)

// ID returns the unique identifier of the feed.
func (f *Feed[T]) ID() string { return f.id }

// State reports the current delivery phase.
func (f *Feed[T]) State() State {
	switch {
	case f.finished.Load():
		return StateClosed
	case f.cursor.Load() < f.replayEnd:
		return StateReplaying
	default:
		return StateLive
	}
}

// Subscribe implements stream.Publisher. Items are delivered from a
// dedicated goroutine as the subscriber requests them.
func (f *Feed[T]) Subscribe(s stream.Subscriber[T]) {
	if !f.subscribed.CompareAndSwap(false, true) {
		stream.Error[T](stream.ErrAlreadySubscribed).Subscribe(s)
		return
	}
	stream.Create(f.run).Subscribe(s)
}

// Close releases a feed that was never subscribed to.
// It has no effect on a subscribed feed; cancel its subscription instead.
func (f *Feed[T]) Close() {
	if f.subscribed.CompareAndSwap(false, true) {
		f.finished.Store(true)
		f.hub.detach(f)
	}
}

// lag counts the live items published after the replay window that the
// feed has not read yet. Replayed items never count.
func (f *Feed[T]) lag(head int64) int64 {
	return head - max(f.cursor.Load(), f.replayEnd)
}

func (f *Feed[T]) notify() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// abort terminates a running feed even if it is blocked waiting for demand.
// A feed that has not started yet observes the overwhelmed flag instead.
func (f *Feed[T]) abort(err error) {
	if sink := f.sink.Load(); sink != nil {
		(*sink).Fail(err)
	}
	f.notify()
}

func (f *Feed[T]) run(ctx context.Context, sink stream.Sink[T]) error {
	f.sink.Store(&sink)
	defer func() {
		f.finished.Store(true)
		f.hub.detach(f)
	}()

	for {
		v, at, ok, done, err := f.hub.next(f)
		if err != nil {
			return err
		}
		if ok {
			if !sink.Next(v) {
				return nil
			}
			f.cursor.Store(at + 1)
			f.hub.opts.metrics.recordDelivery()
			continue
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-f.wake:
		}
	}
}
