// Package stream provides push-based asynchronous sequences with explicit
// backpressure and a set of composition operators.
//
// A Publisher emits items to a Subscriber only after the subscriber asked
// for them through its Subscription. Every sequence emits zero or more
// items followed by at most one terminal signal (error or completion), and
// signals are never delivered to the same subscriber concurrently, even
// when the items are produced by several goroutines.
//
// Publishers are cold: every Subscribe starts an independent execution.
// Use the broadcast package to share one running source between many
// subscribers.
//
// # Features
//
//   - Sources: Just, FromSlice, Empty, Error, Defer, Create, FromChannel
//   - Timers: Interval and Delay with an injectable Clock
//   - Operators: Map, Filter, DoOnNext, Take, Transform, CollectList, Log
//   - Flattening: FlatMapOrdered, FlatMapUnordered, Concat, Merge
//   - Combining: Zip, Zip2, SwitchIfEmpty, DefaultIfEmpty
//   - Sinks: ForEach, Collect, First, SubscribeFunc
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/reactive/core/stream"
//
//	names := stream.Just("alex", "ben", "chloe")
//	upper := stream.Map(names, strings.ToUpper)
//	long := stream.Filter(upper, func(s string) bool { return len(s) > 3 })
//
//	items, err := stream.Collect(ctx, long)
//	// items == []string{"ALEX", "CHLOE"}
//
// # Flattening
//
// FlatMapOrdered keeps the input order even when inner sequences are
// delayed; FlatMapUnordered runs inner sequences concurrently and emits
// items as they arrive:
//
//	letters := stream.FlatMapOrdered(long, func(s string) stream.Publisher[string] {
//		return stream.FromSlice(strings.Split(s, ""))
//	})
//
// # Backpressure
//
// Operators never emit more items than were requested downstream. Inner
// and zipped sequences are requested DefaultPrefetch items ahead and
// replenished as items are consumed. Interval cannot slow down time: a
// tick that finds no outstanding demand fails the sequence with ErrOverflow.
//
// # Cancellation
//
// Cancelling a subscription cancels every upstream and inner subscription
// of the pipeline and stops pending timers before Cancel returns. The
// blocking sinks take a context and cancel the pipeline when it is done.
//
// # Testing
//
// The streamtest package provides a Recorder that captures signals with
// manual demand control and a virtual Clock for Interval and Delay:
//
//	clock := streamtest.NewClock(time.Unix(0, 0))
//	rec := streamtest.Subscribe(stream.Interval(time.Second, stream.WithClock(clock)), 2)
//	clock.Advance(2 * time.Second)
//	// rec.Items() == []int64{0, 1}
package stream
