// Package streamtest provides helpers for testing stream publishers:
// a Recorder that captures signals under manual demand control, and a
// virtual Clock that drives Interval and Delay deterministically.
//
//	clock := streamtest.NewClock(time.Unix(0, 0))
//	src := stream.Delay(stream.Just(1, 2), time.Second, stream.WithClock(clock))
//
//	rec := streamtest.Subscribe(src, stream.Unbounded)
//	clock.Advance(time.Second)
//
//	require.True(t, rec.Completed())
//	require.Equal(t, []int{1, 2}, rec.Items())
//	require.Empty(t, rec.Violations())
package streamtest
