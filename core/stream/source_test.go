package stream_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/core/stream/streamtest"
)

var errBoom = errors.New("boom")

func TestJust(t *testing.T) {
	t.Parallel()

	t.Run("emits_items_in_order_and_completes", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.Just(1, 2, 3), stream.Unbounded)

		require.True(t, rec.Completed())
		assert.Equal(t, []int{1, 2, 3}, rec.Items())
		assert.Empty(t, rec.Violations())
	})

	t.Run("honours_demand", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.Just(1, 2, 3), 1)
		assert.Equal(t, []int{1}, rec.Items())
		assert.False(t, rec.Terminated())

		rec.Request(2)
		assert.Equal(t, []int{1, 2, 3}, rec.Items())
		assert.True(t, rec.Completed())
		assert.Empty(t, rec.Violations())
	})

	t.Run("cancel_stops_delivery", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.Just(1, 2, 3), 1)
		rec.Cancel()
		rec.Request(5)

		assert.Equal(t, []int{1}, rec.Items())
		assert.False(t, rec.Terminated())
	})

	t.Run("non_positive_request_fails", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.Just(1), 0)
		rec.Request(0)

		require.True(t, rec.Terminated())
		assert.ErrorIs(t, rec.Err(), stream.ErrInvalidDemand)
		assert.Empty(t, rec.Items())
	})

	t.Run("invalid_request_overrides_pending_completion", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.FromSlice([]int{1, 2, 3}), 1)
		rec.Request(-1)
		rec.Request(5)

		require.True(t, rec.Terminated())
		assert.ErrorIs(t, rec.Err(), stream.ErrInvalidDemand)
		assert.Equal(t, []int{1}, rec.Items())
		assert.Empty(t, rec.Violations())
	})
}

func TestFromSlice_CopiesInput(t *testing.T) {
	t.Parallel()

	items := []string{"a", "b"}
	p := stream.FromSlice(items)
	items[0] = "z"

	got, err := stream.Collect(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestEmptyAndError(t *testing.T) {
	t.Parallel()

	t.Run("empty_completes_without_demand", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.Empty[int](), 0)
		assert.True(t, rec.Completed())
		assert.Empty(t, rec.Items())
	})

	t.Run("error_fails_without_demand", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.Error[int](errBoom), 0)
		assert.ErrorIs(t, rec.Err(), errBoom)
		assert.Empty(t, rec.Items())
	})
}

func TestDefer_RunsFactoryPerSubscription(t *testing.T) {
	t.Parallel()

	var calls int
	p := stream.Defer(func() stream.Publisher[int] {
		calls++
		return stream.Just(calls)
	})

	first, err := stream.Collect(context.Background(), p)
	require.NoError(t, err)
	second, err := stream.Collect(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, first)
	assert.Equal(t, []int{2}, second)
}

func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("completes_when_producer_returns", func(t *testing.T) {
		t.Parallel()

		p := stream.Create(func(ctx context.Context, sink stream.Sink[int]) error {
			for i := 1; i <= 3; i++ {
				if !sink.Next(i) {
					return nil
				}
			}
			return nil
		})

		rec := streamtest.Subscribe(p, stream.Unbounded)
		require.True(t, rec.AwaitTerminal(time.Second))
		assert.True(t, rec.Completed())
		assert.Equal(t, []int{1, 2, 3}, rec.Items())
		assert.Empty(t, rec.Violations())
	})

	t.Run("fails_when_producer_returns_error", func(t *testing.T) {
		t.Parallel()

		p := stream.Create(func(ctx context.Context, sink stream.Sink[int]) error {
			sink.Next(1)
			return errBoom
		})

		rec := streamtest.Subscribe(p, stream.Unbounded)
		require.True(t, rec.AwaitTerminal(time.Second))
		assert.ErrorIs(t, rec.Err(), errBoom)
		assert.Equal(t, []int{1}, rec.Items())
	})

	t.Run("blocks_producer_without_demand", func(t *testing.T) {
		t.Parallel()

		var produced atomic.Int64
		exited := make(chan struct{})
		p := stream.Create(func(ctx context.Context, sink stream.Sink[int]) error {
			defer close(exited)
			for i := 0; ; i++ {
				if !sink.Next(i) {
					return nil
				}
				produced.Add(1)
			}
		})

		rec := streamtest.Subscribe(p, 2)
		require.True(t, rec.AwaitItems(2, time.Second))
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, int64(2), produced.Load())

		rec.Cancel()
		select {
		case <-exited:
		case <-time.After(time.Second):
			t.Fatal("producer did not observe cancellation")
		}
		assert.Equal(t, []int{0, 1}, rec.Items())
		assert.False(t, rec.Terminated())
		assert.Empty(t, rec.Violations())
	})
}

func TestFromChannel(t *testing.T) {
	t.Parallel()

	ch := make(chan string, 3)
	ch <- "a"
	ch <- "b"
	ch <- "c"
	close(ch)

	got, err := stream.Collect(context.Background(), stream.FromChannel(ch))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSubscribeFunc(t *testing.T) {
	t.Parallel()

	var (
		items     []string
		completed bool
	)
	stream.SubscribeFunc(stream.Just("alex", "ben"),
		func(s string) { items = append(items, s) },
		func(error) { t.Error("unexpected error") },
		func() { completed = true },
	)

	assert.Equal(t, []string{"alex", "ben"}, items)
	assert.True(t, completed)
}
