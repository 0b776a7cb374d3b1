package stream_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/core/stream/streamtest"
)

func join(parts []string) string { return strings.Join(parts, "") }

func fourSources() []stream.Publisher[string] {
	return []stream.Publisher[string]{
		stream.Just("A", "B", "C"),
		stream.Just("D", "E", "F"),
		stream.Just("1", "2", "3"),
		stream.Just("4", "5", "6"),
	}
}

func TestZip(t *testing.T) {
	t.Parallel()

	t.Run("combines_four_sources", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.Zip(fourSources(), join), stream.Unbounded)

		require.True(t, rec.Completed())
		assert.Equal(t, []string{"AD14", "BE25", "CF36"}, rec.Items())
		assert.Empty(t, rec.Violations())
	})

	t.Run("honours_demand", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.Zip(fourSources(), join), 1)
		assert.Equal(t, []string{"AD14"}, rec.Items())
		assert.False(t, rec.Terminated())

		rec.Request(5)
		assert.Equal(t, []string{"AD14", "BE25", "CF36"}, rec.Items())
		assert.True(t, rec.Completed())
		assert.Empty(t, rec.Violations())
	})

	t.Run("stops_at_shortest_source", func(t *testing.T) {
		t.Parallel()

		sum := func(row []int) int { return row[0] + row[1] }
		rec := streamtest.Subscribe(stream.Zip([]stream.Publisher[int]{
			stream.Just(1, 2, 3),
			stream.Just(10, 20),
		}, sum), stream.Unbounded)

		require.True(t, rec.Completed())
		assert.Equal(t, []int{11, 22}, rec.Items())
	})

	t.Run("cancels_remaining_sources", func(t *testing.T) {
		t.Parallel()

		cancelled := make(chan struct{})
		endless := stream.Create(func(ctx context.Context, sink stream.Sink[int]) error {
			defer close(cancelled)
			for sink.Next(7) {
			}
			return nil
		})

		combine := func(row []int) int { return row[0]*100 + row[1] }
		rec := streamtest.Subscribe(stream.Zip([]stream.Publisher[int]{stream.Just(1), endless}, combine), stream.Unbounded)

		require.True(t, rec.AwaitTerminal(time.Second))
		assert.True(t, rec.Completed())
		assert.Equal(t, []int{107}, rec.Items())

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("endless source was not cancelled")
		}
	})

	t.Run("forwards_error", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.Zip([]stream.Publisher[string]{
			stream.Just("A"),
			stream.Error[string](errBoom),
		}, join), stream.Unbounded)

		assert.ErrorIs(t, rec.Err(), errBoom)
		assert.Empty(t, rec.Items())
	})

	t.Run("no_sources_completes", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.Zip(nil, join), 0)
		assert.True(t, rec.Completed())
	})
}

func TestZip2(t *testing.T) {
	t.Parallel()

	p := stream.Zip2(stream.Just("a", "b"), stream.Just(1, 2, 3), func(s string, i int) string {
		return fmt.Sprintf("%s%d", s, i)
	})

	got, err := stream.Collect(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, got)
}
