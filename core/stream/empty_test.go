package stream_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/core/stream/streamtest"
)

func TestDefaultIfEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  stream.Publisher[string]
		want []string
	}{
		{name: "empty_source", src: stream.Empty[string](), want: []string{"default"}},
		{name: "non_empty_source", src: stream.Just("alex"), want: []string{"alex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := streamtest.Subscribe(stream.DefaultIfEmpty(tt.src, "default"), stream.Unbounded)
			require.True(t, rec.Completed())
			assert.Equal(t, tt.want, rec.Items())
		})
	}
}

func TestSwitchIfEmpty(t *testing.T) {
	t.Parallel()

	t.Run("alternative_goes_through_same_stage", func(t *testing.T) {
		t.Parallel()

		stage := func(p stream.Publisher[string]) stream.Publisher[string] {
			long := stream.Filter(stream.Map(p, strings.ToUpper), longerThan(6))
			return stream.FlatMapOrdered(long, func(s string) stream.Publisher[string] {
				return stream.FromSlice(strings.Split(s, ""))
			})
		}

		names := stream.Transform(stream.Just("alex", "ben", "chloe"), stage)
		fallback := stream.Transform(stream.Just("default"), stage)

		rec := streamtest.Subscribe(stream.SwitchIfEmpty(names, fallback), stream.Unbounded)

		require.True(t, rec.Completed())
		assert.Equal(t, []string{"D", "E", "F", "A", "U", "L", "T"}, rec.Items())
		assert.Empty(t, rec.Violations())
	})

	t.Run("carries_unmet_demand_to_alternative", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.SwitchIfEmpty(stream.Empty[int](), stream.Just(1, 2, 3)), 2)
		assert.Equal(t, []int{1, 2}, rec.Items())
		assert.False(t, rec.Terminated())

		rec.Request(1)
		assert.Equal(t, []int{1, 2, 3}, rec.Items())
		assert.True(t, rec.Completed())
		assert.Empty(t, rec.Violations())
	})

	t.Run("error_does_not_switch", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.SwitchIfEmpty(stream.Error[int](errBoom), stream.Just(1)), stream.Unbounded)
		assert.ErrorIs(t, rec.Err(), errBoom)
		assert.Empty(t, rec.Items())
	})

	t.Run("cancel_before_switch", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.Subscribe(stream.SwitchIfEmpty(stream.Just(1, 2), stream.Just(9)), 1)
		rec.Cancel()
		rec.Request(5)

		assert.Equal(t, []int{1}, rec.Items())
		assert.False(t, rec.Terminated())
	})
}
