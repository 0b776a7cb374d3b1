package generator_test

import (
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/core/stream/streamtest"
	"github.com/dmitrymomot/reactive/internal/generator"
)

var alexChloe = []string{"A", "L", "E", "X", "C", "H", "L", "O", "E"}

func newService(t *testing.T, opts ...generator.Option) (*generator.Service, *streamtest.Clock) {
	t.Helper()
	clock := streamtest.NewClock(time.Unix(0, 0))
	opts = append([]generator.Option{
		generator.WithLogger(slogt.New(t)),
		generator.WithClock(clock),
		generator.WithDelay(generator.RandomDelay(time.Second)),
	}, opts...)
	return generator.New(opts...), clock
}

// drain subscribes with unbounded demand and advances the virtual clock far
// enough for every delay to elapse.
func drain[T any](t *testing.T, clock *streamtest.Clock, p stream.Publisher[T]) []T {
	t.Helper()
	rec := streamtest.Subscribe(p, stream.Unbounded)
	clock.Advance(10 * time.Second)
	require.True(t, rec.Completed(), "sequence did not complete: %v", rec.Err())
	assert.Empty(t, rec.Violations())
	return rec.Items()
}

func TestNames(t *testing.T) {
	t.Parallel()

	svc, clock := newService(t)

	t.Run("names", func(t *testing.T) {
		assert.Equal(t, []string{"alex", "ben", "chloe"}, drain(t, clock, svc.Names()))
	})

	t.Run("names_are_requested_one_by_one", func(t *testing.T) {
		rec := streamtest.Subscribe(svc.Names(), 1)
		assert.Equal(t, []string{"alex"}, rec.Items())
		rec.Request(2)
		assert.Equal(t, []string{"alex", "ben", "chloe"}, rec.Items())
		assert.True(t, rec.Completed())
	})

	t.Run("map", func(t *testing.T) {
		assert.Equal(t, []string{"4-ALEX", "5-CHLOE"}, drain(t, clock, svc.NamesMap(3)))
	})

	t.Run("immutability", func(t *testing.T) {
		assert.Equal(t, []string{"alex", "ben", "chloe"}, drain(t, clock, svc.NamesImmutability()))
	})

	t.Run("flatmap", func(t *testing.T) {
		assert.Equal(t, alexChloe, drain(t, clock, svc.NamesFlatMap(3)))
	})

	t.Run("name_mono", func(t *testing.T) {
		assert.Equal(t, []string{"alex"}, drain(t, clock, svc.NameMono()))
	})

	t.Run("name_mono_flatmap", func(t *testing.T) {
		assert.Equal(t, [][]string{{"A", "L", "E", "X"}}, drain(t, clock, svc.NameMonoFlatMap()))
	})

	t.Run("name_mono_flatmap_many", func(t *testing.T) {
		assert.Equal(t, []string{"A", "L", "E", "X"}, drain(t, clock, svc.NameMonoFlatMapMany()))
	})
}

func TestAsyncFlattening(t *testing.T) {
	t.Parallel()

	t.Run("flatmap_async_emits_every_letter", func(t *testing.T) {
		t.Parallel()

		svc, clock := newService(t)
		items := drain(t, clock, svc.NamesFlatMapAsync(3))
		assert.Len(t, items, 9)
		assert.ElementsMatch(t, alexChloe, items)
	})

	t.Run("flatmap_async_interleaves", func(t *testing.T) {
		t.Parallel()

		delays := map[string]time.Duration{"ALEX": 900 * time.Millisecond, "CHLOE": 100 * time.Millisecond}
		svc, clock := newService(t, generator.WithDelay(func(w string) time.Duration { return delays[w] }))

		items := drain(t, clock, svc.NamesFlatMapAsync(3))
		assert.Equal(t, []string{"C", "H", "L", "O", "E", "A", "L", "E", "X"}, items)
	})

	t.Run("concatmap_keeps_word_order", func(t *testing.T) {
		t.Parallel()

		delays := map[string]time.Duration{"ALEX": 900 * time.Millisecond, "CHLOE": 100 * time.Millisecond}
		svc, clock := newService(t, generator.WithDelay(func(w string) time.Duration { return delays[w] }))

		assert.Equal(t, alexChloe, drain(t, clock, svc.NamesConcatMap(3)))
	})

	t.Run("concatmap_random_delay", func(t *testing.T) {
		t.Parallel()

		svc, clock := newService(t)
		assert.Equal(t, alexChloe, drain(t, clock, svc.NamesConcatMap(3)))
	})
}

func TestTransform(t *testing.T) {
	t.Parallel()

	svc, clock := newService(t)

	t.Run("transform", func(t *testing.T) {
		assert.Equal(t, alexChloe, drain(t, clock, svc.NamesTransform(3)))
	})

	t.Run("transform_default_if_empty", func(t *testing.T) {
		assert.Equal(t, []string{"default"}, drain(t, clock, svc.NamesTransform(6)))
	})

	t.Run("transform_switch_if_empty", func(t *testing.T) {
		assert.Equal(t, []string{"D", "E", "F", "A", "U", "L", "T"}, drain(t, clock, svc.NamesTransformSwitchIfEmpty(6)))
	})

	t.Run("transform_switch_not_needed", func(t *testing.T) {
		assert.Equal(t, alexChloe, drain(t, clock, svc.NamesTransformSwitchIfEmpty(3)))
	})
}

func TestExplore(t *testing.T) {
	t.Parallel()

	svc, clock := newService(t)

	t.Run("concat", func(t *testing.T) {
		assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, drain(t, clock, svc.ExploreConcat()))
	})

	t.Run("merge", func(t *testing.T) {
		assert.Equal(t, []string{"A", "D", "B", "E", "C", "F"}, drain(t, clock, svc.ExploreMerge()))
	})

	t.Run("zip", func(t *testing.T) {
		assert.Equal(t, []string{"AD14", "BE25", "CF36"}, drain(t, clock, svc.ExploreZip()))
	})

	t.Run("zip2", func(t *testing.T) {
		assert.Equal(t, []string{"AD", "BE", "CF"}, drain(t, clock, svc.ExploreZip2()))
	})
}

func TestDelayFuncs(t *testing.T) {
	t.Parallel()

	random := generator.RandomDelay(50 * time.Millisecond)
	for range 100 {
		d := random("x")
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, 50*time.Millisecond)
	}
	assert.Zero(t, generator.RandomDelay(0)("x"))
	assert.Equal(t, time.Second, generator.FixedDelay(time.Second)("x"))
}
