package streamtest_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/core/stream/streamtest"
)

// gate blocks while it is being formatted, keeping OnNext in progress.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func (g gate) String() string {
	close(g.entered)
	<-g.release
	return "gate"
}

func TestRecorder_ReportsConcurrentSignals(t *testing.T) {
	t.Parallel()

	rec := streamtest.NewRecorder[any](0)
	g := gate{entered: make(chan struct{}), release: make(chan struct{})}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		rec.OnNext(g) // no demand: formatting the violation blocks
	}()
	<-g.entered

	go func() {
		defer wg.Done()
		rec.OnNext(1)
	}()
	time.Sleep(50 * time.Millisecond)
	close(g.release)
	wg.Wait()

	assert.Contains(t, rec.Violations(), "concurrent onNext")
	assert.Len(t, rec.Items(), 2)
}

func TestRecorder_Demand(t *testing.T) {
	t.Parallel()

	t.Run("items_without_demand_are_violations", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.NewRecorder[int](1)
		rec.OnSubscribe(noopSubscription{})
		rec.OnNext(1)
		rec.OnNext(2)
		rec.OnComplete()

		require.True(t, rec.Completed())
		assert.Equal(t, []string{"onNext(2) without demand"}, rec.Violations())
	})

	t.Run("signals_after_terminal_are_violations", func(t *testing.T) {
		t.Parallel()

		rec := streamtest.NewRecorder[int](stream.Unbounded)
		rec.OnSubscribe(noopSubscription{})
		rec.OnComplete()
		rec.OnNext(1)

		assert.Contains(t, rec.Violations(), "onNext(1) after terminal signal")
	})
}

type noopSubscription struct{}

func (noopSubscription) Request(int64) {}
func (noopSubscription) Cancel()       {}
