package stream

import "sync"

// Zip waits for one item from every source and emits combine applied to
// them, in source order. It completes as soon as any source has completed
// and has no buffered item left to pair, cancelling the other sources and
// discarding whatever they had buffered. Zip of no sources completes
// immediately.
//
// Example:
//
//	abc := stream.Just("A", "B", "C")
//	def := stream.Just("D", "E", "F")
//	joined := stream.Zip([]stream.Publisher[string]{abc, def},
//	    func(parts []string) string { return strings.Join(parts, "") })
//	// AD, BE, CF
func Zip[T, R any](sources []Publisher[T], combine func([]T) R) Publisher[R] {
	sources = append([]Publisher[T](nil), sources...)
	return PublisherFunc[R](func(s Subscriber[R]) {
		z := &zipper[T, R]{
			combine: combine,
			out:     newEmitter(s),
			queues:  make([][]T, len(sources)),
			done:    make([]bool, len(sources)),
			inputs:  make([]*innerSubscriber[T], len(sources)),
		}
		for i := range sources {
			z.inputs[i] = newInner[T](z, i)
		}
		z.out.onCancel = z.cancelAll
		z.out.start()

		if len(sources) == 0 {
			z.out.complete()
			return
		}
		for i, src := range sources {
			if z.isFinished() {
				return
			}
			src.Subscribe(z.inputs[i])
		}
	})
}

type zipper[T, R any] struct {
	combine func([]T) R
	out     *emitter[R]
	inputs  []*innerSubscriber[T]

	mu       sync.Mutex
	queues   [][]T
	done     []bool
	finished bool
}

func (z *zipper[T, R]) isFinished() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.finished
}

func (z *zipper[T, R]) innerNext(in *innerSubscriber[T], v T) {
	z.mu.Lock()
	if z.finished {
		z.mu.Unlock()
		return
	}
	z.queues[in.index] = append(z.queues[in.index], v)
	z.pairLocked()
	stop := z.exhaustedLocked()
	z.mu.Unlock()

	if stop {
		z.cancelAll()
	}
	z.out.drain()
}

func (z *zipper[T, R]) innerComplete(in *innerSubscriber[T]) {
	z.mu.Lock()
	if z.finished {
		z.mu.Unlock()
		return
	}
	z.done[in.index] = true
	stop := z.exhaustedLocked()
	z.mu.Unlock()

	if stop {
		z.cancelAll()
	}
	z.out.drain()
}

func (z *zipper[T, R]) innerError(_ *innerSubscriber[T], err error) {
	z.mu.Lock()
	if z.finished {
		z.mu.Unlock()
		return
	}
	z.finished = true
	clear(z.queues)
	z.mu.Unlock()

	z.cancelAll()
	z.out.fail(err)
}

// pairLocked emits a tuple for every row that is complete across all inputs.
func (z *zipper[T, R]) pairLocked() {
	for {
		for _, q := range z.queues {
			if len(q) == 0 {
				return
			}
		}
		row := make([]T, len(z.queues))
		for i, q := range z.queues {
			row[i] = q[0]
			var zero T
			q[0] = zero
			z.queues[i] = q[1:]
		}
		z.out.enqueue(z.combine(row), z.ackRow)
	}
}

// exhaustedLocked finishes the zip once some input is done and has nothing
// left to pair. It reports whether the other inputs must be cancelled.
func (z *zipper[T, R]) exhaustedLocked() bool {
	for i, done := range z.done {
		if done && len(z.queues[i]) == 0 {
			z.finished = true
			clear(z.queues)
			z.out.markDone(nil)
			return true
		}
	}
	return false
}

func (z *zipper[T, R]) ackRow() {
	for _, in := range z.inputs {
		in.ack()
	}
}

func (z *zipper[T, R]) cancelAll() {
	z.mu.Lock()
	z.finished = true
	z.mu.Unlock()
	for _, in := range z.inputs {
		in.cancel()
	}
}

type zipSlot[A, B any] struct {
	a A
	b B
}

// Zip2 pairs the items of two sequences of different types.
func Zip2[A, B, R any](a Publisher[A], b Publisher[B], combine func(A, B) R) Publisher[R] {
	left := Map(a, func(v A) zipSlot[A, B] { return zipSlot[A, B]{a: v} })
	right := Map(b, func(v B) zipSlot[A, B] { return zipSlot[A, B]{b: v} })
	return Zip([]Publisher[zipSlot[A, B]]{left, right}, func(row []zipSlot[A, B]) R {
		return combine(row[0].a, row[1].b)
	})
}
