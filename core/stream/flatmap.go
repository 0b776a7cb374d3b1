package stream

import "sync"

// innerParent receives the signals of the inner sequences of a
// flattening or zipping stage.
type innerParent[R any] interface {
	innerNext(in *innerSubscriber[R], v R)
	innerError(in *innerSubscriber[R], err error)
	innerComplete(in *innerSubscriber[R])
}

// innerSubscriber consumes one inner sequence with a bounded prefetch.
// The prefetch is replenished in batches as items are handed downstream.
type innerSubscriber[R any] struct {
	parent innerParent[R]
	index  int

	mu        sync.Mutex
	sub       Subscription
	cancelled bool
	consumed  int64
}

func newInner[R any](parent innerParent[R], index int) *innerSubscriber[R] {
	return &innerSubscriber[R]{parent: parent, index: index}
}

func (in *innerSubscriber[R]) OnSubscribe(s Subscription) {
	in.mu.Lock()
	if in.cancelled {
		in.mu.Unlock()
		s.Cancel()
		return
	}
	in.sub = s
	in.mu.Unlock()

	s.Request(DefaultPrefetch)
}

func (in *innerSubscriber[R]) OnNext(v R)        { in.parent.innerNext(in, v) }
func (in *innerSubscriber[R]) OnError(err error) { in.parent.innerError(in, err) }
func (in *innerSubscriber[R]) OnComplete()       { in.parent.innerComplete(in) }

// ack records that one item of this inner reached the downstream.
func (in *innerSubscriber[R]) ack() {
	const limit = DefaultPrefetch - DefaultPrefetch/4

	in.mu.Lock()
	in.consumed++
	if in.consumed < limit || in.sub == nil || in.cancelled {
		in.mu.Unlock()
		return
	}
	n := in.consumed
	in.consumed = 0
	s := in.sub
	in.mu.Unlock()

	s.Request(n)
}

func (in *innerSubscriber[R]) cancel() {
	in.mu.Lock()
	if in.cancelled {
		in.mu.Unlock()
		return
	}
	in.cancelled = true
	s := in.sub
	in.mu.Unlock()

	if s != nil {
		s.Cancel()
	}
}

// FlatMapOrdered maps every item to an inner sequence and emits the inner
// sequences one after another, so the output preserves the input order
// regardless of how long each inner sequence takes.
func FlatMapOrdered[T, R any](src Publisher[T], fn func(T) Publisher[R]) Publisher[R] {
	return PublisherFunc[R](func(s Subscriber[R]) {
		src.Subscribe(&concatMap[T, R]{fn: fn, out: newEmitter(s)})
	})
}

type concatMap[T, R any] struct {
	fn  func(T) Publisher[R]
	out *emitter[R]
	up  Subscription

	mu       sync.Mutex
	active   *innerSubscriber[R]
	upDone   bool
	finished bool
}

func (c *concatMap[T, R]) OnSubscribe(s Subscription) {
	c.up = s
	c.out.onCancel = c.cancel
	c.out.start()
	s.Request(1)
}

func (c *concatMap[T, R]) OnNext(v T) {
	in := newInner[R](c, 0)
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return
	}
	c.active = in
	c.mu.Unlock()

	c.fn(v).Subscribe(in)
}

func (c *concatMap[T, R]) OnError(err error) {
	c.mu.Lock()
	c.finished = true
	in := c.active
	c.active = nil
	c.mu.Unlock()

	if in != nil {
		in.cancel()
	}
	c.out.fail(err)
}

func (c *concatMap[T, R]) OnComplete() {
	c.mu.Lock()
	c.upDone = true
	last := c.active == nil
	c.mu.Unlock()

	if last {
		c.out.complete()
	}
}

func (c *concatMap[T, R]) innerNext(in *innerSubscriber[R], v R) {
	c.out.push(v, in.ack)
}

func (c *concatMap[T, R]) innerError(_ *innerSubscriber[R], err error) {
	c.mu.Lock()
	c.finished = true
	c.active = nil
	c.mu.Unlock()

	c.up.Cancel()
	c.out.fail(err)
}

func (c *concatMap[T, R]) innerComplete(in *innerSubscriber[R]) {
	c.mu.Lock()
	if c.active != in || c.finished {
		c.mu.Unlock()
		return
	}
	c.active = nil
	upDone := c.upDone
	c.mu.Unlock()

	if upDone {
		c.out.complete()
		return
	}
	c.up.Request(1)
}

func (c *concatMap[T, R]) cancel() {
	c.mu.Lock()
	c.finished = true
	in := c.active
	c.active = nil
	c.mu.Unlock()

	c.up.Cancel()
	if in != nil {
		in.cancel()
	}
}

// FlatMapUnordered maps every item to an inner sequence and runs up to
// concurrency inner sequences at once. Items are emitted as they arrive,
// so the relative order of different inner sequences is unspecified;
// the order within one inner sequence is kept. The first error from
// upstream or any inner sequence cancels everything else.
func FlatMapUnordered[T, R any](src Publisher[T], fn func(T) Publisher[R], concurrency int) Publisher[R] {
	if concurrency < 1 {
		concurrency = 1
	}
	return PublisherFunc[R](func(s Subscriber[R]) {
		src.Subscribe(&mergeMap[T, R]{
			fn:          fn,
			concurrency: concurrency,
			out:         newEmitter(s),
			active:      make(map[*innerSubscriber[R]]struct{}),
		})
	})
}

type mergeMap[T, R any] struct {
	fn          func(T) Publisher[R]
	concurrency int
	out         *emitter[R]
	up          Subscription

	mu       sync.Mutex
	active   map[*innerSubscriber[R]]struct{}
	upDone   bool
	finished bool
}

func (m *mergeMap[T, R]) OnSubscribe(s Subscription) {
	m.up = s
	m.out.onCancel = m.cancel
	m.out.start()
	s.Request(int64(m.concurrency))
}

func (m *mergeMap[T, R]) OnNext(v T) {
	in := newInner[R](m, 0)
	m.mu.Lock()
	if m.finished {
		m.mu.Unlock()
		return
	}
	m.active[in] = struct{}{}
	m.mu.Unlock()

	m.fn(v).Subscribe(in)
}

func (m *mergeMap[T, R]) OnError(err error) {
	m.fail(err)
}

func (m *mergeMap[T, R]) OnComplete() {
	m.mu.Lock()
	m.upDone = true
	last := len(m.active) == 0 && !m.finished
	m.mu.Unlock()

	if last {
		m.out.complete()
	}
}

func (m *mergeMap[T, R]) innerNext(in *innerSubscriber[R], v R) {
	m.out.push(v, in.ack)
}

func (m *mergeMap[T, R]) innerError(_ *innerSubscriber[R], err error) {
	m.up.Cancel()
	m.fail(err)
}

func (m *mergeMap[T, R]) innerComplete(in *innerSubscriber[R]) {
	m.mu.Lock()
	if _, ok := m.active[in]; !ok || m.finished {
		m.mu.Unlock()
		return
	}
	delete(m.active, in)
	last := m.upDone && len(m.active) == 0
	m.mu.Unlock()

	if last {
		m.out.complete()
		return
	}
	if !m.isUpstreamDone() {
		m.up.Request(1)
	}
}

func (m *mergeMap[T, R]) isUpstreamDone() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upDone
}

// fail cancels every running inner sequence and terminates downstream.
func (m *mergeMap[T, R]) fail(err error) {
	for _, in := range m.stop() {
		in.cancel()
	}
	m.out.fail(err)
}

func (m *mergeMap[T, R]) cancel() {
	m.up.Cancel()
	for _, in := range m.stop() {
		in.cancel()
	}
}

func (m *mergeMap[T, R]) stop() []*innerSubscriber[R] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = true
	inners := make([]*innerSubscriber[R], 0, len(m.active))
	for in := range m.active {
		inners = append(inners, in)
	}
	clear(m.active)
	return inners
}

// Merge subscribes to every source at once and emits their items as they
// arrive. It completes when all sources complete and fails on the first error.
func Merge[T any](sources ...Publisher[T]) Publisher[T] {
	return FlatMapUnordered(FromSlice(sources), identity[Publisher[T]], max(1, len(sources)))
}

// Concat emits the items of every source in turn, subscribing to the next
// source only after the previous one completed.
func Concat[T any](sources ...Publisher[T]) Publisher[T] {
	return FlatMapOrdered(FromSlice(sources), identity[Publisher[T]])
}

func identity[T any](v T) T { return v }
