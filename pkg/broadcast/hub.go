package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
)

// Hub multicasts published items to any number of feeds. Every feed first
// replays the retained log in publish order and then continues with live
// items, without gaps or duplicates between the two phases.
//
// Publish never waits for subscribers: each feed reads the shared log at
// its own pace from its own goroutine.
type Hub[T any] struct {
	opts options

	mu     sync.Mutex
	log    []T
	base   int64 // absolute offset of log[0]
	feeds  map[*Feed[T]]struct{}
	closed bool

	published   uint64
	overwhelmed uint64
}

// Stats is a point-in-time snapshot of a hub.
type Stats struct {
	Published   uint64 // items accepted by Publish
	Buffered    int    // items currently retained for replay
	Head        int64  // offset of the next item to be published
	Feeds       int    // attached feeds
	Overwhelmed uint64 // feeds detached for lagging behind
	Closed      bool
}

// New creates a hub. Without options it keeps every published item.
//
// Example:
//
//	hub := broadcast.New[Movie](broadcast.ReplayLast(100), broadcast.WithMaxLag(1000))
//	defer hub.Close()
//
//	_ = hub.Publish(movie)
//	items, err := stream.Collect(ctx, stream.Take(hub.Stream(), 1))
func New[T any](opts ...Option) *Hub[T] {
	return &Hub[T]{
		opts:  applyOptions(opts),
		feeds: make(map[*Feed[T]]struct{}),
	}
}

// Publish appends v to the log and wakes every feed.
// It returns ErrHubClosed after Close.
func (h *Hub[T]) Publish(v T) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.log = append(h.log, v)
	h.published++
	head := h.headLocked()

	var lagging []*Feed[T]
	if h.opts.maxLag > 0 {
		for f := range h.feeds {
			if f.lag(head) > h.opts.maxLag {
				lagging = append(lagging, f)
				f.overwhelmed = true
				delete(h.feeds, f)
				h.overwhelmed++
			}
		}
	}
	h.trimLocked()

	feeds := make([]*Feed[T], 0, len(h.feeds))
	for f := range h.feeds {
		feeds = append(feeds, f)
	}
	buffered := len(h.log)
	h.mu.Unlock()

	h.opts.metrics.recordPublish(buffered)
	for _, f := range feeds {
		f.notify()
	}
	for _, f := range lagging {
		h.opts.logger.Warn("feed detached",
			logger.Component("broadcast"),
			logger.ID("feed_id", f.id),
			logger.Error(ErrSubscriberOverwhelmed),
		)
		h.opts.metrics.recordOverwhelmed()
		f.abort(ErrSubscriberOverwhelmed)
	}
	if len(lagging) > 0 {
		h.opts.metrics.setFeeds(len(feeds))
	}
	return nil
}

// Subscribe returns a new feed positioned at the start of the retained log.
// The log length is captured atomically with respect to Publish: items
// published before the call are replayed, later ones arrive live.
//
// The feed must be subscribed to (or closed) to release its hold on the log.
func (h *Hub[T]) Subscribe() *Feed[T] {
	h.mu.Lock()
	head := h.headLocked()
	start := h.base
	if h.opts.keepLast > 0 && head-h.opts.keepLast > start {
		start = head - h.opts.keepLast
	}
	f := &Feed[T]{
		hub:       h,
		id:        uuid.NewString(),
		replayEnd: head,
		wake:      make(chan struct{}, 1),
	}
	f.cursor.Store(start)
	if !h.closed {
		h.feeds[f] = struct{}{}
	}
	n := len(h.feeds)
	h.mu.Unlock()

	h.opts.metrics.setFeeds(n)
	h.opts.logger.Debug("feed attached",
		logger.Component("broadcast"),
		logger.ID("feed_id", f.id),
		slog.Int64("replay", head-start),
	)
	return f
}

// Stream returns a publisher that attaches a new feed for every subscription.
func (h *Hub[T]) Stream() stream.Publisher[T] {
	return stream.PublisherFunc[T](func(s stream.Subscriber[T]) {
		h.Subscribe().Subscribe(s)
	})
}

// Close stops accepting items. Feeds deliver what they have not read yet
// and then complete. Closing twice returns ErrHubClosed.
func (h *Hub[T]) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.closed = true
	feeds := make([]*Feed[T], 0, len(h.feeds))
	for f := range h.feeds {
		feeds = append(feeds, f)
	}
	h.mu.Unlock()

	for _, f := range feeds {
		f.notify()
	}
	h.opts.logger.Debug("hub closed", logger.Component("broadcast"), logger.Count("feeds", len(feeds)))
	return nil
}

// Stats returns a snapshot of the hub state.
func (h *Hub[T]) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		Published:   h.published,
		Buffered:    len(h.log),
		Head:        h.headLocked(),
		Feeds:       len(h.feeds),
		Overwhelmed: h.overwhelmed,
		Closed:      h.closed,
	}
}

// Healthcheck reports ErrHubClosed once the hub is closed.
func (h *Hub[T]) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	return nil
}

func (h *Hub[T]) headLocked() int64 {
	return h.base + int64(len(h.log))
}

// trimLocked drops entries that are outside the retention window and
// already read by every attached feed.
func (h *Hub[T]) trimLocked() {
	if h.opts.keepLast == 0 {
		return
	}
	to := h.headLocked() - h.opts.keepLast
	for f := range h.feeds {
		if c := f.cursor.Load(); c < to {
			to = c
		}
	}
	if to <= h.base {
		return
	}
	n := int(to - h.base)
	clear(h.log[:n])
	h.log = h.log[n:]
	h.base = to
}

// next returns the item under the feed cursor and its offset, or ok=false
// when the feed has nothing to read right now. done is true once the hub
// is closed and the cursor has reached the head.
func (h *Hub[T]) next(f *Feed[T]) (v T, at int64, ok, done bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f.overwhelmed {
		return v, 0, false, true, ErrSubscriberOverwhelmed
	}
	at = f.cursor.Load()
	if at < h.base {
		// Trimmed while the feed was not attached; resume at the oldest entry.
		at = h.base
		f.cursor.Store(at)
	}
	if at < h.headLocked() {
		return h.log[at-h.base], at, true, false, nil
	}
	return v, at, false, h.closed, nil
}

func (h *Hub[T]) detach(f *Feed[T]) {
	h.mu.Lock()
	_, ok := h.feeds[f]
	delete(h.feeds, f)
	n := len(h.feeds)
	h.mu.Unlock()

	if ok {
		h.opts.metrics.setFeeds(n)
		h.opts.logger.Debug("feed detached", logger.Component("broadcast"), logger.ID("feed_id", f.id))
	}
}
