package broadcast

import (
	"io"
	"log/slog"
)

type options struct {
	keepLast int64 // 0 keeps everything
	maxLag   int64 // 0 disables the check
	logger   *slog.Logger
	metrics  *Metrics
}

// Option configures a Hub.
type Option func(*options)

// ReplayAll keeps every published item and replays all of them to each
// new feed. This is the default.
func ReplayAll() Option {
	return func(o *options) {
		o.keepLast = 0
	}
}

// ReplayLast bounds the log to the n most recent items. New feeds replay
// at most n items; older entries are dropped once every live feed has
// read past them. Values below 1 are ignored.
func ReplayLast(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.keepLast = int64(n)
		}
	}
}

// WithMaxLag detaches a feed with ErrSubscriberOverwhelmed when more than
// n published items are waiting for it. Values below 1 disable the limit.
func WithMaxLag(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLag = int64(n)
		} else {
			o.maxLag = 0
		}
	}
}

// WithLogger sets the logger used for feed lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics exports hub activity to the given metrics set.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
