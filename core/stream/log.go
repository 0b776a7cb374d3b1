package stream

import (
	"context"
	"log/slog"
)

// Log records every signal, request and cancellation passing through the
// stage at debug level. A nil logger uses slog.Default.
func Log[T any](src Publisher[T], log *slog.Logger, name string) Publisher[T] {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("stage", name))
	return PublisherFunc[T](func(s Subscriber[T]) {
		src.Subscribe(&logSubscriber[T]{down: s, log: log})
	})
}

type logSubscriber[T any] struct {
	down Subscriber[T]
	log  *slog.Logger
	up   Subscription
}

func (l *logSubscriber[T]) OnSubscribe(s Subscription) {
	l.up = s
	l.log.Debug("on_subscribe")
	l.down.OnSubscribe(l)
}

func (l *logSubscriber[T]) Request(n int64) {
	if n == Unbounded {
		l.log.Debug("request", slog.String("n", "unbounded"))
	} else {
		l.log.Debug("request", slog.Int64("n", n))
	}
	l.up.Request(n)
}

func (l *logSubscriber[T]) Cancel() {
	l.log.Debug("cancel")
	l.up.Cancel()
}

func (l *logSubscriber[T]) OnNext(v T) {
	if l.log.Enabled(context.Background(), slog.LevelDebug) {
		l.log.Debug("on_next", slog.Any("value", v))
	}
	l.down.OnNext(v)
}

func (l *logSubscriber[T]) OnError(err error) {
	l.log.Debug("on_error", slog.String("error", err.Error()))
	l.down.OnError(err)
}

func (l *logSubscriber[T]) OnComplete() {
	l.log.Debug("on_complete")
	l.down.OnComplete()
}
