package redis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
)

const defaultPublishTimeout = 5 * time.Second

type pubsubOptions struct {
	logger         *slog.Logger
	publishTimeout time.Duration
}

// Option configures Relay and Source.
type Option func(*pubsubOptions)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *pubsubOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPublishTimeout bounds a single Relay.Publish round trip.
func WithPublishTimeout(d time.Duration) Option {
	return func(o *pubsubOptions) {
		if d > 0 {
			o.publishTimeout = d
		}
	}
}

func newPubsubOptions(opts []Option) pubsubOptions {
	o := pubsubOptions{
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Relay publishes items as JSON messages on a Redis channel. It satisfies
// the single-method publish trigger used by hub owners, so every instance
// subscribed with Source receives the item.
type Relay[T any] struct {
	client  redis.UniversalClient
	channel string
	opts    pubsubOptions
}

// NewRelay creates a Relay for channel.
func NewRelay[T any](client redis.UniversalClient, channel string, opts ...Option) *Relay[T] {
	return &Relay[T]{
		client:  client,
		channel: channel,
		opts:    newPubsubOptions(opts),
	}
}

// Publish encodes v and publishes it. Delivery to zero receivers is not
// an error.
func (r *Relay[T]) Publish(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.opts.publishTimeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Source returns a cold sequence of the JSON messages published on channel.
// Each subscription opens its own Redis subscription, which is closed on
// cancel. Messages that fail to decode are logged and skipped. The sequence
// completes if Redis closes the subscription.
func Source[T any](client redis.UniversalClient, channel string, opts ...Option) stream.Publisher[T] {
	o := newPubsubOptions(opts)
	log := o.logger.With(logger.Component("redis"), slog.String("channel", channel))

	return stream.Create(func(ctx context.Context, sink stream.Sink[T]) error {
		ps := client.Subscribe(ctx, channel)
		defer ps.Close()

		if _, err := ps.Receive(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Join(ErrSubscribeFailed, err)
		}
		log.DebugContext(ctx, "subscribed")

		messages := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-messages:
				if !ok {
					return nil
				}
				var v T
				if err := json.Unmarshal([]byte(msg.Payload), &v); err != nil {
					log.WarnContext(ctx, "dropping undecodable message", logger.Error(err))
					continue
				}
				if !sink.Next(v) {
					return nil
				}
			}
		}
	})
}
