package movieinfo

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
)

// Notifier receives every newly created movie. *broadcast.Hub and
// redis.Relay both satisfy it.
type Notifier interface {
	Publish(MovieInfo) error
}

// Service exposes the store as sequences. Every method is cold: the store
// is only touched once the returned sequence is subscribed, and again on
// every new subscription.
type Service struct {
	store    Store
	notifier Notifier
	feed     stream.Publisher[MovieInfo]
	log      *slog.Logger
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNotifier sets where newly created movies are published.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithFeed sets the live sequence of created movies returned by Feed.
func WithFeed(feed stream.Publisher[MovieInfo]) Option {
	return func(s *Service) { s.feed = feed }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// All emits every stored movie.
func (s *Service) All() stream.Publisher[MovieInfo] {
	return s.list(Filter{})
}

// ByYear emits the movies released in year.
func (s *Service) ByYear(year int) stream.Publisher[MovieInfo] {
	return s.list(Filter{Year: year})
}

func (s *Service) list(filter Filter) stream.Publisher[MovieInfo] {
	return stream.Create(func(ctx context.Context, sink stream.Sink[MovieInfo]) error {
		return s.store.Each(ctx, filter, func(m MovieInfo) error {
			if !sink.Next(m) {
				return context.Canceled
			}
			return nil
		})
	})
}

// Get emits the movie with id, or completes empty when there is none.
func (s *Service) Get(id string) stream.Publisher[MovieInfo] {
	return stream.Create(func(ctx context.Context, sink stream.Sink[MovieInfo]) error {
		m, err := s.store.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		sink.Next(m)
		return nil
	})
}

// Add validates and saves m under a new ID, emits the saved movie and
// publishes it to the notifier. A notifier failure is logged; the movie
// stays saved.
func (s *Service) Add(m MovieInfo) stream.Publisher[MovieInfo] {
	if err := m.Validate(); err != nil {
		return stream.Error[MovieInfo](err)
	}

	saved := stream.Create(func(ctx context.Context, sink stream.Sink[MovieInfo]) error {
		created := m
		created.ID = s.newID()
		if err := s.store.Save(ctx, created); err != nil {
			return err
		}
		s.log.InfoContext(ctx, "movie info added",
			logger.Component("movieinfo"),
			logger.ID("movie_id", created.ID),
			slog.String("title", created.Title),
		)
		sink.Next(created)
		return nil
	})

	return stream.DoOnNext(saved, s.notify)
}

// Update replaces the fields of the movie with id and emits the result, or
// completes empty when there is none.
func (s *Service) Update(id string, m MovieInfo) stream.Publisher[MovieInfo] {
	if err := m.Validate(); err != nil {
		return stream.Error[MovieInfo](err)
	}

	return stream.FlatMapOrdered(s.Get(id), func(existing MovieInfo) stream.Publisher[MovieInfo] {
		return stream.Create(func(ctx context.Context, sink stream.Sink[MovieInfo]) error {
			existing.Title = m.Title
			existing.Year = m.Year
			existing.Cast = m.Cast
			existing.ReleasedAt = m.ReleasedAt
			if err := s.store.Save(ctx, existing); err != nil {
				return err
			}
			s.log.InfoContext(ctx, "movie info updated",
				logger.Component("movieinfo"),
				logger.ID("movie_id", id),
			)
			sink.Next(existing)
			return nil
		})
	})
}

// Delete removes the movie with id. Unknown ids are not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "movie info deleted",
		logger.Component("movieinfo"),
		logger.ID("movie_id", id),
	)
	return nil
}

// Feed returns the live sequence of created movies, replaying earlier ones
// according to the feed's retention. Without a feed it is empty.
func (s *Service) Feed() stream.Publisher[MovieInfo] {
	if s.feed == nil {
		return stream.Empty[MovieInfo]()
	}
	return s.feed
}

func (s *Service) notify(m MovieInfo) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(m); err != nil {
		s.log.Warn("failed to publish movie info",
			logger.Component("movieinfo"),
			logger.ID("movie_id", m.ID),
			logger.Error(err),
		)
	}
}
