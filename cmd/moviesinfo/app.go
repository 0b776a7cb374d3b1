package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/reactive/core/config"
	"github.com/dmitrymomot/reactive/core/health"
	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/response"
	"github.com/dmitrymomot/reactive/core/server"
	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/integration/database/mongo"
	"github.com/dmitrymomot/reactive/integration/database/pg"
	"github.com/dmitrymomot/reactive/integration/database/redis"
	"github.com/dmitrymomot/reactive/internal/api"
	"github.com/dmitrymomot/reactive/internal/movieinfo"
	"github.com/dmitrymomot/reactive/pkg/broadcast"
)

var ErrUnknownStoreDriver = errors.New("unknown store driver")

// App owns every long-lived component of the service.
type App struct {
	config  Config
	logger  *slog.Logger
	server  *server.Server
	hub     *broadcast.Hub[movieinfo.MovieInfo]
	handler *api.API

	// bridge re-publishes items arriving from other instances; nil
	// without Redis.
	bridge stream.Publisher[movieinfo.MovieInfo]

	checks  []health.Check
	closers []func()
}

// NewApp connects the configured backends and wires the service. Call
// Close to release them when Run is not used.
func NewApp(ctx context.Context, cfg Config, log *slog.Logger) (_ *App, err error) {
	app := &App{config: cfg, logger: log}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	store, err := app.openStore(ctx)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := broadcast.NewMetrics(reg, "movies_info")
	if err != nil {
		return nil, fmt.Errorf("register hub metrics: %w", err)
	}

	app.hub = broadcast.New[movieinfo.MovieInfo](
		broadcast.ReplayLast(cfg.HubReplayLast),
		broadcast.WithMaxLag(cfg.HubMaxLag),
		broadcast.WithLogger(log),
		broadcast.WithMetrics(metrics),
	)
	app.checks = append(app.checks, health.Check{Name: "hub", Fn: app.hub.Healthcheck})

	var notifier movieinfo.Notifier = app.hub
	if cfg.RedisEnabled {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = client.Close() })
		app.checks = append(app.checks, health.Check{Name: "redis", Fn: redis.Healthcheck(client)})

		notifier = redis.NewRelay[movieinfo.MovieInfo](client, cfg.RedisChannel, redis.WithLogger(log))
		app.bridge = redis.Source[movieinfo.MovieInfo](client, cfg.RedisChannel, redis.WithLogger(log))
	}

	svc := movieinfo.NewService(store,
		movieinfo.WithLogger(log),
		movieinfo.WithNotifier(notifier),
		movieinfo.WithFeed(app.hub.Stream()),
	)

	wsOpts := []response.WebSocketOption{}
	if cfg.WSAllowAnyOrigin {
		wsOpts = append(wsOpts, response.WithWSAllowAnyOrigin())
	}
	app.handler = api.New(svc,
		api.WithLogger(log),
		api.WithChecks(app.checks...),
		api.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		api.WithTickInterval(cfg.TickInterval),
		api.WithKeepAlive(cfg.KeepAlive),
		api.WithMaxBodySize(cfg.MaxBodySize),
		api.WithWebSocketOptions(wsOpts...),
	)

	app.server, err = server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) openStore(ctx context.Context) (movieinfo.Store, error) {
	switch a.config.StoreDriver {
	case DriverMemory:
		return movieinfo.NewMemoryStore(), nil

	case DriverMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, cfg, "")
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Client().Disconnect(context.Background()) })
		a.checks = append(a.checks, health.Check{Name: "mongo", Fn: mongo.Healthcheck(db.Client())})
		return movieinfo.NewMongoStore(db.Collection("movie_infos")), nil

	case DriverPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		if err := pg.Migrate(ctx, pool, movieinfo.Migrations, cfg, a.logger); err != nil {
			return nil, err
		}
		a.checks = append(a.checks, health.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
		return movieinfo.NewPostgresStore(pool), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownStoreDriver, a.config.StoreDriver)
}

// Run serves HTTP until ctx is cancelled, then closes the hub so open
// feeds complete, and releases the backends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(ctx, a.handler.Handler()))

	if a.bridge != nil {
		g.Go(func() error {
			err := stream.ForEach(ctx, a.bridge, a.hub.Publish)
			if errors.Is(err, context.Canceled) || errors.Is(err, broadcast.ErrHubClosed) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("closing movie feed", logger.Component("app"), logger.Count("feeds", a.hub.Stats().Feeds))
		if err := a.hub.Close(); err != nil && !errors.Is(err, broadcast.ErrHubClosed) {
			return err
		}
		return nil
	})

	return g.Wait()
}

// Close releases backend connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
