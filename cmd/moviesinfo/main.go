// Command moviesinfo serves the movie-info API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/reactive/core/config"
	"github.com/dmitrymomot/reactive/core/logger"
)

func main() {
	var cfg Config
	config.MustLoad(&cfg)

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start", logger.Component("app"), logger.Error(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("service stopped with error", logger.Component("app"), logger.Error(err))
		os.Exit(1)
	}
	log.Info("service stopped", logger.Component("app"))
}

func newLogger(cfg Config) *slog.Logger {
	var opts []logger.Option
	switch cfg.Env {
	case "production":
		opts = append(opts, logger.WithProduction(cfg.ServiceName))
	case "staging":
		opts = append(opts, logger.WithStaging(cfg.ServiceName))
	default:
		opts = append(opts, logger.WithDevelopment(cfg.ServiceName))
	}
	return logger.New(opts...)
}
