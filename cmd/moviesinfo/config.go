package main

import (
	"time"

	"github.com/dmitrymomot/reactive/core/server"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config is the binary's configuration. Backend settings (mongo.Config,
// pg.Config, redis.Config) are loaded only for the backends in use.
type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"moviesinfo"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`

	HubReplayLast int `env:"HUB_REPLAY_LAST" envDefault:"0"`
	HubMaxLag     int `env:"HUB_MAX_LAG" envDefault:"1000"`

	RedisEnabled bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"movies-info"`

	TickInterval     time.Duration `env:"STREAM_TICK_INTERVAL" envDefault:"1s"`
	KeepAlive        time.Duration `env:"STREAM_KEEP_ALIVE" envDefault:"30s"`
	MaxBodySize      int64         `env:"HTTP_MAX_BODY_SIZE" envDefault:"65536"`
	WSAllowAnyOrigin bool          `env:"WS_ALLOW_ANY_ORIGIN" envDefault:"false"`

	Server server.Config
}
