// Package reactive is a demand-driven sequence engine with a replaying
// multicast hub, and a movie-info service built on top of it.
//
// Every asynchronous value flow in the repository is a stream.Publisher:
// store queries, Redis pub/sub messages, timers and the hub's live feed.
// Subscribers pull items with explicit demand, so a slow HTTP client slows
// its sequence down instead of buffering it in memory.
//
// # Package Organization
//
//   - Core: the sequence engine and the HTTP building blocks
//   - Middleware: HTTP middleware for cross-cutting concerns
//   - Utilities: the multicast replay hub
//   - Integrations: MongoDB, PostgreSQL and Redis
//   - Internal: the movie-info domain, its HTTP API and the names demo
//
// # Getting Documentation
//
//	go doc github.com/dmitrymomot/reactive/core/stream
//	go doc -all github.com/dmitrymomot/reactive/pkg/broadcast
//
// # Core Packages
//
//	github.com/dmitrymomot/reactive/core/stream            - Publishers, demand-driven operators and blocking sinks
//	github.com/dmitrymomot/reactive/core/stream/streamtest - Step-by-step recorder and virtual clock for tests
//	github.com/dmitrymomot/reactive/core/config            - Type-safe environment variable loading
//	github.com/dmitrymomot/reactive/core/handler           - Response-function HTTP handler abstractions
//	github.com/dmitrymomot/reactive/core/health            - HTTP handlers for service health monitoring
//	github.com/dmitrymomot/reactive/core/logger            - Structured logging built on slog
//	github.com/dmitrymomot/reactive/core/response          - JSON, NDJSON, SSE and WebSocket responses draining publishers
//	github.com/dmitrymomot/reactive/core/server            - HTTP server with shutdown that ends streaming requests
//
// # Middleware
//
//	github.com/dmitrymomot/reactive/middleware - Request IDs, access logging, body limits
//
// # Utilities
//
//	github.com/dmitrymomot/reactive/pkg/broadcast - Multicast hub with bounded replay and lag detection
//
// # Integrations
//
//	github.com/dmitrymomot/reactive/integration/database/mongo - MongoDB client with retry and health checking
//	github.com/dmitrymomot/reactive/integration/database/pg    - PostgreSQL pooling and goose migrations
//	github.com/dmitrymomot/reactive/integration/database/redis - Redis client, pub/sub relay and source
//
// # Example Usage
//
//	hub := broadcast.New[movieinfo.MovieInfo](broadcast.ReplayLast(100))
//	svc := movieinfo.NewService(movieinfo.NewMemoryStore(),
//		movieinfo.WithNotifier(hub),
//		movieinfo.WithFeed(hub.Stream()),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := server.Run(ctx, ":8080", api.New(svc).Handler()); err != nil {
//		log.Fatal(err)
//	}
//
// The cmd/moviesinfo binary wires the same pieces from environment
// configuration.
package reactive
