package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/reactive/core/handler"
	"github.com/dmitrymomot/reactive/core/health"
	"github.com/dmitrymomot/reactive/core/response"
	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/internal/movieinfo"
	"github.com/dmitrymomot/reactive/middleware"
)

// DefaultTickInterval is the period of the /stream demo endpoint.
const DefaultTickInterval = time.Second

// API serves the movie-info endpoints and the sequence demo endpoints.
type API struct {
	movies       *movieinfo.Service
	log          *slog.Logger
	checks       []health.Check
	metrics      http.Handler
	tickInterval time.Duration
	keepAlive    time.Duration
	wsOpts       []response.WebSocketOption
	maxBodySize  int64
}

// Option configures an API.
type Option func(*API)

func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.log = l
		}
	}
}

// WithChecks adds dependency probes reported by GET /health.
func WithChecks(checks ...health.Check) Option {
	return func(a *API) { a.checks = append(a.checks, checks...) }
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *API) { a.metrics = h }
}

// WithTickInterval sets the period of GET /stream.
func WithTickInterval(d time.Duration) Option {
	return func(a *API) {
		if d > 0 {
			a.tickInterval = d
		}
	}
}

// WithKeepAlive sets the heartbeat interval of the streaming endpoints.
// Zero disables heartbeats.
func WithKeepAlive(d time.Duration) Option {
	return func(a *API) { a.keepAlive = d }
}

// WithWebSocketOptions configures the WebSocket feed endpoint.
func WithWebSocketOptions(opts ...response.WebSocketOption) Option {
	return func(a *API) { a.wsOpts = append(a.wsOpts, opts...) }
}

// WithMaxBodySize limits request bodies of the write endpoints.
func WithMaxBodySize(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBodySize = n
		}
	}
}

func New(movies *movieinfo.Service, opts ...Option) *API {
	a := &API{
		movies:       movies,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		tickInterval: DefaultTickInterval,
		keepAlive:    response.DefaultSSEKeepAlive,
		maxBodySize:  64 * middleware.KB,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler returns the routed http.Handler. Every route gets a request ID
// and an access log line.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	common := []handler.Middleware{
		middleware.RequestID(),
		middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger: a.log,
			Skip:   isProbe,
		}),
	}
	handle := func(pattern string, fn handler.HandlerFunc, extra ...handler.Middleware) {
		mws := append(append([]handler.Middleware(nil), common...), extra...)
		mux.Handle(pattern, handler.Wrap(fn, a.renderError, mws...))
	}
	limit := middleware.BodyLimitWithSize(a.maxBodySize)

	handle("GET /flux", a.flux)
	handle("GET /mono", a.mono)
	handle("GET /stream", a.ticks)

	handle("GET /v1/movies-info", a.listMovies)
	handle("POST /v1/movies-info", a.addMovie, limit)
	handle("GET /v1/movies-info/stream", a.movieFeed)
	handle("GET /v1/movies-info/ws", a.movieFeedWS)
	handle("GET /v1/movies-info/{id}", a.getMovie)
	handle("PUT /v1/movies-info/{id}", a.updateMovie, limit)
	handle("DELETE /v1/movies-info/{id}", a.deleteMovie)

	handle("GET /health", health.Readiness(a.log, a.checks...))
	handle("GET /health/live", health.Liveness)
	if a.metrics != nil {
		mux.Handle("GET /metrics", a.metrics)
	}

	return mux
}

func isProbe(r *http.Request) bool {
	return r.URL.Path == "/health" || r.URL.Path == "/health/live"
}

func (a *API) flux(*http.Request) handler.Response {
	return response.JSONAll(stream.Just(1, 2, 3))
}

func (a *API) mono(*http.Request) handler.Response {
	return response.JSONOne(stream.Just("hello-world"), http.StatusOK, response.ErrNotFound)
}

// ticks emits 0, 1, 2, ... every tick interval as Server-Sent Events until
// the client leaves.
func (a *API) ticks(*http.Request) handler.Response {
	return response.SSE(stream.Interval(a.tickInterval),
		response.WithKeepAlive(a.keepAlive),
		response.WithSSEErrorHandler(a.streamError("ticks")),
	)
}
