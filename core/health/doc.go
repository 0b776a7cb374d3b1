// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All dependencies are available
//   - NoContent: Returns 204 for minimal overhead
//
// Usage:
//
//	mux.Handle("GET /health/live", handler.Wrap(health.Liveness, nil))
//	mux.Handle("GET /health", handler.Wrap(health.Readiness(log,
//		health.Check{Name: "hub", Fn: hub.Healthcheck},
//		health.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
//	), response.JSONErrorHandler))
//
// Dependency checks must follow func(context.Context) error signature.
package health
