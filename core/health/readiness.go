package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/reactive/core/handler"
	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/response"
)

// Check is a named dependency probe.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// DefaultTimeout bounds all checks of one readiness request.
const DefaultTimeout = 5 * time.Second

// Readiness verifies all service dependencies are functioning.
// Returns "READY" if all checks pass, 503 Service Unavailable with the
// failing check names in the details if any fail. Every check runs, so a
// single request reports all broken dependencies.
//
// Example:
//
//	ready := health.Readiness(log,
//		health.Check{Name: "hub", Fn: hub.Healthcheck},
//		health.Check{Name: "mongo", Fn: mongo.Healthcheck(client)},
//	)
//	mux.Handle("GET /health", handler.Wrap(ready, response.JSONErrorHandler))
func Readiness(log *slog.Logger, checks ...Check) handler.HandlerFunc {
	return func(r *http.Request) handler.Response {
		ctx, cancel := context.WithTimeout(r.Context(), DefaultTimeout)
		defer cancel()

		var (
			failed []string
			errs   []error
		)
		for _, c := range checks {
			if err := c.Fn(ctx); err != nil {
				failed = append(failed, c.Name)
				errs = append(errs, err)
			}
		}

		if len(failed) > 0 {
			log.ErrorContext(ctx, "readiness check failed",
				logger.Component("health"),
				slog.Any("checks", failed),
				logger.Error(errors.Join(errs...)),
			)
			return response.Error(response.ErrServiceUnavailable.
				WithDetails(map[string]any{"failed": failed}))
		}

		return response.String("READY")
	}
}
