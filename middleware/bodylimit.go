package middleware

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/reactive/core/handler"
	"github.com/dmitrymomot/reactive/core/response"
)

// Common size constants for convenience
const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool

	// MaxSize is the maximum allowed size in bytes (default: 1MB)
	MaxSize int64
}

// BodyLimit rejects request bodies larger than 1MB.
func BodyLimit() handler.Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{})
}

// BodyLimitWithSize creates a body limit middleware with a specified size limit.
func BodyLimitWithSize(maxSize int64) handler.Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests whose Content-Length exceeds the
// limit with 413, and caps reads of bodies without one with
// http.MaxBytesReader, which makes decoding fail with *http.MaxBytesError.
func BodyLimitWithConfig(cfg BodyLimitConfig) handler.Middleware {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = MB
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(r *http.Request) handler.Response {
			if cfg.Skip != nil && cfg.Skip(r) {
				return next(r)
			}

			if n := r.ContentLength; n > cfg.MaxSize {
				return response.Error(response.ErrRequestEntityTooLarge.
					WithMessage(fmt.Sprintf("request body too large, maximum allowed is %d bytes", cfg.MaxSize)).
					WithDetails(map[string]any{"limit": cfg.MaxSize, "size": n}))
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(nil, r.Body, cfg.MaxSize)
			}
			return next(r)
		}
	}
}
