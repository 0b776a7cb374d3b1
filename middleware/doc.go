// Package middleware provides handler.Middleware implementations for
// cross-cutting HTTP concerns: request IDs, access logging and request
// body limits.
//
// Middlewares are passed to handler.Wrap; the first one listed runs
// outermost:
//
//	h := handler.Wrap(listMovies, response.JSONErrorHandler,
//		middleware.RequestID(),
//		middleware.LoggingWithLogger(log),
//		middleware.BodyLimitWithSize(64*middleware.KB),
//	)
//
// RequestID stores the ID in the request context; read it back with
// GetRequestID. Logging writes a single line once the response has
// finished. Its ResponseWriter wrapper forwards http.Flusher and
// http.Hijacker, so SSE, NDJSON and WebSocket responses work behind it
// and are logged when the stream ends.
package middleware
