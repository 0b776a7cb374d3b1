// Package response provides handler.Response constructors, including
// sinks that render a stream.Publisher over HTTP.
//
// # Buffered responses
//
// JSON and JSONWithStatus encode a value. JSONAll collects a finite
// sequence into a JSON array; JSONOne renders its first item and returns a
// caller-supplied error when it is empty:
//
//	func getMovie(r *http.Request) handler.Response {
//		return response.JSONOne(svc.Get(r.PathValue("id")), http.StatusOK, response.ErrNotFound)
//	}
//
// Both wait for the sequence before writing, so errors still reach the
// error handler and become proper status codes.
//
// # Streaming responses
//
// NDJSON, SSE and WebSocket drain a sequence item by item, requesting the
// next item only after the previous one has been written. A slow client
// therefore slows the producer instead of growing a buffer. Each ends when
// the sequence terminates, when the client disconnects or when the server
// shuts down (request contexts are cancelled on shutdown).
//
//	mux.Handle("GET /v1/movies-info/stream", handler.Wrap(func(r *http.Request) handler.Response {
//		return response.NDJSON(hub.Stream())
//	}, response.JSONErrorHandler))
//
// Once streaming has started the status code is fixed, so sequence failures
// go to the per-response error callback (WithStreamErrorHandler,
// WithSSEErrorHandler, WithWSErrorHandler). SSE additionally sends an
// "error" event; WebSocket closes with code 1011 and the message as reason.
//
// # Errors
//
// HTTPError carries status, machine-readable code and message.
// ErrorHandler renders errors as text and JSONErrorHandler as JSON; both
// honour HTTPError values and errors with a StatusCode() int method, and
// fall back to 500.
package response
