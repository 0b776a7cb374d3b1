package handler

import "net/http"

// Response is a function that renders HTTP responses.
// It sets headers, status code, and writes the response body.
// Rendering errors are handled by the handler's ErrorHandler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc builds the Response for a request.
type HandlerFunc func(r *http.Request) Response

// ErrorHandler renders errors returned by a Response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware wraps handlers to add cross-cutting functionality.
type Middleware func(next HandlerFunc) HandlerFunc

// Wrap adapts fn to http.Handler. Middlewares are applied so that the first
// one listed runs outermost. A nil onError falls back to a plain 500.
func Wrap(fn HandlerFunc, onError ErrorHandler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		fn = middlewares[i](fn)
	}
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := fn(r)
		if resp == nil {
			return
		}
		if err := resp(w, r); err != nil {
			onError(w, r, err)
		}
	})
}
