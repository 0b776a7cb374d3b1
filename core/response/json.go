package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/reactive/core/handler"
	"github.com/dmitrymomot/reactive/core/stream"
)

// JSON creates an application/json response with 200 OK status.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with custom status code.
// Zero status means 204 for nil data and 200 otherwise.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if status == 0 {
			if v == nil {
				status = http.StatusNoContent
			} else {
				status = http.StatusOK
			}
		}

		w.WriteHeader(status)

		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}

		return json.NewEncoder(w).Encode(v)
	}
}

// JSONAll collects every item of p and writes them as one JSON array.
// Nothing is written until p completes, so a failing sequence reaches the
// error handler with its error intact. An empty sequence renders [].
func JSONAll[T any](p stream.Publisher[T]) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		items, err := stream.Collect(r.Context(), p)
		if err != nil {
			return err
		}
		return JSON(items)(w, r)
	}
}

// JSONOne writes the first item of p with the given status (zero means
// 200). An empty sequence returns ifEmpty, which the error handler renders.
func JSONOne[T any](p stream.Publisher[T], status int, ifEmpty error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		v, ok, err := stream.First(r.Context(), p)
		if err != nil {
			return err
		}
		if !ok {
			return ifEmpty
		}
		if status == 0 {
			status = http.StatusOK
		}
		return JSONWithStatus(v, status)(w, r)
	}
}
