package handler_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/reactive/core/handler"
)

func text(body string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		_, err := io.WriteString(w, body)
		return err
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("renders_response", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(r *http.Request) handler.Response { return text("ok") }, nil)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("routes_errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var got error
		h := handler.Wrap(
			func(r *http.Request) handler.Response {
				return func(http.ResponseWriter, *http.Request) error { return boom }
			},
			func(w http.ResponseWriter, r *http.Request, err error) {
				got = err
				w.WriteHeader(http.StatusTeapot)
			},
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, got, boom)
	})

	t.Run("default_error_handler", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(r *http.Request) handler.Response {
			return func(http.ResponseWriter, *http.Request) error { return errors.New("boom") }
		}, nil)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("middleware_order", func(t *testing.T) {
		t.Parallel()

		var order []string
		mark := func(name string) handler.Middleware {
			return func(next handler.HandlerFunc) handler.HandlerFunc {
				return func(r *http.Request) handler.Response {
					order = append(order, name)
					return next(r)
				}
			}
		}

		h := handler.Wrap(func(r *http.Request) handler.Response {
			order = append(order, "handler")
			return nil
		}, nil, mark("outer"), mark("inner"))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	})
}
