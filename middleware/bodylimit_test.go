package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/reactive/core/handler"
	"github.com/dmitrymomot/reactive/core/response"
	"github.com/dmitrymomot/reactive/middleware"
)

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	echo := func(r *http.Request) handler.Response {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return response.Error(response.ErrRequestEntityTooLarge)
			}
			return response.Error(err)
		}
		return response.StringWithStatus(string(body), http.StatusOK)
	}

	t.Run("within_limit", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(echo, response.JSONErrorHandler, middleware.BodyLimitWithSize(16))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "small", w.Body.String())
	})

	t.Run("content_length_over_limit", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(echo, response.JSONErrorHandler, middleware.BodyLimitWithSize(4))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too large")))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	})

	t.Run("unknown_length_over_limit", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(echo, response.JSONErrorHandler, middleware.BodyLimitWithSize(4))
		req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader("far too large")))
		req.ContentLength = -1
		req.Header.Del("Content-Length")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
