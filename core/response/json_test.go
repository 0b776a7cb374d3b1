package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/response"
	"github.com/dmitrymomot/reactive/core/stream"
)

var errBoom = errors.New("boom")

func render(t *testing.T, resp func(http.ResponseWriter, *http.Request) error) (*httptest.ResponseRecorder, error) {
	t.Helper()
	rec := httptest.NewRecorder()
	err := resp(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec, err
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.JSON(map[string]int{"a": 1}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"a":1}`, rec.Body.String())
	})

	t.Run("zero_status_nil_body", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.JSONWithStatus(nil, 0))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("custom_status", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.JSONWithStatus("created", http.StatusCreated))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `"created"`, rec.Body.String())
	})
}

func TestJSONAll(t *testing.T) {
	t.Parallel()

	t.Run("array", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.JSONAll(stream.Just(1, 2, 3)))
		require.NoError(t, err)
		assert.JSONEq(t, `[1,2,3]`, rec.Body.String())
	})

	t.Run("empty_renders_empty_array", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.JSONAll(stream.Empty[int]()))
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("error_before_writing", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.JSONAll(stream.Concat(stream.Just(1), stream.Error[int](errBoom))))
		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, rec.Body.String())
	})
}

func TestJSONOne(t *testing.T) {
	t.Parallel()

	t.Run("first_item", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.JSONOne(stream.Just("hello-world"), 0, response.ErrNotFound))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `"hello-world"`, rec.Body.String())
	})

	t.Run("custom_status", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.JSONOne(stream.Just(7), http.StatusCreated, response.ErrNotFound))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		_, err := render(t, response.JSONOne(stream.Empty[int](), 0, response.ErrNotFound))
		assert.ErrorIs(t, err, response.ErrNotFound)
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		_, err := render(t, response.JSONOne(stream.Error[int](errBoom), 0, response.ErrNotFound))
		assert.ErrorIs(t, err, errBoom)
	})
}

type teapotError struct{}

func (teapotError) Error() string   { return "short and stout" }
func (teapotError) StatusCode() int { return http.StatusTeapot }

type rejectedError struct{}

func (rejectedError) Error() string   { return "rejected" }
func (rejectedError) StatusCode() int { return http.StatusBadRequest }

func TestHTTPError_Is(t *testing.T) {
	t.Parallel()

	t.Run("matches_customised_copy", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("load: %w", response.ErrNotFound.WithMessage("movie missing").WithDetails(map[string]any{"id": "abc"}))
		assert.ErrorIs(t, err, response.ErrNotFound)
		assert.ErrorIs(t, err, &response.ErrNotFound)
	})

	t.Run("different_code_does_not_match", func(t *testing.T) {
		t.Parallel()

		assert.NotErrorIs(t, response.ErrNotFound, response.ErrBadRequest)
		assert.NotErrorIs(t, response.ErrNotFound, errBoom)
	})
}

func TestErrorHandlers(t *testing.T) {
	t.Parallel()

	t.Run("http_error", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		response.JSONErrorHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil), response.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body response.HTTPError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not_found", body.Code)
	})

	t.Run("status_code_interface", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		response.JSONErrorHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil), rejectedError{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body response.HTTPError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "bad_request", body.Code)
		assert.Equal(t, "rejected", body.Details["cause"])
	})

	t.Run("unknown_status_becomes_500", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		response.ErrorHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil), teapotError{})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("plain_error", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		response.ErrorHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil), errBoom)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), rec.Body.String())
	})

	t.Run("with_error_does_not_share_details", func(t *testing.T) {
		t.Parallel()

		base := response.ErrBadRequest.WithDetails(map[string]any{"field": "title"})
		_ = base.WithError(errBoom)
		assert.NotContains(t, base.Details, "cause")
	})
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	rec, err := render(t, response.NoContent())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
