package response_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/response"
	"github.com/dmitrymomot/reactive/core/stream"
)

type movie struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// plainWriter hides the recorder's Flush method.
type plainWriter struct{ http.ResponseWriter }

type errorSink struct {
	mu   sync.Mutex
	errs []error
}

func (s *errorSink) record(_ context.Context, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *errorSink) all() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}

func slowly[T any](delay time.Duration, items ...T) stream.Publisher[T] {
	return stream.Create(func(ctx context.Context, sink stream.Sink[T]) error {
		for _, v := range items {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			if !sink.Next(v) {
				return nil
			}
		}
		return nil
	})
}

func TestNDJSON(t *testing.T) {
	t.Parallel()

	t.Run("one_line_per_item", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.NDJSON(stream.Just(movie{"Dune", 2021}, movie{"Heat", 1995})))
		require.NoError(t, err)
		assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 2)
		assert.JSONEq(t, `{"title":"Dune","year":2021}`, lines[0])
		assert.JSONEq(t, `{"title":"Heat","year":1995}`, lines[1])
	})

	t.Run("sequence_error_reported", func(t *testing.T) {
		t.Parallel()

		sink := &errorSink{}
		rec, err := render(t, response.NDJSON(
			stream.Concat(stream.Just(1), stream.Error[int](errBoom)),
			response.WithStreamErrorHandler(sink.record),
		))
		require.NoError(t, err)
		assert.Equal(t, "1\n", rec.Body.String())
		require.Len(t, sink.all(), 1)
		assert.ErrorIs(t, sink.all()[0], errBoom)
	})

	t.Run("streaming_unsupported", func(t *testing.T) {
		t.Parallel()

		err := response.NDJSON(stream.Just(1))(plainWriter{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, response.ErrStreamingUnsupported)
	})

	t.Run("keep_alive_lines", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.NDJSON(
			slowly(80*time.Millisecond, 1),
			response.WithStreamKeepAlive(10*time.Millisecond),
		))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "\n"))
		assert.Contains(t, rec.Body.String(), "1\n")
	})

	t.Run("client_gone_cancels_sequence", func(t *testing.T) {
		t.Parallel()

		cancelled := make(chan struct{})
		p := stream.Create(func(ctx context.Context, sink stream.Sink[int]) error {
			<-ctx.Done()
			close(cancelled)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		sink := &errorSink{}

		done := make(chan error, 1)
		go func() {
			done <- response.NDJSON(p, response.WithStreamErrorHandler(sink.record))(httptest.NewRecorder(), req)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not return")
		}
		<-cancelled
		assert.Empty(t, sink.all())
	})
}

func TestSSE(t *testing.T) {
	t.Parallel()

	t.Run("events", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.SSE(stream.Just("a", "b"), response.WithKeepAlive(0)))
		require.NoError(t, err)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, ": connected\n\ndata: a\n\ndata: b\n\n", rec.Body.String())
	})

	t.Run("json_with_name_and_id", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.SSE(
			stream.Just(movie{"Dune", 2021}),
			response.WithKeepAlive(0),
			response.WithEventName("movie"),
			response.WithEventIDGenerator(func(v any) string { return v.(movie).Title }),
			response.WithReconnectTime(1500),
		))
		require.NoError(t, err)
		assert.Equal(t,
			"retry: 1500\n: connected\n\nevent: movie\nid: Dune\ndata: {\"title\":\"Dune\",\"year\":2021}\n\n",
			rec.Body.String(),
		)
	})

	t.Run("multi_line_data", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.SSE(stream.Just("one\ntwo"), response.WithKeepAlive(0)))
		require.NoError(t, err)
		assert.Contains(t, rec.Body.String(), "data: one\ndata: two\n\n")
	})

	t.Run("error_event", func(t *testing.T) {
		t.Parallel()

		sink := &errorSink{}
		rec, err := render(t, response.SSE(
			stream.Concat(stream.Just(1), stream.Error[int](errBoom)),
			response.WithKeepAlive(0),
			response.WithSSEErrorHandler(sink.record),
		))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(rec.Body.String(), "data: 1\n\nevent: error\ndata: boom\n\n"))
		require.Len(t, sink.all(), 1)
		assert.ErrorIs(t, sink.all()[0], errBoom)
	})

	t.Run("keep_alive_comments", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.SSE(slowly(80*time.Millisecond, "x"), response.WithKeepAlive(10*time.Millisecond)))
		require.NoError(t, err)
		assert.Contains(t, rec.Body.String(), ": keepalive\n\n")
		assert.Contains(t, rec.Body.String(), "data: x\n\n")
	})

	t.Run("interval_until_take", func(t *testing.T) {
		t.Parallel()

		rec, err := render(t, response.SSE(stream.Take(stream.Interval(20*time.Millisecond), 3), response.WithKeepAlive(0)))
		require.NoError(t, err)
		assert.Equal(t, ": connected\n\ndata: 0\n\ndata: 1\n\ndata: 2\n\n", rec.Body.String())
	})
}
