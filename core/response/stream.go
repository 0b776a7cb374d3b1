package response

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/reactive/core/handler"
	"github.com/dmitrymomot/reactive/core/stream"
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
var ErrStreamingUnsupported = HTTPError{
	Status:  http.StatusInternalServerError,
	Code:    "streaming_unsupported",
	Message: "streaming unsupported",
}

// flushWriter serialises writes from the delivery callback and the
// heartbeat goroutine, flushing after each one. The first write error
// sticks.
type flushWriter struct {
	mu  sync.Mutex
	w   io.Writer
	f   http.Flusher
	err error
}

func (fw *flushWriter) write(fn func(io.Writer) error) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.err != nil {
		return fw.err
	}
	if err := fn(fw.w); err != nil {
		fw.err = err
		return err
	}
	fw.f.Flush()
	return nil
}

func (fw *flushWriter) failure() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.err
}

// heartbeat writes msg every interval until ctx is done or a write fails,
// in which case onFail is called. The returned func stops the heartbeat and
// waits for it, so nothing touches the writer after the handler returns.
func (fw *flushWriter) heartbeat(ctx context.Context, interval time.Duration, msg string, onFail func()) func() {
	if interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := fw.write(func(w io.Writer) error {
					_, err := io.WriteString(w, msg)
					return err
				})
				if err != nil {
					onFail()
					return
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

type streamConfig struct {
	keepAlive time.Duration
	onError   func(context.Context, error)
}

// StreamOption configures NDJSON streaming.
type StreamOption func(*streamConfig)

// WithStreamErrorHandler sets a callback for errors that happen after the
// response has started: sequence failures and write failures.
func WithStreamErrorHandler(fn func(context.Context, error)) StreamOption {
	return func(c *streamConfig) {
		c.onError = fn
	}
}

// WithStreamKeepAlive writes an empty line every interval while no item is
// flowing. Zero disables it.
func WithStreamKeepAlive(interval time.Duration) StreamOption {
	return func(c *streamConfig) {
		c.keepAlive = interval
	}
}

// NDJSON streams p as newline-delimited JSON (application/x-ndjson), one
// item per line, flushing after each item. Items are requested one at a
// time, so a slow client slows the sequence down instead of buffering it.
// The response ends when p terminates or the client goes away; a failing
// sequence cannot change the status any more, so its error goes to the
// stream error handler.
func NDJSON[T any](p stream.Publisher[T], opts ...StreamOption) handler.Response {
	cfg := &streamConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, req *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			return ErrStreamingUnsupported
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		out := &flushWriter{w: w, f: flusher}
		ctx, cancel := context.WithCancel(req.Context())
		defer cancel()

		stop := out.heartbeat(ctx, cfg.keepAlive, "\n", cancel)
		err := stream.ForEach(ctx, p, func(v T) error {
			return out.write(func(w io.Writer) error {
				return json.NewEncoder(w).Encode(v)
			})
		})
		stop()

		reportStreamError(req.Context(), cfg.onError, out, err)
		return nil
	}
}

// reportStreamError hands the first real failure to onError. Cancellation
// caused by the client or by server shutdown is not reported.
func reportStreamError(ctx context.Context, onError func(context.Context, error), out *flushWriter, err error) {
	if onError == nil {
		return
	}
	if werr := out.failure(); werr != nil {
		onError(ctx, fmt.Errorf("failed to write stream: %w", werr))
		return
	}
	if err != nil && ctx.Err() == nil {
		onError(ctx, err)
	}
}
