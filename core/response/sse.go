package response

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/reactive/core/handler"
	"github.com/dmitrymomot/reactive/core/stream"
)

// DefaultSSEKeepAlive is the default keep-alive interval for SSE connections.
const DefaultSSEKeepAlive = 30 * time.Second

type sseConfig struct {
	eventName string
	idGen     func(any) string
	reconnect int
	keepAlive time.Duration
	onError   func(context.Context, error)
}

// EventOption configures Server-Sent Events behavior.
type EventOption func(*sseConfig)

// WithEventName sets the event name for SSE events.
func WithEventName(name string) EventOption {
	return func(s *sseConfig) {
		s.eventName = name
	}
}

// WithEventIDGenerator derives each event ID from its item.
func WithEventIDGenerator(fn func(data any) string) EventOption {
	return func(s *sseConfig) {
		s.idGen = fn
	}
}

// WithReconnectTime sets the client reconnection time in milliseconds.
func WithReconnectTime(milliseconds int) EventOption {
	return func(s *sseConfig) {
		s.reconnect = milliseconds
	}
}

// WithKeepAlive sets the keep-alive interval. Zero disables keep-alive.
func WithKeepAlive(interval time.Duration) EventOption {
	return func(s *sseConfig) {
		s.keepAlive = interval
	}
}

// WithSSEErrorHandler sets an error handler for SSE streaming errors.
// The handler receives the request context and error for logging or monitoring.
func WithSSEErrorHandler(fn func(context.Context, error)) EventOption {
	return func(s *sseConfig) {
		s.onError = fn
	}
}

// SSE streams p as Server-Sent Events, one event per item. Strings and
// byte slices are sent as-is, anything else as JSON. Items are requested one
// at a time as the client keeps up. When p fails, an "error" event carrying
// the message is sent before the response ends.
func SSE[T any](p stream.Publisher[T], opts ...EventOption) handler.Response {
	cfg := &sseConfig{keepAlive: DefaultSSEKeepAlive}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, req *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			return ErrStreamingUnsupported
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		out := &flushWriter{w: w, f: flusher}
		err := out.write(func(w io.Writer) error {
			if cfg.reconnect > 0 {
				if _, err := fmt.Fprintf(w, "retry: %d\n", cfg.reconnect); err != nil {
					return err
				}
			}
			_, err := io.WriteString(w, ": connected\n\n")
			return err
		})
		if err != nil {
			reportStreamError(req.Context(), cfg.onError, out, nil)
			return nil
		}

		ctx, cancel := context.WithCancel(req.Context())
		defer cancel()

		stop := out.heartbeat(ctx, cfg.keepAlive, ": keepalive\n\n", cancel)
		err = stream.ForEach(ctx, p, func(v T) error {
			return out.write(func(w io.Writer) error {
				return writeSSEEvent(w, v, cfg.eventName, cfg.idGen)
			})
		})
		stop()

		if err != nil && req.Context().Err() == nil && out.failure() == nil {
			_ = out.write(func(w io.Writer) error {
				return writeSSEEvent(w, err.Error(), "error", nil)
			})
		}
		reportStreamError(req.Context(), cfg.onError, out, err)
		return nil
	}
}

// writeSSEEvent writes one event. Multi-line data is split into several
// data fields.
func writeSSEEvent(w io.Writer, data any, eventName string, idGen func(any) string) error {
	var b strings.Builder

	if eventName != "" {
		fmt.Fprintf(&b, "event: %s\n", eventName)
	}
	if idGen != nil {
		if id := idGen(data); id != "" {
			fmt.Fprintf(&b, "id: %s\n", id)
		}
	}

	var payload string
	switch v := data.(type) {
	case string:
		payload = v
	case []byte:
		payload = string(v)
	default:
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(raw)
	}

	for line := range strings.SplitSeq(payload, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
