package response

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/reactive/core/handler"
	"github.com/dmitrymomot/reactive/core/stream"
)

const (
	defaultWSWriteTimeout = 10 * time.Second
	defaultWSPingInterval = 30 * time.Second
)

type wsConfig struct {
	upgrader     *websocket.Upgrader
	writeTimeout time.Duration
	pingInterval time.Duration
	onError      func(context.Context, error)
}

// WebSocketOption configures WebSocket streaming.
type WebSocketOption func(*wsConfig)

func WithWSReadBuffer(size int) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.ReadBufferSize = size
	}
}

func WithWSWriteBuffer(size int) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.WriteBufferSize = size
	}
}

func WithWSOriginCheck(fn func(r *http.Request) bool) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

func WithWSAllowAnyOrigin() WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
}

// WithWSWriteTimeout bounds each message write.
func WithWSWriteTimeout(d time.Duration) WebSocketOption {
	return func(c *wsConfig) {
		c.writeTimeout = d
	}
}

// WithWSPingInterval sets how often pings are sent. Zero disables pings.
func WithWSPingInterval(d time.Duration) WebSocketOption {
	return func(c *wsConfig) {
		c.pingInterval = d
	}
}

func WithWSErrorHandler(fn func(context.Context, error)) WebSocketOption {
	return func(c *wsConfig) {
		c.onError = fn
	}
}

// WebSocket upgrades the connection and sends every item of p as a JSON
// text message. Incoming messages are read and discarded so control frames
// are processed; the client closing the connection cancels the sequence.
// Completion closes with 1000 (normal closure), failure with 1011 and the
// error message as reason.
func WebSocket[T any](p stream.Publisher[T], opts ...WebSocketOption) handler.Response {
	cfg := &wsConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		writeTimeout: defaultWSWriteTimeout,
		pingInterval: defaultWSPingInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		conn, err := cfg.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied with an HTTP error.
			if cfg.onError != nil {
				cfg.onError(r.Context(), err)
			}
			return nil
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readDone := make(chan struct{})
		go func() {
			defer close(readDone)
			defer cancel()
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		stopPing := pingLoop(ctx, conn, cfg.pingInterval, cfg.writeTimeout)

		err = stream.ForEach(ctx, p, func(v T) error {
			if cfg.writeTimeout > 0 {
				_ = conn.SetWriteDeadline(time.Now().Add(cfg.writeTimeout))
			}
			return conn.WriteJSON(v)
		})
		stopPing()

		clientGone := ctx.Err() != nil && r.Context().Err() == nil
		switch {
		case err == nil:
			writeClose(conn, websocket.CloseNormalClosure, "", cfg.writeTimeout)
		case errors.Is(err, context.Canceled) && clientGone:
			// The client closed the connection first.
		case r.Context().Err() != nil:
			writeClose(conn, websocket.CloseGoingAway, "", cfg.writeTimeout)
		default:
			writeClose(conn, websocket.CloseInternalServerErr, err.Error(), cfg.writeTimeout)
			if cfg.onError != nil {
				cfg.onError(r.Context(), err)
			}
		}

		// Wait for the client's close frame, or give up after the write timeout.
		_ = conn.SetReadDeadline(time.Now().Add(max(cfg.writeTimeout, time.Second)))
		<-readDone
		return nil
	}
}

// pingLoop sends pings until ctx is done. WriteControl may run concurrently
// with the data writer.
func pingLoop(ctx context.Context, conn *websocket.Conn, interval, timeout time.Duration) func() {
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
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(max(timeout, time.Second))); err != nil {
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

func writeClose(conn *websocket.Conn, code int, reason string, timeout time.Duration) {
	// Close frame reasons are limited to 123 bytes.
	if len(reason) > 123 {
		reason = reason[:123]
	}
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(max(timeout, time.Second)),
	)
}
