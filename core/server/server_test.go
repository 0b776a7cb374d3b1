package server_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/server"
)

func startServer(t *testing.T, handler http.Handler, opts ...server.Option) (*server.Server, context.CancelFunc, <-chan error) {
	t.Helper()

	srv := server.New("127.0.0.1:0", opts...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, handler)() }()

	select {
	case <-srv.Ready():
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not start")
	}
	return srv, cancel, done
}

func TestServer(t *testing.T) {
	t.Parallel()

	t.Run("serves_requests", func(t *testing.T) {
		t.Parallel()

		srv, cancel, done := startServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "pong")
		}))

		resp, err := http.Get(fmt.Sprintf("http://%s/", srv.Addr()))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.Equal(t, "pong", string(body))

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	})

	t.Run("shutdown_cancels_streaming_requests", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		finished := make(chan struct{})
		srv, cancel, done := startServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.(http.Flusher).Flush()
			close(started)
			<-r.Context().Done()
			close(finished)
		}), server.WithShutdownTimeout(10*time.Second))

		go func() {
			resp, err := http.Get(fmt.Sprintf("http://%s/stream", srv.Addr()))
			if err == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
			}
		}()

		<-started
		cancel()

		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("streaming handler was not cancelled on shutdown")
		}
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	})

	t.Run("rejects_second_start", func(t *testing.T) {
		t.Parallel()

		srv, cancel, done := startServer(t, http.NotFoundHandler())
		defer func() {
			cancel()
			<-done
		}()

		err := srv.Start(context.Background(), http.NotFoundHandler())
		assert.ErrorIs(t, err, server.ErrServerAlreadyRunning)
	})

	t.Run("listen_error", func(t *testing.T) {
		t.Parallel()

		srv, cancel, done := startServer(t, http.NotFoundHandler())
		defer func() {
			cancel()
			<-done
		}()

		other := server.New(srv.Addr())
		err := other.Start(context.Background(), http.NotFoundHandler())
		assert.ErrorIs(t, err, server.ErrListen)
	})

	t.Run("stop_when_not_running", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, server.New(":0").Stop())
	})

	t.Run("addr_before_start", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, ":9999", server.New(":9999").Addr())
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing_address", func(t *testing.T) {
		t.Parallel()

		_, err := server.NewFromConfig(server.Config{})
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})

	t.Run("default_config", func(t *testing.T) {
		t.Parallel()

		cfg := server.DefaultConfig()
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Zero(t, cfg.WriteTimeout)
		assert.Equal(t, server.DefaultShutdownTimeout, cfg.ShutdownTimeout)

		srv, err := server.NewFromConfig(cfg, server.WithLogger(nil))
		require.NoError(t, err)
		assert.Equal(t, ":8080", srv.Addr())
	})
}
