package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/stream/streamtest"
	"github.com/dmitrymomot/reactive/integration/database/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("empty_url", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("invalid_scheme", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://localhost:6379"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://127.0.0.1:1/0",
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: 2 * time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})
}

type event struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

func TestRelaySource(t *testing.T) {
	t.Parallel()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redis.Connect(ctx, redis.Config{
		ConnectionURL:  url,
		RetryAttempts:  2,
		RetryInterval:  100 * time.Millisecond,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, redis.Healthcheck(client)(ctx))

	channel := "reactive-test-" + t.Name()
	log := slogt.New(t)

	rec := streamtest.Subscribe(redis.Source[event](client, channel, redis.WithLogger(log)), 10)
	defer rec.Cancel()

	relay := redis.NewRelay[event](client, channel, redis.WithLogger(log))

	// Publishing until the first item arrives covers the subscribe handshake.
	require.Eventually(t, func() bool {
		require.NoError(t, relay.Publish(event{Title: "Dune", Year: 2021}))
		return rec.AwaitItems(1, 100*time.Millisecond)
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, event{Title: "Dune", Year: 2021}, rec.Items()[0])
	assert.Empty(t, rec.Violations())
}
