// Package redis provides Redis client initialization and a pub/sub bridge
// between stream sequences across service instances.
//
// # Connecting
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Connect validates the URL (redis:// or rediss://), then pings with
// exponential backoff until the server answers or ConnectTimeout elapses.
// Healthcheck returns a ping function for readiness probes.
//
// # Configuration
//
//	REDIS_URL              (default: redis://localhost:6379/0)
//	REDIS_RETRY_ATTEMPTS   (default: 3)
//	REDIS_RETRY_INTERVAL   (default: 5s)
//	REDIS_CONNECT_TIMEOUT  (default: 30s)
//
// # Fan-out across instances
//
// Relay publishes values as JSON on a channel. Source turns the same
// channel into a stream.Publisher: each subscription opens its own Redis
// subscription and releases it on cancel. Together they let every instance
// feed its local hub with items created on any instance:
//
//	relay := redis.NewRelay[movieinfo.MovieInfo](client, "movies")
//	svc := movieinfo.NewService(store, relay)
//
//	go stream.ForEach(ctx, redis.Source[movieinfo.MovieInfo](client, "movies"), hub.Publish)
//
// Redis pub/sub is fire-and-forget: messages published while no Source is
// subscribed are lost.
//
// # Errors
//
//   - ErrFailedToParseRedisConnString: malformed connection URL
//   - ErrRedisNotReady: no successful ping within the retry budget
//   - ErrEmptyConnectionURL: no connection URL configured
//   - ErrHealthcheckFailed: health check ping failed
//   - ErrSubscribeFailed: the subscription handshake failed
//   - ErrPublishFailed: encoding or publishing failed
package redis
