// Package broadcast provides a multicast replay hub: one publisher, many
// independent late-joining subscribers.
//
// A Hub keeps an append-only log of published items. Every feed obtained
// from the hub owns a cursor into that log: it first replays the retained
// items in publish order and then continues with live items. The length of
// the log is captured under the same lock Publish takes, so a publish that
// races with a new subscription is either replayed or delivered live,
// never both and never skipped.
//
// # Usage
//
//	hub := broadcast.New[string]()
//	defer hub.Close()
//
//	_ = hub.Publish("X1")
//	_ = hub.Publish("X2")
//
//	// A late subscriber sees X1, X2 and then everything published later.
//	err := stream.ForEach(ctx, hub.Stream(), func(s string) error {
//		fmt.Println(s)
//		return nil
//	})
//
// # Retention
//
// ReplayAll (the default) keeps every item for the lifetime of the hub.
// ReplayLast(n) keeps the n most recent items; older entries are dropped
// once every attached feed has read past them.
//
// # Slow Subscribers
//
// Publish never blocks on subscribers. Each feed is drained by its own
// goroutine according to its own demand. With WithMaxLag(n), a feed that
// has more than n unread items is detached and terminated with
// ErrSubscriberOverwhelmed; the publisher and the other feeds are not
// affected.
//
// # Lifecycle
//
// Close stops accepting items. Attached feeds deliver what they have not
// read yet and complete. Feeds created after Close replay the log and
// complete. Publish and a second Close return ErrHubClosed.
//
// # Metrics
//
//	m, err := broadcast.NewMetrics(prometheus.DefaultRegisterer, "movies")
//	hub := broadcast.New[Movie](broadcast.WithMetrics(m))
package broadcast
