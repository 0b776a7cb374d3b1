package broadcast

import "errors"

var (
	// ErrHubClosed is returned by Publish and Close once the hub has been closed.
	ErrHubClosed = errors.New("broadcast: hub is closed")

	// ErrSubscriberOverwhelmed is delivered to a feed that fell further
	// behind the head of the log than the configured maximum lag.
	// Only that feed is terminated; the hub keeps running.
	ErrSubscriberOverwhelmed = errors.New("broadcast: subscriber is too far behind")
)
