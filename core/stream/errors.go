package stream

import "errors"

var (
	// ErrInvalidDemand is delivered when Request is called with a non-positive amount.
	ErrInvalidDemand = errors.New("stream: request amount must be positive")

	// ErrOverflow is delivered by best-effort producers, such as Interval,
	// when an item is due but the subscriber has no outstanding demand.
	ErrOverflow = errors.New("stream: subscriber has no outstanding demand")

	// ErrAlreadySubscribed is delivered to the second subscriber of a single-use publisher.
	ErrAlreadySubscribed = errors.New("stream: publisher allows a single subscriber")
)
