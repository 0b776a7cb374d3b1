package stream

import "fmt"

// Kind identifies the type of a Signal.
type Kind int

const (
	KindNext Kind = iota
	KindError
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindNext:
		return "onNext"
	case KindError:
		return "onError"
	case KindComplete:
		return "onComplete"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Signal is one event in the lifecycle of a subscription.
type Signal[T any] struct {
	Kind  Kind
	Value T     // set for KindNext
	Err   error // set for KindError
}

// Next returns a KindNext signal carrying v.
func Next[T any](v T) Signal[T] {
	return Signal[T]{Kind: KindNext, Value: v}
}

// Complete returns a KindComplete signal.
func Complete[T any]() Signal[T] {
	return Signal[T]{Kind: KindComplete}
}

// Failure returns a KindError signal carrying err.
func Failure[T any](err error) Signal[T] {
	return Signal[T]{Kind: KindError, Err: err}
}

// IsTerminal reports whether the signal ends the subscription.
func (s Signal[T]) IsTerminal() bool {
	return s.Kind == KindError || s.Kind == KindComplete
}

func (s Signal[T]) String() string {
	switch s.Kind {
	case KindNext:
		return fmt.Sprintf("onNext(%v)", s.Value)
	case KindError:
		return fmt.Sprintf("onError(%v)", s.Err)
	default:
		return s.Kind.String() + "()"
	}
}
