package stream

import "time"

// Clock schedules the timers used by Interval and Delay.
// Tests substitute a virtual clock to make timing deterministic.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending call scheduled on a Clock.
type Timer interface {
	// Stop prevents the call from running and reports whether it was still pending.
	Stop() bool
}

// SystemClock is the wall-clock Clock backed by the time package.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type timerConfig struct {
	clock Clock
}

// TimerOption configures time-based sources and operators.
type TimerOption func(*timerConfig)

// WithClock sets the clock used to schedule timers. Nil is ignored.
func WithClock(c Clock) TimerOption {
	return func(cfg *timerConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

func newTimerConfig(opts []TimerOption) timerConfig {
	cfg := timerConfig{clock: SystemClock}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
