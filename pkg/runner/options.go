package runner

import (
	"log/slog"
	"time"
)

const (
	// DefaultInterval is the pause between passes in Run.
	DefaultInterval = 300 * time.Second
	// MinInterval is the floor applied to any configured interval.
	MinInterval = 30 * time.Second
)

// Option is a functional option for configuring a Runner.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	interval    time.Duration
	concurrency int
	dryRun      bool
	clock       func() time.Time
	observer    Observer
	locker      Locker
}

// WithLogger sets the logger for the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInterval sets the pause between passes. Values below MinInterval are raised to it.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = max(d, MinInterval)
		}
	}
}

// WithConcurrency bounds the number of deliveries in flight during a pass.
// The default of 1 processes schedules sequentially.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithDryRun makes every pass report what it would send without delivering
// or touching schedule state.
func WithDryRun(dryRun bool) Option {
	return func(o *options) {
		o.dryRun = dryRun
	}
}

// WithClock sets the source of "now" used by Run. Its location is the one
// schedules are evaluated in.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithObserver receives the outcome of every completed pass.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithLocker guards passes across processes. An in-process guard is always active.
func WithLocker(l Locker) Option {
	return func(o *options) {
		if l != nil {
			o.locker = l
		}
	}
}
