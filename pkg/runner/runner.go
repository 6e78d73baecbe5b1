package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/healthreport/pkg/logger"
	"github.com/dmitrymomot/healthreport/pkg/schedule"
)

// Store is the persistence the runner needs.
type Store interface {
	// ListEnabled returns every schedule with Enabled set, with AccountEmail joined.
	ListEnabled(ctx context.Context) ([]schedule.Config, error)

	// MarkSent records a confirmed delivery. Both fields are written in one statement.
	MarkSent(ctx context.Context, userID uuid.UUID, sentAt time.Time, nextDueAt *time.Time) error
}

// Request is a single report delivery.
type Request struct {
	UserID    uuid.UUID
	Recipient string
	RangeDays schedule.RangeDays
}

// Deliverer renders and sends one report. Any error counts as a failed delivery.
type Deliverer interface {
	Deliver(ctx context.Context, req Request) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, req Request) error

func (f DelivererFunc) Deliver(ctx context.Context, req Request) error { return f(ctx, req) }

// Observer is notified after every pass, including failed ones.
type Observer interface {
	ObservePass(res Result, err error, elapsed time.Duration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(res Result, err error, elapsed time.Duration)

func (f ObserverFunc) ObservePass(res Result, err error, elapsed time.Duration) { f(res, err, elapsed) }

// Observers fans a pass out to several observers in order.
type Observers []Observer

func (o Observers) ObservePass(res Result, err error, elapsed time.Duration) {
	for _, obs := range o {
		if obs != nil {
			obs.ObservePass(res, err, elapsed)
		}
	}
}

// Locker guards a pass across processes. Acquire returns an error wrapping
// ErrPassInProgress when another holder exists.
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Planned is a delivery a dry-run pass would have made.
type Planned struct {
	UserID    uuid.UUID
	Recipient string
	RangeDays schedule.RangeDays
	DueAt     time.Time
}

func (p Planned) String() string {
	return fmt.Sprintf("[DRY RUN] Would send report to %s for user %s", p.Recipient, p.UserID)
}

// Result aggregates one pass. Skipped is NotDue + MissingRecipient + Failed.
// Dry-run passes report would-be sends in Planned and leave Sent at zero.
// Unrecorded counts reports that were delivered but whose MarkSent failed;
// they are in neither Sent nor Skipped.
type Result struct {
	Sent             int
	Skipped          int
	NotDue           int
	MissingRecipient int
	Failed           int
	Unrecorded       int
	Planned          []Planned
}

func (r Result) String() string {
	return fmt.Sprintf("Sent %d report(s); skipped %d.", r.Sent, r.Skipped)
}

// Runner delivers reports for due schedules.
type Runner struct {
	store     Store
	deliverer Deliverer
	passMu    sync.Mutex

	logger      *slog.Logger
	interval    time.Duration
	concurrency int
	dryRun      bool
	clock       func() time.Time
	observer    Observer
	locker      Locker
}

// New creates a Runner.
func New(store Store, deliverer Deliverer, opts ...Option) (*Runner, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if deliverer == nil {
		return nil, ErrDelivererNil
	}

	options := &options{
		logger:      slog.Default(),
		interval:    DefaultInterval,
		concurrency: 1,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Runner{
		store:       store,
		deliverer:   deliverer,
		logger:      options.logger.With(logger.Component("runner")),
		interval:    options.interval,
		concurrency: options.concurrency,
		dryRun:      options.dryRun,
		clock:       options.clock,
		observer:    options.observer,
		locker:      options.locker,
	}, nil
}

// Interval is the effective pause between passes.
func (r *Runner) Interval() time.Duration { return r.interval }

// Run executes a pass immediately and then one per interval until ctx is done.
// A pass held by another process is logged and skipped. A fatal store error
// stops the loop and is returned.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.InfoContext(ctx, "report runner started",
		logger.Duration(r.interval),
		slog.Int("concurrency", r.concurrency),
		slog.Bool("dry_run", r.dryRun))

	for {
		res, err := r.RunOnce(ctx, r.clock())
		switch {
		case err == nil:
			r.logger.InfoContext(ctx, res.String(), logger.Count(res.Sent), slog.Int("skipped", res.Skipped))
		case errors.Is(err, ErrPassInProgress):
			r.logger.InfoContext(ctx, "pass skipped, another pass is in progress")
		case ctx.Err() != nil:
			r.logger.InfoContext(ctx, "report runner shutting down")
			return ctx.Err()
		default:
			return err
		}

		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "report runner shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce processes every enabled schedule against now.
//
// Per-schedule problems (not due, no recipient, delivery error) are counted
// and never returned. Only store failures (ErrStoreUnavailable), lock
// contention (ErrPassInProgress) and cancellation end the pass with an error;
// the partial Result is returned alongside.
func (r *Runner) RunOnce(ctx context.Context, now time.Time) (Result, error) {
	started := time.Now()
	res, err := r.runOnce(ctx, now)
	if r.observer != nil {
		r.observer.ObservePass(res, err, time.Since(started))
	}
	return res, err
}

func (r *Runner) runOnce(ctx context.Context, now time.Time) (Result, error) {
	if !r.passMu.TryLock() {
		return Result{}, ErrPassInProgress
	}
	defer r.passMu.Unlock()

	if r.locker != nil {
		release, err := r.locker.Acquire(ctx)
		if err != nil {
			return Result{}, err
		}
		defer release()
	}

	ctx = WithPassID(ctx, uuid.New())
	log := r.logger
	log.DebugContext(ctx, "pass started", logger.DueAt(now))

	configs, err := r.store.ListEnabled(ctx)
	if err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, err)
	}

	p := &pass{
		runner: r,
		log:    log,
		now:    now,
		sem:    make(chan struct{}, r.concurrency),
	}

	for _, cfg := range configs {
		if !p.process(ctx, cfg) {
			break
		}
	}
	p.wg.Wait()

	res, fatal := p.result()
	if fatal != nil {
		log.ErrorContext(ctx, "pass aborted", logger.Error(fatal))
		return res, fatal
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	log.DebugContext(ctx, "pass finished",
		logger.Count(res.Sent),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed))
	return res, nil
}

// pass holds the mutable state of one RunOnce call.
type pass struct {
	runner *Runner
	log    *slog.Logger
	now    time.Time
	sem    chan struct{}
	wg     sync.WaitGroup

	mu    sync.Mutex
	res   Result
	fatal error
}

// process handles one schedule and reports whether the pass should continue.
func (p *pass) process(ctx context.Context, cfg schedule.Config) bool {
	if ctx.Err() != nil || p.failed() {
		return false
	}

	if !cfg.IsDue(p.now) {
		p.record(func(res *Result) { res.NotDue++ })
		return true
	}

	recipient, ok := cfg.ResolveRecipient()
	if !ok {
		p.log.WarnContext(ctx, "skipping report, no recipient email configured",
			logger.UserID(cfg.UserID),
			logger.Error(ErrMissingRecipient))
		p.record(func(res *Result) { res.MissingRecipient++ })
		return true
	}

	req := Request{UserID: cfg.UserID, Recipient: recipient, RangeDays: cfg.RangeDays}

	if p.runner.dryRun {
		planned := Planned{UserID: cfg.UserID, Recipient: recipient, RangeDays: cfg.RangeDays, DueAt: *cfg.NextDueAt}
		p.log.InfoContext(ctx, planned.String(), logger.UserID(cfg.UserID), logger.Recipient(recipient))
		p.record(func(res *Result) { res.Planned = append(res.Planned, planned) })
		return true
	}

	// Wait for a free slot, then look again: the deliveries that just
	// finished may have been cancelled or hit a store failure.
	p.sem <- struct{}{}
	if ctx.Err() != nil || p.failed() {
		<-p.sem
		return false
	}

	// Deliveries already started finish even if ctx is cancelled.
	detached := context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()
		p.deliver(detached, cfg, req)
	}()
	return true
}

func (p *pass) deliver(ctx context.Context, cfg schedule.Config, req Request) {
	if err := p.runner.deliverer.Deliver(ctx, req); err != nil {
		err = errors.Join(ErrDeliveryFailed, err)
		p.log.ErrorContext(ctx, "report delivery failed",
			logger.UserID(cfg.UserID),
			logger.Recipient(req.Recipient),
			logger.Error(err))
		p.record(func(res *Result) { res.Failed++ })
		return
	}

	next := schedule.Next(cfg, p.now)
	if err := p.runner.store.MarkSent(ctx, cfg.UserID, p.now, next); err != nil {
		p.log.ErrorContext(ctx, "failed to record sent report",
			logger.UserID(cfg.UserID),
			logger.Error(err))
		p.mu.Lock()
		p.res.Unrecorded++
		if p.fatal == nil {
			p.fatal = errors.Join(ErrStoreUnavailable, err)
		}
		p.mu.Unlock()
		return
	}

	p.log.InfoContext(ctx, "report sent",
		logger.UserID(cfg.UserID),
		logger.Recipient(req.Recipient),
		logger.Frequency(string(cfg.Frequency())),
		logger.DueAt(next))
	p.record(func(res *Result) { res.Sent++ })
}

func (p *pass) record(fn func(res *Result)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.res)
}

func (p *pass) failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fatal != nil
}

func (p *pass) result() (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := p.res
	res.Skipped = res.NotDue + res.MissingRecipient + res.Failed
	return res, p.fatal
}
