package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/healthreport/pkg/config"
	"github.com/dmitrymomot/healthreport/pkg/email"
	"github.com/dmitrymomot/healthreport/pkg/httpserver"
	"github.com/dmitrymomot/healthreport/pkg/logger"
	"github.com/dmitrymomot/healthreport/pkg/report"
	"github.com/dmitrymomot/healthreport/pkg/runlock"
	"github.com/dmitrymomot/healthreport/pkg/runner"
	"github.com/dmitrymomot/healthreport/pkg/schedule"
	"github.com/dmitrymomot/healthreport/pkg/seed"
	"github.com/dmitrymomot/healthreport/pkg/storage/memory"
	"github.com/dmitrymomot/healthreport/pkg/storage/postgres"
)

// store is everything the commands need from persistence.
type store interface {
	schedule.Store
	runner.Store
	report.Source
	seed.RecordWriter
	CreateAccount(ctx context.Context, a report.Account) error
}

type backend struct {
	store  store
	locker runner.Locker
	checks []httpserver.Check
	close  func()
}

// app carries the dependencies shared by every command.
type app struct {
	envFile string
	dev     bool
	logOut  io.Writer

	cfg   config.App
	log   *slog.Logger
	loc   *time.Location
	now   func() time.Time
	ready bool

	open      func(ctx context.Context, a *app, withLock bool) (*backend, error)
	newSender func(a *app) (email.EmailSender, error)
}

func newApp() *app {
	return &app{
		logOut:    os.Stderr,
		now:       time.Now,
		open:      openBackend,
		newSender: newSender,
	}
}

// bootstrap loads configuration and builds the logger once per process.
func (a *app) bootstrap() error {
	if a.ready {
		return nil
	}
	if a.envFile != "" {
		if err := config.LoadEnv(a.envFile); err != nil {
			return err
		}
	}
	if err := config.Load(&a.cfg); err != nil {
		return err
	}
	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}

	a.loc = loc
	a.log = logger.New(
		logger.WithEnvironment(a.cfg.Env, a.cfg.Name),
		logger.WithLevelName(a.cfg.LogLevel),
		logger.WithOutput(a.logOut),
		logger.WithContextExtractors(runner.LoggerExtractor()),
	)
	logger.SetAsDefault(a.log)
	a.ready = true
	return nil
}

// clock returns the current time in the deployment timezone.
func (a *app) clock() time.Time {
	return a.now().In(a.loc)
}

func (a *app) scheduleService(st schedule.Store) (*schedule.Service, error) {
	return schedule.NewService(st, schedule.WithClock(a.clock))
}

func newSender(a *app) (email.EmailSender, error) {
	if a.dev {
		a.log.Info("dev mode, writing emails to disk", slog.String("dir", a.cfg.DevOutbox))
		return email.NewDevSender(a.cfg.DevOutbox), nil
	}
	var cfg email.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return email.NewPostmarkClient(cfg)
}

// openBackend connects Postgres and, when REDIS_URL is set and withLock is
// true, the pass lock. A --dev run without PG_CONN_URL gets a memory store.
func openBackend(ctx context.Context, a *app, withLock bool) (*backend, error) {
	if a.dev && os.Getenv("PG_CONN_URL") == "" {
		a.log.Warn("PG_CONN_URL is not set, using an in-memory store with a demo account")
		return openDemo(ctx, a)
	}

	var pgCfg postgres.Config
	if err := config.Load(&pgCfg); err != nil {
		return nil, err
	}
	pool, err := postgres.Connect(ctx, pgCfg)
	if err != nil {
		return nil, err
	}
	st, err := postgres.NewStore(pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	b := &backend{
		store:  st,
		checks: []httpserver.Check{{Name: "postgres", Fn: postgres.Healthcheck(pool)}},
		close:  pool.Close,
	}
	if !withLock {
		return b, nil
	}

	var lockCfg runlock.Config
	if err := config.Load(&lockCfg); err != nil {
		b.close()
		return nil, err
	}
	if !lockCfg.Enabled() {
		return b, nil
	}
	client, err := runlock.Connect(ctx, lockCfg)
	if err != nil {
		b.close()
		return nil, err
	}
	locker, err := runlock.NewFromConfig(client, lockCfg, runlock.WithLogger(a.log))
	if err != nil {
		closeAll(a.log, client, pool.Close)
		return nil, err
	}
	b.locker = locker
	b.checks = append(b.checks, httpserver.Check{Name: "redis", Fn: runlock.Healthcheck(client)})
	b.close = func() { closeAll(a.log, client, pool.Close) }
	return b, nil
}

func closeAll(log *slog.Logger, client *redis.Client, closePool func()) {
	if err := client.Close(); err != nil {
		log.Error("failed to close redis client", logger.Error(err))
	}
	closePool()
}

// openDemo returns a memory store holding one account with a month of
// records and a daily schedule that is due now.
func openDemo(ctx context.Context, a *app) (*backend, error) {
	st := memory.New()
	acc := report.Account{
		UserID:   uuid.New(),
		Username: "demo",
		FullName: "Demo User",
		Email:    "demo@example.com",
	}
	if err := st.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}
	now := a.clock()
	if _, err := seed.Seed(ctx, st, acc.UserID, now, int(schedule.RangeMonth), seed.DefaultSeed); err != nil {
		return nil, err
	}

	svc, err := a.scheduleService(st)
	if err != nil {
		return nil, err
	}
	if _, err := svc.CreateDefault(ctx, acc.UserID); err != nil {
		return nil, err
	}
	cfg, err := svc.Configure(ctx, acc.UserID, schedule.Input{
		Enabled:   true,
		Frequency: string(schedule.FrequencyDaily),
		TimeOfDay: schedule.DefaultTimeOfDay.String(),
		RangeDays: int(schedule.RangeMonth),
	})
	if err != nil {
		return nil, err
	}
	cfg.NextDueAt = &now
	if err := st.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return &backend{store: st, close: func() {}}, nil
}
