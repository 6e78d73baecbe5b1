package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store persists schedules. Save must write every field of cfg in one statement.
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (Config, error)
	Create(ctx context.Context, cfg Config) error
	Save(ctx context.Context, cfg Config) error
}

// Service is the only writer of schedule configuration outside the delivery runner.
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the source of "now"; the returned time's location is
// the one schedules are evaluated in.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation evaluates schedules in loc using the wall clock.
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) {
		if loc != nil {
			s.now = func() time.Time { return time.Now().In(loc) }
		}
	}
}

func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateDefault stores the default (disabled) schedule for a new account.
func (s *Service) CreateDefault(ctx context.Context, userID uuid.UUID) (Config, error) {
	cfg := Default(userID)
	cfg.UpdatedAt = s.now()
	if err := s.store.Create(ctx, cfg); err != nil {
		return Config{}, fmt.Errorf("create default schedule: %w", err)
	}
	return cfg, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (Config, error) {
	cfg, err := s.store.Get(ctx, userID)
	if err != nil {
		return Config{}, fmt.Errorf("get schedule: %w", err)
	}
	return cfg, nil
}

// Configure validates in, normalises it and persists the result with a freshly
// computed NextDueAt. ValidationErrors are returned unwrapped.
func (s *Service) Configure(ctx context.Context, userID uuid.UUID, in Input) (Config, error) {
	current, err := s.store.Get(ctx, userID)
	missing := errors.Is(err, ErrNotFound)
	switch {
	case missing:
		current = Default(userID)
	case err != nil:
		return Config{}, fmt.Errorf("get schedule: %w", err)
	}

	cfg, err := Apply(current, in, s.now())
	if err != nil {
		return Config{}, err
	}

	if missing {
		err = s.store.Create(ctx, cfg)
	} else {
		err = s.store.Save(ctx, cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("save schedule: %w", err)
	}
	return cfg, nil
}

// Disable turns reports off, keeping recipient, range and time of day.
func (s *Service) Disable(ctx context.Context, userID uuid.UUID) (Config, error) {
	current, err := s.store.Get(ctx, userID)
	if err != nil {
		return Config{}, fmt.Errorf("get schedule: %w", err)
	}
	in := InputFrom(current)
	in.Enabled = false
	return s.Configure(ctx, userID, in)
}
