// Package memory is an in-process store for schedules, accounts and health
// records. It satisfies schedule.Store, runner.Store and report.Source and is
// used by tests and local runs.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/healthreport/pkg/report"
	"github.com/dmitrymomot/healthreport/pkg/runner"
	"github.com/dmitrymomot/healthreport/pkg/schedule"
)

var (
	_ schedule.Store = (*Store)(nil)
	_ runner.Store   = (*Store)(nil)
	_ report.Source  = (*Store)(nil)
)

// Store is safe for concurrent use. Values are copied in and out.
type Store struct {
	mu        sync.RWMutex
	accounts  map[uuid.UUID]report.Account
	schedules map[uuid.UUID]schedule.Config
	records   map[uuid.UUID][]report.Record
}

func New() *Store {
	return &Store{
		accounts:  make(map[uuid.UUID]report.Account),
		schedules: make(map[uuid.UUID]schedule.Config),
		records:   make(map[uuid.UUID][]report.Record),
	}
}

// PutAccount creates or replaces an account.
func (s *Store) PutAccount(a report.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.UserID] = a
}

// CreateAccount adds an account, rejecting a taken id or username.
func (s *Store) CreateAccount(_ context.Context, a report.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.UserID]; ok {
		return report.ErrAccountExists
	}
	for _, existing := range s.accounts {
		if a.Username != "" && existing.Username == a.Username {
			return report.ErrAccountExists
		}
	}
	s.accounts[a.UserID] = a
	return nil
}

// AddRecord stores a record, replacing any record on the same date.
func (s *Store) AddRecord(_ context.Context, userID uuid.UUID, r report.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[userID]; !ok {
		return report.ErrAccountNotFound
	}

	r.Date = dateOf(r.Date)
	recs := slices.DeleteFunc(s.records[userID], func(x report.Record) bool { return x.Date.Equal(r.Date) })
	s.records[userID] = append(recs, r)
	return nil
}

func (s *Store) Get(_ context.Context, userID uuid.UUID) (schedule.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.schedules[userID]
	if !ok {
		return schedule.Config{}, schedule.ErrNotFound
	}
	return s.withEmail(clone(cfg)), nil
}

func (s *Store) Create(_ context.Context, cfg schedule.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[cfg.UserID]; ok {
		return schedule.ErrAlreadyExists
	}
	cfg.AccountEmail = ""
	s.schedules[cfg.UserID] = clone(cfg)
	return nil
}

func (s *Store) Save(_ context.Context, cfg schedule.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[cfg.UserID]; !ok {
		return schedule.ErrNotFound
	}
	cfg.AccountEmail = ""
	s.schedules[cfg.UserID] = clone(cfg)
	return nil
}

// ListEnabled returns enabled schedules ordered by next due time, unset last.
func (s *Store) ListEnabled(_ context.Context) ([]schedule.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schedule.Config, 0, len(s.schedules))
	for _, cfg := range s.schedules {
		if cfg.Enabled {
			out = append(out, s.withEmail(clone(cfg)))
		}
	}
	slices.SortFunc(out, func(a, b schedule.Config) int {
		switch {
		case a.NextDueAt == nil && b.NextDueAt == nil:
			return cmp.Compare(a.UserID.String(), b.UserID.String())
		case a.NextDueAt == nil:
			return 1
		case b.NextDueAt == nil:
			return -1
		}
		if c := a.NextDueAt.Compare(*b.NextDueAt); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID.String(), b.UserID.String())
	})
	return out, nil
}

func (s *Store) MarkSent(_ context.Context, userID uuid.UUID, sentAt time.Time, nextDueAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.schedules[userID]
	if !ok {
		return schedule.ErrNotFound
	}
	cfg.LastSentAt = &sentAt
	// A schedule disabled while its report was in flight stays without a due time.
	if cfg.Enabled {
		cfg.NextDueAt = copyTime(nextDueAt)
	} else {
		cfg.NextDueAt = nil
	}
	cfg.UpdatedAt = sentAt
	s.schedules[userID] = cfg
	return nil
}

func (s *Store) Account(_ context.Context, userID uuid.UUID) (report.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[userID]
	if !ok {
		return report.Account{}, report.ErrAccountNotFound
	}
	return a, nil
}

// Records returns records dated within [from, to] compared by calendar date.
func (s *Store) Records(_ context.Context, userID uuid.UUID, from, to time.Time) ([]report.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to = dateOf(from), dateOf(to)
	var out []report.Record
	for _, r := range s.records[userID] {
		d := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, from.Location())
		if d.Before(from) || d.After(to) {
			continue
		}
		r.Date = d
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) withEmail(cfg schedule.Config) schedule.Config {
	cfg.AccountEmail = s.accounts[cfg.UserID].Email
	return cfg
}

func clone(cfg schedule.Config) schedule.Config {
	if cfg.TimeOfDay != nil {
		tod := *cfg.TimeOfDay
		cfg.TimeOfDay = &tod
	}
	cfg.NextDueAt = copyTime(cfg.NextDueAt)
	cfg.LastSentAt = copyTime(cfg.LastSentAt)
	return cfg
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
