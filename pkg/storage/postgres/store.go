package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/healthreport/pkg/report"
	"github.com/dmitrymomot/healthreport/pkg/runner"
	"github.com/dmitrymomot/healthreport/pkg/schedule"
)

// DB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ schedule.Store = (*Store)(nil)
	_ runner.Store   = (*Store)(nil)
	_ report.Source  = (*Store)(nil)
)

// Store keeps report schedules, accounts and health records in PostgreSQL.
type Store struct {
	db DB
}

func NewStore(db DB) (*Store, error) {
	if db == nil {
		return nil, ErrPoolNil
	}
	return &Store{db: db}, nil
}

const selectSchedule = `
SELECT s.user_id, s.enabled, s.frequency, s.day_of_week, s.day_of_month, s.time_of_day,
       s.recipient, s.range_days, s.next_due_at, s.last_sent_at, s.updated_at, u.email
FROM report_schedules s
JOIN users u ON u.id = s.user_id`

func (s *Store) Get(ctx context.Context, userID uuid.UUID) (schedule.Config, error) {
	var row scheduleRow
	err := s.db.QueryRow(ctx, selectSchedule+` WHERE s.user_id = $1`, userID).Scan(row.scanTargets()...)
	if err != nil {
		if IsNotFoundError(err) {
			return schedule.Config{}, schedule.ErrNotFound
		}
		return schedule.Config{}, err
	}
	return row.config()
}

func (s *Store) Create(ctx context.Context, cfg schedule.Config) error {
	r := rowFromConfig(cfg)
	_, err := s.db.Exec(ctx, `
INSERT INTO report_schedules
    (user_id, enabled, frequency, day_of_week, day_of_month, time_of_day,
     recipient, range_days, next_due_at, last_sent_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.UserID, r.Enabled, r.Frequency, r.DayOfWeek, r.DayOfMonth, r.TimeOfDay,
		r.Recipient, r.RangeDays, r.NextDueAt, r.LastSentAt, r.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case IsDuplicateKeyError(err):
		return errors.Join(schedule.ErrAlreadyExists, err)
	case IsForeignKeyViolationError(err):
		return errors.Join(report.ErrAccountNotFound, err)
	default:
		return err
	}
}

// Save writes every schedule field in one UPDATE.
func (s *Store) Save(ctx context.Context, cfg schedule.Config) error {
	r := rowFromConfig(cfg)
	tag, err := s.db.Exec(ctx, `
UPDATE report_schedules
SET enabled = $2, frequency = $3, day_of_week = $4, day_of_month = $5, time_of_day = $6,
    recipient = $7, range_days = $8, next_due_at = $9, last_sent_at = $10, updated_at = $11
WHERE user_id = $1`,
		r.UserID, r.Enabled, r.Frequency, r.DayOfWeek, r.DayOfMonth, r.TimeOfDay,
		r.Recipient, r.RangeDays, r.NextDueAt, r.LastSentAt, r.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrNotFound
	}
	return nil
}

// ListEnabled returns enabled schedules, earliest due first.
func (s *Store) ListEnabled(ctx context.Context) ([]schedule.Config, error) {
	rows, err := s.db.Query(ctx, selectSchedule+`
WHERE s.enabled
ORDER BY s.next_due_at ASC NULLS LAST, s.user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schedule.Config
	for rows.Next() {
		var row scheduleRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, err
		}
		cfg, err := row.config()
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

// MarkSent records a delivery. A schedule disabled while the report was in
// flight keeps a NULL next_due_at.
func (s *Store) MarkSent(ctx context.Context, userID uuid.UUID, sentAt time.Time, nextDueAt *time.Time) error {
	tag, err := s.db.Exec(ctx, `
UPDATE report_schedules
SET last_sent_at = $2,
    next_due_at = CASE WHEN enabled THEN $3::timestamptz END,
    updated_at = now()
WHERE user_id = $1`, userID, sentAt, nextDueAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrNotFound
	}
	return nil
}

func (s *Store) Account(ctx context.Context, userID uuid.UUID) (report.Account, error) {
	a := report.Account{UserID: userID}
	err := s.db.QueryRow(ctx, `SELECT username, full_name, email FROM users WHERE id = $1`, userID).
		Scan(&a.Username, &a.FullName, &a.Email)
	if err != nil {
		if IsNotFoundError(err) {
			return report.Account{}, report.ErrAccountNotFound
		}
		return report.Account{}, err
	}
	return a, nil
}

// Records returns records whose date falls within [from, to]. Dates are
// compared as calendar dates in the location of from.
func (s *Store) Records(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]report.Record, error) {
	rows, err := s.db.Query(ctx, `
SELECT date, heart_rate, sleep_hours, steps
FROM health_records
WHERE user_id = $1 AND date BETWEEN $2::date AND $3::date
ORDER BY date DESC`, userID, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.Record, error) {
		var (
			r         report.Record
			heartRate int16
		)
		if err := row.Scan(&r.Date, &heartRate, &r.SleepHours, &r.Steps); err != nil {
			return report.Record{}, err
		}
		r.HeartRate = int(heartRate)
		y, m, d := r.Date.Date()
		r.Date = time.Date(y, m, d, 0, 0, 0, 0, from.Location())
		return r, nil
	})
}

// CreateAccount inserts a user row. Mostly useful for seeding.
func (s *Store) CreateAccount(ctx context.Context, a report.Account) error {
	_, err := s.db.Exec(ctx, `INSERT INTO users (id, username, full_name, email) VALUES ($1, $2, $3, $4)`,
		a.UserID, a.Username, a.FullName, a.Email)
	if IsDuplicateKeyError(err) {
		return errors.Join(report.ErrAccountExists, err)
	}
	return err
}

// AddRecord upserts the record for its date.
func (s *Store) AddRecord(ctx context.Context, userID uuid.UUID, r report.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
INSERT INTO health_records (user_id, date, heart_rate, sleep_hours, steps)
VALUES ($1, $2::date, $3, $4, $5)
ON CONFLICT (user_id, date) DO UPDATE
SET heart_rate = EXCLUDED.heart_rate, sleep_hours = EXCLUDED.sleep_hours, steps = EXCLUDED.steps`,
		userID, r.Date.Format(time.DateOnly), r.HeartRate, r.SleepHours, r.Steps)
	if IsForeignKeyViolationError(err) {
		return errors.Join(report.ErrAccountNotFound, err)
	}
	return err
}
