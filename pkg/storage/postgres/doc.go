// Package postgres stores report schedules, accounts and health records in
// PostgreSQL using pgx/v5, with the schema managed by goose.
//
// # Architecture
//
//   - Config is populated from PG_* environment variables.
//   - Connect opens a *pgxpool.Pool, retrying while the database comes up.
//   - Migrate applies the SQL migrations embedded in the binary.
//   - Store implements schedule.Store, runner.Store and report.Source.
//
// The report_schedules table enforces the schedule invariants with CHECK
// constraints: day_of_week is set exactly for weekly schedules, day_of_month
// exactly for monthly ones (1..28), range_days is 7, 30 or 90, and a disabled
// schedule has no next_due_at.
//
// # Usage
//
//	var cfg postgres.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	pool, err := postgres.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := postgres.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//	store, err := postgres.NewStore(pool)
//
// # Error Handling
//
// Store maps missing rows to schedule.ErrNotFound and report.ErrAccountNotFound,
// and a duplicate schedule to schedule.ErrAlreadyExists. A row that cannot be
// decoded into a valid schedule yields ErrCorruptSchedule. Helpers such as
// IsDuplicateKeyError classify raw pgx errors.
//
// # Testing
//
// The Store SQL runs against a real database only in the integration suite:
//
//	PG_TEST_CONN_URL=postgres://... go test -tags integration ./pkg/storage/postgres/...
package postgres
