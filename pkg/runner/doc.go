// Package runner delivers health reports for every schedule that is due.
//
// A Runner reads enabled schedules from a Store, hands each due one to a
// Deliverer and, after a confirmed delivery, records LastSentAt and the next
// due instant in a single MarkSent call. A failed delivery leaves the schedule
// untouched so the next pass retries it.
//
// # Architecture
//
//  1. Store and Deliverer are small interfaces; storage and the email pipeline
//     live in other packages (storage/postgres, delivery).
//  2. Each RunOnce is a pass. Passes never overlap inside a process, and an
//     optional Locker extends that guarantee across processes.
//  3. Deliveries within a pass run with bounded concurrency (WithConcurrency,
//     default 1). Each schedule's outcome is isolated from the others.
//  4. Cancellation is observed between schedules and while waiting for the
//     next pass. A delivery that has started is allowed to finish.
//
// # Usage
//
//	r, err := runner.New(store, mailer,
//	    runner.WithLogger(log),
//	    runner.WithInterval(5*time.Minute),
//	    runner.WithObserver(metrics.NewObserver(prometheus.DefaultRegisterer)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	// Single pass
//	res, err := r.RunOnce(ctx, time.Now().In(loc))
//	fmt.Println(res) // Sent 3 report(s); skipped 12.
//
//	// Until ctx is cancelled
//	err = r.Run(ctx)
//
// # Dry Run
//
// WithDryRun(true) evaluates schedules exactly like a real pass but records
// would-be deliveries in Result.Planned instead of sending. No state is written.
//
// # Logging
//
// Every pass gets a uuid carried in the context handed to the Store and the
// Deliverer (PassIDFromContext). Register LoggerExtractor with the logger to
// tag all records of a pass with "pass_id".
//
// # Error Handling
//
// Per-schedule problems are counted in Result and logged:
//
//   - not due yet: Result.NotDue
//   - ErrMissingRecipient: Result.MissingRecipient, logged as a warning
//   - ErrDeliveryFailed: Result.Failed, logged as an error with the user id
//
// Errors returned from RunOnce end the pass:
//
//   - ErrStoreUnavailable when listing or MarkSent fails; a report delivered
//     before MarkSent failed is counted in Result.Unrecorded
//   - ErrPassInProgress when another pass holds the lock
//   - the context error when ctx is cancelled mid-pass
package runner
