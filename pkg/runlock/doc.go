// Package runlock keeps report passes from overlapping across processes.
//
// Locker implements runner.Locker with one Redis key: SET NX PX with a random
// token to acquire, and a compare-and-delete script to release. The key
// expires after the configured TTL so a crashed process cannot block passes
// forever.
//
// # Usage
//
//	var cfg runlock.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	if cfg.Enabled() {
//	    client, err := runlock.Connect(ctx, cfg)
//	    if err != nil {
//	        return err
//	    }
//	    locker, _ := runlock.NewFromConfig(client, cfg, runlock.WithLogger(log))
//	    opts = append(opts, runner.WithLocker(locker))
//	}
//
// # Error Handling
//
// Acquire returns ErrLocked, which matches runner.ErrPassInProgress, when the
// key is held, and ErrAcquireFailed joined with the cause when Redis fails.
package runlock
