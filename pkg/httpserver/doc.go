// Package httpserver serves the operational endpoints of a long-running
// report process: liveness, readiness and Prometheus metrics.
//
// Server wraps http.Server with context-driven graceful shutdown. Router
// builds the chi routes.
//
// # Usage
//
//	srv := httpserver.New(httpserver.WithAddr(":9090"), httpserver.WithLogger(log))
//	handler := httpserver.Router(log, prometheus.DefaultGatherer,
//	    httpserver.Check{Name: "postgres", Fn: postgres.Healthcheck(pool)},
//	)
//	go func() {
//	    if err := srv.Run(ctx, handler); err != nil {
//	        log.Error("ops server stopped", logger.Error(err))
//	    }
//	}()
//
// # Errors
//
// Run wraps listen errors with ErrStart and Shutdown wraps shutdown errors
// with ErrShutdown.
package httpserver
