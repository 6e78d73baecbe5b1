package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/healthreport/pkg/delivery"
	"github.com/dmitrymomot/healthreport/pkg/httpserver"
	"github.com/dmitrymomot/healthreport/pkg/metrics"
	"github.com/dmitrymomot/healthreport/pkg/report"
	"github.com/dmitrymomot/healthreport/pkg/runner"
)

type sendOptions struct {
	dryRun   bool
	loop     bool
	interval int // seconds
}

func newSendCmd(a *app) *cobra.Command {
	var opts sendOptions
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send reports for every schedule that is due",
		Example: `  healthreport send --dry-run
  healthreport send --loop --interval 300`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("interval") {
				opts.interval = int(a.cfg.ReportInterval / time.Second)
			}
			return a.send(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print what would be sent and change nothing")
	cmd.Flags().BoolVar(&opts.loop, "loop", false, "keep running, one pass per interval")
	cmd.Flags().IntVar(&opts.interval, "interval", int(runner.DefaultInterval/time.Second), "seconds between passes with --loop (minimum 30)")
	return cmd
}

func (a *app) send(ctx context.Context, out io.Writer, opts sendOptions) error {
	b, err := a.open(ctx, a, true)
	if err != nil {
		return err
	}
	defer b.close()

	sender, err := a.newSender(a)
	if err != nil {
		return err
	}
	builder, err := report.NewBuilder(b.store)
	if err != nil {
		return err
	}
	mailer, err := delivery.NewMailer(builder, report.NewRenderer(), sender,
		delivery.WithLogger(a.log),
		delivery.WithClock(a.clock),
	)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := metrics.NewObserver(reg)
	if err != nil {
		return err
	}

	runOpts := []runner.Option{
		runner.WithLogger(a.log),
		runner.WithInterval(time.Duration(opts.interval) * time.Second),
		runner.WithConcurrency(a.cfg.ReportConcurrency),
		runner.WithDryRun(opts.dryRun),
		runner.WithClock(a.clock),
		runner.WithObserver(runner.Observers{observer, printPass(out)}),
	}
	if b.locker != nil {
		runOpts = append(runOpts, runner.WithLocker(b.locker))
	}
	r, err := runner.New(b.store, mailer, runOpts...)
	if err != nil {
		return err
	}

	if !opts.loop {
		_, err := r.RunOnce(ctx, a.clock())
		return err
	}
	return a.loop(ctx, r, reg, b.checks)
}

// loop runs passes until ctx is cancelled, serving the ops routes alongside
// when METRICS_ADDR is set. Either side failing stops the other.
func (a *app) loop(ctx context.Context, r *runner.Runner, reg *prometheus.Registry, checks []httpserver.Check) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.cfg.MetricsAddr != "" {
		srv := httpserver.New(
			httpserver.WithAddr(a.cfg.MetricsAddr),
			httpserver.WithLogger(a.log),
		)
		g.Go(func() error {
			return srv.Run(gctx, httpserver.Router(a.log, reg, checks...))
		})
	}

	g.Go(func() error {
		err := r.Run(gctx)
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	return g.Wait()
}

// printPass writes dry-run plans and the pass summary to w.
func printPass(w io.Writer) runner.ObserverFunc {
	return func(res runner.Result, err error, _ time.Duration) {
		if err != nil {
			return
		}
		for _, p := range res.Planned {
			fmt.Fprintln(w, p)
		}
		fmt.Fprintln(w, res)
	}
}
