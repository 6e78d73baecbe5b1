package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/healthreport/pkg/config"
	"github.com/dmitrymomot/healthreport/pkg/logger"
	"github.com/dmitrymomot/healthreport/pkg/storage/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var cfg postgres.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			pool, err := postgres.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			return postgres.Migrate(ctx, pool, cfg, a.log.With(logger.Component("migrate")))
		},
	}
}
