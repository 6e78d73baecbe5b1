package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "healthreport",
		Short:        "Scheduled health report emails",
		Long:         "healthreport renders per-user health reports and emails them on each user's daily, weekly or monthly schedule.",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.bootstrap()
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load environment variables from this file first")
	cmd.PersistentFlags().BoolVar(&a.dev, "dev", false, "write emails to REPORT_DEV_OUTBOX instead of sending them")

	cmd.AddCommand(
		newSendCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newScheduleCmd(a),
	)
	return cmd
}
