package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/healthreport/pkg/report"
	"github.com/dmitrymomot/healthreport/pkg/seed"
)

type seedOptions struct {
	username string
	fullName string
	email    string
	days     int
	seed     uint64
}

func newSeedCmd(a *app) *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an account with generated health records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if opts.username == "" {
				return errors.New("--username is required")
			}

			b, err := a.open(ctx, a, false)
			if err != nil {
				return err
			}
			defer b.close()

			acc := report.Account{
				UserID:   uuid.New(),
				Username: opts.username,
				FullName: opts.fullName,
				Email:    opts.email,
			}
			if err := b.store.CreateAccount(ctx, acc); err != nil {
				return err
			}

			svc, err := a.scheduleService(b.store)
			if err != nil {
				return err
			}
			if _, err := svc.CreateDefault(ctx, acc.UserID); err != nil {
				return err
			}

			n, err := seed.Seed(ctx, b.store, acc.UserID, a.clock(), opts.days, opts.seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s) with %d records\n", acc.Username, acc.UserID, n)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.username, "username", "", "account username (required)")
	cmd.Flags().StringVar(&opts.fullName, "full-name", "", "display name used in reports")
	cmd.Flags().StringVar(&opts.email, "email", "", "account email, the default report recipient")
	cmd.Flags().IntVar(&opts.days, "days", 30, "number of days of records to generate")
	cmd.Flags().Uint64Var(&opts.seed, "seed", seed.DefaultSeed, "random seed")
	return cmd
}
