package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/property-api/internal/app"
	"github.com/jwalitptl/property-api/internal/worker"
	"github.com/jwalitptl/property-api/pkg/metrics"
	"github.com/jwalitptl/property-api/pkg/security"
)

func newInvoicesCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Invoice maintenance",
	}

	var org string
	markOverdue := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Mark past-due invoices overdue, for one organization or all of them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			store, closeStore, err := app.OpenStore(cfg.Database, false, log)
			if err != nil {
				return err
			}
			defer closeStore()

			m := metrics.New(cfg.Metrics.Namespace, prometheus.NewRegistry())
			svc := app.NewServices(cfg, store, m, app.NewMailer(cfg.Email, log), security.NewBcryptHasher(bcrypt.DefaultCost), log)

			ctx := cmd.Context()
			if org != "" {
				orgID, err := uuid.Parse(org)
				if err != nil {
					return fmt.Errorf("invalid --org: %w", err)
				}
				n, err := svc.Invoices.MarkOverdue(ctx, orgID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "marked %d invoice(s) overdue\n", n)
				return nil
			}

			n, err := worker.NewOverdueSweeper(store.Organizations, svc.Invoices, cfg.Sweeper.Interval, log).Sweep(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "marked %d invoice(s) overdue\n", n)
			return nil
		},
	}
	markOverdue.Flags().StringVar(&org, "org", "", "organization id; all organizations when empty")

	cmd.AddCommand(markOverdue)
	return cmd
}
