package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"drspecialist/internal/db"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print urgent recommendations as they are logged",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if !cfg.Database.InquiryLogEnabled() {
			return errors.New("watch needs database.postgres.url (DATABASE_URL)")
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		notices, err := db.Listen(ctx, cfg.Database.Postgres.URL, cfg.Database.Postgres.NotifyChannel, log)
		if err != nil {
			return err
		}
		for n := range notices {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  URGENT  %s (%s)  inquiry=%s\n",
				n.CreatedAt.Format("2006-01-02 15:04:05"), n.SpecialistName, n.Category, n.InquiryID)
		}
		return nil
	},
}
