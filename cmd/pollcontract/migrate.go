package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/repository/postgres"
)

func migrateCommand() *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the postgres schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			logger := commonRun()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			db, err := postgres.Open(ctx, cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := postgres.Migrate(ctx, db, down)
			if err != nil {
				return err
			}
			for _, name := range applied {
				logger.Info("migration applied", "component", programName, "file", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration file(s) executed successfully.\n", len(applied))
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "revert the schema instead of applying it")
	return cmd
}
