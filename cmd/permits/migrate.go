package main

import (
	"fmt"

	"github.com/aussiebroadwan/permits/internal/permits/app"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadStoreConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			db, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}
			if err := db.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied to %s\n", cfg.DatabaseFile)
			return nil
		},
	}
}
