package main

import (
	"fmt"

	"github.com/aussiebroadwan/permits/internal/permits/app"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

Required: JWT_SECRET.
Common:   PORT, ENV, DATABASE_FILE, UPLOAD_DIR, CORS_ORIGIN, MAX_FILE_SIZE_MB,
          RATE_LIMIT_WINDOW, RATE_LIMIT_MAX_REQUESTS, RATE_LIMIT_REDIS_ADDR,
          LOG_LEVEL, LOG_FORMAT.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	addServeFlags(cmd)
	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("seed", false, "create missing default users before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := app.NewLogger(cfg.StoreConfig, cmd.OutOrStdout())

	if seed, _ := cmd.Flags().GetBool("seed"); seed {
		if err := seedDefaultUsers(cmd, cfg.StoreConfig, logger, false); err != nil {
			return err
		}
	}

	application, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Run()
}
