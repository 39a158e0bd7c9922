package main

import (
	"github.com/aussiebroadwan/permits/internal/permits/app"
	"github.com/spf13/cobra"
)

// newRootCmd builds the permits command tree. Running it without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "permits",
		Short: "Permit management service",
		Long: `permits serves the permit management API.

Configuration is read from the environment. See 'permits serve --help'.`,
		Version:      app.BuildVersion,
		SilenceUsage: true,
		RunE:         runServe,
	}

	addServeFlags(root)
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newHashPasswordCmd(),
	)
	return root
}
