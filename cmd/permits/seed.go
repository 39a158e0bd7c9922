package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/permits/internal/permits/app"
	"github.com/aussiebroadwan/permits/internal/permits/service"
	"github.com/aussiebroadwan/permits/pkg/cryptox"
	"github.com/aussiebroadwan/permits/pkg/rbac"
	"github.com/aussiebroadwan/permits/pkg/slogx"
	"github.com/spf13/cobra"
)

// seedPasswordEnv names the variable holding each seed user's password.
var seedPasswordEnv = map[rbac.Role]string{
	rbac.RoleAdmin:       "ADMIN_SEED_PASSWORD",
	rbac.RoleCoordinator: "COORDINATOR_SEED_PASSWORD",
	rbac.RoleBilling:     "BILLING_SEED_PASSWORD",
}

func newSeedCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin, coordinator and billing users",
		Long: `Create the default users if they do not exist.

Passwords come from ADMIN_SEED_PASSWORD, COORDINATOR_SEED_PASSWORD and
BILLING_SEED_PASSWORD. A user without one gets a generated password, printed
once. Existing users are skipped unless --reset is given.`,
		Example: `  permits seed
  ADMIN_SEED_PASSWORD=... permits seed --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadStoreConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return seedDefaultUsers(cmd, cfg, app.NewLogger(cfg, cmd.ErrOrStderr()), reset)
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "replace name, role and password of existing users")
	return cmd
}

// seedDefaultUsers seeds the default users into the configured database and
// prints the outcome.
func seedDefaultUsers(cmd *cobra.Command, cfg app.StoreConfig, logger *slog.Logger, reset bool) error {
	db, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	users := service.DefaultSeedUsers()
	for i := range users {
		users[i].Password = os.Getenv(seedPasswordEnv[users[i].Role])
	}

	seeder := &service.SeedService{Store: db, Hasher: cryptox.NewPasswordHasher(cfg.BcryptCost)}
	results, err := seeder.Seed(slogx.WithContext(cmd.Context(), logger), users, reset)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	printSeedResults(cmd.OutOrStdout(), results)
	return nil
}

func printSeedResults(w io.Writer, results []service.SeedResult) {
	var generated bool
	for _, r := range results {
		fmt.Fprintf(w, "%-8s %-12s %s\n", r.Status, r.Role, r.Email)
		if r.Password != "" {
			generated = true
		}
	}

	if !generated {
		return
	}
	fmt.Fprintln(w, "\nGenerated passwords (shown once, store them securely):")
	for _, r := range results {
		if r.Password != "" {
			fmt.Fprintf(w, "  %s: %s\n", r.Email, r.Password)
		}
	}
}
