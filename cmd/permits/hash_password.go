package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/permits/internal/permits/app"
	"github.com/aussiebroadwan/permits/pkg/cryptox"
	"github.com/spf13/cobra"
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [plaintext]",
		Short: "Print the bcrypt hash of a password",
		Long: `Print the bcrypt hash of a password using BCRYPT_COST.

Without an argument the password is read from the first line of stdin, which
keeps it out of shell history.`,
		Example: `  permits hash-password 's3cret'
  printf 's3cret\n' | permits hash-password`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadStoreConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := cryptox.NewPasswordHasher(cfg.BcryptCost).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
