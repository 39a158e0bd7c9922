package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/permits/internal/permits/app"
	"github.com/aussiebroadwan/permits/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setStoreEnv(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "permits.db")
	t.Setenv("DATABASE_FILE", db)
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ADMIN_SEED_PASSWORD", "")
	t.Setenv("COORDINATOR_SEED_PASSWORD", "")
	t.Setenv("BILLING_SEED_PASSWORD", "")
	return db
}

func TestHashPassword(t *testing.T) {
	setStoreEnv(t)
	hasher := cryptox.NewPasswordHasher(10)

	t.Run("from argument", func(t *testing.T) {
		out, err := runCmd(t, "", "hash-password", "s3cret")
		require.NoError(t, err)
		require.True(t, hasher.Verify("s3cret", strings.TrimSpace(out)))
	})

	t.Run("from stdin", func(t *testing.T) {
		out, err := runCmd(t, "s3cret\n", "hash-password")
		require.NoError(t, err)
		require.True(t, hasher.Verify("s3cret", strings.TrimSpace(out)))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := runCmd(t, "\n", "hash-password")
		require.Error(t, err)
	})
}

func TestMigrate(t *testing.T) {
	db := setStoreEnv(t)

	out, err := runCmd(t, "", "migrate")
	require.NoError(t, err)
	require.Contains(t, out, db)

	// Applying again is a no-op.
	_, err = runCmd(t, "", "migrate")
	require.NoError(t, err)
}

func TestSeed(t *testing.T) {
	setStoreEnv(t)
	t.Setenv("ADMIN_SEED_PASSWORD", "admin-password")

	out, err := runCmd(t, "", "seed")
	require.NoError(t, err)
	require.Contains(t, out, "created  ADMIN        admin@example.com")
	require.Contains(t, out, "created  COORDINATOR  coord@example.com")
	require.Contains(t, out, "Generated passwords")
	require.Contains(t, out, "coord@example.com: ")
	require.NotContains(t, out, "admin@example.com: ")

	out, err = runCmd(t, "", "seed")
	require.NoError(t, err)
	require.Contains(t, out, "skipped  ADMIN        admin@example.com")
	require.NotContains(t, out, "Generated passwords")

	cfg, err := app.LoadStoreConfig()
	require.NoError(t, err)
	st, err := app.OpenStore(cfg)
	require.NoError(t, err)
	defer st.Close()

	admin, err := st.Users().GetUserByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.True(t, cryptox.NewPasswordHasher(10).Verify("admin-password", admin.PasswordHash))
}

func TestSeedReset(t *testing.T) {
	setStoreEnv(t)

	_, err := runCmd(t, "", "seed")
	require.NoError(t, err)

	t.Setenv("BILLING_SEED_PASSWORD", "billing-password")
	out, err := runCmd(t, "", "seed", "--reset")
	require.NoError(t, err)
	require.Contains(t, out, "updated  BILLING      billing@example.com")
}

func TestServeRequiresSecret(t *testing.T) {
	setStoreEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := runCmd(t, "", "serve")
	require.ErrorContains(t, err, "JWT_SECRET is required")
}
