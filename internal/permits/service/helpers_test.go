package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/permits/internal/permits/domain"
	fsstorage "github.com/aussiebroadwan/permits/internal/permits/storage/drivers/fs"
	"github.com/aussiebroadwan/permits/internal/permits/store/drivers/sqlite"
	"github.com/aussiebroadwan/permits/pkg/cryptox"
	"github.com/aussiebroadwan/permits/pkg/idx"
	"github.com/aussiebroadwan/permits/pkg/promx"
	"github.com/aussiebroadwan/permits/pkg/rbac"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store   *sqlite.Store
	storage *fsstorage.Storage
	dir     string
	hasher  *cryptox.PasswordHasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(dir, "permits.db")))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	blobs, err := fsstorage.New(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = blobs.Close() })

	return &testEnv{
		store:   st,
		storage: blobs,
		dir:     filepath.Join(dir, "uploads"),
		hasher:  cryptox.NewPasswordHasher(bcrypt.MinCost),
	}
}

func (e *testEnv) createUser(t *testing.T, email, password string, role rbac.Role) domain.User {
	t.Helper()
	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test " + string(role),
		Role:         role,
		PasswordHash: hash,
	}
	require.NoError(t, e.store.Users().CreateUser(context.Background(), u))
	return u
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scrape(t *testing.T, m *promx.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
