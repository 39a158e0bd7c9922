package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/permits/pkg/idx"
	"github.com/aussiebroadwan/permits/pkg/rbac"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &UserService{Store: env.store, Hasher: env.hasher}
	u := env.createUser(t, "coord@example.com", "correct horse", rbac.RoleCoordinator)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "coord@example.com", "correct horse")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, rbac.RoleCoordinator, got.Role)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, " Coord@Example.COM ", "correct horse")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "coord@example.com", "battery staple")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@example.com", "correct horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "coord@example.com", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetUserByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &UserService{Store: env.store, Hasher: env.hasher}
	u := env.createUser(t, "billing@example.com", "pw", rbac.RoleBilling)

	got, err := svc.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "billing@example.com", got.Email)

	_, err = svc.GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserByEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &UserService{Store: env.store, Hasher: env.hasher}
	u := env.createUser(t, "admin@example.com", "pw", rbac.RoleAdmin)

	got, err := svc.GetUserByEmail(ctx, " Admin@Example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = svc.GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}
