package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/permits/pkg/jwtx"
	"github.com/aussiebroadwan/permits/pkg/rbac"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewSessionClaims(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := jwtx.Payload{SubjectID: "user-123", Email: "a@example.com", Role: rbac.RoleCoordinator}

	c := jwtx.NewSessionClaims(p, "session-abc", "permits", time.Hour, now)

	require.Equal(t, "user-123", c.Subject)
	require.Equal(t, "permits", c.Issuer)
	require.Equal(t, "session-abc", c.SID)
	require.Equal(t, now, c.IssuedAt.Time)
	require.Equal(t, now.Add(time.Hour), c.ExpiresAt.Time)
	require.NotEmpty(t, c.ID)
	require.Equal(t, p, c.Payload())
}

func TestNewJTIUnique(t *testing.T) {
	require.NotEqual(t, jwtx.NewJTI(), jwtx.NewJTI())
}

func TestValidateIdentity(t *testing.T) {
	valid := jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
		SID:              "session-abc",
		Role:             rbac.RoleBilling,
	}
	require.NoError(t, valid.ValidateIdentity())

	t.Run("missing subject", func(t *testing.T) {
		c := valid
		c.Subject = ""
		require.ErrorIs(t, c.ValidateIdentity(), jwtx.ErrInvalidClaim)
	})

	t.Run("missing session", func(t *testing.T) {
		c := valid
		c.SID = ""
		require.ErrorIs(t, c.ValidateIdentity(), jwtx.ErrInvalidClaim)
	})

	t.Run("unknown role", func(t *testing.T) {
		c := valid
		c.Role = "SUPERUSER"
		require.ErrorIs(t, c.ValidateIdentity(), jwtx.ErrInvalidClaim)
	})
}
