package jwtx

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/permits/pkg/rbac"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "permits"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T, ttl time.Duration) (*HS256, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	s, err := NewHS256(HS256Config{
		Secret: "test-secret-value",
		Issuer: testIssuer,
		TTL:    ttl,
		Now:    clock.Now,
	})
	require.NoError(t, err)
	return s, clock
}

var testPayload = Payload{SubjectID: "01JN0000000000000000000000", Email: "coord@example.com", Role: rbac.RoleCoordinator}

func TestNewHS256(t *testing.T) {
	_, err := NewHS256(HS256Config{})
	require.Error(t, err)

	_, err = NewHS256(HS256Config{Secret: "x", TTL: -time.Second})
	require.Error(t, err)

	s, err := NewHS256(HS256Config{Secret: "x", TTL: DefaultSessionTTL})
	require.NoError(t, err)
	require.Equal(t, DefaultSessionTTL, s.TTL())
}

func TestHS256SignAndVerify(t *testing.T) {
	s, _ := newTestService(t, time.Hour)

	token, err := s.Sign(testPayload)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, testPayload, claims.Payload())
	require.Equal(t, testIssuer, claims.Issuer)
	require.NotEmpty(t, claims.SID)
	require.NotEmpty(t, claims.ID)
}

func TestHS256FreshSessionPerToken(t *testing.T) {
	s, _ := newTestService(t, time.Hour)

	a, err := s.Sign(testPayload)
	require.NoError(t, err)
	b, err := s.Sign(testPayload)
	require.NoError(t, err)

	ca, err := s.Verify(a)
	require.NoError(t, err)
	cb, err := s.Verify(b)
	require.NoError(t, err)
	require.NotEqual(t, ca.SID, cb.SID)
}

func TestHS256RejectsEverySignatureBitFlip(t *testing.T) {
	s, _ := newTestService(t, time.Hour)

	token, err := s.Sign(testPayload)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := 0; i < len(sig)*8; i++ {
		mutated := make([]byte, len(sig))
		copy(mutated, sig)
		mutated[i/8] ^= 1 << (i % 8)

		forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(mutated)
		claims, err := s.Verify(forged)
		require.ErrorIs(t, err, ErrInvalidSig, "bit %d", i)
		require.Equal(t, Claims{}, claims)
	}
}

func TestHS256RejectsTamperedPayload(t *testing.T) {
	s, _ := newTestService(t, time.Hour)

	token, err := s.Sign(testPayload)
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	elevated := strings.Replace(string(raw), `"COORDINATOR"`, `"ADMIN"`, 1)
	require.NotEqual(t, string(raw), elevated)

	forged := parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(elevated)) + "." + parts[2]
	_, err = s.Verify(forged)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestHS256Expiry(t *testing.T) {
	s, clock := newTestService(t, time.Hour)

	token, err := s.Sign(testPayload)
	require.NoError(t, err)

	clock.Advance(time.Hour - time.Second)
	_, err = s.Verify(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	claims, err := s.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
	require.Equal(t, Claims{}, claims)
}

func TestHS256ZeroTTLExpiresOnceTimeMoves(t *testing.T) {
	s, clock := newTestService(t, 0)
	require.Zero(t, s.TTL())

	token, err := s.Sign(testPayload)
	require.NoError(t, err)

	clock.Advance(time.Second)
	claims, err := s.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
	require.Equal(t, Claims{}, claims)
}

func TestHS256RejectsMissingExpiry(t *testing.T) {
	s, clock := newTestService(t, time.Hour)

	c := NewSessionClaims(testPayload, "sid", testIssuer, time.Hour, clock.Now())
	c.ExpiresAt = nil
	token, err := s.signClaims(c)
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.Error(t, err)
}

func TestHS256RejectsNotYetValid(t *testing.T) {
	s, clock := newTestService(t, time.Hour)

	c := NewSessionClaims(testPayload, "sid", testIssuer, time.Hour, clock.Now().Add(time.Minute))
	token, err := s.signClaims(c)
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrNotYetValid)
}

func TestHS256RejectsWrongIssuer(t *testing.T) {
	s, clock := newTestService(t, time.Hour)

	c := NewSessionClaims(testPayload, "sid", "someone-else", time.Hour, clock.Now())
	token, err := s.signClaims(c)
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestHS256RejectsMissingIdentity(t *testing.T) {
	s, clock := newTestService(t, time.Hour)

	c := NewSessionClaims(Payload{SubjectID: "user", Role: "ROOT"}, "sid", testIssuer, time.Hour, clock.Now())
	token, err := s.signClaims(c)
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrInvalidClaim)
}

func TestHS256RejectsOtherSecret(t *testing.T) {
	s, clock := newTestService(t, time.Hour)
	other, err := NewHS256(HS256Config{Secret: "another-secret", Issuer: testIssuer, TTL: time.Hour, Now: clock.Now})
	require.NoError(t, err)

	token, err := other.Sign(testPayload)
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestHS256RejectsOtherAlgorithms(t *testing.T) {
	s, clock := newTestService(t, time.Hour)
	c := NewSessionClaims(testPayload, "sid", testIssuer, time.Hour, clock.Now())

	t.Run("none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.Verify(token)
		require.Error(t, err)
	})

	t.Run("HS512 with same secret", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString([]byte("test-secret-value"))
		require.NoError(t, err)
		_, err = s.Verify(token)
		require.Error(t, err)
	})
}

func TestHS256RejectsMalformed(t *testing.T) {
	s, _ := newTestService(t, time.Hour)

	for _, token := range []string{
		"",
		"abc",
		"a.b",
		"a.b.c.d",
		"!!!.@@@.###",
		"eyJhbGciOiJIUzI1NiJ9.not-json.sig",
	} {
		t.Run(token, func(t *testing.T) {
			require.NotPanics(t, func() {
				claims, err := s.Verify(token)
				require.ErrorIs(t, err, ErrMalformed)
				require.Equal(t, Claims{}, claims)
			})
		})
	}
}
