package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/aussiebroadwan/permits/pkg/rbac"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime of a session token. It matches
// the session cookie's Max-Age.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Payload is the identity carried by a session token.
type Payload struct {
	SubjectID string
	Email     string
	Role      rbac.Role
}

// Claims are the session-token claims.
type Claims struct {
	jwt.RegisteredClaims

	// Session ID. CSRF tokens are bound to it.
	SID string `json:"sid,omitempty"`

	Email string    `json:"email,omitempty"`
	Role  rbac.Role `json:"role,omitempty"`
}

// NewSessionClaims builds claims for payload valid from now until now+ttl.
func NewSessionClaims(p Payload, sid, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:   sid,
		Email: p.Email,
		Role:  p.Role,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// Payload returns the identity carried by c.
func (c Claims) Payload() Payload {
	return Payload{SubjectID: c.Subject, Email: c.Email, Role: c.Role}
}

// ValidateIdentity checks the claims name a subject with a known role.
func (c *Claims) ValidateIdentity() error {
	if c.Subject == "" || c.SID == "" || !c.Role.Valid() {
		return ErrInvalidClaim
	}
	return nil
}
