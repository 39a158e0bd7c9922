package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrEmptySecret is returned when a keyed service is built without a secret.
var ErrEmptySecret = errors.New("secret must not be empty")

// CSRF issues and validates anti-forgery tokens bound to a session id.
// Tokens have the form hex(random):hex(HMAC-SHA256(secret, sessionID ":" random))
// and are not stored server side.
type CSRF struct {
	secret []byte
}

// NewCSRF returns a CSRF service keyed with secret.
func NewCSRF(secret string) (*CSRF, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &CSRF{secret: []byte(secret)}, nil
}

// Issue returns a fresh token for sessionID.
func (c *CSRF) Issue(sessionID string) (string, error) {
	value, err := GenerateHexToken(TokenSize256)
	if err != nil {
		return "", err
	}
	return value + ":" + c.sign(sessionID, value), nil
}

// Validate reports whether token was issued for sessionID with this secret.
func (c *CSRF) Validate(token, sessionID string) bool {
	value, sig, ok := strings.Cut(token, ":")
	if !ok || value == "" || sig == "" {
		return false
	}
	return constantTimeEqual(sig, c.sign(sessionID, value))
}

func (c *CSRF) sign(sessionID, value string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(sessionID + ":" + value))
	return hex.EncodeToString(mac.Sum(nil))
}

// constantTimeEqual compares every byte regardless of where the first
// difference is.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := 0; i < len(a); i++ {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
