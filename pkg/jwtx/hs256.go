package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/permits/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// HS256Config configures an HS256 token service.
type HS256Config struct {
	Secret string           // shared HMAC secret, required
	Issuer string           // "iss" claim; empty disables the check
	TTL    time.Duration    // token lifetime; zero issues tokens that expire at once
	Now    func() time.Time // clock, time.Now when nil
}

// HS256 signs and verifies session tokens with HMAC SHA-256.
type HS256 struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

var (
	_ Signer   = (*HS256)(nil)
	_ Verifier = (*HS256)(nil)
)

// NewHS256 builds an HS256 service. An empty secret or a negative TTL is a
// configuration error.
func NewHS256(cfg HS256Config) (*HS256, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwtx: empty HS256 secret")
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("jwtx: negative TTL %s", cfg.TTL)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &HS256{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    cfg.Now,
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	s.parser = jwt.NewParser(opts...)
	return s, nil
}

// TTL returns the lifetime given to new tokens.
func (s *HS256) TTL() time.Duration { return s.ttl }

// Sign issues a token for p under a fresh session id.
func (s *HS256) Sign(p Payload) (string, error) {
	sid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("jwtx: session id: %w", err)
	}
	return s.signClaims(NewSessionClaims(p, sid, s.issuer, s.ttl, s.now()))
}

func (s *HS256) signClaims(c Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

// Verify validates tokenStr and returns its claims.
func (s *HS256) Verify(tokenStr string) (Claims, error) {
	token, err := s.parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}
	if err := claims.ValidateIdentity(); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

// classify maps parser errors onto the package's sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %w", ErrNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %w", ErrIssuer, err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return fmt.Errorf("%w: %w", ErrAudience, err)
	case errors.Is(err, ErrNoKey):
		return ErrNoKey
	default:
		return fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}
}
