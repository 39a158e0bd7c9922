package jwtx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessHeader is the request header Cloudflare Access puts its assertion in.
const AccessHeader = "Cf-Access-Jwt-Assertion"

// AccessCookie is the cookie Cloudflare Access sets in the browser.
const AccessCookie = "CF_Authorization"

// AccessClaims are the claims of a Cloudflare Access application token.
type AccessClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Type  string `json:"type,omitempty"`
}

// AccessConfig configures an AccessVerifier.
type AccessConfig struct {
	TeamDomain string // e.g. example.cloudflareaccess.com, required
	Audience   string // application AUD tag, required

	CertsURL   string        // defaults to https://<TeamDomain>/cdn-cgi/access/certs
	Client     *http.Client  // used to fetch certs
	MinRefresh time.Duration // see RemoteKeySet
	Now        func() time.Time
}

// AccessVerifier validates Cloudflare Access assertions signed with RS256
// by the team's rotating keys.
type AccessVerifier struct {
	keys   *RemoteKeySet
	parser *jwt.Parser
}

// NewAccessVerifier builds a verifier for one Access application.
func NewAccessVerifier(cfg AccessConfig) (*AccessVerifier, error) {
	domain := strings.TrimSuffix(strings.TrimPrefix(cfg.TeamDomain, "https://"), "/")
	if domain == "" || cfg.Audience == "" {
		return nil, errors.New("jwtx: Access team domain and audience are required")
	}
	if cfg.CertsURL == "" {
		cfg.CertsURL = "https://" + domain + "/cdn-cgi/access/certs"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &AccessVerifier{
		keys: NewRemoteKeySet(cfg.CertsURL, cfg.Client, cfg.MinRefresh),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithAudience(cfg.Audience),
			jwt.WithIssuer("https://"+domain),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(cfg.Now),
		),
	}, nil
}

// Verify validates an Access assertion and returns its claims.
func (v *AccessVerifier) Verify(ctx context.Context, tokenStr string) (AccessClaims, error) {
	token, err := v.parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrNoKey
		}
		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		return AccessClaims{}, classify(err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return AccessClaims{}, ErrInvalidClaim
	}
	return *claims, nil
}

// AccessToken returns the Access assertion carried by r, preferring the
// header set by the Cloudflare edge over the browser cookie.
func AccessToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(AccessHeader)); token != "" {
		return token
	}
	if c, err := r.Cookie(AccessCookie); err == nil {
		return c.Value
	}
	return ""
}
