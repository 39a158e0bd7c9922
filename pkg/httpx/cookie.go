package httpx

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie holding the session token.
const SessionCookieName = "auth-token"

// SessionCookie describes how the session token is stored in the browser.
type SessionCookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool // set in production so the cookie is only sent over TLS
}

// Set writes token as an HttpOnly, SameSite=Lax cookie.
func (c SessionCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) name() string {
	if c.Name == "" {
		return SessionCookieName
	}
	return c.Name
}
