package httpx

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/slogx"
)

// CSRFHeader carries the anti-forgery token on state-changing requests.
const CSRFHeader = "X-CSRF-Token"

// CSRFValidator checks a token against the session it was issued for.
type CSRFValidator interface {
	Validate(token, sessionID string) bool
}

// CSRFIssuer also mints tokens for a session.
type CSRFIssuer interface {
	CSRFValidator
	Issue(sessionID string) (string, error)
}

// IsSafeMethod reports whether method never changes server state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CSRF requires a valid X-CSRF-Token header on every non-safe request. It
// must run after SessionAuth because tokens are bound to the session id.
func CSRF(v CSRFValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				WriteError(w, r, apperr.Authentication("Unauthorized"))
				return
			}

			token := r.Header.Get(CSRFHeader)
			if token == "" {
				WriteError(w, r, apperr.CSRFMissing())
				return
			}
			if !v.Validate(token, claims.SID) {
				slogx.FromContext(r.Context()).Warn("csrf token rejected", slog.String("method", r.Method))
				WriteError(w, r, apperr.CSRFInvalid())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
