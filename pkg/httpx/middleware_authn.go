package httpx

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/jwtx"
	"github.com/aussiebroadwan/permits/pkg/slogx"
)

// SessionAuth requires a valid session token in the named cookie and stores
// its claims in the request context.
func SessionAuth(v jwtx.Verifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				WriteError(w, r, apperr.Authentication("Unauthorized"))
				return
			}

			claims, err := v.Verify(cookie.Value)
			if err != nil {
				log.Info("session token rejected", slog.String("err", err.Error()))
				WriteError(w, r, apperr.Authentication("Invalid token"))
				return
			}

			ctx = contextWithAuth(ctx, claims)
			ctx = slogx.WithContext(ctx, log.With(slog.String("user_id", claims.Subject)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
