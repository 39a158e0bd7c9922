package httpx

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/rbac"
	"github.com/aussiebroadwan/permits/pkg/slogx"
)

// RequirePermission rejects callers whose role lacks perm. It must run after
// SessionAuth.
func RequirePermission(perm string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				WriteError(w, r, apperr.Authentication("Unauthorized"))
				return
			}

			if err := rbac.RequirePermission(claims.Role, perm); err != nil {
				slogx.FromContext(r.Context()).Info("permission denied",
					slog.String("role", claims.Role.String()),
					slog.String("permission", perm),
				)
				WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
