package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/cryptox"
	"github.com/aussiebroadwan/permits/pkg/httpx"
	"github.com/aussiebroadwan/permits/pkg/jwtx"
	"github.com/aussiebroadwan/permits/pkg/rbac"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func newTokens(t *testing.T) *jwtx.HS256 {
	t.Helper()
	s, err := jwtx.NewHS256(jwtx.HS256Config{Secret: "test-secret", Issuer: "permits", TTL: time.Hour})
	require.NoError(t, err)
	return s
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperr.Response {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp apperr.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mw("first"), mw("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestSessionAuth(t *testing.T) {
	tokens := newTokens(t)
	payload := jwtx.Payload{SubjectID: "user-1", Email: "a@example.com", Role: rbac.RoleBilling}

	var got jwtx.Claims
	h := httpx.SessionAuth(tokens, httpx.SessionCookieName)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = httpx.ClaimsFromContext(r.Context())
		require.Equal(t, "user-1", httpx.UserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeError(t, rec)
		require.Equal(t, "Unauthorized", resp.Error)
		require.Equal(t, apperr.CodeAuthentication, resp.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: "garbage"})
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid token", decodeError(t, rec).Error)
	})

	t.Run("bearer header is not a session", func(t *testing.T) {
		token, err := tokens.Sign(payload)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := tokens.Sign(payload)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: token})
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, payload, got.Payload())
	})
}

func withClaims(t *testing.T, tokens *jwtx.HS256, role rbac.Role, h http.Handler) (http.Handler, jwtx.Claims) {
	t.Helper()
	token, err := tokens.Sign(jwtx.Payload{SubjectID: "user-1", Email: "a@example.com", Role: role})
	require.NoError(t, err)
	claims, err := tokens.Verify(token)
	require.NoError(t, err)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: token})
		httpx.SessionAuth(tokens, httpx.SessionCookieName)(h).ServeHTTP(w, r)
	}), claims
}

func TestRequirePermission(t *testing.T) {
	tokens := newTokens(t)

	t.Run("allowed", func(t *testing.T) {
		h, _ := withClaims(t, tokens, rbac.RoleCoordinator, httpx.RequirePermission(rbac.DocumentsWrite)(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin wildcard", func(t *testing.T) {
		h, _ := withClaims(t, tokens, rbac.RoleAdmin, httpx.RequirePermission(rbac.AuditRead)(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("denied", func(t *testing.T) {
		h, _ := withClaims(t, tokens, rbac.RoleBilling, httpx.RequirePermission(rbac.DocumentsWrite)(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, apperr.CodeAuthorization, decodeError(t, rec).Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.RequirePermission(rbac.DocumentsRead)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCSRF(t *testing.T) {
	tokens := newTokens(t)
	csrf, err := cryptox.NewCSRF("csrf-secret")
	require.NoError(t, err)

	h, claims := withClaims(t, tokens, rbac.RoleCoordinator, httpx.CSRF(csrf)(okHandler))
	valid, err := csrf.Issue(claims.SID)
	require.NoError(t, err)
	otherSession, err := csrf.Issue("some-other-session")
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		token  string
		status int
		code   string
	}{
		{"GET bypasses", http.MethodGet, "", http.StatusOK, ""},
		{"HEAD bypasses", http.MethodHead, "", http.StatusOK, ""},
		{"OPTIONS bypasses", http.MethodOptions, "", http.StatusOK, ""},
		{"POST missing", http.MethodPost, "", http.StatusForbidden, apperr.CodeCSRFMissing},
		{"DELETE missing", http.MethodDelete, "", http.StatusForbidden, apperr.CodeCSRFMissing},
		{"POST forged", http.MethodPost, "deadbeef:cafebabe", http.StatusForbidden, apperr.CodeCSRFInvalid},
		{"POST other session", http.MethodPost, otherSession, http.StatusForbidden, apperr.CodeCSRFInvalid},
		{"POST valid", http.MethodPost, valid, http.StatusOK, ""},
		{"PUT valid", http.MethodPut, valid, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.token != "" {
				req.Header.Set(httpx.CSRFHeader, tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				require.Equal(t, tt.code, decodeError(t, rec).Code)
			}
		})
	}
}

type failingLimiter struct{}

func (failingLimiter) Check(context.Context, int, string) (bool, error) {
	return false, errors.New("backend down")
}

type recordingLimiter struct {
	keys []string
}

func (l *recordingLimiter) Check(_ context.Context, _ int, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return true, nil
}

func TestWriteError(t *testing.T) {
	cause := errors.New("database is locked")

	t.Run("classified error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil),
			apperr.Validation("Validation failed", map[string]string{"email": "Invalid email address"}))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		require.Equal(t, "Validation failed", resp.Error)
		require.Equal(t, apperr.CodeValidation, resp.Code)
		require.Equal(t, "Invalid email address", resp.Details["email"])
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	})

	t.Run("unclassified error hidden by default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), cause)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeError(t, rec)
		require.Equal(t, "An error occurred", resp.Error)
		require.Equal(t, apperr.CodeInternal, resp.Code)
		require.NotContains(t, rec.Body.String(), "locked")
	})

	t.Run("unclassified error exposed in development", func(t *testing.T) {
		h := httpx.ExposeErrors(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteError(w, r, cause)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, decodeError(t, rec).Error, "database is locked")
	})
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Email string `json:"email"`
	}

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"valid", `{"email":"a@example.com"}`, ""},
		{"empty", ``, "Request body is required"},
		{"malformed", `{"email":`, "Invalid JSON body"},
		{"too large", `{"email":"` + strings.Repeat("a", httpx.MaxJSONBodyBytes) + `"}`, "Request body too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b body
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			err := httpx.DecodeJSON(rec, req, &b)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.Equal(t, "a@example.com", b.Email)
				return
			}
			require.ErrorIs(t, err, apperr.ErrValidation)
			e, _ := apperr.As(err)
			require.Equal(t, tt.wantErr, e.Message)
		})
	}
}

func TestSessionCookie(t *testing.T) {
	c := httpx.SessionCookie{MaxAge: 7 * 24 * time.Hour, Secure: true}

	rec := httptest.NewRecorder()
	c.Set(rec, "token-value")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	require.Equal(t, httpx.SessionCookieName, ck.Name)
	require.Equal(t, "token-value", ck.Value)
	require.True(t, ck.HttpOnly)
	require.True(t, ck.Secure)
	require.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	require.Equal(t, 7*24*60*60, ck.MaxAge)
	require.Equal(t, "/", ck.Path)

	rec = httptest.NewRecorder()
	c.Clear(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, -1, cookies[0].MaxAge)
	require.Empty(t, cookies[0].Value)
}
