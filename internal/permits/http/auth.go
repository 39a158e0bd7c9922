package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/aussiebroadwan/permits/internal/permits/domain"
	"github.com/aussiebroadwan/permits/internal/permits/service"
	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/httpx"
	"github.com/aussiebroadwan/permits/pkg/jwtx"
	"github.com/aussiebroadwan/permits/pkg/permitsdk"
	"github.com/aussiebroadwan/permits/pkg/promx"
	"github.com/aussiebroadwan/permits/pkg/slogx"
)

// AccessVerifier validates Cloudflare Access assertions.
type AccessVerifier interface {
	Verify(ctx context.Context, token string) (jwtx.AccessClaims, error)
}

type AuthHandler struct {
	UserService  *service.UserService
	AuditService *service.AuditService
	Signer       jwtx.Signer
	Access       AccessVerifier
	CSRF         httpx.CSRFIssuer
	Cookie       httpx.SessionCookie
	Metrics      *promx.Metrics
}

// Login methods recorded in audit metadata.
const (
	loginMethodPassword = "password"
	loginMethodAccess   = "cloudflare_access"
)

// Login godoc
//
//	@Summary		Log in
//	@Description	Verifies email and password and sets the session cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		permitsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	permitsdk.UserResponse		"Authenticated user"
//	@Failure		400		{object}	permitsdk.ErrorResponse		"Invalid input"
//	@Failure		401		{object}	permitsdk.ErrorResponse		"Invalid credentials"
//	@Failure		429		{object}	permitsdk.ErrorResponse		"Too many attempts"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req permitsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if details := validateLogin(req); len(details) > 0 {
		httpx.WriteError(w, r, apperr.Validation("Invalid input", details))
		return
	}

	user, err := h.UserService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Metrics.LoginAttempt(promx.LoginInvalid)
			httpx.WriteError(w, r, apperr.Authentication("Invalid credentials"))
			return
		}
		httpx.WriteError(w, r, err)
		return
	}

	h.startSession(w, r, user, loginMethodPassword)
}

// AccessLogin godoc
//
//	@Summary		Log in with Cloudflare Access
//	@Description	Exchanges the Cloudflare Access assertion (Cf-Access-Jwt-Assertion header or CF_Authorization cookie)
//	@Description	of a known user for a session cookie. Only registered when Cloudflare Access is configured.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	permitsdk.UserResponse	"Authenticated user"
//	@Failure		401	{object}	permitsdk.ErrorResponse	"Missing or invalid assertion, or unknown user"
//	@Failure		429	{object}	permitsdk.ErrorResponse	"Too many attempts"
//	@Router			/api/auth/access [post].
func (h *AuthHandler) AccessLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	assertion := jwtx.AccessToken(r)
	if assertion == "" {
		httpx.WriteError(w, r, apperr.Authentication("Authentication required"))
		return
	}

	claims, err := h.Access.Verify(ctx, assertion)
	if err != nil {
		log.Info("rejected Cloudflare Access assertion", slog.Any("error", err))
		h.Metrics.LoginAttempt(promx.LoginInvalid)
		httpx.WriteError(w, r, apperr.Authentication("Invalid token"))
		return
	}

	user, err := h.UserService.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			log.Info("Cloudflare Access login for unknown email")
			h.Metrics.LoginAttempt(promx.LoginInvalid)
			httpx.WriteError(w, r, apperr.Authentication("Invalid credentials"))
			return
		}
		httpx.WriteError(w, r, err)
		return
	}

	h.startSession(w, r, user, loginMethodAccess)
}

// startSession signs a session token for user, records the login and sets
// the session cookie.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user domain.User, method string) {
	ctx := r.Context()

	token, err := h.Signer.Sign(jwtx.Payload{
		SubjectID: user.ID,
		Email:     user.Email,
		Role:      user.Role,
	})
	if err != nil {
		httpx.WriteError(w, r, apperr.Internal("Authentication failed", err))
		return
	}

	meta := clientMetadata(r)
	meta["method"] = method
	if err := h.AuditService.Record(ctx, domain.ActionUserLogin, domain.EntityUser, user.ID, user.ID,
		meta); err != nil {
		slogx.FromContext(ctx).Error("failed to record login", slog.String("user_id", user.ID), slog.Any("error", err))
	}

	h.Metrics.LoginAttempt(promx.LoginSuccess)
	h.Cookie.Set(w, token)
	httpx.WriteJSON(w, http.StatusOK, permitsdk.UserResponse{User: toUser(user)})
}

// Logout godoc
//
//	@Summary		Log out
//	@Description	Clears the session cookie.
//	@Tags			Auth
//	@Security		CookieAuth
//	@Security		CSRFToken
//	@Success		204	"Logged out"
//	@Failure		401	{object}	permitsdk.ErrorResponse	"Not authenticated"
//	@Failure		403	{object}	permitsdk.ErrorResponse	"CSRF token missing or invalid"
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	if err := h.AuditService.Record(ctx, domain.ActionUserLogout, domain.EntityUser, userID, userID,
		clientMetadata(r)); err != nil {
		slogx.FromContext(ctx).Error("failed to record logout", slog.Any("error", err))
	}

	h.Cookie.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// CSRFToken godoc
//
//	@Summary		Get CSRF token
//	@Description	Returns the CSRF token bound to the current session.
//	@Tags			Auth
//	@Security		CookieAuth
//	@Produce		json
//	@Success		200	{object}	permitsdk.CSRFResponse	"CSRF token"
//	@Failure		401	{object}	permitsdk.ErrorResponse	"Not authenticated"
//	@Router			/api/auth/csrf [get].
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, apperr.Authentication("Unauthorized"))
		return
	}

	token, err := h.CSRF.Issue(claims.SID)
	if err != nil {
		httpx.WriteError(w, r, apperr.Internal("", err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, permitsdk.CSRFResponse{CSRFToken: token})
}

// Me godoc
//
//	@Summary		Current user
//	@Description	Returns the authenticated user.
//	@Tags			Auth
//	@Security		CookieAuth
//	@Produce		json
//	@Success		200	{object}	permitsdk.UserResponse	"Authenticated user"
//	@Failure		401	{object}	permitsdk.ErrorResponse	"Not authenticated"
//	@Router			/api/auth/me [get].
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.UserService.GetUserByID(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, r, apperr.Authentication("Unauthorized"))
			return
		}
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, permitsdk.UserResponse{User: toUser(user)})
}

func validateLogin(req permitsdk.LoginRequest) map[string]string {
	details := map[string]string{}
	email := strings.TrimSpace(req.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		details["email"] = "Invalid email format"
	}
	if req.Password == "" {
		details["password"] = "Password is required"
	}
	return details
}

func clientMetadata(r *http.Request) map[string]string {
	meta := map[string]string{"ip": httpx.IPKeyExtractor(r)}
	if ua := r.UserAgent(); ua != "" {
		meta["user_agent"] = ua
	}
	return meta
}
