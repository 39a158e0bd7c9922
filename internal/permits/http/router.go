package http

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/aussiebroadwan/permits/api/permits" // Swagger docs
	"github.com/aussiebroadwan/permits/internal/permits/service"
	"github.com/aussiebroadwan/permits/internal/permits/store"
	"github.com/aussiebroadwan/permits/pkg/httpx"
	"github.com/aussiebroadwan/permits/pkg/jwtx"
	"github.com/aussiebroadwan/permits/pkg/promx"
	"github.com/aussiebroadwan/permits/pkg/ratelimit"
	"github.com/aussiebroadwan/permits/pkg/rbac"
	"github.com/aussiebroadwan/permits/pkg/slogx"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Config holds the router's request policy.
type Config struct {
	Production   bool
	CORSOrigins  []string
	BuildVersion string
	Cookie       httpx.SessionCookie

	RateLimitWindow time.Duration
	DefaultLimit    int
	LoginLimit      int
	UploadLimit     int
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	cfg       Config
	signer    jwtx.Signer
	verifier  jwtx.Verifier
	csrf      httpx.CSRFIssuer
	limiter   ratelimit.Limiter
	metrics   *promx.Metrics
	startTime time.Time
	logger    *slog.Logger

	store           store.Store
	Access          AccessVerifier // nil disables Cloudflare Access sign-in
	UserService     *service.UserService
	DocumentService *service.DocumentService
	AuditService    *service.AuditService
}

func NewRouter(
	cfg Config,
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	csrf httpx.CSRFIssuer,
	limiter ratelimit.Limiter,
	st store.Store,
	metrics *promx.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:       http.NewServeMux(),
		cfg:       cfg,
		signer:    signer,
		verifier:  verifier,
		csrf:      csrf,
		limiter:   limiter,
		metrics:   metrics,
		startTime: time.Now(),
		store:     st,
		logger:    logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.SecurityHeaders(cfg.Production),
		httpx.CORS(cfg.CORSOrigins),
		httpx.ExposeErrors(!cfg.Production),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerDocuments()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Permits Service API
//	@version		0.1.0
//	@description	Permit management API. Sessions are carried in an HttpOnly cookie holding an HS256 JWT.
//	@description	State-changing requests must send the session's CSRF token in the X-CSRF-Token header.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/permits
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						auth-token
//	@description				Session token set by POST /api/auth/login.
//
//	@securityDefinitions.apikey	CSRFToken
//	@in							header
//	@name						X-CSRF-Token
//	@description				Token from GET /api/auth/csrf, required on POST and DELETE.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// The metrics middleware wraps the mux directly so it sees the matched pattern.
	httpx.Chain(r.metrics.Middleware(r.Mux), r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) rateLimit(name string, limit int) httpx.Middleware {
	return r.rateLimitBy(name, limit, httpx.IPKeyExtractor)
}

func (r *Router) rateLimitBy(name string, limit int, key httpx.KeyExtractor) httpx.Middleware {
	return httpx.RateLimit(r.limiter, httpx.RateLimitConfig{
		Name:   name,
		Limit:  limit,
		Window: r.cfg.RateLimitWindow,
	}, key)
}

func (r *Router) authn() httpx.Middleware {
	return httpx.SessionAuth(r.verifier, r.cfg.Cookie.Name)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		UserService:  r.UserService,
		AuditService: r.AuditService,
		Signer:       r.signer,
		Access:       r.Access,
		CSRF:         r.csrf,
		Cookie:       r.cfg.Cookie,
		Metrics:      r.metrics,
	}

	loginLimit := httpx.RateLimit(r.limiter, httpx.RateLimitConfig{
		Name:   "login",
		Limit:  r.cfg.LoginLimit,
		Window: r.cfg.RateLimitWindow,
		OnLimited: func(*http.Request) {
			r.metrics.LoginAttempt(promx.LoginRateLimited)
		},
	}, httpx.IPKeyExtractor)

	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.Login), loginLimit),
	)
	if r.Access != nil {
		// Shares the login budget.
		r.Mux.Handle("POST /api/auth/access",
			httpx.Chain(http.HandlerFunc(h.AccessLogin), loginLimit),
		)
	}
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.Logout),
			r.rateLimit("api", r.cfg.DefaultLimit),
			r.authn(),
			httpx.CSRF(r.csrf),
		),
	)
	r.Mux.Handle("GET /api/auth/csrf",
		httpx.Chain(http.HandlerFunc(h.CSRFToken),
			r.rateLimit("api", r.cfg.DefaultLimit),
			r.authn(),
		),
	)
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(http.HandlerFunc(h.Me),
			r.rateLimit("api", r.cfg.DefaultLimit),
			r.authn(),
		),
	)
}

func (r *Router) registerDocuments() {
	h := &DocumentHandler{DocumentService: r.DocumentService}

	// Uploads are CPU and disk heavy so they also get a budget per user and
	// address, checked once the session is known.
	r.Mux.Handle("POST /api/documents/upload",
		httpx.Chain(http.HandlerFunc(h.Upload),
			r.rateLimit("api", r.cfg.DefaultLimit),
			r.authn(),
			r.rateLimitBy("upload", r.cfg.UploadLimit,
				httpx.CompositeKeyExtractor(":", httpx.UserIDKeyExtractor, httpx.IPKeyExtractor)),
			httpx.CSRF(r.csrf),
			httpx.RequirePermission(rbac.DocumentsWrite),
		),
	)

	read := func(hf http.HandlerFunc) http.Handler {
		return httpx.Chain(hf,
			r.rateLimit("api", r.cfg.DefaultLimit),
			r.authn(),
			httpx.RequirePermission(rbac.DocumentsRead),
		)
	}
	r.Mux.Handle("GET /api/documents", read(h.List))
	r.Mux.Handle("GET /api/documents/{id}", read(h.Get))
	r.Mux.Handle("GET /api/documents/{id}/content", read(h.Content))

	r.Mux.Handle("DELETE /api/documents/{id}",
		httpx.Chain(http.HandlerFunc(h.Delete),
			r.rateLimit("api", r.cfg.DefaultLimit),
			r.authn(),
			httpx.CSRF(r.csrf),
			httpx.RequirePermission(rbac.DocumentsWrite),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AuditHandler{AuditService: r.AuditService}

	r.Mux.Handle("GET /api/admin/audit-events",
		httpx.Chain(http.HandlerFunc(h.List),
			r.rateLimit("api", r.cfg.DefaultLimit),
			r.authn(),
			httpx.RequirePermission(rbac.AuditRead),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /api/health",
		httpx.Chain(HealthHandler(r.store, r.cfg.Production),
			r.rateLimit("api", r.cfg.DefaultLimit),
		),
	)
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.cfg.BuildVersion))
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}
