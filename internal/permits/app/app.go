package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/permits/internal/permits/http"
	"github.com/aussiebroadwan/permits/internal/permits/service"
	fsstorage "github.com/aussiebroadwan/permits/internal/permits/storage/drivers/fs"
	"github.com/aussiebroadwan/permits/internal/permits/store/drivers/sqlite"
	"github.com/aussiebroadwan/permits/pkg/cryptox"
	"github.com/aussiebroadwan/permits/pkg/httpx"
	"github.com/aussiebroadwan/permits/pkg/jwtx"
	"github.com/aussiebroadwan/permits/pkg/promx"
	"github.com/aussiebroadwan/permits/pkg/ratelimit"
	"github.com/aussiebroadwan/permits/pkg/slogx"
)

// BuildVersion is overridden at build time with
// -ldflags "-X github.com/aussiebroadwan/permits/internal/permits/app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// ServiceName labels logs and metrics.
const ServiceName = "permits"

// Application wires the permits service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      *sqlite.Store
	blobs   *fsstorage.Storage
	limiter ratelimit.Limiter
	closers []io.Closer
	metrics *promx.Metrics
	tokens  *jwtx.HS256
	access  *jwtx.AccessVerifier // nil unless Cloudflare Access is configured
	csrf    *cryptox.CSRF
	hasher  *cryptox.PasswordHasher

	// Services
	userService         *service.UserService
	documentService     *service.DocumentService
	auditService        *service.AuditService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the service logger for cfg.
func NewLogger(cfg StoreConfig, out io.Writer) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: ServiceName,
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  out,
	})
}

// OpenStore opens the database and applies pending migrations.
func OpenStore(cfg StoreConfig) (*sqlite.Store, error) {
	db, err := sqlite.NewStore(sqlite.DSN(cfg.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

// New creates an Application with every dependency initialised.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Application, error) {
	app := &Application{
		cfg:     cfg,
		logger:  logger,
		metrics: promx.New(ServiceName),
		hasher:  cryptox.NewPasswordHasher(cfg.BcryptCost),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initCrypto(); err != nil {
		app.close()
		return nil, err
	}
	if err := app.initLimiter(ctx); err != nil {
		app.close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("permits service starting",
		slog.Int("port", app.cfg.Port),
		slog.String("version", BuildVersion),
		slog.Bool("production", app.cfg.Production()),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		app.close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down permits service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slog.Any("error", err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slog.Any("error", err))
		}
	}

	app.housekeepingService.Stop()

	if err := app.close(); err != nil {
		return err
	}

	app.logger.Info("permits service stopped")
	return nil
}

// close releases the limiter backend, document storage and database, in
// that order, and returns the database error if any.
func (app *Application) close() error {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Error("error closing resource", slog.Any("error", err))
		}
	}
	app.closers = nil

	if app.blobs != nil {
		if err := app.blobs.Close(); err != nil {
			app.logger.Error("error closing document storage", slog.Any("error", err))
		}
		app.blobs = nil
	}

	if app.db != nil {
		err := app.db.Close()
		app.db = nil
		if err != nil {
			app.logger.Error("error closing database", slog.Any("error", err))
			return err
		}
	}
	return nil
}

func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg.StoreConfig)
	if err != nil {
		return err
	}
	app.db = db
	app.logger.Info("database migrations applied successfully")

	blobs, err := fsstorage.New(app.cfg.UploadDir)
	if err != nil {
		app.close()
		return fmt.Errorf("failed to open upload directory: %w", err)
	}
	app.blobs = blobs
	return nil
}

func (app *Application) initCrypto() error {
	tokens, err := jwtx.NewHS256(jwtx.HS256Config{
		Secret: app.cfg.JWTSecret,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.tokens = tokens

	csrf, err := cryptox.NewCSRF(app.cfg.CSRFSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize CSRF tokens: %w", err)
	}
	app.csrf = csrf

	if app.cfg.AccessEnabled() {
		access, err := jwtx.NewAccessVerifier(jwtx.AccessConfig{
			TeamDomain: app.cfg.AccessTeamDomain,
			Audience:   app.cfg.AccessAudience,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare Access: %w", err)
		}
		app.access = access
		app.logger.Info("Cloudflare Access sign-in enabled", slog.String("team_domain", app.cfg.AccessTeamDomain))
	}
	return nil
}

// initLimiter uses Redis when an address is configured so several replicas
// share counters, and the in-process LRU otherwise.
func (app *Application) initLimiter(ctx context.Context) error {
	if app.cfg.RedisAddr == "" {
		app.limiter = ratelimit.NewMemory(app.cfg.RateLimitCapacity, app.cfg.RateLimitWindow)
		app.logger.Info("rate limiter: in-memory", slog.Int("capacity", app.cfg.RateLimitCapacity))
		return nil
	}

	client, err := ratelimit.NewRedisClient(ctx, ratelimit.RedisConfig{
		Addr:       app.cfg.RedisAddr,
		Password:   app.cfg.RedisPassword,
		MaxRetries: 3,
	})
	if err != nil {
		return fmt.Errorf("failed to connect rate limiter backend: %w", err)
	}
	app.closers = append(app.closers, client)
	app.limiter = ratelimit.NewRedis(client, app.cfg.RateLimitWindow)
	app.logger.Info("rate limiter: redis", slog.String("addr", app.cfg.RedisAddr))
	return nil
}

func (app *Application) initServices() {
	app.userService = &service.UserService{Store: app.db, Hasher: app.hasher}
	app.auditService = &service.AuditService{Store: app.db}
	app.documentService = &service.DocumentService{
		Store:       app.db,
		Storage:     app.blobs,
		MaxFileSize: app.cfg.MaxFileSize,
		Metrics:     app.metrics,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.AuditRetention,
		app.metrics,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		httpapi.Config{
			Production:   app.cfg.Production(),
			CORSOrigins:  app.cfg.CORSOrigins,
			BuildVersion: BuildVersion,
			Cookie: httpx.SessionCookie{
				Name:   httpx.SessionCookieName,
				MaxAge: app.tokens.TTL(),
				Secure: app.cfg.Production(),
			},
			RateLimitWindow: app.cfg.RateLimitWindow,
			DefaultLimit:    app.cfg.RateLimitDefault,
			LoginLimit:      app.cfg.RateLimitLogin,
			UploadLimit:     app.cfg.RateLimitUpload,
		},
		app.tokens,
		app.tokens,
		app.csrf,
		app.limiter,
		app.db,
		app.metrics,
		app.logger,
	)

	if app.access != nil {
		router.Access = app.access
	}
	router.UserService = app.userService
	router.DocumentService = app.documentService
	router.AuditService = app.auditService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
