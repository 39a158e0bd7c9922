package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/permits/pkg/cryptox"
	"github.com/aussiebroadwan/permits/pkg/httpx"
	"github.com/aussiebroadwan/permits/pkg/jwtx"
	"github.com/aussiebroadwan/permits/pkg/ratelimit"
	"golang.org/x/crypto/bcrypt"
)

// StoreConfig is the part of the configuration needed by commands that only
// touch the database (migrate, seed).
type StoreConfig struct {
	DatabaseFile string // SQLite database file (default: permits.db)
	BcryptCost   int    // bcrypt work factor (default: 12, min: 10, max: 31)
	Env          string // Environment (dev, staging, prod) (default: dev)
	LogLevel     string // Log level (debug, info, warn, error) (default: info)
	LogFormat    string // Log format (json, text) (default: json)
}

// Production reports whether the service runs with production hardening.
func (c StoreConfig) Production() bool {
	return c.Env == "prod" || c.Env == "production"
}

type Config struct {
	StoreConfig

	JWTSecret  string        // Required: HS256 signing secret
	CSRFSecret string        // Optional: CSRF HMAC secret (default: JWTSecret)
	SessionTTL time.Duration // Session token and cookie lifetime (default: 168h)
	Issuer     string        // "iss" claim (default: permits)

	AccessTeamDomain string // Optional: Cloudflare Access team domain (CF_TEAM_DOMAIN)
	AccessAudience   string // Optional: Cloudflare Access application AUD tag (CF_ACCESS_AUD)

	UploadDir   string // Document storage root (default: ./uploads)
	MaxFileSize int64  // Upload limit in bytes (MAX_FILE_SIZE_MB, default: 10)

	CORSOrigins []string // Allowed credentialed origins (default: http://localhost:3000)

	RateLimitWindow   time.Duration // Fixed window length (default: 1m)
	RateLimitDefault  int           // Per-route limit (default: 100)
	RateLimitLogin    int           // Login limit (default: 10)
	RateLimitUpload   int           // Upload limit (default: 20)
	RateLimitCapacity int           // In-memory LRU capacity (default: 500)
	RedisAddr         string        // Optional: use the Redis limiter when set
	RedisPassword     string        // Optional: Redis AUTH password

	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Audit pruning interval (default: 1h)
	AuditRetention       time.Duration // Audit event retention (default: 90 days)
}

// LoadStoreConfig reads the database and logging settings.
func LoadStoreConfig() (StoreConfig, error) {
	cfg := StoreConfig{
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "permits.db"),
		Env:          getEnvOrDefault("ENV", "dev"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvOrDefault("LOG_FORMAT", "json"),
	}

	cost, err := getEnvIntStrict("BCRYPT_COST", cryptox.DefaultPasswordCost)
	if err != nil {
		return StoreConfig{}, err
	}
	if cost < cryptox.MinPasswordCost || cost > bcrypt.MaxCost {
		return StoreConfig{}, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d",
			cryptox.MinPasswordCost, bcrypt.MaxCost, cost)
	}
	cfg.BcryptCost = cost

	return cfg, nil
}

// LoadConfig reads the full server configuration from the environment.
func LoadConfig() (Config, error) {
	base, err := LoadStoreConfig()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		StoreConfig: base,

		JWTSecret:  strings.TrimSpace(os.Getenv("JWT_SECRET")),
		CSRFSecret: strings.TrimSpace(os.Getenv("CSRF_SECRET")),
		SessionTTL: getEnvDurationOrDefault("SESSION_TTL", jwtx.DefaultSessionTTL),
		Issuer:     getEnvOrDefault("AUTH_ISSUER", "permits"),

		AccessTeamDomain: getEnvOrDefault("CF_TEAM_DOMAIN", ""),
		AccessAudience:   getEnvOrDefault("CF_ACCESS_AUD", ""),

		UploadDir:   getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		MaxFileSize: int64(getEnvIntOrDefault("MAX_FILE_SIZE_MB", 10)) << 20,

		CORSOrigins: httpx.SplitOrigins(getEnvOrDefault("CORS_ORIGIN", "http://localhost:3000")),

		RateLimitWindow:   rateLimitWindow(),
		RateLimitDefault:  getEnvIntOrDefault("RATE_LIMIT_MAX_REQUESTS", ratelimit.DefaultLimit),
		RateLimitLogin:    getEnvIntOrDefault("RATE_LIMIT_LOGIN_REQUESTS", 10),
		RateLimitUpload:   getEnvIntOrDefault("RATE_LIMIT_UPLOAD_REQUESTS", 20),
		RateLimitCapacity: getEnvIntOrDefault("RATE_LIMIT_CAPACITY", ratelimit.DefaultCapacity),
		RedisAddr:         os.Getenv("RATE_LIMIT_REDIS_ADDR"),
		RedisPassword:     os.Getenv("RATE_LIMIT_REDIS_PASSWORD"),

		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
		AuditRetention:       getEnvDurationOrDefault("AUDIT_RETENTION", 90*24*time.Hour),
	}

	if cfg.CSRFSecret == "" {
		cfg.CSRFSecret = cfg.JWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AccessEnabled reports whether Cloudflare Access sign-in is configured.
func (c Config) AccessEnabled() bool {
	return c.AccessTeamDomain != "" && c.AccessAudience != ""
}

// Validate reports the first setting the server cannot start with.
func (c Config) Validate() error {
	switch {
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET is required")
	case c.SessionTTL <= 0:
		return errors.New("SESSION_TTL must be positive")
	case (c.AccessTeamDomain == "") != (c.AccessAudience == ""):
		return errors.New("CF_TEAM_DOMAIN and CF_ACCESS_AUD must be set together")
	case c.MaxFileSize <= 0:
		return errors.New("MAX_FILE_SIZE_MB must be positive")
	case c.RateLimitWindow <= 0:
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	case c.RateLimitDefault <= 0, c.RateLimitLogin <= 0, c.RateLimitUpload <= 0:
		return errors.New("rate limits must be positive")
	}
	return nil
}

// rateLimitWindow prefers RATE_LIMIT_WINDOW and falls back to the
// millisecond RATE_LIMIT_WINDOW_MS form.
func rateLimitWindow() time.Duration {
	if os.Getenv("RATE_LIMIT_WINDOW") != "" {
		return getEnvDurationOrDefault("RATE_LIMIT_WINDOW", ratelimit.DefaultWindow)
	}
	if ms := getEnvIntOrDefault("RATE_LIMIT_WINDOW_MS", 0); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return ratelimit.DefaultWindow
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

// getEnvIntStrict is getEnvIntOrDefault for settings where a typo must not
// silently fall back.
func getEnvIntStrict(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, value)
	}
	return n, nil
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
