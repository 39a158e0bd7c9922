package httpx

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/ratelimit"
	"github.com/aussiebroadwan/permits/pkg/slogx"
	"golang.org/x/time/rate"
)

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes (e.g., IP address, user ID, etc.)
type KeyExtractor func(*http.Request) string

// UnknownClientKey is used when no client address header is present.
const UnknownClientKey = "unknown"

// IPKeyExtractor returns the first X-Forwarded-For entry, then X-Real-IP,
// then UnknownClientKey. The socket address is not consulted: behind the
// reverse proxy it would be the proxy for every client.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return UnknownClientKey
}

// UserIDKeyExtractor extracts the user ID from the request context.
// Returns empty string if no user ID is found.
func UserIDKeyExtractor(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

// CompositeKeyExtractor combines multiple key extractors with a separator.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// RateLimitConfig is one route's budget.
type RateLimitConfig struct {
	// Name distinguishes counters of different routes sharing a limiter.
	Name string
	// Limit per window; the Limit-th request in a window is rejected.
	Limit int
	// Window is reported in Retry-After and must match the limiter's window.
	Window time.Duration
	// OnLimited, if set, is called for every rejected request.
	OnLimited func(*http.Request)
}

// RateLimit rejects requests over cfg.Limit with 429. If the limiter
// backend fails the request is let through and the failure logged.
func RateLimit(l ratelimit.Limiter, cfg RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	// One warning per second is plenty while a client hammers a route.
	sampler := &rate.Sometimes{Interval: time.Second}
	retryAfter := strconv.Itoa(max(int(cfg.Window.Seconds()), 1))
	limit := strconv.Itoa(cfg.Limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			key := keyExtractor(r)
			if cfg.Name != "" {
				key = cfg.Name + ":" + key
			}

			allowed, err := l.Check(ctx, cfg.Limit, key)
			if err != nil {
				log.Error("rate limit check failed, allowing request", slog.Any("err", err))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Retry-After", retryAfter)
				w.Header().Set("X-RateLimit-Limit", limit)
				w.Header().Set("X-RateLimit-Window", cfg.Window.String())

				sampler.Do(func() {
					log.Warn("rate limit exceeded",
						slog.String("key", key),
						slog.String("endpoint", r.URL.Path),
					)
				})

				if cfg.OnLimited != nil {
					cfg.OnLimited(r)
				}
				WriteError(w, r, apperr.RateLimited())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
