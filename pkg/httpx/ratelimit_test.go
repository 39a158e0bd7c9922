package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/httpx"
	"github.com/aussiebroadwan/permits/pkg/ratelimit"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Run("prefers first X-Forwarded-For entry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		req.Header.Set("X-Real-IP", "203.0.113.2")

		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "203.0.113.2")

		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})

	t.Run("falls back to unknown", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"

		require.Equal(t, httpx.UnknownClientKey, httpx.IPKeyExtractor(req))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	fixed := func(s string) httpx.KeyExtractor {
		return func(*http.Request) string { return s }
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	require.Equal(t, "a:b", httpx.CompositeKeyExtractor(":", fixed("a"), fixed("b"))(req))
	require.Equal(t, "a", httpx.CompositeKeyExtractor(":", fixed("a"), fixed(""))(req))
}

func TestRateLimit(t *testing.T) {
	cfg := httpx.RateLimitConfig{Name: "login", Limit: 5, Window: time.Minute}

	t.Run("rejects the limit-th request", func(t *testing.T) {
		h := httpx.RateLimit(ratelimit.NewMemory(10, time.Minute), cfg, httpx.IPKeyExtractor)(okHandler)

		var codes []int
		for range 5 {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("X-Forwarded-For", "198.51.100.7")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)

			if rec.Code == http.StatusTooManyRequests {
				require.Equal(t, "60", rec.Header().Get("Retry-After"))
				require.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
				require.Equal(t, apperr.CodeRateLimited, decodeError(t, rec).Code)
			}
		}

		require.Equal(t, []int{200, 200, 200, 200, 429}, codes)
	})

	t.Run("clients are counted separately", func(t *testing.T) {
		h := httpx.RateLimit(ratelimit.NewMemory(10, time.Minute), cfg, httpx.IPKeyExtractor)(okHandler)

		for range 5 {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("X-Forwarded-For", "198.51.100.7")
			h.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Forwarded-For", "198.51.100.8")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("keys are namespaced by route", func(t *testing.T) {
		l := &recordingLimiter{}
		h := httpx.RateLimit(l, cfg, httpx.IPKeyExtractor)(okHandler)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Real-IP", "198.51.100.9")
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, []string{"login:198.51.100.9"}, l.keys)
	})

	t.Run("fails open when the limiter errors", func(t *testing.T) {
		h := httpx.RateLimit(failingLimiter{}, cfg, httpx.IPKeyExtractor)(okHandler)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("calls OnLimited for rejected requests", func(t *testing.T) {
		var limited int
		withHook := cfg
		withHook.Limit = 1
		withHook.OnLimited = func(*http.Request) { limited++ }
		h := httpx.RateLimit(ratelimit.NewMemory(10, time.Minute), withHook, httpx.IPKeyExtractor)(okHandler)

		for range 3 {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
		}
		require.Equal(t, 3, limited)
	})
}
