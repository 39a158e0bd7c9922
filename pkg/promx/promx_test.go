package promx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoute(t *testing.T) {
	m := New("permits")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Middleware(mux)

	for _, id := range []string{"a", "b", "c"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/documents/"+id, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Equal(t, 3.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "GET /api/documents/{id}", "404")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
}

func TestDomainCounters(t *testing.T) {
	m := New("permits")

	m.LoginAttempt(LoginSuccess)
	m.LoginAttempt(LoginInvalid)
	m.LoginAttempt(LoginInvalid)
	m.DocumentUploaded("SITE_PLAN", 1024)
	m.AuditPruned(7)
	m.AuditPruned(0)

	require.Equal(t, 1.0, testutil.ToFloat64(m.loginAttempts.WithLabelValues(LoginSuccess)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.loginAttempts.WithLabelValues(LoginInvalid)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.documentsUploaded.WithLabelValues("SITE_PLAN")))
	require.Equal(t, 1024.0, testutil.ToFloat64(m.documentBytes))
	require.Equal(t, 7.0, testutil.ToFloat64(m.auditPruned))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.LoginAttempt(LoginSuccess)
		m.DocumentUploaded("OTHER", 1)
		m.AuditPruned(1)
	})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	require.NotNil(t, m.Middleware(next))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New("permits")
	m.LoginAttempt(LoginSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `permits_login_attempts_total{result="success"} 1`))
}
