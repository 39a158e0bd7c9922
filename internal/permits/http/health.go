package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/permits/internal/permits/store"
	"github.com/aussiebroadwan/permits/pkg/httpx"
	"github.com/aussiebroadwan/permits/pkg/permitsdk"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler godoc
//
//	@Summary		Health check
//	@Description	Checks database connectivity. Error details are hidden in production.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	permitsdk.HealthResponse	"Healthy"
//	@Failure		503	{object}	permitsdk.HealthResponse	"Unhealthy"
//	@Router			/api/health [get].
func HealthHandler(st store.Store, production bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := permitsdk.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Services:  map[string]string{"database": "ok"},
		}
		status := http.StatusOK

		if err := st.Ping(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Services["database"] = "error"
			resp.Error = "Service unavailable"
			if !production {
				resp.Error = err.Error()
			}
			status = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, status, resp)
	}
}

// LivezHandler godoc
//
//	@Summary		Liveness check
//	@Description	Always returns 200 while the process is serving requests.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	permitsdk.LivenessResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, permitsdk.LivenessResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
		})
	}
}
