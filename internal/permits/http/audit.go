package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/permits/internal/permits/service"
	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/httpx"
	"github.com/aussiebroadwan/permits/pkg/permitsdk"
)

type AuditHandler struct {
	AuditService *service.AuditService
}

// List godoc
//
//	@Summary		List audit events
//	@Description	Returns the most recent audit events, newest first. Requires audit:read.
//	@Tags			Admin
//	@Security		CookieAuth
//	@Produce		json
//	@Param			limit	query		int								false	"Maximum events to return (default 50, max 500)"
//	@Success		200		{object}	permitsdk.AuditEventListResponse	"Audit events"
//	@Failure		400		{object}	permitsdk.ErrorResponse			"Invalid limit"
//	@Failure		403		{object}	permitsdk.ErrorResponse			"Insufficient permissions"
//	@Router			/api/admin/audit-events [get].
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpx.WriteError(w, r, apperr.Validation("Invalid limit", map[string]string{
				"limit": "must be a positive integer",
			}))
			return
		}
		limit = n
	}

	events, err := h.AuditService.List(r.Context(), limit)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, permitsdk.AuditEventListResponse{Events: toAuditEvents(events)})
}
