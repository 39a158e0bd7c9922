package permitsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListAuditEvents returns recent audit events. A zero limit uses the
// server default. Requires audit:read.
func (c *Client) ListAuditEvents(ctx context.Context, limit int) ([]AuditEvent, error) {
	path := "/api/admin/audit-events"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out AuditEventListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Events, nil
}
