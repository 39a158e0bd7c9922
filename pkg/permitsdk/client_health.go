package permitsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aussiebroadwan/permits/pkg/apperr"
)

// Health checks the service and its database. An unhealthy service returns
// both the decoded report and an error.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/health", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var health HealthResponse
	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.Unmarshal(body, &health); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &health, nil
	case http.StatusServiceUnavailable:
		if err := json.Unmarshal(body, &health); err != nil {
			return nil, apperr.FromStatus(resp.StatusCode, "")
		}
		return &health, apperr.FromStatus(resp.StatusCode, health.Error)
	default:
		return nil, parseErrorResponse(resp, body)
	}
}

// Liveness checks that the process is serving requests.
func (c *Client) Liveness(ctx context.Context) (*LivenessResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}

	var out LivenessResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
