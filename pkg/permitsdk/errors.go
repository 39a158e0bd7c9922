package permitsdk

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/permits/pkg/apperr"
)

// parseErrorResponse turns a non-success response into an *apperr.Error.
// Bodies that do not carry an error code are mapped from the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Code == "" {
		msg := er.Error
		if msg == "" && !strings.HasPrefix(strings.TrimSpace(string(body)), "{") {
			msg = strings.TrimSpace(string(body))
		}
		return apperr.FromStatus(resp.StatusCode, msg)
	}
	return &apperr.Error{
		Status:  resp.StatusCode,
		Code:    er.Code,
		Message: er.Error,
		Details: er.Details,
	}
}
