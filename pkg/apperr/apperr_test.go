package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
		code   string
	}{
		{"validation", Validation("", nil), http.StatusBadRequest, CodeValidation},
		{"authentication", Authentication(""), http.StatusUnauthorized, CodeAuthentication},
		{"authorization", Authorization(""), http.StatusForbidden, CodeAuthorization},
		{"not found", NotFound("Document"), http.StatusNotFound, CodeNotFound},
		{"internal", Internal("", nil), http.StatusInternalServerError, CodeInternal},
		{"csrf missing", CSRFMissing(), http.StatusForbidden, CodeCSRFMissing},
		{"csrf invalid", CSRFInvalid(), http.StatusForbidden, CodeCSRFInvalid},
		{"rate limited", RateLimited(), http.StatusTooManyRequests, CodeRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.status, tt.err.Status)
			require.Equal(t, tt.code, tt.err.Code)
			require.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load document: %w", NotFound("Document"))
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrAuthorization)

	e, ok := As(err)
	require.True(t, ok)
	require.Equal(t, "Document not found", e.Message)
}

func TestInternalUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("save failed", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "disk full")
}

func TestResponseOmitsCause(t *testing.T) {
	err := Validation("Validation failed", map[string]string{"email": "invalid"}).WithCause(errors.New("secret"))
	resp := err.Response()
	require.Equal(t, "Validation failed", resp.Error)
	require.Equal(t, CodeValidation, resp.Code)
	require.Equal(t, "invalid", resp.Details["email"])
}

func TestFromStatus(t *testing.T) {
	require.Equal(t, CodeAuthentication, FromStatus(http.StatusUnauthorized, "").Code)
	require.Equal(t, CodeInternal, FromStatus(http.StatusBadGateway, "").Code)
	require.Equal(t, "Bad Gateway", FromStatus(http.StatusBadGateway, "").Message)
}
