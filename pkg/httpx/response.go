package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/slogx"
)

const ctxKeyExposeErrors ctxKey = "expose_errors"

// genericErrorMessage replaces internal error text when errors are hidden.
const genericErrorMessage = "An error occurred"

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ExposeErrors controls whether WriteError includes the text of internal
// errors in responses. Production deployments leave this off.
func ExposeErrors(expose bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKeyExposeErrors, expose)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func exposeErrors(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKeyExposeErrors).(bool)
	return v
}

// WriteError translates err into a status code and JSON error body. Errors
// that are not *apperr.Error are logged and reported as internal errors.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Internal("", err)
	}

	resp := e.Response()
	if e.Status >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed",
			slog.String("code", e.Code),
			slog.Any("err", err),
		)
		if exposeErrors(r.Context()) {
			resp.Error = err.Error()
		} else {
			resp.Error = genericErrorMessage
			resp.Details = nil
		}
	}

	WriteJSON(w, e.Status, resp)
}

// MaxJSONBodyBytes bounds JSON request bodies read by DecodeJSON.
const MaxJSONBodyBytes = 1 << 20

// DecodeJSON decodes the request body into v. Malformed or oversized bodies
// yield a validation error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Validation("Request body too large", nil)
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required", nil)
		default:
			return apperr.Validation("Invalid JSON body", nil).WithCause(fmt.Errorf("decode json: %w", err))
		}
	}
	return nil
}
