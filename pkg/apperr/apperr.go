// Package apperr defines the error taxonomy shared by the HTTP layer and the
// client SDK. Every error that reaches a response writer is either an *Error
// or is treated as an internal failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in the "code" field of error responses.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
	CodeCSRFMissing    = "CSRF_TOKEN_MISSING"
	CodeCSRFInvalid    = "CSRF_TOKEN_INVALID"
	CodeRateLimited    = "RATE_LIMITED"
)

// Error is a classified failure with an HTTP status and a stable code.
type Error struct {
	Status  int               // HTTP status code
	Code    string            // machine readable code
	Message string            // human readable message
	Details map[string]string // optional per-field details
	Cause   error             // underlying error, never serialised
}

// Response is the JSON body written for an Error.
type Response struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code, so that
// errors.Is(err, apperr.ErrNotFound) matches any not-found error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Response returns the serialisable body for e.
func (e *Error) Response() Response {
	return Response{Error: e.Message, Code: e.Code, Details: e.Details}
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details map[string]string) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCause returns a copy of e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation     = &Error{Status: http.StatusBadRequest, Code: CodeValidation}
	ErrAuthentication = &Error{Status: http.StatusUnauthorized, Code: CodeAuthentication}
	ErrAuthorization  = &Error{Status: http.StatusForbidden, Code: CodeAuthorization}
	ErrNotFound       = &Error{Status: http.StatusNotFound, Code: CodeNotFound}
	ErrInternal       = &Error{Status: http.StatusInternalServerError, Code: CodeInternal}
	ErrRateLimited    = &Error{Status: http.StatusTooManyRequests, Code: CodeRateLimited}
)

// Validation returns a 400 error.
func Validation(message string, details map[string]string) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

// Authentication returns a 401 error.
func Authentication(message string) *Error {
	if message == "" {
		message = "Authentication required"
	}
	return &Error{Status: http.StatusUnauthorized, Code: CodeAuthentication, Message: message}
}

// Authorization returns a 403 error.
func Authorization(message string) *Error {
	if message == "" {
		message = "Insufficient permissions"
	}
	return &Error{Status: http.StatusForbidden, Code: CodeAuthorization, Message: message}
}

// NotFound returns a 404 error naming the missing resource.
func NotFound(resource string) *Error {
	if resource == "" {
		resource = "Resource"
	}
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

// Internal returns a 500 error wrapping cause.
func Internal(message string, cause error) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: message, Cause: cause}
}

// CSRFMissing is returned when a state-changing request carries no token.
func CSRFMissing() *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeCSRFMissing, Message: "CSRF token missing"}
}

// CSRFInvalid is returned when the presented token does not validate.
func CSRFInvalid() *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeCSRFInvalid, Message: "Invalid CSRF token"}
}

// RateLimited is returned when a client exceeds its request budget.
func RateLimited() *Error {
	return &Error{Status: http.StatusTooManyRequests, Code: CodeRateLimited, Message: "Too many requests, please try again later."}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// FromStatus builds an *Error for a response that carried no recognised
// body, mapping the status onto the closest code.
func FromStatus(status int, message string) *Error {
	code := CodeInternal
	switch status {
	case http.StatusBadRequest:
		code = CodeValidation
	case http.StatusUnauthorized:
		code = CodeAuthentication
	case http.StatusForbidden:
		code = CodeAuthorization
	case http.StatusNotFound:
		code = CodeNotFound
	case http.StatusTooManyRequests:
		code = CodeRateLimited
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Status: status, Code: code, Message: message}
}
