package permitsdk

import (
	"io"
	"time"

	"github.com/aussiebroadwan/permits/pkg/apperr"
)

// ErrorResponse is the body of every error response.
type ErrorResponse = apperr.Response

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" example:"coord@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// User is the public view of an account.
type User struct {
	ID    string `json:"id" example:"01J9Z3V7R8G5WQ4K2M6N0P1S3T"`
	Email string `json:"email" example:"coord@example.com"`
	Name  string `json:"name" example:"Coordinator User"`
	Role  string `json:"role" example:"COORDINATOR"`
}

// UserResponse wraps a User.
type UserResponse struct {
	User User `json:"user"`
}

// CSRFResponse carries the CSRF token bound to the current session.
type CSRFResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// Document is an uploaded document's metadata.
type Document struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName" example:"site_plan.pdf"`
	Category   string    `json:"category" example:"SITE_PLAN"`
	MimeType   string    `json:"mimeType" example:"application/pdf"`
	SizeBytes  int64     `json:"sizeBytes" example:"48213"`
	PermitID   string    `json:"permitId,omitempty"`
	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DocumentResponse wraps a Document.
type DocumentResponse struct {
	Document Document `json:"document"`
}

// DocumentListResponse is a list of documents.
type DocumentListResponse struct {
	Documents []Document `json:"documents"`
}

// AuditEvent is one entry of the audit trail.
type AuditEvent struct {
	ID         string            `json:"id"`
	Action     string            `json:"action" example:"DOCUMENT_UPLOADED"`
	EntityType string            `json:"entityType" example:"Document"`
	EntityID   string            `json:"entityId"`
	UserID     string            `json:"userId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// AuditEventListResponse is a list of audit events, newest first.
type AuditEventListResponse struct {
	Events []AuditEvent `json:"events"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Error     string            `json:"error,omitempty"`
}

// LivenessResponse is returned by GET /livez.
type LivenessResponse struct {
	Status  string `json:"status" example:"ok"`
	Uptime  string `json:"uptime" example:"3h2m1s"`
	Version string `json:"version" example:"dev"`
}

// UploadRequest describes a document to upload. Category and PermitID are
// optional.
type UploadRequest struct {
	FileName    string
	ContentType string
	Content     io.Reader
	PermitID    string
	Category    string
}
