package domain

import "time"

// Audit actions.
const (
	ActionUserLogin        = "USER_LOGIN"
	ActionUserLogout       = "USER_LOGOUT"
	ActionDocumentUploaded = "DOCUMENT_UPLOADED"
	ActionDocumentDeleted  = "DOCUMENT_DELETED"
)

// Audit entity types.
const (
	EntityUser     = "User"
	EntityDocument = "Document"
)

type AuditEvent struct {
	ID         string
	Action     string
	EntityType string
	EntityID   string
	UserID     string // empty for system actions
	Metadata   map[string]string
	CreatedAt  time.Time
}
