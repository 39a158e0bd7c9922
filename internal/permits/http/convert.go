package http

import (
	"errors"

	"github.com/aussiebroadwan/permits/internal/permits/domain"
	"github.com/aussiebroadwan/permits/internal/permits/service"
	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/permitsdk"
)

func toUser(u domain.User) permitsdk.User {
	return permitsdk.User{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}

func toDocument(d domain.Document) permitsdk.Document {
	return permitsdk.Document{
		ID:         d.ID,
		FileName:   d.FileName,
		Category:   string(d.Category),
		MimeType:   d.MimeType,
		SizeBytes:  d.SizeBytes,
		PermitID:   d.PermitID,
		UploadedBy: d.UploadedBy,
		CreatedAt:  d.CreatedAt,
	}
}

func toDocuments(ds []domain.Document) []permitsdk.Document {
	out := make([]permitsdk.Document, 0, len(ds))
	for _, d := range ds {
		out = append(out, toDocument(d))
	}
	return out
}

func toAuditEvents(es []domain.AuditEvent) []permitsdk.AuditEvent {
	out := make([]permitsdk.AuditEvent, 0, len(es))
	for _, e := range es {
		out = append(out, permitsdk.AuditEvent{
			ID:         e.ID,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			UserID:     e.UserID,
			Metadata:   e.Metadata,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}

// documentError maps document service errors onto API errors. Anything
// unrecognised is returned unchanged and reported as internal.
func documentError(err error, maxSize int64) error {
	switch {
	case errors.Is(err, service.ErrFileMissing):
		return apperr.Validation("No file provided", nil)
	case errors.Is(err, service.ErrFileEmpty):
		return apperr.Validation("File is empty", nil)
	case errors.Is(err, service.ErrFileTooLarge):
		return apperr.Validation("File too large. Maximum size: "+service.FormatSize(maxSize), nil)
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		return apperr.Validation("File type not allowed. Allowed types: PDF, images, Word, text files", nil)
	case errors.Is(err, service.ErrInvalidFileName):
		return apperr.Validation("Invalid filename", nil)
	case errors.Is(err, service.ErrInvalidPermitID):
		return apperr.Validation("Invalid permit ID format", nil)
	case errors.Is(err, service.ErrInvalidCategory):
		return apperr.Validation("Invalid document category", nil)
	case errors.Is(err, service.ErrDocumentNotFound):
		return apperr.NotFound("Document")
	}
	return err
}
