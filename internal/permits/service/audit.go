package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/permits/internal/permits/domain"
	"github.com/aussiebroadwan/permits/internal/permits/store"
	"github.com/aussiebroadwan/permits/pkg/idx"
)

const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

type AuditService struct {
	Store store.Store
}

// Record appends an audit event. userID may be empty for system actions.
func (s *AuditService) Record(
	ctx context.Context,
	action, entityType, entityID, userID string,
	metadata map[string]string,
) error {
	return recordAudit(ctx, s.Store, action, entityType, entityID, userID, metadata)
}

// List returns the most recent events. limit is clamped to
// [1, MaxAuditLimit]; zero or negative means DefaultAuditLimit.
func (s *AuditService) List(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	switch {
	case limit <= 0:
		limit = DefaultAuditLimit
	case limit > MaxAuditLimit:
		limit = MaxAuditLimit
	}
	events, err := s.Store.AuditEvents().ListRecentAuditEvents(ctx, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.AuditEvent{}
	}
	return events, nil
}

func recordAudit(
	ctx context.Context,
	st store.Store,
	action, entityType, entityID, userID string,
	metadata map[string]string,
) error {
	now := time.Now()
	return st.AuditEvents().CreateAuditEvent(ctx, domain.AuditEvent{
		ID:         idx.NewAt(now).String(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Metadata:   metadata,
		CreatedAt:  now,
	})
}
