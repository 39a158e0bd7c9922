package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/permits/internal/permits/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the drivers. Sub
// repositories are reached through methods so a Tx can hand out the same
// repositories bound to the transaction, and so nobody starts a transaction
// inside one.
type Store interface {
	Users() Users
	Documents() Documents
	AuditEvents() AuditEvents

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login. The lookup is case-insensitive.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists on a duplicate email.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser sets name, role and password_hash and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// CountUsers returns the number of users.
	CountUsers(ctx context.Context) (int64, error)
}

type Documents interface {
	// CreateDocument inserts document metadata.
	CreateDocument(ctx context.Context, d domain.Document) error

	// GetDocumentByID returns a document by id.
	GetDocumentByID(ctx context.Context, id string) (domain.Document, error)

	// ListDocumentsByPermit returns a permit's documents, newest first.
	ListDocumentsByPermit(ctx context.Context, permitID string) ([]domain.Document, error)

	// DeleteDocument removes the metadata row. Returns ErrNotFound if absent.
	DeleteDocument(ctx context.Context, id string) error
}

type AuditEvents interface {
	// CreateAuditEvent appends an event.
	CreateAuditEvent(ctx context.Context, e domain.AuditEvent) error

	// ListRecentAuditEvents returns up to limit events, newest first.
	ListRecentAuditEvents(ctx context.Context, limit int) ([]domain.AuditEvent, error)

	// DeleteAuditEventsBefore removes events older than cutoff and returns
	// how many were removed.
	DeleteAuditEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
