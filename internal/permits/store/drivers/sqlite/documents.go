package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/permits/internal/permits/domain"
)

type documentsRepo struct {
	db dbtx
}

const documentColumns = `id, file_name, category, storage_key, mime_type, size_bytes, permit_id, uploaded_by, created_at`

func scanDocument(row rowScanner) (domain.Document, error) {
	var (
		d        domain.Document
		category string
		permitID sql.NullString
	)
	if err := row.Scan(&d.ID, &d.FileName, &category, &d.StorageKey, &d.MimeType,
		&d.SizeBytes, &permitID, &d.UploadedBy, &d.CreatedAt); err != nil {
		return domain.Document{}, err
	}
	d.Category = domain.DocumentCategory(category)
	d.PermitID = mapNullString(permitID)
	return d, nil
}

func (r *documentsRepo) CreateDocument(ctx context.Context, d domain.Document) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.FileName, string(d.Category), d.StorageKey, d.MimeType, d.SizeBytes,
		mapStringNull(d.PermitID), d.UploadedBy, d.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *documentsRepo) GetDocumentByID(ctx context.Context, id string) (domain.Document, error) {
	d, err := scanDocument(r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id))
	if err != nil {
		return domain.Document{}, mapNotFound(err)
	}
	return d, nil
}

func (r *documentsRepo) ListDocumentsByPermit(ctx context.Context, permitID string) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE permit_id = ? ORDER BY created_at DESC, id DESC`,
		permitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *documentsRepo) DeleteDocument(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
