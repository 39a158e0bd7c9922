package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/permits/internal/permits/domain"
	"github.com/aussiebroadwan/permits/internal/permits/storage"
	"github.com/aussiebroadwan/permits/internal/permits/store"
	"github.com/aussiebroadwan/permits/pkg/idx"
	"github.com/aussiebroadwan/permits/pkg/promx"
	"github.com/aussiebroadwan/permits/pkg/slogx"
	"github.com/google/uuid"
)

// DefaultMaxFileSize applies when DocumentService.MaxFileSize is unset.
const DefaultMaxFileSize int64 = 10 << 20

var (
	ErrFileMissing        = errors.New("no file provided")
	ErrFileEmpty          = errors.New("file is empty")
	ErrFileTooLarge       = errors.New("file too large")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrInvalidFileName    = errors.New("invalid filename")
	ErrInvalidPermitID    = errors.New("invalid permit id")
	ErrInvalidCategory    = errors.New("invalid document category")
	ErrDocumentNotFound   = errors.New("document not found")
)

// AllowedMimeType reports whether t is accepted for upload.
func AllowedMimeType(t string) bool {
	switch t {
	case "application/pdf",
		"image/jpeg",
		"image/png",
		"image/gif",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain":
		return true
	}
	return false
}

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

type DocumentService struct {
	Store       store.Store
	Storage     storage.Storage
	MaxFileSize int64
	Metrics     *promx.Metrics
}

// UploadInput describes one uploaded file. Size is the size the client
// declared; the bytes actually read from Content are checked as well.
type UploadInput struct {
	FileName   string
	MimeType   string
	Size       int64
	PermitID   string
	Category   string
	Content    io.Reader
	UploadedBy string
}

// Upload validates in, stores the content and records the document with an
// audit event. The blob is removed again if the database write fails.
func (s *DocumentService) Upload(ctx context.Context, in UploadInput) (domain.Document, error) {
	l := slogx.FromContext(ctx)
	maxSize := s.MaxSize()

	if in.Content == nil {
		return domain.Document{}, ErrFileMissing
	}
	if in.Size == 0 {
		return domain.Document{}, ErrFileEmpty
	}
	if in.Size > maxSize {
		return domain.Document{}, fmt.Errorf("%w: maximum size is %s", ErrFileTooLarge, FormatSize(maxSize))
	}
	mimeType, _, err := mime.ParseMediaType(in.MimeType)
	if err != nil || !AllowedMimeType(mimeType) {
		return domain.Document{}, ErrFileTypeNotAllowed
	}
	name, err := SanitizeFileName(in.FileName)
	if err != nil {
		return domain.Document{}, err
	}
	category, err := ParseCategory(in.Category)
	if err != nil {
		return domain.Document{}, err
	}
	var permitID string
	if strings.TrimSpace(in.PermitID) != "" {
		id, err := idx.Parse(in.PermitID)
		if err != nil {
			return domain.Document{}, ErrInvalidPermitID
		}
		permitID = id.String()
	}

	key := uuid.NewString() + "-" + name
	n, err := s.Storage.Save(ctx, key, io.LimitReader(in.Content, maxSize+1))
	if err != nil {
		return domain.Document{}, fmt.Errorf("store document content: %w", err)
	}
	if n == 0 || n > maxSize {
		s.discard(ctx, key)
		if n == 0 {
			return domain.Document{}, ErrFileEmpty
		}
		return domain.Document{}, fmt.Errorf("%w: maximum size is %s", ErrFileTooLarge, FormatSize(maxSize))
	}

	now := time.Now()
	doc := domain.Document{
		ID:         idx.NewAt(now).String(),
		FileName:   name,
		Category:   category,
		StorageKey: key,
		MimeType:   mimeType,
		SizeBytes:  n,
		PermitID:   permitID,
		UploadedBy: in.UploadedBy,
		CreatedAt:  now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Documents().CreateDocument(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return recordAudit(ctx, tx, domain.ActionDocumentUploaded, domain.EntityDocument, doc.ID, in.UploadedBy,
			map[string]string{
				"file_name": doc.FileName,
				"category":  string(doc.Category),
				"size":      strconv.FormatInt(doc.SizeBytes, 10),
			})
	})
	if err != nil {
		s.discard(ctx, key)
		return domain.Document{}, err
	}

	s.Metrics.DocumentUploaded(string(doc.Category), doc.SizeBytes)
	l.Info("document uploaded",
		slog.String("document_id", doc.ID),
		slog.String("category", string(doc.Category)),
		slog.Int64("size", doc.SizeBytes),
	)
	return doc, nil
}

// Get returns a document's metadata.
func (s *DocumentService) Get(ctx context.Context, id string) (domain.Document, error) {
	doc, err := s.Store.Documents().GetDocumentByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Document{}, ErrDocumentNotFound
	}
	return doc, err
}

// Open returns a document's metadata and content. The caller closes the reader.
func (s *DocumentService) Open(ctx context.Context, id string) (domain.Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return domain.Document{}, nil, err
	}
	rc, err := s.Storage.Open(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slogx.FromContext(ctx).Error("document content missing",
				slog.String("document_id", doc.ID),
				slog.String("storage_key", doc.StorageKey),
			)
			return domain.Document{}, nil, ErrDocumentNotFound
		}
		return domain.Document{}, nil, fmt.Errorf("open document content: %w", err)
	}
	return doc, rc, nil
}

// ListByPermit returns a permit's documents, newest first.
func (s *DocumentService) ListByPermit(ctx context.Context, permitID string) ([]domain.Document, error) {
	id, err := idx.Parse(permitID)
	if err != nil {
		return nil, ErrInvalidPermitID
	}
	docs, err := s.Store.Documents().ListDocumentsByPermit(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// Delete removes the document record and then its content. A failure to
// remove the content is logged; the record is already gone.
func (s *DocumentService) Delete(ctx context.Context, id, userID string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Documents().DeleteDocument(ctx, doc.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrDocumentNotFound
			}
			return fmt.Errorf("delete document: %w", err)
		}
		return recordAudit(ctx, tx, domain.ActionDocumentDeleted, domain.EntityDocument, doc.ID, userID,
			map[string]string{"file_name": doc.FileName})
	})
	if err != nil {
		return err
	}

	if err := s.Storage.Delete(ctx, doc.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		slogx.FromContext(ctx).Error("failed to delete document content",
			slog.String("document_id", doc.ID),
			slog.Any("error", err),
		)
	}
	return nil
}

// SanitizeFileName keeps the base name of name and replaces every character
// outside [a-zA-Z0-9._-] with an underscore.
func SanitizeFileName(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if base == "." || base == ".." || base == "/" {
		return "", ErrInvalidFileName
	}
	return unsafeFileNameChars.ReplaceAllString(base, "_"), nil
}

// ParseCategory maps s onto a document category. An empty value means OTHER.
func ParseCategory(s string) (domain.DocumentCategory, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.CategoryOther, nil
	}
	c := domain.DocumentCategory(strings.ToUpper(s))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// MaxSize returns the largest accepted upload in bytes.
func (s *DocumentService) MaxSize() int64 {
	if s.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return s.MaxFileSize
}

func (s *DocumentService) discard(ctx context.Context, key string) {
	if err := s.Storage.Delete(context.WithoutCancel(ctx), key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		slogx.FromContext(ctx).Error("failed to discard document content",
			slog.String("storage_key", key),
			slog.Any("error", err),
		)
	}
}

// FormatSize renders n as whole megabytes when it is one, bytes otherwise.
func FormatSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return strconv.FormatInt(n>>20, 10) + "MB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
