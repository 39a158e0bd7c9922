package domain

import "time"

// DocumentCategory classifies an uploaded document.
type DocumentCategory string

const (
	CategoryPermitApplication DocumentCategory = "PERMIT_APPLICATION"
	CategorySitePlan          DocumentCategory = "SITE_PLAN"
	CategoryInspectionReport  DocumentCategory = "INSPECTION_REPORT"
	CategoryInvoice           DocumentCategory = "INVOICE"
	CategoryPhoto             DocumentCategory = "PHOTO"
	CategoryOther             DocumentCategory = "OTHER"
)

// Valid reports whether c is a known category.
func (c DocumentCategory) Valid() bool {
	switch c {
	case CategoryPermitApplication, CategorySitePlan, CategoryInspectionReport,
		CategoryInvoice, CategoryPhoto, CategoryOther:
		return true
	}
	return false
}

type Document struct {
	ID         string
	FileName   string // sanitised original name
	Category   DocumentCategory
	StorageKey string // key in the blob store
	MimeType   string
	SizeBytes  int64
	PermitID   string // optional
	UploadedBy string // user id
	CreatedAt  time.Time
}
