package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/permits/internal/permits/service"
	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/httpx"
	"github.com/aussiebroadwan/permits/pkg/permitsdk"
	"github.com/aussiebroadwan/permits/pkg/slogx"
)

// uploadMemory bounds how much of a multipart upload is held in memory;
// the rest spills to temporary files.
const uploadMemory = 8 << 20

// multipartOverhead is allowed on top of the file size for boundaries and
// the other form fields.
const multipartOverhead = 1 << 20

type DocumentHandler struct {
	DocumentService *service.DocumentService
}

// Upload godoc
//
//	@Summary		Upload a document
//	@Description	Stores a file and its metadata. Accepts PDF, JPEG, PNG, GIF, Word and plain text files.
//	@Tags			Documents
//	@Security		CookieAuth
//	@Security		CSRFToken
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"Document content"
//	@Param			permitId	formData	string	false	"Permit the document belongs to"
//	@Param			category	formData	string	false	"Document category"	Enums(PERMIT_APPLICATION, SITE_PLAN, INSPECTION_REPORT, INVOICE, PHOTO, OTHER)
//	@Success		201			{object}	permitsdk.DocumentResponse	"Stored document"
//	@Failure		400			{object}	permitsdk.ErrorResponse		"Invalid upload"
//	@Failure		401			{object}	permitsdk.ErrorResponse		"Not authenticated"
//	@Failure		403			{object}	permitsdk.ErrorResponse		"Missing permission or CSRF token"
//	@Failure		429			{object}	permitsdk.ErrorResponse		"Too many uploads"
//	@Router			/api/documents/upload [post].
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	maxSize := h.DocumentService.MaxSize()

	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			httpx.WriteError(w, r, documentError(service.ErrFileTooLarge, maxSize))
		default:
			httpx.WriteError(w, r, apperr.Validation("Invalid multipart body", nil).WithCause(err))
		}
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, r, documentError(service.ErrFileMissing, maxSize))
		return
	}
	defer file.Close()

	doc, err := h.DocumentService.Upload(ctx, service.UploadInput{
		FileName:   hdr.Filename,
		MimeType:   hdr.Header.Get("Content-Type"),
		Size:       hdr.Size,
		PermitID:   r.FormValue("permitId"),
		Category:   r.FormValue("category"),
		Content:    file,
		UploadedBy: httpx.UserIDFromContext(ctx),
	})
	if err != nil {
		httpx.WriteError(w, r, documentError(err, maxSize))
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, permitsdk.DocumentResponse{Document: toDocument(doc)})
}

// Get godoc
//
//	@Summary		Get document metadata
//	@Tags			Documents
//	@Security		CookieAuth
//	@Produce		json
//	@Param			id	path		string						true	"Document ID"
//	@Success		200	{object}	permitsdk.DocumentResponse	"Document"
//	@Failure		404	{object}	permitsdk.ErrorResponse		"Document not found"
//	@Router			/api/documents/{id} [get].
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.DocumentService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, documentError(err, 0))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, permitsdk.DocumentResponse{Document: toDocument(doc)})
}

// List godoc
//
//	@Summary		List a permit's documents
//	@Description	Returns the documents attached to a permit, newest first.
//	@Tags			Documents
//	@Security		CookieAuth
//	@Produce		json
//	@Param			permitId	query		string							true	"Permit ID"
//	@Success		200			{object}	permitsdk.DocumentListResponse	"Documents"
//	@Failure		400			{object}	permitsdk.ErrorResponse			"Missing or invalid permit ID"
//	@Router			/api/documents [get].
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	permitID := strings.TrimSpace(r.URL.Query().Get("permitId"))
	if permitID == "" {
		httpx.WriteError(w, r, apperr.Validation("permitId is required", map[string]string{
			"permitId": "required",
		}))
		return
	}

	docs, err := h.DocumentService.ListByPermit(r.Context(), permitID)
	if err != nil {
		httpx.WriteError(w, r, documentError(err, 0))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, permitsdk.DocumentListResponse{Documents: toDocuments(docs)})
}

// Content godoc
//
//	@Summary		Download document content
//	@Tags			Documents
//	@Security		CookieAuth
//	@Produce		octet-stream
//	@Param			id	path		string					true	"Document ID"
//	@Success		200	{file}		file					"Document content"
//	@Failure		404	{object}	permitsdk.ErrorResponse	"Document not found"
//	@Router			/api/documents/{id}/content [get].
func (h *DocumentHandler) Content(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, rc, err := h.DocumentService.Open(ctx, r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, documentError(err, 0))
		return
	}
	defer rc.Close()

	httpx.NoCache(w)
	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": doc.FileName,
	}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		slogx.FromContext(ctx).Warn("document download interrupted",
			slog.String("document_id", doc.ID),
			slog.Any("error", err),
		)
	}
}

// Delete godoc
//
//	@Summary		Delete a document
//	@Tags			Documents
//	@Security		CookieAuth
//	@Security		CSRFToken
//	@Param			id	path	string	true	"Document ID"
//	@Success		204	"Deleted"
//	@Failure		403	{object}	permitsdk.ErrorResponse	"Missing permission or CSRF token"
//	@Failure		404	{object}	permitsdk.ErrorResponse	"Document not found"
//	@Router			/api/documents/{id} [delete].
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.DocumentService.Delete(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx)); err != nil {
		httpx.WriteError(w, r, documentError(err, 0))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
