package permitsdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// UploadDocument uploads a file. Requires a CSRF token and documents:write.
func (c *Client) UploadDocument(ctx context.Context, req UploadRequest) (*Document, error) {
	if req.Content == nil {
		return nil, errors.New("upload content is required")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(req.FileName)))
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}
	if req.PermitID != "" {
		if err := mw.WriteField("permitId", req.PermitID); err != nil {
			return nil, err
		}
	}
	if req.Category != "" {
		if err := mw.WriteField("category", req.Category); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/documents/upload", &buf,
		map[string]string{"Content-Type": mw.FormDataContentType()})
	if err != nil {
		return nil, err
	}

	var out DocumentResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.Document, nil
}

// GetDocument returns a document's metadata.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/documents/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var out DocumentResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Document, nil
}

// ListDocuments returns the documents attached to a permit, newest first.
func (c *Client) ListDocuments(ctx context.Context, permitID string) ([]Document, error) {
	q := url.Values{"permitId": {permitID}}
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/documents?"+q.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	var out DocumentListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// DownloadDocument streams a document's content. The caller closes the
// returned reader.
func (c *Client) DownloadDocument(ctx context.Context, id string) (io.ReadCloser, string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/documents/"+url.PathEscape(id)+"/content", nil, nil)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, "", parseErrorResponse(resp, body)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// DeleteDocument removes a document. Requires a CSRF token and documents:write.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/api/documents/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
