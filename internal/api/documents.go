package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/docuchat/assistant-cli/internal/model"
)

// UploadDocument ships one file to POST /documents/upload as a multipart
// body under the field name "file". The caller validates the selection
// before any bytes reach this method.
func (c *Client) UploadDocument(ctx context.Context, filename string, contents io.Reader) (*model.UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, &Error{Kind: KindClient, Err: fmt.Errorf("build multipart body: %w", err)}
	}
	if _, err := io.Copy(part, contents); err != nil {
		return nil, &Error{Kind: KindClient, Err: fmt.Errorf("read %s: %w", filename, err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Kind: KindClient, Err: err}
	}

	var out model.UploadResponse
	if err := c.do(ctx, http.MethodPost, "/documents/upload", &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDocuments fetches the full collection from GET /documents/list. The
// returned order is the server's.
func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	var out model.ListDocumentsResponse
	if err := c.do(ctx, http.MethodGet, "/documents/list", nil, "", &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// DeleteDocument asks the backend to remove one document. Success is an
// empty acknowledgment.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+id, nil, "", nil)
}
