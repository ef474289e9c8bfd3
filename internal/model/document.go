// Package model defines data structures exchanged with the assistant backend.
package model

// Document is one uploaded file as the backend reports it. The client never
// mutates a document in place; documents appear on upload acknowledgment and
// disappear on delete acknowledgment.
type Document struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	UploadDate string `json:"upload_date"`
}

// UploadResponse is the acknowledgment from POST /documents/upload. Its shape
// is not guaranteed to match list entries, which is why the document store
// re-lists after every upload instead of splicing this into the collection.
type UploadResponse struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	UploadDate string `json:"upload_date"`
}

// ListDocumentsResponse is the payload of GET /documents/list. Document order
// is the server's and is authoritative.
type ListDocumentsResponse struct {
	Documents  []Document `json:"documents"`
	TotalCount int        `json:"total_count,omitempty"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
