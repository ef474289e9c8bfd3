// Package store holds the client-side state for the document collection and
// the chat session. Each store exclusively owns its state; callers read
// snapshots and dispatch operations, never mutate directly.
package store

import (
	"context"
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/docuchat/assistant-cli/internal/api"
	"github.com/docuchat/assistant-cli/internal/model"
	"github.com/docuchat/assistant-cli/internal/upload"
	"github.com/docuchat/assistant-cli/pkg/logger"
	"github.com/docuchat/assistant-cli/pkg/metrics"
)

// ErrUnknownDocument is returned by Delete when the id is not in the
// collection. No request is issued in that case.
var ErrUnknownDocument = errors.New("document is not in the collection")

// DocumentBackend is the slice of the REST client the document store needs.
type DocumentBackend interface {
	ListDocuments(ctx context.Context) ([]model.Document, error)
	UploadDocument(ctx context.Context, filename string, contents io.Reader) (*model.UploadResponse, error)
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentStore owns the in-memory view of the uploaded documents. Items
// mirror server order. Deletion is acknowledged, not predicted: nothing
// leaves items before the backend confirms it, so a failed delete can never
// hide a document the user still owns.
type DocumentStore struct {
	backend DocumentBackend
	log     *logger.Logger

	mu            sync.Mutex
	items         []model.Document
	loading       bool
	pendingDelete map[string]struct{}
	lastErr       string
}

// CollectionSnapshot is a read-only copy of the collection state for
// rendering. Snapshots must not be cached across operations; re-read after
// each completed call.
type CollectionSnapshot struct {
	Items         []model.Document
	Loading       bool
	PendingDelete []string
	Err           string
}

// NewDocumentStore creates an empty store. The collection is populated by
// the first Refresh.
func NewDocumentStore(backend DocumentBackend, log *logger.Logger) *DocumentStore {
	return &DocumentStore{
		backend:       backend,
		log:           log,
		pendingDelete: make(map[string]struct{}),
	}
}

// Refresh replaces items with the server's list. On failure the previous
// items stay visible (stale-but-present) and the error is recorded for
// display. Loading is false on every exit path.
func (s *DocumentStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	docs, err := s.backend.ListDocuments(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = "Failed to load documents: " + api.Message(err)
		return err
	}
	s.items = docs
	s.log.Debug("document list refreshed", zap.Int("count", len(docs)))
	return nil
}

// Upload validates the selection, ships the first file, then re-lists so
// that items match the server's order and shape. The upload acknowledgment
// is never spliced into items directly: upload and list responses are not
// guaranteed consistent, so the server list is re-fetched as truth. A
// rejected selection short-circuits with no network call.
func (s *DocumentStore) Upload(ctx context.Context, filenames []string, contents io.Reader) (*model.UploadResponse, error) {
	name, err := upload.Validate(filenames)
	if err != nil {
		return nil, err
	}

	resp, err := s.backend.UploadDocument(ctx, name, contents)
	if err != nil {
		s.setError("Upload failed: " + api.Message(err))
		return nil, err
	}

	metrics.UploadsTotal.Inc()
	s.log.Info("document uploaded", zap.String("filename", resp.Filename))

	// A refresh failure does not undo the successful upload; it lands in
	// the store error like any other failed refresh.
	_ = s.Refresh(ctx)
	return resp, nil
}

// Delete removes one document after the backend confirms it. The id must be
// present in items; it stays there, marked pending, until the delete
// resolves. On failure only the pending mark is cleared.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if !s.containsLocked(id) {
		s.mu.Unlock()
		return ErrUnknownDocument
	}
	if _, inflight := s.pendingDelete[id]; inflight {
		// A delete for this id is already on the wire.
		s.mu.Unlock()
		return nil
	}
	s.pendingDelete[id] = struct{}{}
	s.mu.Unlock()

	err := s.backend.DeleteDocument(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, tracked := s.pendingDelete[id]; !tracked {
		// Completion for an id no longer tracked is a no-op.
		return nil
	}
	delete(s.pendingDelete, id)
	if err != nil {
		s.lastErr = "Failed to delete document: " + api.Message(err)
		return err
	}

	kept := s.items[:0:0]
	for _, doc := range s.items {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	s.items = kept
	s.log.Info("document deleted", zap.String("id", id))
	return nil
}

// Snapshot returns a copy of the current collection state.
func (s *DocumentStore) Snapshot() CollectionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := CollectionSnapshot{
		Items:   make([]model.Document, len(s.items)),
		Loading: s.loading,
		Err:     s.lastErr,
	}
	copy(snap.Items, s.items)
	for id := range s.pendingDelete {
		snap.PendingDelete = append(snap.PendingDelete, id)
	}
	return snap
}

// ClearError dismisses the current error banner.
func (s *DocumentStore) ClearError() {
	s.setError("")
}

func (s *DocumentStore) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *DocumentStore) containsLocked(id string) bool {
	for _, doc := range s.items {
		if doc.ID == id {
			return true
		}
	}
	return false
}
