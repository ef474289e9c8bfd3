package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat/assistant-cli/internal/api"
	"github.com/docuchat/assistant-cli/internal/model"
	"github.com/docuchat/assistant-cli/internal/upload"
	"github.com/docuchat/assistant-cli/pkg/logger"
)

type fakeDocBackend struct {
	mu          sync.Mutex
	listCalls   int
	uploadCalls int
	deleteCalls int

	listFn   func() ([]model.Document, error)
	uploadFn func(filename string) (*model.UploadResponse, error)
	deleteFn func(id string) error
}

func (f *fakeDocBackend) ListDocuments(context.Context) ([]model.Document, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn()
}

func (f *fakeDocBackend) UploadDocument(_ context.Context, filename string, _ io.Reader) (*model.UploadResponse, error) {
	f.mu.Lock()
	f.uploadCalls++
	fn := f.uploadFn
	f.mu.Unlock()
	if fn == nil {
		return &model.UploadResponse{ID: "doc-new", Filename: filename}, nil
	}
	return fn(filename)
}

func (f *fakeDocBackend) DeleteDocument(_ context.Context, id string) error {
	f.mu.Lock()
	f.deleteCalls++
	fn := f.deleteFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(id)
}

func (f *fakeDocBackend) calls() (list, up, del int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.uploadCalls, f.deleteCalls
}

func serverDocs(ids ...string) []model.Document {
	docs := make([]model.Document, len(ids))
	for i, id := range ids {
		docs[i] = model.Document{ID: id, Filename: id + ".pdf", Size: 1024}
	}
	return docs
}

func newDocStore(backend *fakeDocBackend) *DocumentStore {
	return NewDocumentStore(backend, logger.NewNop())
}

func TestDocumentStore_RefreshReplacesItemsInServerOrder(t *testing.T) {
	backend := &fakeDocBackend{listFn: func() ([]model.Document, error) {
		return serverDocs("doc-2", "doc-1", "doc-3"), nil
	}}
	s := newDocStore(backend)

	require.NoError(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "doc-2", snap.Items[0].ID)
	assert.Equal(t, "doc-1", snap.Items[1].ID)
	assert.Equal(t, "doc-3", snap.Items[2].ID)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
}

func TestDocumentStore_RefreshFailureKeepsStaleItems(t *testing.T) {
	fail := false
	backend := &fakeDocBackend{listFn: func() ([]model.Document, error) {
		if fail {
			return nil, &api.Error{Kind: api.KindServer, Status: 500, Detail: "index offline"}
		}
		return serverDocs("doc-1"), nil
	}}
	s := newDocStore(backend)

	require.NoError(t, s.Refresh(context.Background()))
	fail = true
	require.Error(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "doc-1", snap.Items[0].ID)
	assert.Equal(t, "Failed to load documents: index offline", snap.Err)
	assert.False(t, snap.Loading)
}

func TestDocumentStore_RefreshIdempotent(t *testing.T) {
	backend := &fakeDocBackend{listFn: func() ([]model.Document, error) {
		return serverDocs("doc-1", "doc-2"), nil
	}}
	s := newDocStore(backend)

	require.NoError(t, s.Refresh(context.Background()))
	first := s.Snapshot().Items
	require.NoError(t, s.Refresh(context.Background()))
	second := s.Snapshot().Items

	assert.Equal(t, first, second)
}

func TestDocumentStore_UploadRejectsInvalidExtension(t *testing.T) {
	backend := &fakeDocBackend{}
	s := newDocStore(backend)

	_, err := s.Upload(context.Background(), []string{"notes.txt"}, strings.NewReader("text"))

	var verr *upload.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, upload.ReasonInvalidExtension, verr.Reason)

	list, up, _ := backend.calls()
	assert.Zero(t, list, "no refresh on rejected upload")
	assert.Zero(t, up, "no network call on rejected upload")
	assert.Empty(t, s.Snapshot().Items)
}

func TestDocumentStore_UploadRejectsEmptySelection(t *testing.T) {
	backend := &fakeDocBackend{}
	s := newDocStore(backend)

	_, err := s.Upload(context.Background(), nil, nil)

	var verr *upload.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, upload.ReasonEmptySelection, verr.Reason)

	_, up, _ := backend.calls()
	assert.Zero(t, up)
}

func TestDocumentStore_UploadTriggersFullRefresh(t *testing.T) {
	backend := &fakeDocBackend{listFn: func() ([]model.Document, error) {
		return []model.Document{{ID: "doc-7", Filename: "report.pdf", Size: 2048}}, nil
	}}
	s := newDocStore(backend)

	resp, err := s.Upload(context.Background(), []string{"report.pdf"}, strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", resp.Filename)

	list, up, _ := backend.calls()
	assert.Equal(t, 1, up)
	assert.Equal(t, 1, list, "upload must re-list instead of splicing the response in")

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "report.pdf", snap.Items[0].Filename)
}

func TestDocumentStore_UploadServerDetailSurfacedVerbatim(t *testing.T) {
	backend := &fakeDocBackend{uploadFn: func(string) (*model.UploadResponse, error) {
		return nil, &api.Error{Kind: api.KindServer, Status: 500, Detail: "Failed to upload document: disk full"}
	}}
	s := newDocStore(backend)

	_, err := s.Upload(context.Background(), []string{"report.pdf"}, strings.NewReader("%PDF"))
	require.Error(t, err)

	assert.Equal(t, "Upload failed: Failed to upload document: disk full", s.Snapshot().Err)
	list, _, _ := backend.calls()
	assert.Zero(t, list, "no refresh after failed upload")
}

func TestDocumentStore_DeleteUnknownID(t *testing.T) {
	backend := &fakeDocBackend{listFn: func() ([]model.Document, error) {
		return serverDocs("doc-2"), nil
	}}
	s := newDocStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	err := s.Delete(context.Background(), "doc-1")
	require.ErrorIs(t, err, ErrUnknownDocument)

	_, _, del := backend.calls()
	assert.Zero(t, del, "no transport call for an untracked id")
	assert.Empty(t, s.Snapshot().PendingDelete)
}

func TestDocumentStore_DeleteSuccessRemovesItem(t *testing.T) {
	backend := &fakeDocBackend{listFn: func() ([]model.Document, error) {
		return serverDocs("doc-1", "doc-2"), nil
	}}
	s := newDocStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	require.NoError(t, s.Delete(context.Background(), "doc-1"))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "doc-2", snap.Items[0].ID)
	assert.Empty(t, snap.PendingDelete)
}

func TestDocumentStore_DeleteFailureKeepsItem(t *testing.T) {
	backend := &fakeDocBackend{
		listFn: func() ([]model.Document, error) {
			return serverDocs("doc-1"), nil
		},
		deleteFn: func(string) error {
			return &api.Error{Kind: api.KindServer, Status: 500, Detail: "cannot delete"}
		},
	}
	s := newDocStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	require.Error(t, s.Delete(context.Background(), "doc-1"))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1, "no optimistic removal before confirmation")
	assert.Equal(t, "doc-1", snap.Items[0].ID)
	assert.Empty(t, snap.PendingDelete)
	assert.Equal(t, "Failed to delete document: cannot delete", snap.Err)
}

func TestDocumentStore_DeletePendingStaysVisible(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeDocBackend{
		listFn: func() ([]model.Document, error) {
			return serverDocs("doc-1"), nil
		},
		deleteFn: func(string) error {
			<-release
			return nil
		},
	}
	s := newDocStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	done := make(chan error, 1)
	go func() { done <- s.Delete(context.Background(), "doc-1") }()

	require.Eventually(t, func() bool {
		return len(s.Snapshot().PendingDelete) == 1
	}, time.Second, time.Millisecond)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1, "pending delete must stay in items until confirmed")
	assert.Equal(t, []string{"doc-1"}, snap.PendingDelete)

	close(release)
	require.NoError(t, <-done)

	snap = s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.PendingDelete)
}

func TestDocumentStore_ConcurrentDeletesOnDistinctIDs(t *testing.T) {
	backend := &fakeDocBackend{listFn: func() ([]model.Document, error) {
		return serverDocs("doc-1", "doc-2", "doc-3"), nil
	}}
	s := newDocStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	var wg sync.WaitGroup
	for _, id := range []string{"doc-1", "doc-3"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, s.Delete(context.Background(), id))
		}(id)
	}
	wg.Wait()

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "doc-2", snap.Items[0].ID)
	assert.Empty(t, snap.PendingDelete)
}
