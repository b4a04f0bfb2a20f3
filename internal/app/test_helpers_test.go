package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/example/contacts/internal/adapters/memory"
	"github.com/example/contacts/internal/ports/primary"
	"github.com/example/contacts/internal/ports/secondary"
)

// Ensure mocks implement the interfaces.
var (
	_ secondary.ContactRepository = (*faultyContactRepository)(nil)
	_ secondary.PhotoStore        = (*mockPhotoStore)(nil)
)

// faultyContactRepository wraps the in-memory repository and injects errors.
type faultyContactRepository struct {
	*memory.ContactRepository
	insertErr error
	updateErr error
	deleteErr error
	getErr    error
	listErr   error
}

func newFaultyContactRepository() *faultyContactRepository {
	return &faultyContactRepository{ContactRepository: memory.NewContactRepository()}
}

func (r *faultyContactRepository) Insert(ctx context.Context, c *secondary.ContactRecord) (int64, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	return r.ContactRepository.Insert(ctx, c)
}

func (r *faultyContactRepository) Update(ctx context.Context, c *secondary.ContactRecord) (bool, error) {
	if r.updateErr != nil {
		return false, r.updateErr
	}
	return r.ContactRepository.Update(ctx, c)
}

func (r *faultyContactRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	return r.ContactRepository.Delete(ctx, id)
}

func (r *faultyContactRepository) GetByID(ctx context.Context, id int64) (*secondary.ContactRecord, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.ContactRepository.GetByID(ctx, id)
}

func (r *faultyContactRepository) List(ctx context.Context) ([]*secondary.ContactRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.ContactRepository.List(ctx)
}

// mockPhotoStore records removals; paths in files exist.
type mockPhotoStore struct {
	mu        sync.Mutex
	files     map[string]bool
	removed   []string
	removeErr error
}

func newMockPhotoStore(paths ...string) *mockPhotoStore {
	m := &mockPhotoStore{files: make(map[string]bool)}
	for _, p := range paths {
		m.files[p] = true
	}
	return m
}

func (m *mockPhotoStore) Import(ctx context.Context, srcPath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "/photos/" + srcPath
	m.files[path] = true
	return path, nil
}

func (m *mockPhotoStore) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, path)
	if m.removeErr != nil {
		return m.removeErr
	}
	if !m.files[path] {
		return fmt.Errorf("failed to remove photo: %w", fs.ErrNotExist)
	}
	delete(m.files, path)
	return nil
}

func (m *mockPhotoStore) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[path], nil
}

func (m *mockPhotoStore) Dir() string {
	return "/photos"
}

func (m *mockPhotoStore) removedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.removed...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// wait resolves op or fails the test after a second.
func wait(t *testing.T, op primary.Operation) (*primary.MutationResult, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res, err := op.Wait(ctx)
	if ctx.Err() != nil {
		t.Fatalf("operation did not resolve: %v", ctx.Err())
	}
	return res, err
}

// mustApply waits for op and fails the test on error.
func mustApply(t *testing.T, op primary.Operation) *primary.MutationResult {
	t.Helper()
	res, err := wait(t, op)
	if err != nil {
		t.Fatalf("mutation failed: %v", err)
	}
	return res
}

// receive reads the next snapshot from sub or fails the test after a second.
func receive(t *testing.T, sub primary.Subscription) primary.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.C():
		if !ok {
			t.Fatal("subscription closed")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}
	return primary.Snapshot{}
}
