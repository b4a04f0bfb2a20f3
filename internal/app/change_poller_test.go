package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/example/contacts/internal/adapters/filesystem"
	"github.com/example/contacts/internal/adapters/sqlite"
	"github.com/example/contacts/internal/db"
	"github.com/example/contacts/internal/ports/primary"
)

// openFileService opens its own handle on the database at path and builds
// a service over it, as a separate contacts process would.
func openFileService(t *testing.T, path string) (*ContactServiceImpl, *sqlite.ContactRepository) {
	t.Helper()
	database, err := db.Open(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	photos, err := filesystem.NewPhotoStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create photo store: %v", err)
	}
	repo := sqlite.NewContactRepository(database)
	return newTestContactService(t, repo, photos), repo
}

// startPolling runs PollExternalChanges until the test ends.
func startPolling(t *testing.T, repo *sqlite.ContactRepository, service primary.ContactService) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := PollExternalChanges(ctx, repo, service, 10*time.Millisecond, discardLogger()); err != nil {
			t.Errorf("PollExternalChanges failed: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
}

func TestPollExternalChanges_SeesOtherProcessWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.db")
	watcher, watcherRepo := openFileService(t, path)
	writer, _ := openFileService(t, path)
	ctx := context.Background()

	sub := watcher.AllContacts()
	defer sub.Close()
	if snap := receive(t, sub); len(snap.Contacts) != 0 {
		t.Fatalf("expected empty initial list, got %d contacts", len(snap.Contacts))
	}

	startPolling(t, watcherRepo, watcher)

	c := ana()
	c.ID = mustApply(t, writer.InsertContact(ctx, c)).ContactID

	snap := receive(t, sub)
	if len(snap.Contacts) != 1 || snap.Contacts[0].GivenName != "Ana" {
		t.Fatalf("expected watcher to see the insert, got %+v", snap.Contacts)
	}

	mustApply(t, writer.DeleteContact(ctx, c))

	if snap := receive(t, sub); len(snap.Contacts) != 0 {
		t.Errorf("expected watcher to see the delete, got %+v", snap.Contacts)
	}
}

func TestPollExternalChanges_StopsWhenServiceCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.db")
	service, repo := openFileService(t, path)
	service.Close()

	done := make(chan error, 1)
	go func() {
		done <- PollExternalChanges(context.Background(), repo, service, 10*time.Millisecond, discardLogger())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil after close, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("poller kept running after the service closed")
	}
}

func TestContactService_RefreshPublishesOnlyChanges(t *testing.T) {
	repo := newFaultyContactRepository()
	service := newTestContactService(t, repo, newMockPhotoStore())
	ctx := context.Background()

	if res := mustApply(t, service.Refresh(ctx)); res.Applied {
		t.Error("refresh of an unchanged store must not apply")
	}
	if v := service.Snapshot().Version; v != 0 {
		t.Errorf("expected version 0, got %d", v)
	}

	// Written behind the service's back.
	if _, err := repo.Insert(ctx, contactToRecord(ana())); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if res := mustApply(t, service.Refresh(ctx)); !res.Applied {
		t.Error("refresh must publish an outside change")
	}
	snap := service.Snapshot()
	if snap.Version != 1 || len(snap.Contacts) != 1 {
		t.Errorf("expected version 1 with one contact, got version %d with %d", snap.Version, len(snap.Contacts))
	}

	repo.listErr = errors.New("database is locked")
	if _, err := wait(t, service.Refresh(ctx)); !errors.Is(err, primary.ErrStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
}
