package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestPhotoStore(t *testing.T) *PhotoStore {
	t.Helper()
	store, err := NewPhotoStore(filepath.Join(t.TempDir(), "photos"))
	if err != nil {
		t.Fatalf("NewPhotoStore failed: %v", err)
	}
	return store
}

func writeSourcePhoto(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write source photo: %v", err)
	}
	return path
}

func TestNewPhotoStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "photos")

	store, err := NewPhotoStore(dir)
	if err != nil {
		t.Fatalf("NewPhotoStore failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected photo directory to exist: %v", err)
	}
	if !filepath.IsAbs(store.Dir()) {
		t.Errorf("expected absolute dir, got %q", store.Dir())
	}
}

func TestPhotoStore_Import(t *testing.T) {
	store := newTestPhotoStore(t)
	ctx := context.Background()
	src := writeSourcePhoto(t, "Selfie.PNG", "fake-png-bytes")

	path, err := store.Import(ctx, src)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if filepath.Dir(path) != store.Dir() {
		t.Errorf("expected photo inside %s, got %s", store.Dir(), path)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "img_") || !strings.HasSuffix(base, ".png") {
		t.Errorf("unexpected photo name %q", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read imported photo: %v", err)
	}
	if string(data) != "fake-png-bytes" {
		t.Errorf("unexpected content %q", data)
	}

	// Source is left in place
	if _, err := os.Stat(src); err != nil {
		t.Errorf("expected source to survive import: %v", err)
	}

	// No temp files remain
	entries, _ := os.ReadDir(store.Dir())
	if len(entries) != 1 {
		t.Errorf("expected exactly 1 file in photo dir, got %d", len(entries))
	}
}

func TestPhotoStore_Import_DefaultExtension(t *testing.T) {
	store := newTestPhotoStore(t)
	src := writeSourcePhoto(t, "photo", "bytes")

	path, err := store.Import(context.Background(), src)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if filepath.Ext(path) != ".jpg" {
		t.Errorf("expected .jpg extension, got %q", filepath.Ext(path))
	}
}

func TestPhotoStore_Import_DistinctNames(t *testing.T) {
	store := newTestPhotoStore(t)
	src := writeSourcePhoto(t, "a.jpg", "bytes")

	first, _ := store.Import(context.Background(), src)
	second, _ := store.Import(context.Background(), src)
	if first == second {
		t.Errorf("expected distinct names, both were %q", first)
	}
}

func TestPhotoStore_Import_MissingSource(t *testing.T) {
	store := newTestPhotoStore(t)

	_, err := store.Import(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestPhotoStore_Import_Directory(t *testing.T) {
	store := newTestPhotoStore(t)

	_, err := store.Import(context.Background(), t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
}

func TestPhotoStore_RemoveAndExists(t *testing.T) {
	store := newTestPhotoStore(t)
	ctx := context.Background()
	path, _ := store.Import(ctx, writeSourcePhoto(t, "a.jpg", "bytes"))

	exists, err := store.Exists(ctx, path)
	if err != nil || !exists {
		t.Fatalf("expected photo to exist, got %v (%v)", exists, err)
	}

	if err := store.Remove(ctx, path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	exists, _ = store.Exists(ctx, path)
	if exists {
		t.Error("expected photo to be gone")
	}

	err = store.Remove(ctx, path)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist on second remove, got %v", err)
	}
}

func TestPhotoStore_Exists_Directory(t *testing.T) {
	store := newTestPhotoStore(t)

	exists, err := store.Exists(context.Background(), store.Dir())
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected a directory not to count as a photo")
	}
}
