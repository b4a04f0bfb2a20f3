// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/example/contacts/internal/ports/secondary"
)

// PhotoStore implements secondary.PhotoStore on a local directory.
type PhotoStore struct {
	dir string
}

// NewPhotoStore creates a photo store rooted at dir, creating it if needed.
func NewPhotoStore(dir string) (*PhotoStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve photo directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &PhotoStore{dir: abs}, nil
}

// Import copies srcPath into the store under a generated name (img_<uuid>.<ext>).
// The copy is written to a temp file, synced, then renamed into place.
func (s *PhotoStore) Import(ctx context.Context, srcPath string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open photo: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat photo: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("photo %s is a directory", srcPath)
	}

	ext := strings.ToLower(filepath.Ext(srcPath))
	if ext == "" {
		ext = ".jpg"
	}
	fullPath := filepath.Join(s.dir, "img_"+uuid.NewString()+ext)
	tmpPath := fullPath + ".tmp"

	dst, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to copy photo: %w", err)
	}

	if err := dst.Sync(); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to sync photo: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close photo: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	return fullPath, nil
}

// Remove deletes the photo at path. A missing file is reported with an
// error wrapping fs.ErrNotExist.
func (s *PhotoStore) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	return nil
}

// Exists checks if a photo file exists at path.
func (s *PhotoStore) Exists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check photo: %w", err)
	}
	return !info.IsDir(), nil
}

// Dir returns the directory photos are imported into.
func (s *PhotoStore) Dir() string {
	return s.dir
}

// Ensure PhotoStore implements the interface.
var _ secondary.PhotoStore = (*PhotoStore)(nil)
