package secondary

import "context"

// PhotoStore defines the secondary port for contact photo files.
// The store owns the files; contacts only keep a path to them.
type PhotoStore interface {
	// Import copies the file at srcPath into the store and returns the stored path.
	Import(ctx context.Context, srcPath string) (string, error)

	// Remove deletes a stored photo. A missing file yields an error
	// satisfying errors.Is(err, fs.ErrNotExist).
	Remove(ctx context.Context, path string) error

	// Exists reports whether a photo file is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Dir returns the directory new photos are written to.
	Dir() string
}
