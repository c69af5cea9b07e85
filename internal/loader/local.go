package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// readPath reads a document from the host filesystem. Relative paths resolve
// against the working directory.
func readPath(_ context.Context, location string) ([]byte, error) {
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", location, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", location, err)
	}
	return data, nil
}

// fsReader reads documents out of a caller supplied fs.FS, usually an embed.FS.
func fsReader(files fs.FS) fetchFunc {
	return func(_ context.Context, location string) ([]byte, error) {
		if files == nil {
			return nil, ErrNoFileSystem
		}
		data, err := fs.ReadFile(files, filepath.ToSlash(location))
		if err != nil {
			return nil, fmt.Errorf("loader: read %s: %w", location, err)
		}
		return data, nil
	}
}
