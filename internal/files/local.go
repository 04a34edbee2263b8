package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Dir serves product files from a local directory, used for development and tests.
type Dir struct {
	root string
}

// NewDir builds a Store over the given directory.
func NewDir(root string) (*Dir, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("files: directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("files: resolve directory: %w", err)
	}
	return &Dir{root: abs}, nil
}

// Open opens the named file. Keys resolving outside the directory are rejected.
func (d *Dir) Open(_ context.Context, key string) (*Object, error) {
	cleaned := filepath.Clean("/" + key)
	path := filepath.Join(d.root, cleaned)
	if !strings.HasPrefix(path, d.root+string(filepath.Separator)) {
		return nil, ErrNotFound
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("files: open %s: %w", key, err)
	}

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		if err == nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("files: stat %s: %w", key, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Object{
		ReadCloser:  file,
		Size:        info.Size(),
		ContentType: contentType,
	}, nil
}
