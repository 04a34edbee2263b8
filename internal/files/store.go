// Package files serves the purchased product files from local disk or Cloud Storage.
package files

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("files: object not found")

// Object is an opened product file ready to be streamed to the client.
type Object struct {
	io.ReadCloser
	Size        int64
	ContentType string
}

// Store abstracts where the purchased files live.
type Store interface {
	Open(ctx context.Context, key string) (*Object, error)
}
