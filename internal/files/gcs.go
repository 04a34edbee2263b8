package files

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS serves product files from a Cloud Storage bucket.
type GCS struct {
	bucket     *storage.BucketHandle
	client     *storage.Client
	ownsClient bool
}

// GCSOption customises GCS construction.
type GCSOption func(*gcsConfig)

type gcsConfig struct {
	client     *storage.Client
	clientOpts []option.ClientOption
}

// WithStorageClient injects a preconfigured storage client (primarily for tests).
func WithStorageClient(client *storage.Client) GCSOption {
	return func(cfg *gcsConfig) {
		cfg.client = client
	}
}

// WithClientOptions forwards Cloud client options when constructing the storage client.
func WithClientOptions(opts ...option.ClientOption) GCSOption {
	return func(cfg *gcsConfig) {
		cfg.clientOpts = append(cfg.clientOpts, opts...)
	}
}

// NewGCS builds a Store over the named bucket.
func NewGCS(ctx context.Context, bucket string, opts ...GCSOption) (*GCS, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("files: bucket name is required")
	}

	cfg := gcsConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := &GCS{}
	if cfg.client != nil {
		store.client = cfg.client
	} else {
		client, err := storage.NewClient(ctx, cfg.clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("files: create storage client: %w", err)
		}
		store.client = client
		store.ownsClient = true
	}
	store.bucket = store.client.Bucket(bucket)
	return store, nil
}

// Open streams the named object from the bucket.
func (g *GCS) Open(ctx context.Context, key string) (*Object, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}

	reader, err := g.bucket.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("files: open object %s: %w", key, err)
	}

	contentType := reader.Attrs.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Object{
		ReadCloser:  reader,
		Size:        reader.Attrs.Size,
		ContentType: contentType,
	}, nil
}

// Close releases the underlying storage client when owned by the store.
func (g *GCS) Close() error {
	if g.ownsClient && g.client != nil {
		return g.client.Close()
	}
	return nil
}
