package domain

import (
	"context"
	"io"
)

// Object storage under named "disks" (the public disk serves entity
// images and the FE config document).
type BlobStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, mime string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	DeleteDirectory(ctx context.Context, prefix string) error
	// Public URL for a stored object.
	URL(key string) string
}
