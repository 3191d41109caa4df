package domain

import (
	"context"
	"io"
)

// MediaProcessor turns an uploaded file into a stored image record.
// Implementations may convert, resize, thumbnail or watermark per
// entity-specific dimension configuration; the caller only sees the
// resulting Image row.
type MediaProcessor interface {
	Process(ctx context.Context, r io.Reader, size int64, filename, mime, entity string) (Image, error)
	// Remove deletes both the image record and its stored blob.
	Remove(ctx context.Context, id int64) error
}
