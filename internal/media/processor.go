// Package media stores uploaded entity images on the public disk and
// records them in the database.
package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

const maxUploadSize = 10 << 20

type Processor struct {
	logger  *log.Logger
	storage domain.BlobStorage
	images  domain.ImagesRepo
}

func New(base *log.Logger, storage domain.BlobStorage, images domain.ImagesRepo) *Processor {
	logger := log.New(base.Writer(), base.Prefix()+"[media]", base.Flags())
	return &Processor{logger: logger, storage: storage, images: images}
}

// Process stores the upload under images/<entity>/ and creates the
// images row. The stored key uses a random name, the original filename
// only contributes its extension.
func (p *Processor) Process(ctx context.Context, r io.Reader, size int64, filename, mime, entity string) (domain.Image, error) {
	if !allowedMIME[mime] {
		ve := domain.NewValidationError()
		ve.Add("file", "unsupported image type "+mime)
		return domain.Image{}, ve
	}
	if size <= 0 || size > maxUploadSize {
		ve := domain.NewValidationError()
		ve.Add("file", "file size out of bounds")
		return domain.Image{}, ve
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("images/%s/%s%s", entity, uuid.NewString(), ext)

	if err := p.storage.Put(ctx, key, r, size, mime); err != nil {
		p.logger.Printf("put %s: %v", key, err)
		return domain.Image{}, err
	}

	img, err := p.images.CreateImage(ctx, domain.Image{Path: key})
	if err != nil {
		// best effort cleanup, the blob must not outlive the row
		if delErr := p.storage.Delete(ctx, key); delErr != nil {
			p.logger.Printf("cleanup %s: %v", key, delErr)
		}
		return domain.Image{}, err
	}

	p.logger.Printf("stored %s (%d bytes)", key, size)
	return img, nil
}

// Remove deletes the image row and its blob.
func (p *Processor) Remove(ctx context.Context, id int64) error {
	img, err := p.images.ImageByID(ctx, id)
	if err != nil {
		return err
	}
	if err := p.images.DeleteImage(ctx, id); err != nil {
		return err
	}
	if err := p.storage.Delete(ctx, img.Path); err != nil {
		p.logger.Printf("delete blob %s: %v", img.Path, err)
	}
	return nil
}
