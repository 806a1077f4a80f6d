package ports

import (
	"context"
	"io"
)

// MediaUpload is the stored result of an uploaded attachment.
type MediaUpload struct {
	// URL is the public, retrievable location of the asset.
	URL string
	// Key is the deletion handle used to remove the asset later.
	Key string
}

// MediaStore persists uploaded binary attachments. Implementations may be
// backed by an object-storage host or the local filesystem.
type MediaStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (*MediaUpload, error)
	Delete(ctx context.Context, key string) error
}
