package policies

import (
	"context"
	"io"
)

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) (string, error)
}
