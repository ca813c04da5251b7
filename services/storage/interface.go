package storage

import (
	"context"
	"io"
)

// ImageStore keeps uploaded images and hands back a public URL for them.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, folder, name string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
