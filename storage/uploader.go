package storage

import (
	"context"
	"io"
)

// UploadFile is one file handed to the uploader: competition images arrive as
// multipart parts and are streamed through without buffering.
type UploadFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type FileUploader interface {
	Upload(ctx context.Context, key string, file UploadFile) error

	Delete(ctx context.Context, key string) error

	PublicURL(key string) string
}
