package port

import (
	"context"
	"io"
)

// PutObjectInput describes one object written to the drawing archive.
type PutObjectInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// PutObjectOutput contains the result of a successful write.
type PutObjectOutput struct {
	Location string
	ETag     string
}

// ObjectStorage is the archive for uploaded drawings and generated exports.
// Implementations own their bucket; callers only deal in keys.
type ObjectStorage interface {
	Put(ctx context.Context, input PutObjectInput) (*PutObjectOutput, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
	Enabled() bool
}
