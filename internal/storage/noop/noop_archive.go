package noop

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"iolist/internal/port"
)

// ErrArchiveDisabled is returned when asking the noop archive for a link.
var ErrArchiveDisabled = errors.New("drawing archive is disabled")

type noopArchive struct {
	logger *zap.Logger
}

// NewNoopArchive creates an ObjectStorage that discards writes. It is used
// when no archive is configured so that parsing never depends on storage.
func NewNoopArchive(logger *zap.Logger) port.ObjectStorage {
	return &noopArchive{logger: logger}
}

func (a *noopArchive) Enabled() bool { return false }

func (a *noopArchive) Put(_ context.Context, input port.PutObjectInput) (*port.PutObjectOutput, error) {
	n, err := io.Copy(io.Discard, input.Body)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("archive disabled, object discarded",
		zap.String("key", input.Key), zap.Int64("bytes", n))
	return &port.PutObjectOutput{}, nil
}

func (a *noopArchive) Delete(context.Context, string) error {
	return nil
}

func (a *noopArchive) PresignGet(context.Context, string) (string, error) {
	return "", ErrArchiveDisabled
}
