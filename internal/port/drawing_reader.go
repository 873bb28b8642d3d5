package port

import (
	"context"
	"io"

	"iolist/internal/domain"
)

// DrawingReader yields the entities of a drawing in file order. Reading is
// all or nothing: on error no entities are returned.
type DrawingReader interface {
	Read(ctx context.Context, r io.Reader) ([]domain.Entity, error)
}
