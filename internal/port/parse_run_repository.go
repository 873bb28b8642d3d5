package port

import (
	"context"

	"github.com/google/uuid"

	"iolist/internal/domain"
)

// ParseRunRepository stores parse runs.
type ParseRunRepository interface {
	Create(ctx context.Context, run *domain.ParseRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRun, error)
	GetLatest(ctx context.Context) (*domain.ParseRun, error)
	List(ctx context.Context, offset, limit int) ([]domain.ParseRun, int, error)
	// UpdateResult stores run only if the stored row still carries
	// run.UpdatedAt, and returns domain.ErrRunModified otherwise. On
	// success run.UpdatedAt holds the new version.
	UpdateResult(ctx context.Context, run *domain.ParseRun) error
}
