// Package memory holds in-process repositories for single-node deployments
// and the parsedxf CLI. Stored values are copied on every read and write.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"iolist/internal/domain"
	"iolist/internal/port"
)

type parseRunRepo struct {
	mu    sync.RWMutex
	runs  map[uuid.UUID]*domain.ParseRun
	order []uuid.UUID // creation order, oldest first
	now   func() time.Time
}

// NewParseRunRepo creates an in-memory ParseRunRepository.
func NewParseRunRepo() port.ParseRunRepository {
	return &parseRunRepo{
		runs: make(map[uuid.UUID]*domain.ParseRun),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func cloneRun(run *domain.ParseRun) *domain.ParseRun {
	out := *run
	out.Result = run.Result.Clone()
	return &out
}

func (r *parseRunRepo) Create(_ context.Context, run *domain.ParseRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	run.CreatedAt = now
	run.UpdatedAt = now
	if _, exists := r.runs[run.ID]; !exists {
		r.order = append(r.order, run.ID)
	}
	r.runs[run.ID] = cloneRun(run)
	return nil
}

func (r *parseRunRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ParseRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return cloneRun(run), nil
}

func (r *parseRunRepo) GetLatest(_ context.Context) (*domain.ParseRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil, domain.ErrRunNotFound
	}
	return cloneRun(r.runs[r.order[len(r.order)-1]]), nil
}

// List returns runs newest first.
func (r *parseRunRepo) List(_ context.Context, offset, limit int) ([]domain.ParseRun, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	runs := []domain.ParseRun{}
	for i := total - 1 - offset; i >= 0; i-- {
		if limit > 0 && len(runs) == limit {
			break
		}
		runs = append(runs, *cloneRun(r.runs[r.order[i]]))
	}
	return runs, total, nil
}

func (r *parseRunRepo) UpdateResult(_ context.Context, run *domain.ParseRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.runs[run.ID]
	if !ok {
		return domain.ErrRunNotFound
	}
	if !stored.UpdatedAt.Equal(run.UpdatedAt) {
		return domain.ErrRunModified
	}
	now := r.now()
	if !now.After(stored.UpdatedAt) {
		now = stored.UpdatedAt.Add(time.Nanosecond)
	}
	run.CreatedAt = stored.CreatedAt
	run.UpdatedAt = now
	r.runs[run.ID] = cloneRun(run)
	return nil
}
