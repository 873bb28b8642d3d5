package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"iolist/internal/domain"
	"iolist/internal/port"
)

type parseRunRow struct {
	ID          uuid.UUID        `db:"id"`
	SourceFile  string           `db:"source_file"`
	StorageKey  string           `db:"storage_key"`
	Status      domain.RunStatus `db:"status"`
	DeviceCount int              `db:"device_count"`
	TotalIO     int              `db:"total_io"`
	Result      []byte           `db:"result"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
}

func (row *parseRunRow) toDomain() (*domain.ParseRun, error) {
	run := &domain.ParseRun{
		ID:          row.ID,
		SourceFile:  row.SourceFile,
		StorageKey:  row.StorageKey,
		Status:      row.Status,
		DeviceCount: row.DeviceCount,
		TotalIO:     row.TotalIO,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Result, &run.Result); err != nil {
		return nil, fmt.Errorf("decoding result of run %s: %w", row.ID, err)
	}
	return run, nil
}

type parseRunRepo struct {
	db *sqlx.DB
}

// NewParseRunRepo creates a new PostgreSQL-backed ParseRunRepository.
// The result tables are stored as one JSONB document per run.
func NewParseRunRepo(db *sqlx.DB) port.ParseRunRepository {
	return &parseRunRepo{db: db}
}

const parseRunColumns = `id, source_file, storage_key, status, device_count, total_io, result, created_at, updated_at`

func (r *parseRunRepo) Create(ctx context.Context, run *domain.ParseRun) error {
	created := now()
	run.CreatedAt = created
	run.UpdatedAt = created

	result, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("parseRunRepo.Create encode: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO parse_runs (`+parseRunColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.SourceFile, run.StorageKey, run.Status,
		run.DeviceCount, run.TotalIO, result, run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("parseRunRepo.Create: %w", err)
	}
	return nil
}

func (r *parseRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRun, error) {
	var row parseRunRow
	err := r.db.GetContext(ctx, &row,
		"SELECT "+parseRunColumns+" FROM parse_runs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("parseRunRepo.GetByID: %w", err)
	}
	return row.toDomain()
}

func (r *parseRunRepo) GetLatest(ctx context.Context) (*domain.ParseRun, error) {
	var row parseRunRow
	err := r.db.GetContext(ctx, &row,
		"SELECT "+parseRunColumns+" FROM parse_runs ORDER BY created_at DESC LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("parseRunRepo.GetLatest: %w", err)
	}
	return row.toDomain()
}

func (r *parseRunRepo) List(ctx context.Context, offset, limit int) ([]domain.ParseRun, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM parse_runs"); err != nil {
		return nil, 0, fmt.Errorf("parseRunRepo.List count: %w", err)
	}

	var rows []parseRunRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+parseRunColumns+` FROM parse_runs
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("parseRunRepo.List: %w", err)
	}

	runs := make([]domain.ParseRun, 0, len(rows))
	for i := range rows {
		run, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, fmt.Errorf("parseRunRepo.List: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, total, nil
}

func (r *parseRunRepo) UpdateResult(ctx context.Context, run *domain.ParseRun) error {
	result, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("parseRunRepo.UpdateResult encode: %w", err)
	}

	var updatedAt time.Time
	err = r.db.QueryRowContext(ctx,
		`UPDATE parse_runs SET
			status = $1, device_count = $2, total_io = $3, result = $4,
			updated_at = GREATEST($5, updated_at + interval '1 microsecond')
		 WHERE id = $6 AND updated_at = $7
		 RETURNING updated_at`,
		run.Status, run.DeviceCount, run.TotalIO, result, now(), run.ID, run.UpdatedAt,
	).Scan(&updatedAt)
	if err == nil {
		run.UpdatedAt = updatedAt
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("parseRunRepo.UpdateResult: %w", err)
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM parse_runs WHERE id = $1)", run.ID); err != nil {
		return fmt.Errorf("parseRunRepo.UpdateResult exists: %w", err)
	}
	if !exists {
		return domain.ErrRunNotFound
	}
	return domain.ErrRunModified
}

// now matches the microsecond precision of timestamptz so that a stored
// updated_at compares equal to the value it was read back as.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
