package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iolist/internal/domain"
	"iolist/internal/repository/memory"
)

func newRun(source string) *domain.ParseRun {
	out := "S_0001_Q"
	return &domain.ParseRun{
		ID:          uuid.New(),
		SourceFile:  source,
		Status:      domain.RunStatusCompleted,
		DeviceCount: 1,
		TotalIO:     2,
		Result: domain.ParseResult{
			SourceFile: source,
			TotalIOList: []domain.IODevice{
				{Sequence: 1, Position: "00.00100", Inputs: "S_0001_I", Outputs: &out, TotalIO: 2},
			},
		},
	}
}

func TestParseRunRepo_CreateAndGet(t *testing.T) {
	repo := memory.NewParseRunRepo()
	ctx := context.Background()
	run := newRun("a.dxf")

	require.NoError(t, repo.Create(ctx, run))
	assert.False(t, run.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.dxf", got.SourceFile)
	assert.Equal(t, run.Result.TotalIOList, got.Result.TotalIOList)
}

func TestParseRunRepo_GetByID_NotFound(t *testing.T) {
	repo := memory.NewParseRunRepo()

	_, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestParseRunRepo_ReadsAreCopies(t *testing.T) {
	repo := memory.NewParseRunRepo()
	ctx := context.Background()
	run := newRun("a.dxf")
	require.NoError(t, repo.Create(ctx, run))

	run.Result.TotalIOList[0].Position = "changed by caller"
	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	*got.Result.TotalIOList[0].Outputs = "changed by reader"

	again, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "00.00100", again.Result.TotalIOList[0].Position)
	assert.Equal(t, "S_0001_Q", *again.Result.TotalIOList[0].Outputs)
}

func TestParseRunRepo_GetLatest(t *testing.T) {
	repo := memory.NewParseRunRepo()
	ctx := context.Background()

	_, err := repo.GetLatest(ctx)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	require.NoError(t, repo.Create(ctx, newRun("first.dxf")))
	require.NoError(t, repo.Create(ctx, newRun("second.dxf")))

	latest, err := repo.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second.dxf", latest.SourceFile)
}

func TestParseRunRepo_ListNewestFirst(t *testing.T) {
	repo := memory.NewParseRunRepo()
	ctx := context.Background()
	for _, name := range []string{"a.dxf", "b.dxf", "c.dxf"} {
		require.NoError(t, repo.Create(ctx, newRun(name)))
	}

	runs, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.dxf", runs[0].SourceFile)
	assert.Equal(t, "b.dxf", runs[1].SourceFile)

	runs, _, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a.dxf", runs[0].SourceFile)

	runs, _, err = repo.List(ctx, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestParseRunRepo_UpdateResult(t *testing.T) {
	repo := memory.NewParseRunRepo()
	ctx := context.Background()
	run := newRun("a.dxf")
	require.NoError(t, repo.Create(ctx, run))
	created := run.CreatedAt

	run.Result.TotalIOList[0].IODevice = 7
	require.NoError(t, repo.UpdateResult(ctx, run))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Result.TotalIOList[0].IODevice)
	assert.Equal(t, created, got.CreatedAt)

	assert.ErrorIs(t, repo.UpdateResult(ctx, newRun("ghost.dxf")), domain.ErrRunNotFound)
}

func TestParseRunRepo_UpdateResult_RejectsStaleVersion(t *testing.T) {
	repo := memory.NewParseRunRepo()
	ctx := context.Background()
	run := newRun("a.dxf")
	require.NoError(t, repo.Create(ctx, run))

	first, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)

	first.Result.TotalIOList[0].IODevice = 11
	require.NoError(t, repo.UpdateResult(ctx, first))
	assert.True(t, first.UpdatedAt.After(second.UpdatedAt))

	second.Result.TotalIOList[0].IODevice = 22
	assert.ErrorIs(t, repo.UpdateResult(ctx, second), domain.ErrRunModified)

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, got.Result.TotalIOList[0].IODevice)

	// The version returned by a successful update can be written again.
	first.Result.TotalIOList[0].IODevice = 12
	assert.NoError(t, repo.UpdateResult(ctx, first))
}
