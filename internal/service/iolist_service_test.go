package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iolist/internal/domain"
	"iolist/internal/dxf"
	"iolist/internal/iolist"
	"iolist/internal/port"
	"iolist/internal/repository/memory"
	"iolist/internal/service"
	"iolist/internal/storage/noop"
	"iolist/mocks"
)

func testCatalog() *domain.Catalog {
	return domain.NewCatalog([]domain.CatalogEntry{{
		Prefix: "FOO",
		Definition: domain.ComponentDefinition{
			Component: "Sensor", Subtype: "io", IOType: "2",
			Inputs: []string{"{position}_IN"}, Outputs: []string{"{position}_OUT"},
			InputCable: "M12", OutputCable: "M12-4",
		},
	}})
}

func testConfig() service.IOListServiceConfig {
	return service.IOListServiceConfig{MaxFileSizeBytes: 1024, Options: iolist.DefaultOptions()}
}

type fixture struct {
	source  *mocks.MockCatalogSource
	reader  *mocks.MockDrawingReader
	runs    *mocks.MockParseRunRepo
	storage *mocks.MockObjectStorage
	svc     service.IOListService
}

func newFixture() *fixture {
	f := &fixture{
		source:  new(mocks.MockCatalogSource),
		reader:  new(mocks.MockDrawingReader),
		runs:    new(mocks.MockParseRunRepo),
		storage: new(mocks.MockObjectStorage),
	}
	f.source.On("Describe").Return("test").Maybe()
	catalogs := service.NewCatalogService(f.source, nil, zap.NewNop())
	f.svc = service.NewIOListService(catalogs, f.reader, f.runs, f.storage, testConfig(), zap.NewNop())
	return f
}

func upload(name, body string) service.ParseInput {
	return service.ParseInput{FileName: name, Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestIOListService_ParseDrawing_Success(t *testing.T) {
	f := newFixture()
	f.source.On("Load", mock.Anything).Return(testCatalog(), nil)
	f.storage.On("Enabled").Return(false)
	f.reader.On("Read", mock.Anything, mock.Anything).Return([]domain.Entity{
		{Type: domain.EntityTypeInsert, Layer: "L", Attributes: []string{"FOO_00123"}},
	}, nil)
	f.runs.On("Create", mock.Anything, mock.AnythingOfType("*domain.ParseRun")).Return(nil)

	run, err := f.svc.ParseDrawing(context.Background(), upload("plant.dxf", "0\nEOF\n"))

	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.Equal(t, "plant.dxf", run.Result.SourceFile)
	assert.NotEmpty(t, run.Result.Timestamp)
	require.Len(t, run.Result.TotalIOList, 1)
	require.Len(t, run.Result.IOConfiguration, 2)
	assert.Equal(t, "I300.0", run.Result.IOConfiguration[0].IONumber)
	assert.Equal(t, "Q318.0", run.Result.IOConfiguration[1].IONumber)
	assert.Equal(t, domain.ParseStats{TotalComponents: 1, TotalIO: 2}, run.Stats())
	assert.Empty(t, run.StorageKey)
	f.runs.AssertExpectations(t)
}

func TestIOListService_ParseDrawing_FreshCountersPerRun(t *testing.T) {
	f := newFixture()
	f.source.On("Load", mock.Anything).Return(testCatalog(), nil)
	f.storage.On("Enabled").Return(false)
	f.reader.On("Read", mock.Anything, mock.Anything).Return([]domain.Entity{
		{Type: domain.EntityTypeInsert, Layer: "L", Attributes: []string{"FOO_00123"}},
	}, nil)
	f.runs.On("Create", mock.Anything, mock.Anything).Return(nil)

	first, err := f.svc.ParseDrawing(context.Background(), upload("a.dxf", "x"))
	require.NoError(t, err)
	second, err := f.svc.ParseDrawing(context.Background(), upload("a.dxf", "x"))
	require.NoError(t, err)

	assert.Equal(t, first.Result.IOConfiguration, second.Result.IOConfiguration)
	assert.Equal(t, 1, second.Result.TotalIOList[0].Sequence)
}

func TestIOListService_ParseDrawing_RejectsExtension(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ParseDrawing(context.Background(), upload("plant.dwg", "x"))

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	f.source.AssertNotCalled(t, "Load", mock.Anything)
}

func TestIOListService_ParseDrawing_AcceptsUppercaseExtension(t *testing.T) {
	f := newFixture()
	f.source.On("Load", mock.Anything).Return(testCatalog(), nil)
	f.storage.On("Enabled").Return(false)
	f.reader.On("Read", mock.Anything, mock.Anything).Return([]domain.Entity{}, nil)
	f.runs.On("Create", mock.Anything, mock.Anything).Return(nil)

	run, err := f.svc.ParseDrawing(context.Background(), upload("PLANT.DXF", "x"))

	require.NoError(t, err)
	assert.Empty(t, run.Result.TotalIOList)
}

func TestIOListService_ParseDrawing_TooLarge(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ParseDrawing(context.Background(), upload("a.dxf", strings.Repeat("x", 2048)))
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)

	// Unknown size is caught while reading.
	_, err = f.svc.ParseDrawing(context.Background(), service.ParseInput{
		FileName: "a.dxf", Size: -1, Body: strings.NewReader(strings.Repeat("x", 2048)),
	})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestIOListService_ParseDrawing_CatalogUnavailable(t *testing.T) {
	f := newFixture()
	f.source.On("Load", mock.Anything).Return(nil, errors.New("no such file"))

	_, err := f.svc.ParseDrawing(context.Background(), upload("a.dxf", "x"))

	assert.ErrorIs(t, err, domain.ErrCatalogLoad)
	f.runs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.reader.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
}

func TestIOListService_ParseDrawing_UnreadableDrawingStoresErrorRun(t *testing.T) {
	f := newFixture()
	f.source.On("Load", mock.Anything).Return(testCatalog(), nil)
	f.storage.On("Enabled").Return(false)
	f.reader.On("Read", mock.Anything, mock.Anything).Return(nil, dxf.ErrBinaryDXF)
	f.runs.On("Create", mock.Anything, mock.AnythingOfType("*domain.ParseRun")).Return(nil)

	run, err := f.svc.ParseDrawing(context.Background(), upload("a.dxf", "x"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDrawingRead)
	assert.ErrorIs(t, err, dxf.ErrBinaryDXF)
	require.NotNil(t, run)
	assert.Equal(t, domain.RunStatusFailed, run.Status)
	assert.True(t, run.Result.Failed())
	assert.Nil(t, run.Result.TotalIOList)
	f.runs.AssertExpectations(t)
}

func TestIOListService_ParseDrawing_UnreadableDrawingReportsLine(t *testing.T) {
	svc := service.NewIOListService(
		service.NewCatalogService(constSource{testCatalog()}, nil, zap.NewNop()),
		dxf.NewReader(),
		memory.NewParseRunRepo(),
		noop.NewNoopArchive(zap.NewNop()),
		testConfig(),
		zap.NewNop(),
	)

	_, err := svc.ParseDrawing(context.Background(), upload("a.dxf", "  0\nSECTION\nabc\nENTITIES\n"))

	var readErr *domain.DrawingReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, 3, readErr.Line)
	assert.ErrorIs(t, err, dxf.ErrInvalidGroupCode)
}

func TestIOListService_ParseDrawing_ArchivesDrawing(t *testing.T) {
	f := newFixture()
	f.source.On("Load", mock.Anything).Return(testCatalog(), nil)
	f.storage.On("Enabled").Return(true)
	f.storage.On("Put", mock.Anything, mock.MatchedBy(func(in port.PutObjectInput) bool {
		return strings.HasPrefix(in.Key, "drawings/") && strings.HasSuffix(in.Key, "/plant.dxf") &&
			in.ContentType == domain.ContentTypeDXF
	})).Return(&port.PutObjectOutput{}, nil)
	f.reader.On("Read", mock.Anything, mock.Anything).Return([]domain.Entity{}, nil)
	f.runs.On("Create", mock.Anything, mock.Anything).Return(nil)

	run, err := f.svc.ParseDrawing(context.Background(), upload("plant.dxf", "x"))

	require.NoError(t, err)
	assert.Equal(t, "drawings/"+run.ID.String()+"/plant.dxf", run.StorageKey)
}

func TestIOListService_ParseDrawing_ArchiveFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.source.On("Load", mock.Anything).Return(testCatalog(), nil)
	f.storage.On("Enabled").Return(true)
	f.storage.On("Put", mock.Anything, mock.Anything).Return(nil, errors.New("bucket gone"))
	f.reader.On("Read", mock.Anything, mock.Anything).Return([]domain.Entity{}, nil)
	f.runs.On("Create", mock.Anything, mock.Anything).Return(nil)

	run, err := f.svc.ParseDrawing(context.Background(), upload("plant.dxf", "x"))

	require.NoError(t, err)
	assert.Empty(t, run.StorageKey)
}

func TestIOListService_ParseDrawing_StoreFailureRemovesArchivedDrawing(t *testing.T) {
	f := newFixture()
	f.source.On("Load", mock.Anything).Return(testCatalog(), nil)
	f.storage.On("Enabled").Return(true)
	f.storage.On("Put", mock.Anything, mock.Anything).Return(&port.PutObjectOutput{}, nil)
	f.storage.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, "/plant.dxf")
	})).Return(nil)
	f.reader.On("Read", mock.Anything, mock.Anything).Return([]domain.Entity{}, nil)
	f.runs.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := f.svc.ParseDrawing(context.Background(), upload("plant.dxf", "x"))

	require.Error(t, err)
	f.storage.AssertExpectations(t)
}

func TestIOListService_DrawingURL(t *testing.T) {
	archived := uuid.New()
	bare := uuid.New()

	f := newFixture()
	f.runs.On("GetByID", mock.Anything, archived).
		Return(&domain.ParseRun{ID: archived, StorageKey: "drawings/x/plant.dxf"}, nil)
	f.runs.On("GetByID", mock.Anything, bare).Return(&domain.ParseRun{ID: bare}, nil)
	f.storage.On("PresignGet", mock.Anything, "drawings/x/plant.dxf").
		Return("https://bucket.example/drawings/x/plant.dxf?sig=1", nil)

	url, err := f.svc.DrawingURL(context.Background(), archived)
	require.NoError(t, err)
	assert.Contains(t, url, "plant.dxf")

	_, err = f.svc.DrawingURL(context.Background(), bare)
	assert.ErrorIs(t, err, domain.ErrDrawingNotArchived)
	f.storage.AssertNumberOfCalls(t, "PresignGet", 1)
}

func TestIOListService_Latest(t *testing.T) {
	f := newFixture()
	f.runs.On("GetLatest", mock.Anything).Return(nil, domain.ErrRunNotFound)

	_, err := f.svc.Latest(context.Background())

	assert.ErrorIs(t, err, domain.ErrNoResults)
}

func TestIOListService_ReassignDevice(t *testing.T) {
	svc := service.NewIOListService(
		service.NewCatalogService(constSource{testCatalog()}, nil, zap.NewNop()),
		dxf.NewReader(),
		memory.NewParseRunRepo(),
		noop.NewNoopArchive(zap.NewNop()),
		testConfig(),
		zap.NewNop(),
	)
	drawing := "0\nSECTION\n2\nENTITIES\n0\nINSERT\n8\nL\n2\nBLK\n0\nATTRIB\n1\nFOO_00123\n0\nSEQEND\n0\nENDSEC\n0\nEOF\n"
	run, err := svc.ParseDrawing(context.Background(), upload("plant.dxf", drawing))
	require.NoError(t, err)

	updated, err := svc.ReassignDevice(context.Background(), run.ID, 1, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, updated.Result.TotalIOList[0].IODevice)
	assert.Equal(t, "I42.0", updated.Result.IOConfiguration[0].IONumber)
	assert.Equal(t, "Q42.0", updated.Result.IOConfiguration[1].IONumber)

	stored, err := svc.GetByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Result, stored.Result)

	_, err = svc.ReassignDevice(context.Background(), run.ID, 7, 1)
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)

	_, err = svc.ReassignDevice(context.Background(), uuid.New(), 1, 1)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

// lockstepRuns makes the first two reads wait for each other, so both
// readers start from the same stored version of a run.
type lockstepRuns struct {
	port.ParseRunRepository
	reads atomic.Int32
	both  sync.WaitGroup
}

func newLockstepRuns(inner port.ParseRunRepository) *lockstepRuns {
	l := &lockstepRuns{ParseRunRepository: inner}
	l.both.Add(2)
	return l
}

func (l *lockstepRuns) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRun, error) {
	run, err := l.ParseRunRepository.GetByID(ctx, id)
	if l.reads.Add(1) <= 2 {
		l.both.Done()
		l.both.Wait()
	}
	return run, err
}

func TestIOListService_ReassignDevice_ConcurrentUpdatesAreKept(t *testing.T) {
	ctx := context.Background()
	svc := service.NewIOListService(
		service.NewCatalogService(constSource{testCatalog()}, nil, zap.NewNop()),
		dxf.NewReader(),
		newLockstepRuns(memory.NewParseRunRepo()),
		noop.NewNoopArchive(zap.NewNop()),
		testConfig(),
		zap.NewNop(),
	)
	drawing := "0\nSECTION\n2\nENTITIES\n" +
		"0\nINSERT\n8\nL\n2\nBLK\n0\nATTRIB\n1\nFOO_00123\n0\nSEQEND\n" +
		"0\nINSERT\n8\nL\n2\nBLK\n0\nATTRIB\n1\nFOO_00124\n0\nSEQEND\n" +
		"0\nENDSEC\n0\nEOF\n"
	run, err := svc.ParseDrawing(ctx, upload("plant.dxf", drawing))
	require.NoError(t, err)
	require.Len(t, run.Result.TotalIOList, 2)
	require.Len(t, run.Result.IOConfiguration, 4)

	targets := []struct{ sequence, ioDevice int }{{1, 11}, {2, 22}}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.ReassignDevice(ctx, run.ID, target.sequence, target.ioDevice)
		}()
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	stored, err := svc.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, stored.Result.TotalIOList[0].IODevice)
	assert.Equal(t, 22, stored.Result.TotalIOList[1].IODevice)
	for i, want := range []string{"I11.", "Q11.", "I22.", "Q22."} {
		got := stored.Result.IOConfiguration[i].IONumber
		assert.True(t, strings.HasPrefix(got, want), "row %d: %s", i, got)
	}
}

func TestIOListService_ReassignDevice_GivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture()
	run := &domain.ParseRun{
		ID:     uuid.New(),
		Status: domain.RunStatusCompleted,
		Result: domain.ParseResult{
			TotalIOList: []domain.IODevice{{Sequence: 1, Position: "+01", Subtype: "io"}},
		},
	}
	f.runs.On("GetByID", mock.Anything, run.ID).Return(run, nil)
	f.runs.On("UpdateResult", mock.Anything, mock.Anything).Return(domain.ErrRunModified)

	_, err := f.svc.ReassignDevice(context.Background(), run.ID, 1, 5)

	assert.ErrorIs(t, err, domain.ErrRunModified)
	f.runs.AssertNumberOfCalls(t, "GetByID", 3)
	f.runs.AssertNumberOfCalls(t, "UpdateResult", 3)
}

func TestIOListService_Export(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	run := &domain.ParseRun{ID: id, SourceFile: "Plant A.dxf", Result: domain.ParseResult{}}
	f.runs.On("GetByID", mock.Anything, id).Return(run, nil)
	f.storage.On("Enabled").Return(false)

	xlsx, err := f.svc.Export(context.Background(), id, service.ExportXLSX)
	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypeXLSX, xlsx.ContentType)
	assert.True(t, strings.HasPrefix(xlsx.FileName, "Plant_A_"))
	assert.True(t, strings.HasSuffix(xlsx.FileName, ".xlsx"))
	assert.NotEmpty(t, xlsx.Data)

	csv, err := f.svc.Export(context.Background(), id, service.ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypeCSV, csv.ContentType)
	assert.True(t, strings.HasPrefix(string(csv.Data), "\xEF\xBB\xBFIO device,"))
}

func TestIOListService_Export_FailedRun(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.runs.On("GetByID", mock.Anything, id).
		Return(&domain.ParseRun{ID: id, Result: domain.ParseResult{Error: "unreadable"}}, nil)

	_, err := f.svc.Export(context.Background(), id, service.ExportCSV)

	assert.ErrorIs(t, err, domain.ErrRunFailed)
}

type constSource struct{ cat *domain.Catalog }

func (s constSource) Load(context.Context) (*domain.Catalog, error) { return s.cat, nil }
func (s constSource) Describe() string                             { return "const" }

var _ port.CatalogSource = constSource{}

func TestCatalogService_ImportReadOnly(t *testing.T) {
	svc := service.NewCatalogService(constSource{testCatalog()}, nil, zap.NewNop())

	_, err := svc.Import(context.Background(), []byte(`{}`))

	assert.ErrorIs(t, err, service.ErrCatalogReadOnly)
}

func TestCatalogService_Import(t *testing.T) {
	store := new(mocks.MockCatalogSource)
	store.On("Describe").Return("postgres:components")
	store.On("Replace", mock.Anything, mock.AnythingOfType("*domain.Catalog")).Return(nil)
	svc := service.NewCatalogService(store, store, zap.NewNop())

	cat, err := svc.Import(context.Background(), []byte(`{"B": {"Component": "x"}, "A": {"Component": "y", "Subtype": "io", "IO_Type": 1}}`))

	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())
	assert.Equal(t, "B", cat.Entries()[0].Prefix)
	store.AssertExpectations(t)
}

func TestCatalogService_ImportRejectsGarbage(t *testing.T) {
	store := new(mocks.MockCatalogSource)
	svc := service.NewCatalogService(store, store, zap.NewNop())

	_, err := svc.Import(context.Background(), []byte(`[1, 2]`))

	assert.ErrorIs(t, err, domain.ErrCatalogLoad)
	store.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}
