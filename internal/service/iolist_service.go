package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"iolist/internal/csvexport"
	"iolist/internal/domain"
	"iolist/internal/iolist"
	"iolist/internal/metrics"
	"iolist/internal/port"
	"iolist/internal/xlsxexport"
)

// TimestampLayout is the layout of ParseResult.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// ParseInput is the DTO for a drawing upload.
type ParseInput struct {
	FileName string
	Size     int64 // -1 when unknown
	Body     io.Reader
}

// ExportFormat selects the file type of an export.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

// Export is a rendered result file.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

// IOListService defines the drawing parse contract.
type IOListService interface {
	ParseDrawing(ctx context.Context, input ParseInput) (*domain.ParseRun, error)
	Latest(ctx context.Context) (*domain.ParseRun, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRun, error)
	List(ctx context.Context, offset, limit int) ([]domain.ParseRun, int, error)
	ReassignDevice(ctx context.Context, id uuid.UUID, sequence, ioDevice int) (*domain.ParseRun, error)
	Export(ctx context.Context, id uuid.UUID, format ExportFormat) (*Export, error)
	DrawingURL(ctx context.Context, id uuid.UUID) (string, error)
}

// IOListServiceConfig holds parse settings.
type IOListServiceConfig struct {
	MaxFileSizeBytes int64
	Options          iolist.Options
}

type ioListService struct {
	catalog CatalogService
	reader  port.DrawingReader
	runs    port.ParseRunRepository
	storage port.ObjectStorage
	cfg     IOListServiceConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewIOListService creates a new IOListService implementation.
func NewIOListService(
	catalog CatalogService,
	reader port.DrawingReader,
	runs port.ParseRunRepository,
	storage port.ObjectStorage,
	cfg IOListServiceConfig,
	logger *zap.Logger,
) IOListService {
	return &ioListService{
		catalog: catalog,
		reader:  reader,
		runs:    runs,
		storage: storage,
		cfg:     cfg,
		logger:  logger.Named("iolist"),
		now:     time.Now,
	}
}

// ParseDrawing reads an uploaded drawing, builds both tables with fresh
// address counters and stores the run.
//
// An unreadable drawing is still stored, as an error-shaped run, and
// returned together with its *domain.DrawingReadError. A catalog that
// cannot be loaded aborts before anything is stored.
func (s *ioListService) ParseDrawing(ctx context.Context, input ParseInput) (*domain.ParseRun, error) {
	start := time.Now()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		metrics.ParsesTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrUnsupportedFileType
	}
	if input.Size > s.cfg.MaxFileSizeBytes {
		metrics.ParsesTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.cfg.MaxFileSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxFileSizeBytes {
		metrics.ParsesTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrFileTooLarge
	}

	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		metrics.ParsesTotal.WithLabelValues("catalog_error").Inc()
		return nil, err
	}

	run := &domain.ParseRun{
		ID:         uuid.New(),
		SourceFile: input.FileName,
	}
	log := s.logger.With(zap.String("run_id", run.ID.String()), zap.String("source_file", input.FileName))
	run.StorageKey = s.archive(ctx, log, fmt.Sprintf("drawings/%s/%s", run.ID, filepath.Base(input.FileName)),
		domain.ContentTypeDXF, data)

	timestamp := s.now().Format(TimestampLayout)
	entities, readErr := s.reader.Read(ctx, bytes.NewReader(data))
	if readErr != nil {
		drawingErr := &domain.DrawingReadError{SourceFile: input.FileName, Err: readErr}
		var lined interface{ LineNumber() int }
		if errors.As(readErr, &lined) {
			drawingErr.Line = lined.LineNumber()
		}
		log.Warn("drawing unreadable", zap.Error(drawingErr))

		run.Status = domain.RunStatusFailed
		run.Result = domain.ParseResult{
			Error:      drawingErr.Error(),
			Timestamp:  timestamp,
			SourceFile: input.FileName,
		}
		if err := s.runs.Create(ctx, run); err != nil {
			s.discard(ctx, log, run.StorageKey)
			return nil, fmt.Errorf("storing failed run: %w", err)
		}
		metrics.ParsesTotal.WithLabelValues(string(domain.RunStatusFailed)).Inc()
		metrics.ParseDuration.Observe(time.Since(start).Seconds())
		return run, drawingErr
	}

	report := iolist.Aggregate(entities, cat, s.cfg.Options)
	logReport(log, &report)
	recordReport(&report)

	run.Status = domain.RunStatusCompleted
	run.Result = domain.ParseResult{
		TotalIOList:     report.Devices,
		IOConfiguration: report.Wiring,
		Timestamp:       timestamp,
		SourceFile:      input.FileName,
	}
	run.DeviceCount = len(report.Devices)
	run.TotalIO = run.Result.TotalIO()

	if err := s.runs.Create(ctx, run); err != nil {
		s.discard(ctx, log, run.StorageKey)
		return nil, fmt.Errorf("storing run: %w", err)
	}

	metrics.ParsesTotal.WithLabelValues(string(domain.RunStatusCompleted)).Inc()
	metrics.ParseDuration.Observe(time.Since(start).Seconds())
	log.Info("drawing parsed",
		zap.Int("devices", run.DeviceCount),
		zap.Int("total_io", run.TotalIO),
		zap.Duration("elapsed", time.Since(start)))
	return run, nil
}

func (s *ioListService) Latest(ctx context.Context) (*domain.ParseRun, error) {
	run, err := s.runs.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			return nil, domain.ErrNoResults
		}
		return nil, err
	}
	return run, nil
}

func (s *ioListService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRun, error) {
	return s.runs.GetByID(ctx, id)
}

func (s *ioListService) List(ctx context.Context, offset, limit int) ([]domain.ParseRun, int, error) {
	return s.runs.List(ctx, offset, limit)
}

// readdressAttempts bounds how often a readdress is reapplied after a
// concurrent update of the same run.
const readdressAttempts = 3

// ReassignDevice rereads the run and applies the change again when another
// update won the race, so concurrent readdresses of one run are all kept.
func (s *ioListService) ReassignDevice(ctx context.Context, id uuid.UUID, sequence, ioDevice int) (*domain.ParseRun, error) {
	for attempt := 1; ; attempt++ {
		run, err := s.runs.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := iolist.Readdress(&run.Result, sequence, ioDevice); err != nil {
			return nil, err
		}
		err = s.runs.UpdateResult(ctx, run)
		if errors.Is(err, domain.ErrRunModified) && attempt < readdressAttempts {
			s.logger.Debug("run modified during readdress, retrying",
				zap.String("run_id", id.String()),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("updating run: %w", err)
		}
		s.logger.Info("device readdressed",
			zap.String("run_id", id.String()),
			zap.Int("sequence", sequence),
			zap.Int("io_device", ioDevice))
		return run, nil
	}
}

// Export renders a stored run. Exports are archived next to the drawing
// when an archive is configured.
func (s *ioListService) Export(ctx context.Context, id uuid.UUID, format ExportFormat) (*Export, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Result.Failed() {
		return nil, domain.ErrRunFailed
	}

	var buf bytes.Buffer
	out := &Export{FileName: csvexport.BuildFilename(run.SourceFile, string(format), s.now())}
	switch format {
	case ExportXLSX:
		out.ContentType = domain.ContentTypeXLSX
		err = xlsxexport.Write(&buf, &run.Result)
	case ExportCSV:
		out.ContentType = domain.ContentTypeCSV
		err = csvexport.Export(&buf, run.Result.IOConfiguration)
	default:
		return nil, domain.ErrUnsupportedFileType
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s export: %w", format, err)
	}
	out.Data = buf.Bytes()

	s.archive(ctx, s.logger.With(zap.String("run_id", id.String())),
		fmt.Sprintf("exports/%s/%s", id, out.FileName), out.ContentType, out.Data)
	return out, nil
}

// DrawingURL returns a time-limited download link for the run's drawing.
func (s *ioListService) DrawingURL(ctx context.Context, id uuid.UUID) (string, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if run.StorageKey == "" {
		return "", domain.ErrDrawingNotArchived
	}
	url, err := s.storage.PresignGet(ctx, run.StorageKey)
	if err != nil {
		return "", fmt.Errorf("presigning drawing: %w", err)
	}
	return url, nil
}

// archive stores data best-effort and returns its key, or "" when nothing
// was stored.
func (s *ioListService) archive(ctx context.Context, log *zap.Logger, key, contentType string, data []byte) string {
	if !s.storage.Enabled() {
		return ""
	}
	_, err := s.storage.Put(ctx, port.PutObjectInput{
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		log.Warn("archiving failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}

// discard removes an archived object whose run could not be stored.
func (s *ioListService) discard(ctx context.Context, log *zap.Logger, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Warn("removing orphaned drawing failed", zap.String("key", key), zap.Error(err))
	}
}

func logReport(log *zap.Logger, report *iolist.Report) {
	for i := range report.Outcomes {
		o := &report.Outcomes[i]
		switch {
		case o.Skip != nil:
			log.Warn("attribute skipped",
				zap.String("layer", o.Layer),
				zap.String("block", o.BlockName),
				zap.String("text", o.Text),
				zap.String("prefix", o.Prefix),
				zap.String("reason", string(o.Skip.Reason)),
				zap.Error(o.Skip.Err))
		case o.Device != nil:
			log.Debug("device added",
				zap.Int("sequence", o.Device.Sequence),
				zap.String("text", o.Text),
				zap.String("prefix", o.Prefix),
				zap.String("position", o.Position),
				zap.Int("total_io", o.Device.TotalIO))
		default:
			log.Debug("no catalog prefix", zap.String("layer", o.Layer), zap.String("text", o.Text))
		}
	}
	degraded := 0
	for i := range report.Wiring {
		if iolist.IsTemplateError(report.Wiring[i].IOName) {
			degraded++
		}
	}
	st := report.Stats
	log.Info("aggregation finished",
		zap.Int("insert_entities", st.InsertEntities),
		zap.Int("excluded_entities", st.ExcludedEntities),
		zap.Int("attributes", st.Attributes),
		zap.Int("matched", st.Matched),
		zap.Int("skipped", st.Skipped),
		zap.Int("unmatched", st.Unmatched()),
		zap.Int("degraded_signal_names", degraded),
		zap.Int("next_input_address", report.Counters.Input),
		zap.Int("next_output_address", report.Counters.Output))
}

func recordReport(report *iolist.Report) {
	st := report.Stats
	metrics.EntitiesTotal.WithLabelValues("insert").Add(float64(st.InsertEntities))
	metrics.EntitiesTotal.WithLabelValues("excluded").Add(float64(st.ExcludedEntities))
	metrics.EntitiesTotal.WithLabelValues("attribute").Add(float64(st.Attributes))
	for i := range report.Outcomes {
		if skip := report.Outcomes[i].Skip; skip != nil {
			metrics.SkippedTotal.WithLabelValues(string(skip.Reason)).Inc()
		}
	}
	metrics.DevicesTotal.Add(float64(len(report.Devices)))
	for i := range report.Wiring {
		metrics.PortsTotal.WithLabelValues(report.Wiring[i].Direction).Inc()
	}
}
