package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"iolist/internal/catalog"
	"iolist/internal/domain"
	"iolist/internal/metrics"
	"iolist/internal/port"
)

// ErrCatalogReadOnly is returned by Import when the configured source
// cannot be written.
var ErrCatalogReadOnly = errors.New("catalog source is read-only")

// CatalogService serves and imports the component catalog.
type CatalogService interface {
	Catalog(ctx context.Context) (*domain.Catalog, error)
	Import(ctx context.Context, data []byte) (*domain.Catalog, error)
	Describe() string
}

type catalogService struct {
	source port.CatalogSource
	store  port.CatalogStore
	logger *zap.Logger
}

// NewCatalogService creates a CatalogService. store may be nil, in which
// case Import fails with ErrCatalogReadOnly.
func NewCatalogService(source port.CatalogSource, store port.CatalogStore, logger *zap.Logger) CatalogService {
	return &catalogService{source: source, store: store, logger: logger.Named("catalog")}
}

func (s *catalogService) Describe() string {
	return s.source.Describe()
}

// Catalog loads the catalog afresh from the source.
func (s *catalogService) Catalog(ctx context.Context) (*domain.Catalog, error) {
	cat, err := s.source.Load(ctx)
	if err != nil {
		metrics.CatalogLoadErrors.Inc()
		s.logger.Error("catalog load failed", zap.String("source", s.source.Describe()), zap.Error(err))
		var loadErr *domain.CatalogLoadError
		if !errors.As(err, &loadErr) {
			err = &domain.CatalogLoadError{Source: s.source.Describe(), Err: err}
		}
		return nil, err
	}
	metrics.CatalogEntries.Set(float64(cat.Len()))
	s.logger.Debug("catalog loaded", zap.String("source", s.source.Describe()), zap.Int("entries", cat.Len()))
	return cat, nil
}

// Import parses a JSON, YAML or XLSX catalog document and replaces the
// stored catalog with it.
func (s *catalogService) Import(ctx context.Context, data []byte) (*domain.Catalog, error) {
	if s.store == nil {
		return nil, ErrCatalogReadOnly
	}
	cat, err := catalog.Decode(data)
	if err != nil {
		return nil, &domain.CatalogLoadError{Source: "import", Err: err}
	}

	defective := 0
	for _, e := range cat.Entries() {
		if err := e.Definition.Check(); err != nil {
			defective++
			s.logger.Warn("catalog entry imported with defects",
				zap.String("prefix", e.Prefix), zap.Error(err))
		}
	}

	if err := s.store.Replace(ctx, cat); err != nil {
		return nil, fmt.Errorf("storing catalog: %w", err)
	}
	metrics.CatalogEntries.Set(float64(cat.Len()))
	s.logger.Info("catalog imported",
		zap.String("store", s.store.Describe()),
		zap.Int("entries", cat.Len()),
		zap.Int("defective", defective))
	return cat, nil
}
