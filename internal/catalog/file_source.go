package catalog

import (
	"context"
	"os"

	"iolist/internal/domain"
	"iolist/internal/port"
)

type fileSource struct {
	path string
}

// NewFileSource returns a CatalogSource that re-reads path on every Load.
func NewFileSource(path string) port.CatalogSource {
	return &fileSource{path: path}
}

func (s *fileSource) Load(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.CatalogLoadError{Source: s.path, Err: err}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &domain.CatalogLoadError{Source: s.path, Err: err}
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, &domain.CatalogLoadError{Source: s.path, Err: err}
	}
	return cat, nil
}

func (s *fileSource) Describe() string {
	return "file:" + s.path
}
