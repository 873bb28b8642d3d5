package port

import (
	"context"

	"iolist/internal/domain"
)

// CatalogSource loads the component catalog. Implementations return a
// *domain.CatalogLoadError when the catalog cannot be produced.
type CatalogSource interface {
	Load(ctx context.Context) (*domain.Catalog, error)
	Describe() string
}

// CatalogStore persists a catalog so that a CatalogSource can serve it.
type CatalogStore interface {
	CatalogSource
	Replace(ctx context.Context, catalog *domain.Catalog) error
}
