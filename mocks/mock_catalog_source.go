package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"iolist/internal/domain"
)

// MockCatalogSource is a mock implementation of port.CatalogSource and
// port.CatalogStore.
type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) Load(ctx context.Context) (*domain.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Catalog), args.Error(1)
}

func (m *MockCatalogSource) Describe() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCatalogSource) Replace(ctx context.Context, catalog *domain.Catalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}
