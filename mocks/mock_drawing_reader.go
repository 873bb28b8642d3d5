package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"iolist/internal/domain"
)

// MockDrawingReader is a mock implementation of port.DrawingReader.
type MockDrawingReader struct {
	mock.Mock
}

func (m *MockDrawingReader) Read(ctx context.Context, r io.Reader) ([]domain.Entity, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entity), args.Error(1)
}
