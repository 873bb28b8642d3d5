package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"iolist/internal/domain"
	"iolist/internal/service"
)

// MockIOListService is a mock implementation of service.IOListService.
type MockIOListService struct {
	mock.Mock
}

func (m *MockIOListService) ParseDrawing(ctx context.Context, input service.ParseInput) (*domain.ParseRun, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseRun), args.Error(1)
}

func (m *MockIOListService) Latest(ctx context.Context) (*domain.ParseRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseRun), args.Error(1)
}

func (m *MockIOListService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseRun), args.Error(1)
}

func (m *MockIOListService) List(ctx context.Context, offset, limit int) ([]domain.ParseRun, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ParseRun), args.Int(1), args.Error(2)
}

func (m *MockIOListService) ReassignDevice(ctx context.Context, id uuid.UUID, sequence, ioDevice int) (*domain.ParseRun, error) {
	args := m.Called(ctx, id, sequence, ioDevice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseRun), args.Error(1)
}

func (m *MockIOListService) DrawingURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockIOListService) Export(ctx context.Context, id uuid.UUID, format service.ExportFormat) (*service.Export, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Export), args.Error(1)
}
