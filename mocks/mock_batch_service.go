package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medrep/internal/domain"
	"medrep/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) CreateBatch(ctx context.Context, input service.CreateBatchInput) (*domain.BatchRun, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchRun), args.Error(1)
}

func (m *MockBatchService) GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.BatchRun, []domain.BatchItem, error) {
	args := m.Called(ctx, batchID)
	var run *domain.BatchRun
	if args.Get(0) != nil {
		run = args.Get(0).(*domain.BatchRun)
	}
	var items []domain.BatchItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.BatchItem)
	}
	return run, items, args.Error(2)
}

func (m *MockBatchService) ListBatches(ctx context.Context, offset, limit int) ([]domain.BatchRun, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BatchRun), args.Int(1), args.Error(2)
}

func (m *MockBatchService) RunBatch(ctx context.Context, run *domain.BatchRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}
