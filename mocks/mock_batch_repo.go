package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medrep/internal/domain"
)

// MockBatchRepo is a mock implementation of port.BatchRepository.
type MockBatchRepo struct {
	mock.Mock
}

func (m *MockBatchRepo) CreateRun(ctx context.Context, run *domain.BatchRun, items []domain.BatchItem) error {
	args := m.Called(ctx, run, items)
	return args.Error(0)
}

func (m *MockBatchRepo) GetRun(ctx context.Context, batchID uuid.UUID) (*domain.BatchRun, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchRun), args.Error(1)
}

func (m *MockBatchRepo) ListRuns(ctx context.Context, offset, limit int) ([]domain.BatchRun, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BatchRun), args.Int(1), args.Error(2)
}

func (m *MockBatchRepo) ListItems(ctx context.Context, batchID uuid.UUID) ([]domain.BatchItem, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchItem), args.Error(1)
}

func (m *MockBatchRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.BatchRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchRun), args.Error(1)
}

func (m *MockBatchRepo) UpdateRun(ctx context.Context, run *domain.BatchRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockBatchRepo) UpdateItem(ctx context.Context, item *domain.BatchItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
