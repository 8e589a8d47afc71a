package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medrep/internal/domain"
)

// MockReportRepo is a mock implementation of port.ReportRepository.
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, report *domain.ReportAnalysis) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepo) GetByID(ctx context.Context, reportID uuid.UUID) (*domain.ReportAnalysis, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportAnalysis), args.Error(1)
}

func (m *MockReportRepo) Update(ctx context.Context, report *domain.ReportAnalysis) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
