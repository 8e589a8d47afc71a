package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAnalysisClient is a mock implementation of port.AnalysisClient.
type MockAnalysisClient struct {
	mock.Mock
}

func (m *MockAnalysisClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockAnalysisClient) Model() string {
	args := m.Called()
	return args.String(0)
}
