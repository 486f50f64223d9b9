package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"verinews/internal/domain"
	"verinews/internal/service"
)

// MockAnalysisService is a mock implementation of service.AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, input *service.AnalyzeInput) (*service.AnalysisResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisService) ProbeRemote(ctx context.Context) domain.ProbeResult {
	args := m.Called(ctx)
	return args.Get(0).(domain.ProbeResult)
}

func (m *MockAnalysisService) Readiness() service.Readiness {
	args := m.Called()
	return args.Get(0).(service.Readiness)
}
