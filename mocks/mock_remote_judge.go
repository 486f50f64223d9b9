package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"verinews/internal/domain"
)

// MockRemoteJudge is a mock implementation of port.RemoteJudge.
type MockRemoteJudge struct {
	mock.Mock
}

func (m *MockRemoteJudge) Judge(ctx context.Context, article domain.ArticleInput) domain.RemoteJudgment {
	args := m.Called(ctx, article)
	return args.Get(0).(domain.RemoteJudgment)
}

func (m *MockRemoteJudge) Probe(ctx context.Context) domain.ProbeResult {
	args := m.Called(ctx)
	return args.Get(0).(domain.ProbeResult)
}

func (m *MockRemoteJudge) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}
