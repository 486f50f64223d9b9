package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"verinews/internal/domain"
)

// MockClassifier is a mock implementation of port.Classifier.
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) domain.LocalJudgment {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.LocalJudgment)
}

func (m *MockClassifier) Variant() domain.ClassifierVariant {
	args := m.Called()
	return args.Get(0).(domain.ClassifierVariant)
}

// MockLogitsBackend is a mock implementation of port.LogitsBackend.
type MockLogitsBackend struct {
	mock.Mock
}

func (m *MockLogitsBackend) Logits(ctx context.Context, text string) ([]float64, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}
