package port

import (
	"context"

	"verinews/internal/domain"
)

// Classifier produces a local fake/real judgment. Implementations never
// return an error; internal failures degrade to a neutral judgment.
type Classifier interface {
	Classify(ctx context.Context, text string) domain.LocalJudgment
	Variant() domain.ClassifierVariant
}

// LogitsBackend is a binary sequence classifier returning two raw scores.
type LogitsBackend interface {
	Logits(ctx context.Context, text string) ([]float64, error)
}
