// Package classifier provides the local fake/real classifier. Two variants
// exist: BackendClassifier over an inference service and HeuristicClassifier
// over a keyword vocabulary. New picks one at startup.
package classifier

import (
	"context"
	"fmt"
	"log"
	"math"

	"verinews/internal/config"
	"verinews/internal/domain"
	"verinews/internal/port"
)

// BackendClassifier turns two logits into a LocalJudgment. Backend failures
// are absorbed into a neutral Real/0.5 judgment with Fault set.
type BackendClassifier struct {
	backend   port.LogitsBackend
	fakeIndex int
}

// NewBackendClassifier wraps backend. fakeIndex selects which logit is the fake class.
func NewBackendClassifier(backend port.LogitsBackend, fakeIndex int) *BackendClassifier {
	if fakeIndex != 0 {
		fakeIndex = 1
	}
	return &BackendClassifier{backend: backend, fakeIndex: fakeIndex}
}

func (c *BackendClassifier) Classify(ctx context.Context, text string) domain.LocalJudgment {
	logits, err := c.backend.Logits(ctx, text)
	if err != nil {
		return c.fault(err)
	}
	probs, err := Softmax(logits)
	if err != nil {
		return c.fault(err)
	}
	if len(probs) <= c.fakeIndex {
		return c.fault(fmt.Errorf("fake class index %d out of range for %d classes", c.fakeIndex, len(probs)))
	}

	j := domain.JudgmentFromFakeProbability(probs[c.fakeIndex])
	j.Variant = domain.ClassifierVariantBackend
	return j
}

func (c *BackendClassifier) Variant() domain.ClassifierVariant {
	return domain.ClassifierVariantBackend
}

func (c *BackendClassifier) fault(err error) domain.LocalJudgment {
	log.Printf("classifier.BackendClassifier: prediction failed: %v", err)
	return domain.LocalJudgment{
		Label:       domain.LabelReal,
		Probability: domain.NeutralProbability,
		Variant:     domain.ClassifierVariantBackend,
		Fault:       fmt.Sprintf("%s: %v", domain.ErrClassifierFault, err),
	}
}

// Softmax normalizes logits into probabilities. Non-finite inputs are rejected.
func Softmax(logits []float64) ([]float64, error) {
	if len(logits) == 0 {
		return nil, fmt.Errorf("no logits")
	}
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return nil, fmt.Errorf("non-finite logit %v", l)
		}
		if l > maxLogit {
			maxLogit = l
		}
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		out[i] = math.Exp(l - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out, nil
}

type healthChecker interface {
	Health(ctx context.Context) error
}

// New selects the classifier variant once at startup. Without a reachable
// inference endpoint the keyword heuristic is used.
func New(ctx context.Context, cfg config.ClassifierConfig) port.Classifier {
	if cfg.Endpoint == "" {
		log.Printf("classifier: no inference endpoint configured, using keyword heuristic")
		return newHeuristic(cfg)
	}
	backend := NewHTTPBackend(cfg)
	return Select(ctx, backend, cfg)
}

// Select returns a BackendClassifier when backend passes its health check,
// otherwise the keyword heuristic.
func Select(ctx context.Context, backend port.LogitsBackend, cfg config.ClassifierConfig) port.Classifier {
	if hc, ok := backend.(healthChecker); ok {
		if err := hc.Health(ctx); err != nil {
			log.Printf("classifier: inference backend unavailable (%v), using keyword heuristic", err)
			return newHeuristic(cfg)
		}
	}
	log.Printf("classifier: using inference backend at %s", cfg.Endpoint)
	return NewBackendClassifier(backend, cfg.FakeIndex)
}

func newHeuristic(cfg config.ClassifierConfig) *HeuristicClassifier {
	if cfg.KeywordsFile == "" {
		return NewHeuristicClassifier(nil)
	}
	keywords, err := LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		log.Printf("classifier: %v, using default vocabulary", err)
		return NewHeuristicClassifier(nil)
	}
	return NewHeuristicClassifier(keywords)
}
