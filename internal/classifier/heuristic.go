package classifier

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"verinews/internal/domain"
)

// DefaultKeywords is the sensational-term vocabulary used when no keywords file is configured.
var DefaultKeywords = []string{
	"clickbait",
	"shocking",
	"you won't believe",
	"secret",
	"conspiracy",
	"they don't want you to know",
}

const (
	keywordWeight  = 0.2
	maxFakeByCount = 0.9
)

// HeuristicClassifier stands in for the model backend when it is unavailable.
// It counts distinct vocabulary terms present in the text.
type HeuristicClassifier struct {
	keywords []string
}

// NewHeuristicClassifier builds a classifier over keywords. An empty list means DefaultKeywords.
func NewHeuristicClassifier(keywords []string) *HeuristicClassifier {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	normalized := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		normalized = append(normalized, k)
	}
	return &HeuristicClassifier{keywords: normalized}
}

// MatchCount returns how many vocabulary terms occur in text, case-insensitively.
func (h *HeuristicClassifier) MatchCount(text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, k := range h.keywords {
		if strings.Contains(lower, k) {
			count++
		}
	}
	return count
}

// Classify maps the match count to a fake probability of min(count*0.2, 0.9).
func (h *HeuristicClassifier) Classify(_ context.Context, text string) domain.LocalJudgment {
	p := math.Min(float64(h.MatchCount(text))*keywordWeight, maxFakeByCount)
	j := domain.JudgmentFromFakeProbability(p)
	j.Variant = domain.ClassifierVariantHeuristic
	return j
}

func (h *HeuristicClassifier) Variant() domain.ClassifierVariant {
	return domain.ClassifierVariantHeuristic
}

type keywordsFile struct {
	Keywords []string `yaml:"keywords"`
}

// LoadKeywords reads a YAML vocabulary of the form `keywords: [...]`.
func LoadKeywords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keywords file: %w", err)
	}
	var f keywordsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing keywords file %s: %w", path, err)
	}
	if len(f.Keywords) == 0 {
		return nil, fmt.Errorf("keywords file %s defines no keywords", path)
	}
	return f.Keywords, nil
}
