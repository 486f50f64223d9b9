// Package response extracts a structured credibility judgment from the free
// text a generative model returns. Strategies run strict to lenient and the
// first one that yields a result wins.
package response

import (
	"verinews/internal/domain"
)

const (
	defaultStructuredReasoning = "Analysis completed successfully."
	defaultReasoning           = "Analysis completed, detailed reasoning unavailable."
	defaultRecommendation      = "Consider cross-referencing with trusted sources."
)

// Strategy is one extraction attempt over raw model text.
type Strategy interface {
	Method() domain.ParseMethod
	Extract(raw string) (*domain.ParsedJudgment, bool)
}

// Parser runs an ordered list of strategies.
type Parser struct {
	strategies []Strategy
}

// NewParser returns the default cascade: structured, pattern, line scan.
func NewParser() *Parser {
	return NewParserWithStrategies(StructuredStrategy{}, PatternStrategy{}, LineScanStrategy{})
}

// NewParserWithStrategies builds a parser over a custom strategy order.
func NewParserWithStrategies(strategies ...Strategy) *Parser {
	return &Parser{strategies: strategies}
}

// Parse returns the first strategy result, or (nil, false) when none match.
// The returned score is clamped and the method is set to the winning strategy.
func (p *Parser) Parse(raw string) (*domain.ParsedJudgment, bool) {
	for _, s := range p.strategies {
		result, ok := s.Extract(raw)
		if !ok || result == nil {
			continue
		}
		result.Score = ClampScore(result.Score)
		result.Method = s.Method()
		return result, true
	}
	return nil, false
}

// ClampScore bounds a credibility score to [1, 10].
func ClampScore(score int) int {
	if score < domain.MinCredibilityScore {
		return domain.MinCredibilityScore
	}
	if score > domain.MaxCredibilityScore {
		return domain.MaxCredibilityScore
	}
	return score
}
