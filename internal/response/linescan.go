package response

import (
	"regexp"
	"strconv"
	"strings"

	"verinews/internal/domain"
)

var numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// LineScanStrategy reads one field per line. It succeeds when reasoning or
// a recommendation was captured; the score defaults to neutral.
type LineScanStrategy struct{}

func (LineScanStrategy) Method() domain.ParseMethod { return domain.ParseMethodLineScan }

func (LineScanStrategy) Extract(raw string) (*domain.ParsedJudgment, bool) {
	score := domain.NeutralCredibilityScore
	var reasoning, recommendation string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, "credibility score") || strings.Contains(lower, "credibility_score"):
			if num := numberRe.FindString(line); num != "" {
				if f, err := strconv.ParseFloat(num, 64); err == nil {
					if n, ok := truncateScore(f); ok {
						score = n
					}
				}
			}
		case strings.Contains(lower, "reasoning") && strings.Contains(line, ":"):
			reasoning = afterColon(line)
		case strings.Contains(lower, "recommendation") && strings.Contains(line, ":"):
			recommendation = afterColon(line)
		}
	}

	if reasoning == "" && recommendation == "" {
		return nil, false
	}
	if reasoning == "" {
		reasoning = defaultReasoning
	}
	if recommendation == "" {
		recommendation = defaultRecommendation
	}

	return &domain.ParsedJudgment{
		Score:          score,
		Reasoning:      reasoning,
		Recommendation: recommendation,
	}, true
}

func afterColon(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return strings.Trim(rest, " \t\"',")
}
