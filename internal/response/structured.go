package response

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"verinews/internal/domain"
)

var (
	scoreKeys          = []string{"credibility_score", "credibilityScore", "score"}
	reasoningKeys      = []string{"reasoning"}
	recommendationKeys = []string{"recommendations", "recommendation"}
)

// StructuredStrategy parses the outermost brace-delimited block as JSON.
type StructuredStrategy struct{}

func (StructuredStrategy) Method() domain.ParseMethod { return domain.ParseMethodStructured }

func (StructuredStrategy) Extract(raw string) (*domain.ParsedJudgment, bool) {
	block, ok := outermostBlock(raw)
	if !ok {
		return nil, false
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(normalizeJSON(block)), &data); err != nil {
		return nil, false
	}

	score := domain.NeutralCredibilityScore
	if v, found := lookup(data, scoreKeys); found {
		n, ok := numericScore(v)
		if !ok {
			return nil, false
		}
		score = n
	}

	reasoning := defaultStructuredReasoning
	if v, found := lookup(data, reasoningKeys); found {
		if s := stringify(v); s != "" {
			reasoning = s
		}
	}
	recommendation := defaultRecommendation
	if v, found := lookup(data, recommendationKeys); found {
		if s := stringify(v); s != "" {
			recommendation = s
		}
	}

	return &domain.ParsedJudgment{
		Score:          score,
		Reasoning:      reasoning,
		Recommendation: recommendation,
	}, true
}

// outermostBlock returns the text from the first '{' to its balanced '}'.
// Braces inside JSON strings are ignored. When the block never closes, the
// last '}' in the text ends it.
func outermostBlock(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}

	end := strings.LastIndexByte(raw, '}')
	if end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// normalizeJSON flattens raw newlines and tabs and doubles backslashes that
// do not begin a valid JSON escape.
func normalizeJSON(block string) string {
	block = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(block)

	var sb strings.Builder
	sb.Grow(len(block))
	for i := 0; i < len(block); i++ {
		ch := block[i]
		if ch != '\\' {
			sb.WriteByte(ch)
			continue
		}
		if i+1 < len(block) && strings.IndexByte(`"\/bfnrtu`, block[i+1]) >= 0 {
			sb.WriteByte(ch)
			sb.WriteByte(block[i+1])
			i++
			continue
		}
		sb.WriteString(`\\`)
	}
	return sb.String()
}

func lookup(data map[string]interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func numericScore(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return truncateScore(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return truncateScore(f)
	default:
		return 0, false
	}
}

// truncateScore drops the fractional part. Magnitudes are bounded first so
// the int conversion stays defined; the result is clamped later anyway.
func truncateScore(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > 1000 {
		f = 1000
	}
	if f < -1000 {
		f = -1000
	}
	return int(f), true
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
