package response

import (
	"regexp"
	"strconv"
	"strings"

	"verinews/internal/domain"
)

var (
	scoreValueRe     = regexp.MustCompile(`(?i)credibility[\s_]*score["'\s:*=]*(-?\d+(?:\.\d+)?)`)
	scoreLabelRe     = regexp.MustCompile(`(?i)credibility[\s_]*score`)
	reasoningLabelRe = regexp.MustCompile(`(?i)reasoning["'\s:*]*`)
	recommendLabelRe = regexp.MustCompile(`(?i)recommendations?["'\s:*]*`)
)

const spanCutset = " \t\r\n\"',*{}"

// PatternStrategy searches for labelled sections anywhere in the text.
// It succeeds only when a credibility score is found.
type PatternStrategy struct{}

func (PatternStrategy) Method() domain.ParseMethod { return domain.ParseMethodPattern }

func (PatternStrategy) Extract(raw string) (*domain.ParsedJudgment, bool) {
	m := scoreValueRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, false
	}
	score, ok := truncateScore(f)
	if !ok {
		return nil, false
	}

	labels := labelStarts(raw)

	reasoning := labelledSpan(raw, reasoningLabelRe, labels)
	if reasoning == "" {
		reasoning = defaultReasoning
	}
	recommendation := labelledSpan(raw, recommendLabelRe, labels)
	if recommendation == "" {
		recommendation = defaultRecommendation
	}

	return &domain.ParsedJudgment{
		Score:          score,
		Reasoning:      reasoning,
		Recommendation: recommendation,
	}, true
}

// labelStarts returns the start offsets of every known section label.
func labelStarts(raw string) []int {
	var starts []int
	for _, re := range []*regexp.Regexp{scoreLabelRe, reasoningLabelRe, recommendLabelRe} {
		for _, loc := range re.FindAllStringIndex(raw, -1) {
			starts = append(starts, loc[0])
		}
	}
	return starts
}

// labelledSpan captures the text after the first match of label up to the
// next label of any kind, or the end of the text.
func labelledSpan(raw string, label *regexp.Regexp, labels []int) string {
	loc := label.FindStringIndex(raw)
	if loc == nil {
		return ""
	}
	end := len(raw)
	for _, s := range labels {
		if s >= loc[1] && s < end {
			end = s
		}
	}
	return strings.Trim(raw[loc[1]:end], spanCutset)
}
