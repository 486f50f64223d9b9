package classifier_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verinews/internal/classifier"
	"verinews/internal/domain"
)

func TestHeuristic_NoMatchesIsConfidentReal(t *testing.T) {
	h := classifier.NewHeuristicClassifier(nil)

	j := h.Classify(context.Background(), "The council approved the annual budget on Tuesday.")

	assert.Equal(t, domain.LabelReal, j.Label)
	assert.InDelta(t, 1.0, j.Probability, 1e-9)
	assert.Equal(t, domain.ClassifierVariantHeuristic, j.Variant)
}

func TestHeuristic_MatchCountToProbability(t *testing.T) {
	h := classifier.NewHeuristicClassifier(nil)

	tests := []struct {
		name      string
		text      string
		wantLabel domain.Label
		wantProb  float64
	}{
		{"one match", "A SHOCKING turn of events.", domain.LabelReal, 0.8},
		{"three matches", "Shocking secret conspiracy revealed.", domain.LabelReal, 0.4},
		{"four matches is fake", "Shocking secret conspiracy, pure clickbait.", domain.LabelFake, 0.8},
		{"all six capped", "clickbait shocking you won't believe secret conspiracy they don't want you to know", domain.LabelFake, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := h.Classify(context.Background(), tt.text)
			assert.Equal(t, tt.wantLabel, j.Label)
			assert.InDelta(t, tt.wantProb, j.Probability, 1e-9)
		})
	}
}

func TestHeuristic_RepeatedTermCountsOnce(t *testing.T) {
	h := classifier.NewHeuristicClassifier(nil)

	assert.Equal(t, 1, h.MatchCount("secret secret secret"))
}

func TestHeuristic_CustomKeywordsNormalized(t *testing.T) {
	h := classifier.NewHeuristicClassifier([]string{" HOAX ", "hoax", "", "miracle cure"})

	assert.Equal(t, 2, h.MatchCount("This hoax promises a Miracle Cure."))
	assert.Equal(t, domain.ClassifierVariantHeuristic, h.Variant())
}

func TestLoadKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords:\n  - hoax\n  - miracle cure\n"), 0o600))

	got, err := classifier.LoadKeywords(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"hoax", "miracle cure"}, got)
}

func TestLoadKeywords_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := classifier.LoadKeywords(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("keywords: []\n"), 0o600))
	_, err = classifier.LoadKeywords(empty)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("keywords: [unclosed\n"), 0o600))
	_, err = classifier.LoadKeywords(bad)
	assert.Error(t, err)
}
