package presentation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"verinews/internal/domain"
	"verinews/internal/presentation"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, presentation.LevelLow, presentation.LevelFor(0.0))
	assert.Equal(t, presentation.LevelLow, presentation.LevelFor(0.59))
	assert.Equal(t, presentation.LevelMedium, presentation.LevelFor(0.6))
	assert.Equal(t, presentation.LevelMedium, presentation.LevelFor(0.849))
	assert.Equal(t, presentation.LevelHigh, presentation.LevelFor(0.85))
	assert.Equal(t, presentation.LevelHigh, presentation.LevelFor(1.0))
}

func TestTag(t *testing.T) {
	tests := []struct {
		verdict    domain.Verdict
		confidence float64
		wantClass  string
		wantColor  string
	}{
		{domain.VerdictFake, 0.5, "animation-fake-low", "amber"},
		{domain.VerdictFake, 0.7, "animation-fake-medium", "orange"},
		{domain.VerdictFake, 0.95, "animation-fake-high", "red"},
		{domain.VerdictReal, 0.5, "animation-real-low", "light-green"},
		{domain.VerdictReal, 0.8, "animation-real-medium", "green"},
		{domain.VerdictReal, 0.9, "animation-real-high", "teal"},
		{domain.VerdictUncertain, 0.9, "animation-uncertain", "blue-grey"},
		{domain.VerdictError, 0.5, "animation-uncertain", "blue-grey"},
	}
	for _, tt := range tests {
		tag := presentation.Tag(tt.verdict, tt.confidence)
		assert.Equal(t, tt.wantClass, tag.StyleClass, "%s/%v", tt.verdict, tt.confidence)
		assert.Equal(t, tt.wantColor, tag.ColorScheme)
		assert.NotEmpty(t, tag.Icon)
		assert.NotEmpty(t, tag.Message)
	}
}
