// Package presentation maps a verdict and confidence to display metadata.
package presentation

import "verinews/internal/domain"

// Level is a confidence bucket.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

var fakeTags = map[Level]domain.PresentationTag{
	LevelLow: {
		StyleClass:  "animation-fake-low",
		Icon:        "fa-exclamation-triangle",
		ColorScheme: "amber",
		Message:     "Potentially misleading content detected with low confidence.",
	},
	LevelMedium: {
		StyleClass:  "animation-fake-medium",
		Icon:        "fa-exclamation-circle",
		ColorScheme: "orange",
		Message:     "This content contains potentially false information.",
	},
	LevelHigh: {
		StyleClass:  "animation-fake-high",
		Icon:        "fa-times-circle",
		ColorScheme: "red",
		Message:     "High likelihood of false or misleading information!",
	},
}

var realTags = map[Level]domain.PresentationTag{
	LevelLow: {
		StyleClass:  "animation-real-low",
		Icon:        "fa-check",
		ColorScheme: "light-green",
		Message:     "Appears to be factual, but verify with other sources.",
	},
	LevelMedium: {
		StyleClass:  "animation-real-medium",
		Icon:        "fa-check-circle",
		ColorScheme: "green",
		Message:     "Content appears to be reliable.",
	},
	LevelHigh: {
		StyleClass:  "animation-real-high",
		Icon:        "fa-shield-check",
		ColorScheme: "teal",
		Message:     "High confidence in factual content.",
	},
}

var uncertainTag = domain.PresentationTag{
	StyleClass:  "animation-uncertain",
	Icon:        "fa-question-circle",
	ColorScheme: "blue-grey",
	Message:     "Unable to determine reliability. Please verify from trusted sources.",
}

// LevelFor buckets confidence: below 0.6 is low, below 0.85 medium, otherwise high.
func LevelFor(confidence float64) Level {
	switch {
	case confidence < 0.6:
		return LevelLow
	case confidence < 0.85:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Tag returns the display metadata for a result. Uncertain and Error share
// the neutral tag.
func Tag(verdict domain.Verdict, confidence float64) domain.PresentationTag {
	switch verdict {
	case domain.VerdictFake:
		return fakeTags[LevelFor(confidence)]
	case domain.VerdictReal:
		return realTags[LevelFor(confidence)]
	default:
		return uncertainTag
	}
}
