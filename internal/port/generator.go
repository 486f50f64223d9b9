package port

import "context"

// GenerateInput carries a single prompt for a generative model tier.
type GenerateInput struct {
	Prompt string
}

// GenerateOutput is the free-text reply of a model tier.
type GenerateOutput struct {
	Text  string
	Model string
	Tier  string
}

// Generator abstracts a call to a remote generative-AI endpoint.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error)
}
