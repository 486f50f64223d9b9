package port

import (
	"context"

	"verinews/internal/domain"
)

// RemoteJudge obtains a second-opinion credibility judgment from a generative model.
type RemoteJudge interface {
	Judge(ctx context.Context, article domain.ArticleInput) domain.RemoteJudgment
	Probe(ctx context.Context) domain.ProbeResult
	Configured() bool
}
