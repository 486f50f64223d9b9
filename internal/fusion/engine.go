// Package fusion combines the local classifier and the remote judge into one verdict.
package fusion

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"verinews/internal/domain"
	"verinews/internal/port"
)

// Engine runs the local classifier always and the remote judge on request,
// concurrently, and fuses their fake probabilities.
type Engine struct {
	classifier port.Classifier
	judge      port.RemoteJudge
}

// NewEngine creates an Engine. judge may be nil when no remote judge is wired.
func NewEngine(classifier port.Classifier, judge port.RemoteJudge) *Engine {
	return &Engine{classifier: classifier, judge: judge}
}

// Analyze never panics and never returns an error. Availability of the remote
// judge is the caller's concern; a failed RemoteJudgment is honored as-is.
func (e *Engine) Analyze(ctx context.Context, article domain.ArticleInput, useRemote bool) domain.FusionResult {
	var (
		local     domain.LocalJudgment
		remote    domain.RemoteJudgment
		remoteSet bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = e.classify(gctx, article.Text)
		return err
	})
	if useRemote {
		remoteSet = true
		g.Go(func() error {
			remote = e.judgeArticle(gctx, article)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("fusion.Engine: local classification failed: %v", err)
		return domain.FusionResult{
			Verdict:    domain.VerdictError,
			Confidence: domain.ErrorConfidence,
			Error:      err.Error(),
		}
	}

	if !remoteSet {
		return LocalOnly(local)
	}
	return Combine(local, remote)
}

// LocalOnly reuses the local label as the verdict and its probability as confidence.
func LocalOnly(local domain.LocalJudgment) domain.FusionResult {
	return domain.FusionResult{
		Verdict:    domain.Verdict(local.Label),
		Confidence: local.Probability,
		Local:      local,
	}
}

// Combine fuses local and remote judgments in fake-probability space. A failed
// remote judgment contributes nothing: the combined score is p_local exactly.
func Combine(local domain.LocalJudgment, remote domain.RemoteJudgment) domain.FusionResult {
	combined := local.FakeProbability()
	if remote.Succeeded {
		combined = domain.LocalWeight*combined + domain.RemoteWeight*remote.FakeProbability()
	}
	r := remote
	return domain.FusionResult{
		Verdict:    VerdictForCombined(combined),
		Confidence: combined,
		Local:      local,
		Remote:     &r,
		Combined:   &combined,
	}
}

// VerdictForCombined maps a combined fake probability to a verdict. Both
// thresholds are exclusive: 0.7 and 0.3 are Uncertain.
func VerdictForCombined(combined float64) domain.Verdict {
	switch {
	case combined > domain.CombinedFakeAbove:
		return domain.VerdictFake
	case combined < domain.CombinedRealBelow:
		return domain.VerdictReal
	default:
		return domain.VerdictUncertain
	}
}

func (e *Engine) classify(ctx context.Context, text string) (j domain.LocalJudgment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrClassifierFault, r)
		}
	}()
	if e.classifier == nil {
		return domain.LocalJudgment{}, fmt.Errorf("%w: no classifier configured", domain.ErrClassifierFault)
	}
	return e.classifier.Classify(ctx, text), nil
}

func (e *Engine) judgeArticle(ctx context.Context, article domain.ArticleInput) (j domain.RemoteJudgment) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("fusion.Engine: remote judge panicked: %v", r)
			j = domain.RemoteJudgment{
				CredibilityScore: domain.NeutralCredibilityScore,
				Error:            fmt.Sprintf("remote judge fault: %v", r),
			}
		}
	}()
	if e.judge == nil {
		return domain.RemoteJudgment{
			CredibilityScore: domain.NeutralCredibilityScore,
			Error:            domain.ErrRemoteNotConfigured.Error(),
		}
	}
	return e.judge.Judge(ctx, article)
}
