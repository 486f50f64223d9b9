package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"verinews/internal/article"
	"verinews/internal/domain"
	"verinews/internal/fusion"
	"verinews/internal/port"
	"verinews/internal/presentation"
)

// AnalyzeInput is the DTO for one analysis request. EnhanceShortContent
// opts in to prefixing short content with its title and source; the
// interactive flows set it, the JSON API classifies content as sent.
type AnalyzeInput struct {
	Content             string
	Title               string
	Source              string
	UseRemote           bool
	EnhanceShortContent bool
}

// AnalysisResult is the verdict plus everything a caller needs to render or debug it.
type AnalysisResult struct {
	Verdict      domain.Verdict         `json:"verdict"`
	Confidence   float64                `json:"confidence"`
	Presentation domain.PresentationTag `json:"presentation"`
	Diagnostics  domain.Diagnostics     `json:"diagnostics"`
}

// Readiness describes how the analysis pipeline was assembled at startup.
type Readiness struct {
	ClassifierVariant domain.ClassifierVariant `json:"classifier_variant"`
	RemoteConfigured  bool                     `json:"remote_configured"`
}

// AnalysisOptions tunes caller-side orchestration.
type AnalysisOptions struct {
	// ProbeBeforeAnalyze runs the connectivity probe before a remote-assisted
	// analysis and falls back to local-only when it fails.
	ProbeBeforeAnalyze bool
	// ShortContentChars enables title/source enhancement below this length. Zero disables it.
	ShortContentChars int
}

// AnalysisService defines the article analysis contract.
type AnalysisService interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*AnalysisResult, error)
	ProbeRemote(ctx context.Context) domain.ProbeResult
	Readiness() Readiness
}

type analysisService struct {
	engine     *fusion.Engine
	classifier port.Classifier
	judge      port.RemoteJudge
	opts       AnalysisOptions
	now        func() time.Time
}

// NewAnalysisService creates a new AnalysisService implementation. judge may be nil.
func NewAnalysisService(classifier port.Classifier, judge port.RemoteJudge, opts AnalysisOptions) AnalysisService {
	return &analysisService{
		engine:     fusion.NewEngine(classifier, judge),
		classifier: classifier,
		judge:      judge,
		opts:       opts,
		now:        time.Now,
	}
}

func (s *analysisService) Analyze(ctx context.Context, input *AnalyzeInput) (*AnalysisResult, error) {
	if input == nil || strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrContentRequired
	}

	enhanceBelow := 0
	if input.EnhanceShortContent {
		enhanceBelow = s.opts.ShortContentChars
	}
	prepared := article.Prepare(input.Content, input.Title, input.Source, enhanceBelow)
	if prepared.Text == "" {
		return nil, domain.ErrContentRequired
	}

	diag := domain.Diagnostics{
		Time:              s.now().UTC(),
		ContentLength:     utf8.RuneCountInString(input.Content),
		ContentEnhanced:   prepared.Enhanced,
		OriginalLength:    prepared.OriginalLength,
		EnhancedLength:    prepared.EnhancedLength,
		HTMLStripped:      prepared.HTMLStripped,
		RemoteRequested:   input.UseRemote,
		ClassifierVariant: s.classifier.Variant(),
	}

	useRemote := input.UseRemote
	if useRemote {
		useRemote = s.remoteAvailable(ctx, &diag)
	}
	diag.RemoteUsed = useRemote

	result := s.engine.Analyze(ctx, domain.ArticleInput{
		Text:   prepared.Text,
		Title:  input.Title,
		Source: input.Source,
	}, useRemote)

	fillDiagnostics(&diag, &result)

	return &AnalysisResult{
		Verdict:      result.Verdict,
		Confidence:   result.Confidence,
		Presentation: presentation.Tag(result.Verdict, result.Confidence),
		Diagnostics:  diag,
	}, nil
}

// remoteAvailable decides whether a requested remote analysis goes ahead.
// Configuration problems downgrade to local-only with a warning.
func (s *analysisService) remoteAvailable(ctx context.Context, diag *domain.Diagnostics) bool {
	if s.judge == nil || !s.judge.Configured() {
		probe := domain.ProbeResult{OK: false, Message: "remote judge API key not configured"}
		diag.ConnectionTest = &probe
		diag.Warnings = append(diag.Warnings, downgradeWarning(probe.Message))
		return false
	}
	if !s.opts.ProbeBeforeAnalyze {
		return true
	}

	probe := s.judge.Probe(ctx)
	diag.ConnectionTest = &probe
	if !probe.OK {
		log.Printf("service.AnalysisService: remote probe failed, using local model: %s", probe.Message)
		diag.Warnings = append(diag.Warnings, downgradeWarning(probe.Message))
		return false
	}
	return true
}

func downgradeWarning(reason string) string {
	return fmt.Sprintf("Remote judge issue: %s. Using local model instead.", reason)
}

func fillDiagnostics(diag *domain.Diagnostics, result *domain.FusionResult) {
	if result.Verdict == domain.VerdictError {
		diag.Error = result.Error
		return
	}

	local := result.Local
	diag.LocalModel = &local
	diag.PLocal = local.FakeProbability()
	diag.LocalFault = local.Fault
	if local.Fault != "" {
		diag.Warnings = append(diag.Warnings, "Local classifier fault: "+local.Fault)
	}

	if result.Remote != nil {
		diag.Remote = result.Remote
		pRemote := result.Remote.FakeProbability()
		diag.PRemote = &pRemote
		if !result.Remote.Succeeded {
			diag.RemoteError = result.Remote.Error
		}
	}
	diag.Combined = result.Combined
}

func (s *analysisService) ProbeRemote(ctx context.Context) domain.ProbeResult {
	if s.judge == nil {
		return domain.ProbeResult{OK: false, Message: "remote judge API key not configured"}
	}
	return s.judge.Probe(ctx)
}

func (s *analysisService) Readiness() Readiness {
	return Readiness{
		ClassifierVariant: s.classifier.Variant(),
		RemoteConfigured:  s.judge != nil && s.judge.Configured(),
	}
}
