package judge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"verinews/internal/config"
	"verinews/internal/domain"
	"verinews/internal/llm"
	"verinews/internal/port"
	"verinews/internal/response"
	"verinews/internal/retry"
)

const rawResponsePrefixLen = 500

// Config is the immutable remote judge configuration built once at startup.
type Config struct {
	Configured     bool
	MaxRetries     int
	Backoff        []time.Duration
	AttemptTimeout time.Duration
	MaxTextChars   int
	MinTextChars   int
}

// NewConfig derives judge settings from the application config.
func NewConfig(cfg *config.RemoteConfig) Config {
	c := Config{
		Configured:     cfg.Configured(),
		MaxRetries:     cfg.MaxRetries,
		Backoff:        cfg.Backoff,
		AttemptTimeout: cfg.AttemptTimeout(),
		MaxTextChars:   cfg.MaxTextChars,
		MinTextChars:   cfg.MinTextChars,
	}
	return c.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 30 * time.Second
	}
	if c.MaxTextChars <= 0 {
		c.MaxTextChars = 30000
	}
	if c.MinTextChars <= 0 {
		c.MinTextChars = 50
	}
	return c
}

// RemoteJudge asks a generative model for a credibility judgment and turns
// every failure into a neutral, unsuccessful RemoteJudgment.
// It implements port.RemoteJudge.
type RemoteJudge struct {
	cfg       Config
	generator port.Generator
	parser    *response.Parser
}

// NewRemoteJudge creates a RemoteJudge. generator is usually an llm.TierFallback.
func NewRemoteJudge(cfg Config, generator port.Generator, parser *response.Parser) *RemoteJudge {
	if parser == nil {
		parser = response.NewParser()
	}
	return &RemoteJudge{cfg: cfg.withDefaults(), generator: generator, parser: parser}
}

// Configured reports whether a usable credential was present at startup.
func (j *RemoteJudge) Configured() bool {
	return j.cfg.Configured && j.generator != nil
}

// Judge runs the bounded retry loop. Input and configuration problems are
// reported before any network call is made.
func (j *RemoteJudge) Judge(ctx context.Context, article domain.ArticleInput) domain.RemoteJudgment {
	if !j.Configured() {
		return failed(domain.ErrRemoteNotConfigured.Error(),
			"Unable to analyze without a valid remote judge API key. Please add the API key to the environment configuration.",
			"Consider manual fact-checking through trusted sources.")
	}

	text := strings.TrimSpace(article.Text)
	if text == "" {
		return failed(domain.ErrNoContent.Error(),
			"No article content was provided for analysis.",
			"Please provide article content for analysis.")
	}
	if utf8.RuneCountInString(text) < j.cfg.MinTextChars {
		return failed(domain.ErrTextTooShort.Error(),
			"The article content is too brief for AI analysis. Consider providing more context.",
			"This content is too short to analyze. Please provide a longer article.")
	}
	text = truncateRunes(text, j.cfg.MaxTextChars)

	prompt := llm.BuildCredibilityPrompt(article.Title, article.Source, text)
	policy := retry.Policy{MaxAttempts: j.cfg.MaxRetries + 1, Backoff: j.cfg.Backoff}

	var (
		result  domain.RemoteJudgment
		lastOut *port.GenerateOutput
	)
	attempts, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) error {
		attemptCtx, cancel := context.WithTimeout(ctx, j.attemptBudget())
		defer cancel()

		out, err := j.generator.Generate(attemptCtx, port.GenerateInput{Prompt: prompt})
		if err != nil {
			log.Printf("judge.RemoteJudge: attempt %d failed: %v", attempt, err)
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			return err
		}

		parsed, ok := j.parser.Parse(out.Text)
		if !ok {
			lastOut = out
			log.Printf("judge.RemoteJudge: attempt %d returned an unparsable response from %s", attempt, out.Model)
			return domain.ErrUnparsableResponse
		}

		result = domain.RemoteJudgment{
			Succeeded:        true,
			CredibilityScore: response.ClampScore(parsed.Score),
			Reasoning:        parsed.Reasoning,
			Recommendation:   parsed.Recommendation,
			ParseMethod:      parsed.Method,
			ModelTier:        out.Tier,
			Model:            out.Model,
			Fallback:         out.Tier == llm.TierSecondary,
		}
		return nil
	})

	switch {
	case err == nil:
		result.Attempts = attempts
		return result
	case errors.Is(err, domain.ErrUnparsableResponse):
		r := failed(fmt.Sprintf("%s after %d attempts", domain.ErrUnparsableResponse, attempts),
			"The AI generated a response but it couldn't be properly parsed.",
			"Please try again or use manual fact-checking methods.")
		r.Attempts = attempts
		if lastOut != nil {
			r.RawResponse = llm.Truncate(lastOut.Text, rawResponsePrefixLen)
			r.Model = lastOut.Model
			r.ModelTier = lastOut.Tier
		}
		return r
	default:
		r := failed(err.Error(),
			"The AI service encountered persistent errors during analysis.",
			"Please try again later or use alternative fact-checking methods.")
		r.Attempts = attempts
		return r
	}
}

// Probe checks connectivity with a fixed prompt. It never changes the
// judge's configuration.
func (j *RemoteJudge) Probe(ctx context.Context) domain.ProbeResult {
	if !j.Configured() {
		return domain.ProbeResult{OK: false, Message: "remote judge API key not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, j.attemptBudget())
	defer cancel()

	out, err := j.generator.Generate(ctx, port.GenerateInput{Prompt: llm.ProbePrompt})
	if err != nil {
		msg := err.Error()
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "invalid api key") || strings.Contains(lower, "api key not valid") {
			return domain.ProbeResult{OK: false, Message: "Invalid API key"}
		}
		return domain.ProbeResult{OK: false, Message: "remote API connection failed: " + msg}
	}

	if strings.Contains(out.Text, "Connection successful") {
		msg := fmt.Sprintf("%s connection successful", out.Model)
		if out.Tier == llm.TierSecondary {
			msg += " (primary model unavailable)"
		}
		return domain.ProbeResult{OK: true, Message: msg, Tier: out.Tier}
	}
	return domain.ProbeResult{
		OK:      false,
		Message: "unexpected response from remote API: " + llm.Truncate(out.Text, 50),
		Tier:    out.Tier,
	}
}

// tieredGenerator is a generator that bounds each of its tiers separately.
type tieredGenerator interface {
	TierCount() int
	TierTimeout() time.Duration
}

// attemptBudget is the deadline for one attempt. A tiered generator enforces
// its own per-tier deadline, so the attempt covers every tier's window and a
// hanging primary still leaves the secondary its full time.
func (j *RemoteJudge) attemptBudget() time.Duration {
	tg, ok := j.generator.(tieredGenerator)
	if !ok || tg.TierTimeout() <= 0 {
		return j.cfg.AttemptTimeout
	}
	budget := tg.TierTimeout() * time.Duration(tg.TierCount())
	if budget < j.cfg.AttemptTimeout {
		return j.cfg.AttemptTimeout
	}
	return budget
}

func failed(errMsg, reasoning, recommendation string) domain.RemoteJudgment {
	return domain.RemoteJudgment{
		Succeeded:        false,
		CredibilityScore: domain.NeutralCredibilityScore,
		Reasoning:        reasoning,
		Recommendation:   recommendation,
		Error:            errMsg,
	}
}

func truncateRunes(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
