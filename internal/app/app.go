// Package app assembles the analysis pipeline from configuration. Both the
// HTTP server and the CLI start here.
package app

import (
	"context"
	"fmt"
	"log"
	"sync"

	"verinews/internal/classifier"
	"verinews/internal/config"
	"verinews/internal/judge"
	"verinews/internal/llm"
	"verinews/internal/llm/anthropic"
	"verinews/internal/llm/gemini"
	"verinews/internal/llm/openai"
	"verinews/internal/port"
	"verinews/internal/response"
	"verinews/internal/service"
)

var registerOnce sync.Once

// RegisterProviders registers every built-in model tier provider.
func RegisterProviders() {
	registerOnce.Do(func() {
		llm.RegisterProvider("gemini", gemini.Factory)
		llm.RegisterProvider("openai", openai.Factory)
		llm.RegisterProvider("anthropic", anthropic.Factory)
	})
}

// App holds the long-lived, read-only components built at startup.
type App struct {
	Config     *config.Config
	Classifier port.Classifier
	Judge      port.RemoteJudge
	Analysis   service.AnalysisService
}

// New builds the application. A missing or unusable remote configuration is
// not an error: the judge reports itself unconfigured and analyses run local-only.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	RegisterProviders()

	cls := classifier.New(ctx, cfg.Classifier)

	remoteJudge, err := NewRemoteJudge(&cfg.Remote)
	if err != nil {
		return nil, err
	}

	shortChars := 0
	if cfg.Analysis.EnhanceShortContent {
		shortChars = cfg.Analysis.ShortContentChars
	}

	analysisSvc := service.NewAnalysisService(cls, remoteJudge, service.AnalysisOptions{
		ProbeBeforeAnalyze: cfg.Remote.ProbeBeforeAnalyze,
		ShortContentChars:  shortChars,
	})

	return &App{
		Config:     cfg,
		Classifier: cls,
		Judge:      remoteJudge,
		Analysis:   analysisSvc,
	}, nil
}

// NewRemoteJudge builds the tiered generator and the judge around it.
// Without a usable credential it returns an unconfigured judge that never
// touches the network.
func NewRemoteJudge(cfg *config.RemoteConfig) (*judge.RemoteJudge, error) {
	judgeCfg := judge.NewConfig(cfg)
	if !judgeCfg.Configured {
		log.Printf("app: remote judge API key not configured, remote analysis disabled")
		return judge.NewRemoteJudge(judgeCfg, nil, response.NewParser()), nil
	}

	gen, err := NewTierGenerator(cfg)
	if err != nil {
		return nil, err
	}
	return judge.NewRemoteJudge(judgeCfg, gen, response.NewParser()), nil
}

// NewTierGenerator builds the primary tier and, when configured, the secondary
// fallback tier. Each tier invocation gets its own attempt timeout.
func NewTierGenerator(cfg *config.RemoteConfig) (*llm.TierFallback, error) {
	primaryCfg := cfg.PrimaryConfig()
	primary, err := llm.NewGenerator(primaryCfg, llm.TierPrimary)
	if err != nil {
		return nil, fmt.Errorf("creating primary model tier: %w", err)
	}
	tiers := []port.Generator{primary}
	names := []string{llm.TierPrimary}
	log.Printf("app: primary model tier %s/%s", primaryCfg.Provider, primaryCfg.Model)

	if secondaryCfg := cfg.SecondaryConfig(); secondaryCfg != nil {
		secondary, err := llm.NewGenerator(secondaryCfg, llm.TierSecondary)
		if err != nil {
			return nil, fmt.Errorf("creating secondary model tier: %w", err)
		}
		tiers = append(tiers, secondary)
		names = append(names, llm.TierSecondary)
		log.Printf("app: secondary model tier %s/%s", secondaryCfg.Provider, secondaryCfg.Model)
	}

	return llm.NewTierFallback(tiers, names).WithTierTimeout(cfg.AttemptTimeout()), nil
}
