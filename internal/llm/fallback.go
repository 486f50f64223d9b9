package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"verinews/internal/port"
)

// Tier names recorded on every generated response.
const (
	TierPrimary   = "primary"
	TierSecondary = "secondary"
)

// TierFallback tries model tiers in order within one logical call and
// returns the first successful reply. It implements port.Generator.
// It keeps no state between calls.
type TierFallback struct {
	tiers       []port.Generator
	names       []string
	tierTimeout time.Duration
}

// NewTierFallback creates a TierFallback from an ordered list of tiers and their names.
func NewTierFallback(tiers []port.Generator, names []string) *TierFallback {
	return &TierFallback{tiers: tiers, names: names}
}

// WithTierTimeout gives every tier invocation its own deadline, so a tier
// that hangs does not use up the time of the tiers after it.
func (f *TierFallback) WithTierTimeout(d time.Duration) *TierFallback {
	f.tierTimeout = d
	return f
}

// TierCount returns the number of tiers tried per call.
func (f *TierFallback) TierCount() int {
	return len(f.tiers)
}

// TierTimeout returns the per-tier deadline, or 0 when tiers share the caller's.
func (f *TierFallback) TierTimeout() time.Duration {
	return f.tierTimeout
}

func (f *TierFallback) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	if len(f.tiers) == 0 {
		return nil, fmt.Errorf("no model tiers configured")
	}

	var lastErr error
	for i, g := range f.tiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := f.generate(ctx, g, input)
		if err == nil {
			if out.Tier == "" {
				out.Tier = f.names[i]
			}
			return out, nil
		}

		log.Printf("llm.TierFallback: %s tier failed: %v", f.names[i], err)
		lastErr = err
	}

	if len(f.tiers) == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("all model tiers failed: %w", lastErr)
}

func (f *TierFallback) generate(ctx context.Context, g port.Generator, input port.GenerateInput) (*port.GenerateOutput, error) {
	if f.tierTimeout <= 0 {
		return g.Generate(ctx, input)
	}
	tierCtx, cancel := context.WithTimeout(ctx, f.tierTimeout)
	defer cancel()
	return g.Generate(tierCtx, input)
}
