package llm

import (
	"fmt"
	"sort"
	"strings"

	"verinews/internal/config"
	"verinews/internal/port"
)

// ProviderFactory creates a Generator for one model tier.
type ProviderFactory func(cfg *config.RemoteProviderConfig, tier string) (port.Generator, error)

// providers maps a provider name to its factory. Populated by RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a tier provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewGenerator creates the Generator for one named tier. The tier must be
// primary or secondary and its credential must look usable for the provider,
// so a misconfigured fallback tier is reported at startup rather than on the
// first failed primary call.
func NewGenerator(cfg *config.RemoteProviderConfig, tier string) (port.Generator, error) {
	if tier != TierPrimary && tier != TierSecondary {
		return nil, fmt.Errorf("unknown model tier: %q", tier)
	}
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown remote provider: %s (registered: %s)", cfg.Provider, strings.Join(registered(), ", "))
	}
	if !cfg.CredentialLooksValid() {
		return nil, fmt.Errorf("%s tier: %s API key missing or malformed", tier, cfg.Provider)
	}
	return factory(cfg, tier)
}

func registered() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
