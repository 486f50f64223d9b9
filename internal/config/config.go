package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// placeholderAPIKey is the value shipped in example .env files.
const placeholderAPIKey = "your_gemini_api_key_here"

// defaultModels holds the {primary, secondary} model per provider, used when
// a tier names no model.
var defaultModels = map[string][2]string{
	"gemini":    {"gemini-2.0-flash", "gemini-1.5-flash"},
	"openai":    {"gpt-4o", "gpt-4o-mini"},
	"anthropic": {"claude-sonnet-4-20250514", "claude-3-5-haiku-latest"},
}

// writeTimeoutMargin covers local classification and response serialization
// on top of the remote budget.
const writeTimeoutMargin = 15 * time.Second

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Remote     RemoteConfig
	Classifier ClassifierConfig
	Analysis   AnalysisConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RemoteProviderConfig holds settings for a single model tier.
type RemoteProviderConfig struct {
	Provider        string  `mapstructure:"provider"`
	APIKey          string  `mapstructure:"api_key"`
	Model           string  `mapstructure:"model"`
	Endpoint        string  `mapstructure:"endpoint"`
	Temperature     float64 `mapstructure:"temperature"`
	TopP            float64 `mapstructure:"top_p"`
	TopK            int     `mapstructure:"top_k"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
	SafetyThreshold string  `mapstructure:"safety_threshold"`
	TimeoutSecs     int     `mapstructure:"timeout_secs"`
}

// CredentialLooksValid reports whether the API key is present, not the
// example placeholder, and shaped like a key for the provider.
func (p *RemoteProviderConfig) CredentialLooksValid() bool {
	key := strings.TrimSpace(p.APIKey)
	if key == "" || key == placeholderAPIKey {
		return false
	}
	switch p.Provider {
	case "gemini":
		return strings.HasPrefix(key, "AIza")
	case "openai":
		return strings.HasPrefix(key, "sk-")
	case "anthropic":
		return strings.HasPrefix(key, "sk-ant-")
	default:
		return true
	}
}

// RemoteConfig holds remote judge settings. The flat provider fields are the
// single-tier form; Primary and Secondary override them when set.
type RemoteConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`

	Primary   RemoteProviderConfig `mapstructure:"primary"`
	Secondary RemoteProviderConfig `mapstructure:"secondary"`

	MaxRetries         int             `mapstructure:"max_retries"`
	AttemptTimeoutSecs int             `mapstructure:"attempt_timeout_secs"`
	Backoff            []time.Duration `mapstructure:"backoff"`
	MaxTextChars       int             `mapstructure:"max_text_chars"`
	MinTextChars       int             `mapstructure:"min_text_chars"`
	ProbeBeforeAnalyze bool            `mapstructure:"probe_before_analyze"`
}

// PrimaryConfig returns the primary tier config, filling provider and
// credential from the flat fields when the tier block leaves them empty.
func (r *RemoteConfig) PrimaryConfig() *RemoteProviderConfig {
	cfg := r.Primary
	if cfg.Provider == "" {
		cfg.Provider = r.Provider
	}
	if cfg.APIKey == "" {
		cfg.APIKey = r.APIKey
	}
	return &cfg
}

// SecondaryConfig returns the fallback tier config, or nil when no fallback
// model is configured. Provider and credential are inherited from the primary tier.
func (r *RemoteConfig) SecondaryConfig() *RemoteProviderConfig {
	if r.Secondary.Model == "" {
		return nil
	}
	primary := r.PrimaryConfig()
	cfg := r.Secondary
	if cfg.Provider == "" {
		cfg.Provider = primary.Provider
	}
	if cfg.APIKey == "" {
		cfg.APIKey = primary.APIKey
	}
	// OpenAI-compatible base URLs are model-independent; Gemini endpoints embed the model.
	if cfg.Endpoint == "" && cfg.Provider == "openai" && primary.Provider == "openai" {
		cfg.Endpoint = primary.Endpoint
	}
	return &cfg
}

// Configured reports whether the primary tier has a usable credential.
func (r *RemoteConfig) Configured() bool {
	return r.PrimaryConfig().CredentialLooksValid()
}

func (r *RemoteConfig) fillDefaultModels() {
	primaryProvider := r.PrimaryConfig().Provider
	if r.Primary.Model == "" {
		r.Primary.Model = defaultModels[primaryProvider][0]
	}
	secondaryProvider := r.Secondary.Provider
	if secondaryProvider == "" {
		secondaryProvider = primaryProvider
	}
	if r.Secondary.Model == "" {
		r.Secondary.Model = defaultModels[secondaryProvider][1]
	}
}

// TierCount returns how many model tiers one remote call may try.
func (r *RemoteConfig) TierCount() int {
	if r.SecondaryConfig() != nil {
		return 2
	}
	return 1
}

// WorstCaseDuration bounds one remote-assisted analysis: the connectivity
// probe plus every retry attempt, each allowed one attempt timeout per tier,
// plus the backoff between attempts.
func (r *RemoteConfig) WorstCaseDuration() time.Duration {
	perCall := r.AttemptTimeout() * time.Duration(r.TierCount())
	attempts := r.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	total := perCall * time.Duration(attempts)
	if r.ProbeBeforeAnalyze {
		total += perCall
	}
	for i := 0; i < attempts-1 && len(r.Backoff) > 0; i++ {
		if i < len(r.Backoff) {
			total += r.Backoff[i]
		} else {
			total += r.Backoff[len(r.Backoff)-1]
		}
	}
	return total
}

// AttemptTimeout returns the per-attempt timeout for remote calls.
func (r *RemoteConfig) AttemptTimeout() time.Duration {
	if r.AttemptTimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(r.AttemptTimeoutSecs) * time.Second
}

// ClassifierConfig holds local classifier settings.
type ClassifierConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	APIKey       string `mapstructure:"api_key"`
	MaxTokens    int    `mapstructure:"max_tokens"`
	FakeIndex    int    `mapstructure:"fake_index"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	KeywordsFile string `mapstructure:"keywords_file"`
}

// AnalysisConfig holds caller-side orchestration settings.
type AnalysisConfig struct {
	EnhanceShortContent bool `mapstructure:"enhance_short_content"`
	ShortContentChars   int  `mapstructure:"short_content_chars"`
}

// Load reads configuration from environment variables with the VERINEWS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VERINEWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5000,http://127.0.0.1:5000")

	// Remote judge defaults
	v.SetDefault("remote.provider", "gemini")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.max_retries", 2)
	v.SetDefault("remote.attempt_timeout_secs", 30)
	v.SetDefault("remote.backoff", "1s,1.5s")
	v.SetDefault("remote.max_text_chars", 30000)
	v.SetDefault("remote.min_text_chars", 50)
	v.SetDefault("remote.probe_before_analyze", true)

	v.SetDefault("remote.primary.provider", "")
	v.SetDefault("remote.primary.api_key", "")
	v.SetDefault("remote.primary.model", "")
	v.SetDefault("remote.primary.endpoint", "")
	v.SetDefault("remote.primary.temperature", 0.1)
	v.SetDefault("remote.primary.top_p", 0.95)
	v.SetDefault("remote.primary.top_k", 40)
	v.SetDefault("remote.primary.max_output_tokens", 4096)
	v.SetDefault("remote.primary.safety_threshold", "BLOCK_MEDIUM_AND_ABOVE")
	v.SetDefault("remote.primary.timeout_secs", 30)
	v.SetDefault("remote.secondary.provider", "")
	v.SetDefault("remote.secondary.api_key", "")
	v.SetDefault("remote.secondary.model", "")
	v.SetDefault("remote.secondary.endpoint", "")
	v.SetDefault("remote.secondary.temperature", 0.2)
	v.SetDefault("remote.secondary.top_p", 0.95)
	v.SetDefault("remote.secondary.top_k", 40)
	v.SetDefault("remote.secondary.max_output_tokens", 2048)
	v.SetDefault("remote.secondary.safety_threshold", "BLOCK_MEDIUM_AND_ABOVE")
	v.SetDefault("remote.secondary.timeout_secs", 30)

	// Classifier defaults
	v.SetDefault("classifier.endpoint", "")
	v.SetDefault("classifier.api_key", "")
	v.SetDefault("classifier.max_tokens", 512)
	v.SetDefault("classifier.fake_index", 1)
	v.SetDefault("classifier.timeout_secs", 15)
	v.SetDefault("classifier.keywords_file", "")

	// Analysis defaults
	v.SetDefault("analysis.enhance_short_content", true)
	v.SetDefault("analysis.short_content_chars", 100)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string][]string{
		"server.port":                        {"VERINEWS_SERVER_PORT"},
		"server.read_timeout":                {"VERINEWS_SERVER_READ_TIMEOUT"},
		"server.write_timeout":               {"VERINEWS_SERVER_WRITE_TIMEOUT"},
		"server.environment":                 {"VERINEWS_SERVER_ENVIRONMENT"},
		"cors.allowed_origins":               {"VERINEWS_CORS_ALLOWED_ORIGINS"},
		"remote.provider":                    {"VERINEWS_REMOTE_PROVIDER"},
		"remote.api_key":                     {"VERINEWS_REMOTE_API_KEY", "GEMINI_API_KEY"},
		"remote.max_retries":                 {"VERINEWS_REMOTE_MAX_RETRIES"},
		"remote.attempt_timeout_secs":        {"VERINEWS_REMOTE_ATTEMPT_TIMEOUT_SECS"},
		"remote.backoff":                     {"VERINEWS_REMOTE_BACKOFF"},
		"remote.max_text_chars":              {"VERINEWS_REMOTE_MAX_TEXT_CHARS"},
		"remote.min_text_chars":              {"VERINEWS_REMOTE_MIN_TEXT_CHARS"},
		"remote.probe_before_analyze":        {"VERINEWS_REMOTE_PROBE_BEFORE_ANALYZE"},
		"remote.primary.provider":            {"VERINEWS_REMOTE_PRIMARY_PROVIDER"},
		"remote.primary.api_key":             {"VERINEWS_REMOTE_PRIMARY_API_KEY"},
		"remote.primary.model":               {"VERINEWS_REMOTE_PRIMARY_MODEL"},
		"remote.primary.endpoint":            {"VERINEWS_REMOTE_PRIMARY_ENDPOINT"},
		"remote.primary.temperature":         {"VERINEWS_REMOTE_PRIMARY_TEMPERATURE"},
		"remote.primary.top_p":               {"VERINEWS_REMOTE_PRIMARY_TOP_P"},
		"remote.primary.top_k":               {"VERINEWS_REMOTE_PRIMARY_TOP_K"},
		"remote.primary.max_output_tokens":   {"VERINEWS_REMOTE_PRIMARY_MAX_OUTPUT_TOKENS"},
		"remote.primary.safety_threshold":    {"VERINEWS_REMOTE_PRIMARY_SAFETY_THRESHOLD"},
		"remote.primary.timeout_secs":        {"VERINEWS_REMOTE_PRIMARY_TIMEOUT_SECS"},
		"remote.secondary.provider":          {"VERINEWS_REMOTE_SECONDARY_PROVIDER"},
		"remote.secondary.api_key":           {"VERINEWS_REMOTE_SECONDARY_API_KEY"},
		"remote.secondary.model":             {"VERINEWS_REMOTE_SECONDARY_MODEL"},
		"remote.secondary.endpoint":          {"VERINEWS_REMOTE_SECONDARY_ENDPOINT"},
		"remote.secondary.temperature":       {"VERINEWS_REMOTE_SECONDARY_TEMPERATURE"},
		"remote.secondary.top_p":             {"VERINEWS_REMOTE_SECONDARY_TOP_P"},
		"remote.secondary.top_k":             {"VERINEWS_REMOTE_SECONDARY_TOP_K"},
		"remote.secondary.max_output_tokens": {"VERINEWS_REMOTE_SECONDARY_MAX_OUTPUT_TOKENS"},
		"remote.secondary.safety_threshold":  {"VERINEWS_REMOTE_SECONDARY_SAFETY_THRESHOLD"},
		"remote.secondary.timeout_secs":      {"VERINEWS_REMOTE_SECONDARY_TIMEOUT_SECS"},
		"classifier.endpoint":                {"VERINEWS_CLASSIFIER_ENDPOINT"},
		"classifier.api_key":                 {"VERINEWS_CLASSIFIER_API_KEY"},
		"classifier.max_tokens":              {"VERINEWS_CLASSIFIER_MAX_TOKENS"},
		"classifier.fake_index":              {"VERINEWS_CLASSIFIER_FAKE_INDEX"},
		"classifier.timeout_secs":            {"VERINEWS_CLASSIFIER_TIMEOUT_SECS"},
		"classifier.keywords_file":           {"VERINEWS_CLASSIFIER_KEYWORDS_FILE"},
		"analysis.enhance_short_content":     {"VERINEWS_ANALYSIS_ENHANCE_SHORT_CONTENT"},
		"analysis.short_content_chars":       {"VERINEWS_ANALYSIS_SHORT_CONTENT_CHARS"},
	}
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if VERINEWS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("VERINEWS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:        serverPort,
		ReadTimeout: v.GetDuration("server.read_timeout"),
		Environment: v.GetString("server.environment"),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	backoff, err := ParseBackoff(v.GetString("remote.backoff"))
	if err != nil {
		return nil, err
	}

	cfg.Remote = RemoteConfig{
		Provider:           v.GetString("remote.provider"),
		APIKey:             v.GetString("remote.api_key"),
		Primary:            loadProvider(v, "remote.primary"),
		Secondary:          loadProvider(v, "remote.secondary"),
		MaxRetries:         v.GetInt("remote.max_retries"),
		AttemptTimeoutSecs: v.GetInt("remote.attempt_timeout_secs"),
		Backoff:            backoff,
		MaxTextChars:       v.GetInt("remote.max_text_chars"),
		MinTextChars:       v.GetInt("remote.min_text_chars"),
		ProbeBeforeAnalyze: v.GetBool("remote.probe_before_analyze"),
	}
	cfg.Remote.fillDefaultModels()

	// Unless set explicitly, the write timeout must outlast a remote-assisted analysis.
	cfg.Server.WriteTimeout = v.GetDuration("server.write_timeout")
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = cfg.Remote.WorstCaseDuration() + writeTimeoutMargin
	}

	cfg.Classifier = ClassifierConfig{
		Endpoint:     v.GetString("classifier.endpoint"),
		APIKey:       v.GetString("classifier.api_key"),
		MaxTokens:    v.GetInt("classifier.max_tokens"),
		FakeIndex:    v.GetInt("classifier.fake_index"),
		TimeoutSecs:  v.GetInt("classifier.timeout_secs"),
		KeywordsFile: v.GetString("classifier.keywords_file"),
	}

	cfg.Analysis = AnalysisConfig{
		EnhanceShortContent: v.GetBool("analysis.enhance_short_content"),
		ShortContentChars:   v.GetInt("analysis.short_content_chars"),
	}

	return cfg, nil
}

func loadProvider(v *viper.Viper, prefix string) RemoteProviderConfig {
	return RemoteProviderConfig{
		Provider:        v.GetString(prefix + ".provider"),
		APIKey:          v.GetString(prefix + ".api_key"),
		Model:           v.GetString(prefix + ".model"),
		Endpoint:        v.GetString(prefix + ".endpoint"),
		Temperature:     v.GetFloat64(prefix + ".temperature"),
		TopP:            v.GetFloat64(prefix + ".top_p"),
		TopK:            v.GetInt(prefix + ".top_k"),
		MaxOutputTokens: v.GetInt(prefix + ".max_output_tokens"),
		SafetyThreshold: v.GetString(prefix + ".safety_threshold"),
		TimeoutSecs:     v.GetInt(prefix + ".timeout_secs"),
	}
}

// ParseBackoff parses a comma-separated list of durations such as "1s,1.5s".
func ParseBackoff(raw string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range splitList(raw) {
		d, err := time.ParseDuration(part)
		if err != nil {
			return nil, fmt.Errorf("invalid remote.backoff entry %q: %w", part, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
