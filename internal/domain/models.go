package domain

import "time"

// ArticleInput is the text under analysis plus optional provenance.
type ArticleInput struct {
	Text   string `json:"text"`
	Title  string `json:"title,omitempty"`
	Source string `json:"source,omitempty"`
}

// LocalJudgment is the local classifier output. Probability is the
// confidence in Label, not the raw fake probability.
type LocalJudgment struct {
	Label       Label             `json:"label"`
	Probability float64           `json:"probability"`
	Variant     ClassifierVariant `json:"variant,omitempty"`
	Fault       string            `json:"fault,omitempty"`
}

// FakeProbability recovers the probability that the article is fake.
func (j LocalJudgment) FakeProbability() float64 {
	if j.Label == LabelFake {
		return j.Probability
	}
	return 1 - j.Probability
}

// JudgmentFromFakeProbability applies the local decision rule to p.
func JudgmentFromFakeProbability(p float64) LocalJudgment {
	if p > LocalFakeThreshold {
		return LocalJudgment{Label: LabelFake, Probability: p}
	}
	return LocalJudgment{Label: LabelReal, Probability: 1 - p}
}

// ParsedJudgment is what the response parser extracts from model text.
type ParsedJudgment struct {
	Score          int
	Reasoning      string
	Recommendation string
	Method         ParseMethod
}

// RemoteJudgment is the outcome of one logical call to the remote judge.
// CredibilityScore is always within [MinCredibilityScore, MaxCredibilityScore].
type RemoteJudgment struct {
	Succeeded        bool        `json:"succeeded"`
	CredibilityScore int         `json:"credibility_score"`
	Reasoning        string      `json:"reasoning"`
	Recommendation   string      `json:"recommendation"`
	ParseMethod      ParseMethod `json:"parse_method,omitempty"`
	ModelTier        string      `json:"model_tier,omitempty"`
	Model            string      `json:"model,omitempty"`
	Fallback         bool        `json:"fallback,omitempty"`
	Attempts         int         `json:"attempts,omitempty"`
	Error            string      `json:"error,omitempty"`
	RawResponse      string      `json:"raw_response,omitempty"`
}

// FakeProbability projects the credibility score into fake-probability space.
func (r RemoteJudgment) FakeProbability() float64 {
	return 1 - float64(r.CredibilityScore)/10.0
}

// FusionResult is the combined decision for one article.
type FusionResult struct {
	Verdict    Verdict         `json:"verdict"`
	Confidence float64         `json:"confidence"`
	Local      LocalJudgment   `json:"local"`
	Remote     *RemoteJudgment `json:"remote,omitempty"`
	Combined   *float64        `json:"combined,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// PresentationTag is display metadata derived from a verdict and confidence.
type PresentationTag struct {
	StyleClass  string `json:"style_class"`
	Icon        string `json:"icon"`
	ColorScheme string `json:"color_scheme"`
	Message     string `json:"message"`
}

// ProbeResult reports whether the remote judge is reachable.
type ProbeResult struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
	Tier    string `json:"tier,omitempty"`
}

// Diagnostics is the operability bundle attached to every analysis response.
type Diagnostics struct {
	Time              time.Time         `json:"time"`
	ContentLength     int               `json:"content_length"`
	ContentEnhanced   bool              `json:"content_enhanced,omitempty"`
	OriginalLength    int               `json:"original_length,omitempty"`
	EnhancedLength    int               `json:"enhanced_length,omitempty"`
	HTMLStripped      bool              `json:"html_stripped,omitempty"`
	RemoteRequested   bool              `json:"remote_requested"`
	RemoteUsed        bool              `json:"remote_used"`
	ConnectionTest    *ProbeResult      `json:"connection_test,omitempty"`
	ClassifierVariant ClassifierVariant `json:"classifier_variant,omitempty"`
	LocalModel        *LocalJudgment    `json:"local_model,omitempty"`
	Remote            *RemoteJudgment   `json:"remote,omitempty"`
	PLocal            float64           `json:"p_local"`
	PRemote           *float64          `json:"p_remote,omitempty"`
	Combined          *float64          `json:"combined,omitempty"`
	RemoteError       string            `json:"remote_error,omitempty"`
	LocalFault        string            `json:"local_fault,omitempty"`
	Error             string            `json:"error,omitempty"`
	Warnings          []string          `json:"warnings,omitempty"`
}
