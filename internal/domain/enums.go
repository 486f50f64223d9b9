package domain

// Label is the binary outcome of the local classifier.
type Label string

const (
	LabelFake Label = "Fake"
	LabelReal Label = "Real"
)

// Verdict is the final categorical decision returned to callers.
type Verdict string

const (
	VerdictFake      Verdict = "Fake"
	VerdictReal      Verdict = "Real"
	VerdictUncertain Verdict = "Uncertain"
	VerdictError     Verdict = "Error"
)

// ParseMethod records which extraction strategy produced a remote judgment.
type ParseMethod string

const (
	ParseMethodStructured ParseMethod = "structured"
	ParseMethodPattern    ParseMethod = "pattern"
	ParseMethodLineScan   ParseMethod = "line_scan"
)

// ClassifierVariant names the local classifier implementation selected at startup.
type ClassifierVariant string

const (
	ClassifierVariantBackend   ClassifierVariant = "backend"
	ClassifierVariantHeuristic ClassifierVariant = "heuristic"
)

// Credibility score bounds returned by the remote judge.
const (
	MinCredibilityScore     = 1
	MaxCredibilityScore     = 10
	NeutralCredibilityScore = 5
)

// Fusion thresholds. LocalFakeThreshold labels a local prediction Fake;
// the combined path uses the two-threshold band (RealBelow, FakeAbove).
const (
	LocalFakeThreshold = 0.7
	CombinedFakeAbove  = 0.7
	CombinedRealBelow  = 0.3
	LocalWeight        = 0.3
	RemoteWeight       = 0.7
	ErrorConfidence    = 0.5
	NeutralProbability = 0.5
)
