package fusion_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"verinews/internal/domain"
	"verinews/internal/fusion"
	"verinews/mocks"
)

var article = domain.ArticleInput{Text: "Some article body long enough to be judged remotely by the model tier.", Title: "T", Source: "S"}

func localWithFakeProb(p float64) domain.LocalJudgment {
	return domain.JudgmentFromFakeProbability(p)
}

func TestEngine_CombinedUncertain(t *testing.T) {
	cls := new(mocks.MockClassifier)
	cls.On("Classify", mock.Anything, article.Text).Return(localWithFakeProb(0.4))
	judge := new(mocks.MockRemoteJudge)
	judge.On("Judge", mock.Anything, article).Return(domain.RemoteJudgment{Succeeded: true, CredibilityScore: 2})

	res := fusion.NewEngine(cls, judge).Analyze(context.Background(), article, true)

	assert.Equal(t, domain.VerdictUncertain, res.Verdict)
	assert.InDelta(t, 0.68, res.Confidence, 1e-9)
	require.NotNil(t, res.Combined)
	assert.InDelta(t, 0.68, *res.Combined, 1e-9)
	require.NotNil(t, res.Remote)
	assert.Equal(t, 2, res.Remote.CredibilityScore)
}

func TestEngine_CombinedFakeAndReal(t *testing.T) {
	tests := []struct {
		name    string
		pLocal  float64
		score   int
		verdict domain.Verdict
	}{
		{"both fake", 0.9, 1, domain.VerdictFake},
		{"both real", 0.1, 9, domain.VerdictReal},
		{"remote outweighs local", 0.9, 10, domain.VerdictReal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := new(mocks.MockClassifier)
			cls.On("Classify", mock.Anything, mock.Anything).Return(localWithFakeProb(tt.pLocal))
			judge := new(mocks.MockRemoteJudge)
			judge.On("Judge", mock.Anything, mock.Anything).Return(domain.RemoteJudgment{Succeeded: true, CredibilityScore: tt.score})

			res := fusion.NewEngine(cls, judge).Analyze(context.Background(), article, true)

			assert.Equal(t, tt.verdict, res.Verdict)
		})
	}
}

func TestVerdictForCombined_BoundariesExclusive(t *testing.T) {
	assert.Equal(t, domain.VerdictUncertain, fusion.VerdictForCombined(0.7))
	assert.Equal(t, domain.VerdictUncertain, fusion.VerdictForCombined(0.3))
	assert.Equal(t, domain.VerdictFake, fusion.VerdictForCombined(0.7000001))
	assert.Equal(t, domain.VerdictReal, fusion.VerdictForCombined(0.2999999))
	assert.Equal(t, domain.VerdictUncertain, fusion.VerdictForCombined(0.5))
}

func TestCombine_FailedRemoteDoesNotLeak(t *testing.T) {
	for _, p := range []float64{0.05, 0.3, 0.5, 0.7, 0.95} {
		local := localWithFakeProb(p)
		failed := domain.RemoteJudgment{Succeeded: false, CredibilityScore: domain.NeutralCredibilityScore, Error: "timeout"}

		res := fusion.Combine(local, failed)

		require.NotNil(t, res.Combined)
		assert.Equal(t, local.FakeProbability(), *res.Combined, "p=%v", p)
		assert.Equal(t, local.FakeProbability(), res.Confidence)
		assert.Equal(t, "timeout", res.Remote.Error)
	}
}

func TestEngine_FailedRemoteUsesLocalOnlyScore(t *testing.T) {
	cls := new(mocks.MockClassifier)
	cls.On("Classify", mock.Anything, mock.Anything).Return(localWithFakeProb(0.9))
	judge := new(mocks.MockRemoteJudge)
	judge.On("Judge", mock.Anything, mock.Anything).Return(domain.RemoteJudgment{CredibilityScore: 5, Error: "unparsable response after 3 attempts"})

	res := fusion.NewEngine(cls, judge).Analyze(context.Background(), article, true)

	assert.Equal(t, domain.VerdictFake, res.Verdict)
	assert.InDelta(t, 0.9, res.Confidence, 1e-12)
}

func TestEngine_LocalOnly(t *testing.T) {
	cls := new(mocks.MockClassifier)
	cls.On("Classify", mock.Anything, article.Text).Return(domain.LocalJudgment{Label: domain.LabelFake, Probability: 0.85})
	judge := new(mocks.MockRemoteJudge)

	res := fusion.NewEngine(cls, judge).Analyze(context.Background(), article, false)

	assert.Equal(t, domain.VerdictFake, res.Verdict)
	assert.Equal(t, 0.85, res.Confidence)
	assert.Nil(t, res.Remote)
	assert.Nil(t, res.Combined)
	judge.AssertNotCalled(t, "Judge", mock.Anything, mock.Anything)
}

func TestEngine_LocalOnlyNeverUncertain(t *testing.T) {
	cls := new(mocks.MockClassifier)
	cls.On("Classify", mock.Anything, mock.Anything).Return(localWithFakeProb(0.5))

	res := fusion.NewEngine(cls, nil).Analyze(context.Background(), article, false)

	assert.Equal(t, domain.VerdictReal, res.Verdict)
	assert.Equal(t, 0.5, res.Confidence)
}

type panickingClassifier struct{}

func (panickingClassifier) Classify(context.Context, string) domain.LocalJudgment {
	panic("tensor shape mismatch")
}

func (panickingClassifier) Variant() domain.ClassifierVariant { return domain.ClassifierVariantBackend }

func TestEngine_ClassifierPanicBecomesError(t *testing.T) {
	for _, useRemote := range []bool{false, true} {
		judge := new(mocks.MockRemoteJudge)
		judge.On("Judge", mock.Anything, mock.Anything).Return(domain.RemoteJudgment{Succeeded: true, CredibilityScore: 9}).Maybe()

		res := fusion.NewEngine(panickingClassifier{}, judge).Analyze(context.Background(), article, useRemote)

		assert.Equal(t, domain.VerdictError, res.Verdict)
		assert.Equal(t, 0.5, res.Confidence)
		assert.Contains(t, res.Error, "tensor shape mismatch")
	}
}

type panickingJudge struct{}

func (panickingJudge) Judge(context.Context, domain.ArticleInput) domain.RemoteJudgment {
	panic("nil map")
}
func (panickingJudge) Probe(context.Context) domain.ProbeResult { return domain.ProbeResult{} }
func (panickingJudge) Configured() bool                         { return true }

func TestEngine_RemotePanicIsFailedJudgment(t *testing.T) {
	cls := new(mocks.MockClassifier)
	cls.On("Classify", mock.Anything, mock.Anything).Return(localWithFakeProb(0.1))

	res := fusion.NewEngine(cls, panickingJudge{}).Analyze(context.Background(), article, true)

	assert.Equal(t, domain.VerdictReal, res.Verdict)
	require.NotNil(t, res.Remote)
	assert.False(t, res.Remote.Succeeded)
	assert.Contains(t, res.Remote.Error, "nil map")
	assert.InDelta(t, 0.1, res.Confidence, 1e-12)
}

func TestEngine_NilJudgeWithRemoteRequested(t *testing.T) {
	cls := new(mocks.MockClassifier)
	cls.On("Classify", mock.Anything, mock.Anything).Return(localWithFakeProb(0.2))

	res := fusion.NewEngine(cls, nil).Analyze(context.Background(), article, true)

	require.NotNil(t, res.Remote)
	assert.False(t, res.Remote.Succeeded)
	assert.Equal(t, domain.VerdictReal, res.Verdict)
}
