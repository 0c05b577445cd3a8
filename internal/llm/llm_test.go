package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kehinde-alade/evidence-classifier/constants"
	"github.com/kehinde-alade/evidence-classifier/internal/common"
)

func goodVerdict() Verdict {
	return Verdict{
		ArticleTitle:      "Mobile Health Worker Performance Study",
		InclusionDecision: "Included",
		Justification:     "CommCare used as the primary intervention platform.",
		Category:          "FLW",
		DetailedReasoning: "The trial deployed CommCare to 200 frontline workers across two districts.",
	}
}

type stubBackend struct {
	verdict Verdict
	err     error
	lastReq Request
	calls   int
}

func (s *stubBackend) Analyze(_ context.Context, req Request) (Verdict, []byte, error) {
	s.calls++
	s.lastReq = req
	return s.verdict, nil, s.err
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("a", 100)))
}

func TestCheckBudgetHardLimit(t *testing.T) {
	// 180000 estimated tokens passes; one more token's worth does not.
	atLimit := strings.Repeat("a", TokenHardLimit*charsPerTokenRate)
	over := strings.Repeat("a", (TokenHardLimit+1)*charsPerTokenRate)

	_, err := checkBudget(slog.Default(), "ok.pdf", atLimit, constants.ProviderOpenAI)
	assert.NoError(t, err)

	_, err = checkBudget(slog.Default(), "big.pdf", over, constants.ProviderOpenAI)
	require.Error(t, err)
	assert.Equal(t, common.CodeDocumentTooLarge, common.CodeOf(err))
	assert.Contains(t, err.Error(), "Document too large (180001 tokens)")
}

func TestCheckBudgetForceStreaming(t *testing.T) {
	large := strings.Repeat("a", (TokenMediumLarge+1)*charsPerTokenRate)

	force, err := checkBudget(slog.Default(), "large.pdf", large, constants.ProviderAnthropic)
	require.NoError(t, err)
	assert.True(t, force, "anthropic should stream above the medium-large tier")

	force, err = checkBudget(slog.Default(), "large.pdf", large, constants.ProviderOpenAI)
	require.NoError(t, err)
	assert.False(t, force)
}

func TestValidateVerdict(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Verdict)
		wantErr string
	}{
		{"valid", func(v *Verdict) {}, ""},
		{"blank title", func(v *Verdict) { v.ArticleTitle = "   " }, "empty required field: article_title"},
		{"blank reasoning", func(v *Verdict) { v.DetailedReasoning = "" }, "empty required field: detailed_reasoning"},
		{"unknown decision", func(v *Verdict) { v.InclusionDecision = "Maybe" }, "invalid inclusion_decision: Maybe"},
		{"unknown category", func(v *Verdict) { v.Category = "Robotics" }, "invalid category: Robotics"},
		{"decision case-insensitive", func(v *Verdict) { v.InclusionDecision = "included" }, ""},
		{"category synonym canonicalized", func(v *Verdict) { v.Category = "GreyLiterature" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := goodVerdict()
			tt.mutate(&v)
			err := ValidateVerdict(&v, nil)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, common.CodeValidationFailed, common.CodeOf(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateVerdictExcludedNormalization(t *testing.T) {
	v := goodVerdict()
	v.InclusionDecision = "Excluded"
	v.Category = "Client" // backends sometimes fill this in anyway

	require.NoError(t, ValidateVerdict(&v, nil))
	assert.Equal(t, "N/A", v.Category)

	// Re-validating the corrected verdict changes nothing.
	before := v
	require.NoError(t, ValidateVerdict(&v, nil))
	assert.Equal(t, before, v)
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildReviewJSONSchema()

	good, err := json.Marshal(goodVerdict())
	require.NoError(t, err)
	assert.NoError(t, ValidateJSONAgainstSchema(schema, good))

	t.Run("missing field", func(t *testing.T) {
		err := ValidateJSONAgainstSchema(schema, []byte(`{"article_title":"x"}`))
		assert.Error(t, err)
	})
	t.Run("enum violation", func(t *testing.T) {
		v := goodVerdict()
		v.InclusionDecision = "Perhaps"
		b, _ := json.Marshal(v)
		assert.Error(t, ValidateJSONAgainstSchema(schema, b))
	})
	t.Run("extra property", func(t *testing.T) {
		b := []byte(`{"article_title":"t","inclusion_decision":"Included","justification":"j","category":"FLW","detailed_reasoning":"r","confidence":0.9}`)
		assert.Error(t, ValidateJSONAgainstSchema(schema, b))
	})
}

func TestRouterDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("routes o3 to openai backend", func(t *testing.T) {
		be := &stubBackend{verdict: goodVerdict()}
		r := NewRouter(map[constants.Provider]Backend{constants.ProviderOpenAI: be}, nil)

		v, err := r.Analyze(ctx, "paper text", "paper.pdf", "o3")
		require.NoError(t, err)
		assert.Equal(t, 1, be.calls)
		assert.Equal(t, "Included", v.InclusionDecision)
		assert.Equal(t, "paper.pdf", be.lastReq.Filename)
	})

	t.Run("unknown model", func(t *testing.T) {
		r := NewRouter(nil, nil)
		_, err := r.Analyze(ctx, "text", "p.pdf", "gpt-9000")
		require.Error(t, err)
		assert.Equal(t, common.CodeValidationFailed, common.CodeOf(err))
	})

	t.Run("provider without credential", func(t *testing.T) {
		be := &stubBackend{verdict: goodVerdict()}
		r := NewRouter(map[constants.Provider]Backend{constants.ProviderOpenAI: be}, nil)
		_, err := r.Analyze(ctx, "text", "p.pdf", "claude-opus-4")
		require.Error(t, err)
		assert.Equal(t, common.CodeMissingCredential, common.CodeOf(err))
		assert.Zero(t, be.calls)
	})

	t.Run("oversize document never reaches backend", func(t *testing.T) {
		be := &stubBackend{verdict: goodVerdict()}
		r := NewRouter(map[constants.Provider]Backend{constants.ProviderOpenAI: be}, nil)
		text := strings.Repeat("a", (TokenHardLimit+1)*charsPerTokenRate)
		_, err := r.Analyze(ctx, text, "huge.pdf", "o3")
		require.Error(t, err)
		assert.Equal(t, common.CodeDocumentTooLarge, common.CodeOf(err))
		assert.Zero(t, be.calls)
	})

	t.Run("force streaming propagates to anthropic", func(t *testing.T) {
		be := &stubBackend{verdict: goodVerdict()}
		r := NewRouter(map[constants.Provider]Backend{constants.ProviderAnthropic: be}, nil)
		text := strings.Repeat("a", (TokenMediumLarge+1)*charsPerTokenRate)
		_, err := r.Analyze(ctx, text, "large.pdf", "claude-opus-4")
		require.NoError(t, err)
		assert.True(t, be.lastReq.ForceStream)
	})

	t.Run("plain backend error wrapped as backend failure", func(t *testing.T) {
		be := &stubBackend{err: errors.New("connection reset")}
		r := NewRouter(map[constants.Provider]Backend{constants.ProviderOpenAI: be}, nil)
		_, err := r.Analyze(ctx, "text", "p.pdf", "o3")
		require.Error(t, err)
		assert.Equal(t, common.CodeBackendFailed, common.CodeOf(err))
	})

	t.Run("tagged backend error passes through", func(t *testing.T) {
		be := &stubBackend{err: common.NewAppError(common.CodeMalformedResponse, "bad json", nil)}
		r := NewRouter(map[constants.Provider]Backend{constants.ProviderOpenAI: be}, nil)
		_, err := r.Analyze(ctx, "text", "p.pdf", "o3")
		require.Error(t, err)
		assert.Equal(t, common.CodeMalformedResponse, common.CodeOf(err))
	})

	t.Run("invalid verdict from backend", func(t *testing.T) {
		v := goodVerdict()
		v.Category = "Robotics"
		be := &stubBackend{verdict: v}
		r := NewRouter(map[constants.Provider]Backend{constants.ProviderOpenAI: be}, nil)
		_, err := r.Analyze(ctx, "text", "p.pdf", "o3")
		require.Error(t, err)
		assert.Equal(t, common.CodeValidationFailed, common.CodeOf(err))
	})
}
