package learning

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDistribution(t *testing.T, result *Result) {
	t.Helper()

	sum := 0.0
	best := ""
	for category, p := range result.Probabilities {
		assert.False(t, math.IsNaN(p), "probability of %s is NaN", category)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		sum += p
		if best == "" || p > result.Probabilities[best] {
			best = category
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, result.Probabilities[best], result.Confidence, 1e-12)
	assert.Equal(t, result.Probabilities[result.Category], result.Confidence)
}

func TestClassifyPrefersMatchingCategory(t *testing.T) {
	m, err := Build(sportNewsDocs())
	require.NoError(t, err)

	result, err := m.Classify([]string{"gol", "match"})
	require.NoError(t, err)

	assert.Equal(t, "sport", result.Category)
	assert.Greater(t, result.Probabilities["sport"], result.Probabilities["news"])
	assert.Equal(t, 2, result.TotalTokens)
	assert.Equal(t, 2, result.UniqueTokens)

	// P(sport) ∝ 3/7 · 2/7, P(news) ∝ 1/7 · 2/7
	assert.InDelta(t, 0.75, result.Probabilities["sport"], 1e-9)
	assertDistribution(t, result)
}

func TestClassifyEmptyTokensIsUniform(t *testing.T) {
	m, err := Build([]LabeledTokens{
		{Category: "A", Tokens: []string{"x"}},
		{Category: "B", Tokens: []string{"y", "y"}},
		{Category: "C", Tokens: []string{"z"}},
		{Category: "C", Tokens: []string{"z"}},
	})
	require.NoError(t, err)

	for _, tokens := range [][]string{nil, {}} {
		result, err := m.Classify(tokens)
		require.NoError(t, err)

		assert.Equal(t, "A", result.Category)
		assert.InDelta(t, 1.0/3.0, result.Confidence, 1e-12)
		for _, category := range []string{"A", "B", "C"} {
			assert.InDelta(t, 1.0/3.0, result.Probabilities[category], 1e-12)
		}
		assert.Equal(t, 0, result.TotalTokens)
		assert.Equal(t, 0, result.UniqueTokens)
	}
}

func TestClassifyTieBreaksOnTrainingOrder(t *testing.T) {
	tests := []struct {
		name     string
		order    []string
		expected string
	}{
		{name: "alpha first", order: []string{"alpha", "beta"}, expected: "alpha"},
		{name: "beta first", order: []string{"beta", "alpha"}, expected: "beta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := make([]LabeledTokens, 0, len(tt.order))
			for _, category := range tt.order {
				docs = append(docs, LabeledTokens{Category: category, Tokens: []string{"same", "words"}})
			}

			m, err := Build(docs)
			require.NoError(t, err)

			result, err := m.Classify([]string{"same", "unknown"})
			require.NoError(t, err)

			assert.Equal(t, tt.expected, result.Category)
			assert.InDelta(t, 0.5, result.Confidence, 1e-12)
		})
	}
}

func TestClassifyLongDocumentDoesNotUnderflow(t *testing.T) {
	m, err := Build([]LabeledTokens{
		{Category: "a", Tokens: strings.Fields("alpha beta gamma delta")},
		{Category: "b", Tokens: strings.Fields("epsilon zeta eta theta")},
	})
	require.NoError(t, err)

	tokens := make([]string, 0, 20000)
	for i := 0; i < 5000; i++ {
		tokens = append(tokens, "alpha", "beta", "unseen", "zeta")
	}

	result, err := m.Classify(tokens)
	require.NoError(t, err)

	assert.Equal(t, "a", result.Category)
	assert.Equal(t, 20000, result.TotalTokens)
	assert.Equal(t, 4, result.UniqueTokens)
	assertDistribution(t, result)
}

func TestClassifyUnseenTokensOnly(t *testing.T) {
	m, err := Build([]LabeledTokens{
		{Category: "small", Tokens: []string{"a"}},
		{Category: "large", Tokens: []string{"b", "c", "d", "e", "f"}},
	})
	require.NoError(t, err)

	result, err := m.Classify([]string{"zzz"})
	require.NoError(t, err)

	// Equal priors; the smaller category has the smaller denominator
	assert.Equal(t, "small", result.Category)
	assertDistribution(t, result)
}

func TestClassifyUntrained(t *testing.T) {
	_, err := NewModel().Classify([]string{"x"})
	assert.ErrorIs(t, err, ErrModelNotTrained)
}

func TestSoftmax(t *testing.T) {
	probs := softmax([]float64{-1000, -1001, -1002})

	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Greater(t, probs[0], probs[1])
	assert.Greater(t, probs[1], probs[2])
	assert.InDelta(t, 1/(1+math.Exp(-1)+math.Exp(-2)), probs[0], 1e-12)
}
