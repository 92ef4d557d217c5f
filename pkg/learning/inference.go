package learning

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Result is the outcome of classifying one token sequence
type Result struct {
	Category      string             `json:"predicted_category"`
	Probabilities map[string]float64 `json:"probabilities"`
	Confidence    float64            `json:"confidence"`
	TotalTokens   int                `json:"total_tokens"`
	UniqueTokens  int                `json:"unique_tokens"`
}

// Classify scores tokens against every category and returns the posterior
// distribution.
//
// Scores are computed in log space:
//
//	log P(c) + Σ log((count(c,t) + 1) / (words(c) + |V|))
//
// and turned into probabilities with a max-shifted softmax. The highest score
// wins; on a tie the category seen first during training wins. An empty token
// sequence yields a uniform distribution predicting the first category.
func (m *Model) Classify(tokens []string) (*Result, error) {
	if !m.IsTrained() {
		return nil, ErrModelNotTrained
	}

	if len(tokens) == 0 {
		return m.uniformResult(), nil
	}

	vocabSize := float64(len(m.vocabulary))
	scores := make([]float64, len(m.categories))
	best := 0

	for i, category := range m.categories {
		scores[i] = m.logScore(category, tokens, vocabSize)
		if scores[i] > scores[best] {
			best = i
		}
	}

	probs := softmax(scores)
	result := &Result{
		Category:      m.categories[best],
		Probabilities: make(map[string]float64, len(m.categories)),
		Confidence:    probs[best],
		TotalTokens:   len(tokens),
		UniqueTokens:  countUnique(tokens),
	}
	for i, category := range m.categories {
		result.Probabilities[category] = probs[i]
	}

	return result, nil
}

// logScore returns log P(category) + log P(tokens|category)
func (m *Model) logScore(category string, tokens []string, vocabSize float64) float64 {
	stats := m.stats[category]
	score := math.Log(m.prior(category))

	denominator := float64(stats.Words) + vocabSize
	for _, token := range tokens {
		score += math.Log((float64(stats.Frequencies[token]) + 1) / denominator)
	}

	return score
}

func (m *Model) uniformResult() *Result {
	p := 1.0 / float64(len(m.categories))

	probs := make(map[string]float64, len(m.categories))
	for _, category := range m.categories {
		probs[category] = p
	}

	return &Result{
		Category:      m.categories[0],
		Probabilities: probs,
		Confidence:    p,
	}
}

// softmax converts log scores into a normalized distribution.
// The max score is subtracted first so the largest term is exp(0) = 1.
func softmax(scores []float64) []float64 {
	probs := make([]float64, len(scores))
	copy(probs, scores)

	floats.AddConst(-floats.Max(scores), probs)
	for i, s := range probs {
		probs[i] = math.Exp(s)
	}
	floats.Scale(1/floats.Sum(probs), probs)

	return probs
}

func countUnique(tokens []string) int {
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		seen[token] = struct{}{}
	}
	return len(seen)
}
