package learning

import (
	"sort"
	"time"

	"github.com/pkg/errors"
)

// LabeledTokens is a normalized training document
type LabeledTokens struct {
	Category string
	Tokens   []string
}

// CategoryStats holds the counts learned for one category
type CategoryStats struct {
	Name        string         `json:"name"`
	Documents   int            `json:"documents"`
	Words       int            `json:"words"`
	Frequencies map[string]int `json:"-"`
}

// Model is a trained multinomial Naive Bayes model.
//
// A Model is never mutated once Build returns it, so a single instance can be
// read from any number of goroutines. Categories keep the order in which they
// were first seen during training; that order breaks scoring ties.
type Model struct {
	categories     []string
	stats          map[string]*CategoryStats
	vocabulary     map[string]struct{}
	totalDocuments int
	trained        bool
	trainedAt      time.Time
}

// NewModel returns an empty, untrained model
func NewModel() *Model {
	return &Model{
		stats:      make(map[string]*CategoryStats),
		vocabulary: make(map[string]struct{}),
	}
}

// Build counts the given documents into a fresh trained model.
// Documents without tokens are skipped and do not count toward the priors.
func Build(docs []LabeledTokens) (*Model, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyTrainingSet
	}

	m := NewModel()
	for _, doc := range docs {
		if len(doc.Tokens) == 0 {
			continue
		}

		stats, exists := m.stats[doc.Category]
		if !exists {
			stats = &CategoryStats{
				Name:        doc.Category,
				Frequencies: make(map[string]int),
			}
			m.stats[doc.Category] = stats
			m.categories = append(m.categories, doc.Category)
		}

		stats.Documents++
		for _, token := range doc.Tokens {
			stats.Frequencies[token]++
			stats.Words++
			m.vocabulary[token] = struct{}{}
		}

		m.totalDocuments++
	}

	if m.totalDocuments == 0 {
		return nil, ErrEmptyTrainingSet
	}

	m.trained = true
	m.trainedAt = time.Now()

	return m, nil
}

// IsTrained reports whether the model came out of a successful Build
func (m *Model) IsTrained() bool {
	return m != nil && m.trained
}

// Categories returns the known categories in training order
func (m *Model) Categories() []string {
	if m == nil {
		return nil
	}
	categories := make([]string, len(m.categories))
	copy(categories, m.categories)
	return categories
}

// TotalDocuments returns the number of documents counted during training
func (m *Model) TotalDocuments() int {
	if m == nil {
		return 0
	}
	return m.totalDocuments
}

// VocabularySize returns the number of distinct tokens across all categories
func (m *Model) VocabularySize() int {
	if m == nil {
		return 0
	}
	return len(m.vocabulary)
}

// TrainedAt returns when the model was built
func (m *Model) TrainedAt() time.Time {
	if m == nil {
		return time.Time{}
	}
	return m.trainedAt
}

// InVocabulary reports whether token was seen in any category
func (m *Model) InVocabulary(token string) bool {
	if m == nil {
		return false
	}
	_, ok := m.vocabulary[token]
	return ok
}

// Stats returns a copy of the counts for a category
func (m *Model) Stats(category string) (CategoryStats, bool) {
	if m == nil {
		return CategoryStats{}, false
	}
	stats, ok := m.stats[category]
	if !ok {
		return CategoryStats{}, false
	}

	frequencies := make(map[string]int, len(stats.Frequencies))
	for token, count := range stats.Frequencies {
		frequencies[token] = count
	}

	return CategoryStats{
		Name:        stats.Name,
		Documents:   stats.Documents,
		Words:       stats.Words,
		Frequencies: frequencies,
	}, true
}

// Priors returns the relative document frequency of every category
func (m *Model) Priors() (map[string]float64, error) {
	if !m.IsTrained() {
		return nil, ErrModelNotTrained
	}

	priors := make(map[string]float64, len(m.categories))
	for _, category := range m.categories {
		priors[category] = m.prior(category)
	}
	return priors, nil
}

func (m *Model) prior(category string) float64 {
	return float64(m.stats[category].Documents) / float64(m.totalDocuments)
}

// TokenProbability returns the Laplace-smoothed likelihood P(token|category).
// The denominator uses the global vocabulary size, so tokens never seen by the
// category still get a non-zero probability.
func (m *Model) TokenProbability(category, token string) (float64, error) {
	if !m.IsTrained() {
		return 0, ErrModelNotTrained
	}

	stats, ok := m.stats[category]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownCategory, "category %q", category)
	}

	return smoothed(stats, token, float64(len(m.vocabulary))), nil
}

func smoothed(stats *CategoryStats, token string, vocabSize float64) float64 {
	return (float64(stats.Frequencies[token]) + 1) / (float64(stats.Words) + vocabSize)
}

// TokenStats contains statistics about a token within a category
type TokenStats struct {
	Token       string  `json:"token"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
}

// TopTokens returns the most frequent tokens of a category.
// Equal counts are ordered by token so the listing is stable.
func (m *Model) TopTokens(category string, limit int) ([]*TokenStats, error) {
	if !m.IsTrained() {
		return nil, ErrModelNotTrained
	}

	stats, ok := m.stats[category]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCategory, "category %q", category)
	}

	vocabSize := float64(len(m.vocabulary))
	tokens := make([]*TokenStats, 0, len(stats.Frequencies))
	for token, count := range stats.Frequencies {
		tokens = append(tokens, &TokenStats{
			Token:       token,
			Count:       count,
			Probability: smoothed(stats, token, vocabSize),
		})
	}

	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Count != tokens[j].Count {
			return tokens[i].Count > tokens[j].Count
		}
		return tokens[i].Token < tokens[j].Token
	})

	if limit > 0 && len(tokens) > limit {
		tokens = tokens[:limit]
	}

	return tokens, nil
}

// CategoryInfo summarizes one category for status reporting
type CategoryInfo struct {
	Name         string  `json:"name"`
	Documents    int     `json:"documents"`
	Words        int     `json:"words"`
	UniqueTokens int     `json:"unique_tokens"`
	Prior        float64 `json:"prior"`
}

// ModelInfo contains model information
type ModelInfo struct {
	Trained        bool           `json:"trained"`
	TotalDocuments int            `json:"total_documents"`
	VocabularySize int            `json:"vocabulary_size"`
	Categories     []CategoryInfo `json:"categories"`
	LastTrained    time.Time      `json:"last_trained"`
}

// Info returns information about the model
func (m *Model) Info() *ModelInfo {
	info := &ModelInfo{
		Trained:        m.IsTrained(),
		TotalDocuments: m.TotalDocuments(),
		VocabularySize: m.VocabularySize(),
		LastTrained:    m.TrainedAt(),
	}
	if !info.Trained {
		return info
	}

	for _, category := range m.categories {
		stats := m.stats[category]
		info.Categories = append(info.Categories, CategoryInfo{
			Name:         category,
			Documents:    stats.Documents,
			Words:        stats.Words,
			UniqueTokens: len(stats.Frequencies),
			Prior:        m.prior(category),
		})
	}

	return info
}
