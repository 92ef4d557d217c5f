package learning

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/nbclass/text-classifier/pkg/corpus"
)

// NaiveBayes owns the current model and swaps it atomically on every training run.
//
// Training builds a complete Model off to the side before publishing it, so
// readers always classify against a consistent snapshot. Training runs are
// serialized; classification never blocks.
type NaiveBayes struct {
	mu         sync.Mutex
	current    atomic.Pointer[Model]
	normalizer Normalizer
	logger     hclog.Logger
}

// NewNaiveBayes creates an untrained classifier. A nil normalizer falls back
// to WhitespaceNormalizer and a nil logger discards output.
func NewNaiveBayes(normalizer Normalizer, logger hclog.Logger) *NaiveBayes {
	if normalizer == nil {
		normalizer = WhitespaceNormalizer{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	nb := &NaiveBayes{
		normalizer: normalizer,
		logger:     logger.Named("naive-bayes"),
	}
	nb.current.Store(NewModel())

	return nb
}

// Train rebuilds the model from scratch out of docs.
// When no document yields tokens the classifier is left untrained and
// ErrEmptyTrainingSet is returned.
func (nb *NaiveBayes) Train(docs []corpus.Document) error {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	if len(docs) == 0 {
		nb.current.Store(NewModel())
		return ErrEmptyTrainingSet
	}

	nb.logger.Info("starting training", "documents", len(docs))
	start := time.Now()

	labeled := make([]LabeledTokens, 0, len(docs))
	for _, doc := range docs {
		tokens := NormalizeOrEmpty(nb.normalizer, doc.Text, nb.logger)
		if len(tokens) == 0 {
			nb.logger.Warn("empty document after normalization", "category", doc.Category)
		}
		labeled = append(labeled, LabeledTokens{Category: doc.Category, Tokens: tokens})
	}

	model, err := Build(labeled)
	if err != nil {
		nb.current.Store(NewModel())
		nb.logger.Warn("training failed, model reset", "error", err)
		return err
	}

	nb.current.Store(model)

	nb.logger.Info("training completed",
		"documents", model.TotalDocuments(),
		"skipped", len(docs)-model.TotalDocuments(),
		"vocabulary", model.VocabularySize(),
		"categories", len(model.categories),
		"duration", time.Since(start))
	for _, category := range model.categories {
		stats := model.stats[category]
		nb.logger.Debug("category trained", "category", category, "documents", stats.Documents, "words", stats.Words)
	}

	return nil
}

// Adopt publishes the model of another classifier. An untrained source is
// rejected with ErrModelNotTrained and the current model is kept.
func (nb *NaiveBayes) Adopt(other TextClassifier) error {
	model := other.Model()
	if !model.IsTrained() {
		return ErrModelNotTrained
	}

	nb.mu.Lock()
	nb.current.Store(model)
	nb.mu.Unlock()

	return nil
}

// Model returns the current snapshot; it is never nil
func (nb *NaiveBayes) Model() *Model {
	return nb.current.Load()
}

// IsTrained reports whether a training run has succeeded
func (nb *NaiveBayes) IsTrained() bool {
	return nb.Model().IsTrained()
}

// Classify classifies an already normalized token sequence
func (nb *NaiveBayes) Classify(tokens []string) (*Result, error) {
	return nb.Model().Classify(tokens)
}

// ClassifyText normalizes text with the training normalizer and classifies it
func (nb *NaiveBayes) ClassifyText(text string) (*Result, error) {
	model := nb.Model()
	if !model.IsTrained() {
		return nil, ErrModelNotTrained
	}

	result, err := model.Classify(NormalizeOrEmpty(nb.normalizer, text, nb.logger))
	if err != nil {
		return nil, err
	}

	nb.logger.Debug("classified text", "category", result.Category, "confidence", result.Confidence)
	return result, nil
}

// Priors returns the category priors of the current model
func (nb *NaiveBayes) Priors() (map[string]float64, error) {
	return nb.Model().Priors()
}

// Info returns information about the current model
func (nb *NaiveBayes) Info() *ModelInfo {
	return nb.Model().Info()
}

// PrintStats prints model statistics with the top tokens of every category
func (nb *NaiveBayes) PrintStats(w io.Writer, topTokens int) {
	model := nb.Model()
	info := model.Info()

	fmt.Fprintf(w, "🧠 Naive Bayes Model\n")
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	if !info.Trained {
		fmt.Fprintf(w, "  Model not trained\n\n")
		return
	}

	fmt.Fprintf(w, "Training Data:\n")
	fmt.Fprintf(w, "  Documents: %d\n", info.TotalDocuments)
	fmt.Fprintf(w, "  Categories: %d\n", len(info.Categories))
	fmt.Fprintf(w, "  Vocabulary size: %d\n", info.VocabularySize)
	fmt.Fprintf(w, "  Last trained: %s\n", info.LastTrained.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "\nCategories:\n")
	for _, c := range info.Categories {
		fmt.Fprintf(w, "  %-15s %4d docs  %6d words  %5d unique  prior %.3f\n",
			c.Name, c.Documents, c.Words, c.UniqueTokens, c.Prior)
	}

	if topTokens <= 0 {
		fmt.Fprintf(w, "\n")
		return
	}

	for _, c := range info.Categories {
		fmt.Fprintf(w, "\n📈 Top tokens for %s:\n", c.Name)
		tokens, err := model.TopTokens(c.Name, topTokens)
		if err != nil {
			continue
		}
		for i, token := range tokens {
			fmt.Fprintf(w, "  %2d. %-15s (%d occurrences, p=%.4f)\n",
				i+1, token.Token, token.Count, token.Probability)
		}
	}

	fmt.Fprintf(w, "\n")
}
