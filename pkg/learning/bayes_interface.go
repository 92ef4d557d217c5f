package learning

import (
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/nbclass/text-classifier/pkg/corpus"
)

// Normalizer turns raw text into an ordered sequence of normalized tokens
type Normalizer interface {
	Normalize(text string) ([]string, error)
}

// TextClassifier defines the operations the presentation layer relies on
type TextClassifier interface {
	Train(docs []corpus.Document) error
	Classify(tokens []string) (*Result, error)
	ClassifyText(text string) (*Result, error)
	IsTrained() bool
	Model() *Model
}

// WhitespaceNormalizer splits text on white space and applies no other processing
type WhitespaceNormalizer struct{}

// Normalize implements Normalizer
func (WhitespaceNormalizer) Normalize(text string) ([]string, error) {
	return strings.Fields(text), nil
}

// NormalizeOrEmpty runs n on text. A failing normalization is logged and
// yields no tokens, so one bad document never aborts a batch.
func NormalizeOrEmpty(n Normalizer, text string, logger hclog.Logger) []string {
	tokens, err := n.Normalize(text)
	if err != nil {
		if logger != nil {
			logger.Warn("normalization failed, treating document as empty", "error", err)
		}
		return nil
	}
	return tokens
}

var _ TextClassifier = (*NaiveBayes)(nil)
var _ Normalizer = WhitespaceNormalizer{}
