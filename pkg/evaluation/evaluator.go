// Package evaluation measures a trained model against held-out documents.
package evaluation

import (
	"context"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/nbclass/text-classifier/pkg/corpus"
	"github.com/nbclass/text-classifier/pkg/learning"
	"golang.org/x/sync/errgroup"
)

// Evaluator classifies a test set and aggregates the results
type Evaluator struct {
	normalizer learning.Normalizer
	logger     hclog.Logger
	workers    int
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithWorkers bounds the number of concurrent classifications
func WithWorkers(workers int) Option {
	return func(e *Evaluator) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithLogger sets the evaluator logger
func WithLogger(logger hclog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger.Named("evaluator")
		}
	}
}

// NewEvaluator creates an evaluator that normalizes test documents with n.
// n must be the normalizer the model was trained with.
func NewEvaluator(n learning.Normalizer, opts ...Option) *Evaluator {
	if n == nil {
		n = learning.WhitespaceNormalizer{}
	}

	e := &Evaluator{
		normalizer: n,
		logger:     hclog.NewNullLogger(),
		workers:    runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate classifies every document of testSet with model and builds the
// confusion matrix and derived metrics.
//
// The matrix is indexed by the true labels of testSet in first-seen order.
// Model categories that never occur as a true label appear only if they are
// predicted at least once.
func (e *Evaluator) Evaluate(ctx context.Context, model *learning.Model, testSet []corpus.Document) (*Metrics, error) {
	if !model.IsTrained() {
		return nil, learning.ErrModelNotTrained
	}

	e.logger.Info("evaluating model", "documents", len(testSet), "workers", e.workers)
	start := time.Now()

	predictions := make([]string, len(testSet))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, doc := range testSet {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			tokens := learning.NormalizeOrEmpty(e.normalizer, doc.Text, e.logger)
			result, err := model.Classify(tokens)
			if err != nil {
				return err
			}

			predictions[i] = result.Category
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	labels := make([]string, len(testSet))
	for i, doc := range testSet {
		labels[i] = doc.Category
	}

	cm := NewConfusionMatrix(labels)
	for i, doc := range testSet {
		if cm.Add(doc.Category, predictions[i]) {
			e.logger.Debug("predicted category absent from test labels, matrix extended",
				"category", predictions[i])
		}
	}

	metrics := cm.Metrics()

	for _, category := range metrics.Categories {
		e.logger.Info("category metrics",
			"category", category,
			"precision", metrics.Precision[category],
			"recall", metrics.Recall[category],
			"f1", metrics.F1Score[category])
	}
	e.logger.Info("evaluation completed",
		"accuracy", metrics.Accuracy,
		"macro_f1", metrics.MacroF1,
		"categories", cm.Size(),
		"duration", time.Since(start))

	return metrics, nil
}
