package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nbclass/text-classifier/pkg/corpus"
	"github.com/nbclass/text-classifier/pkg/evaluation"
	"github.com/nbclass/text-classifier/pkg/learning"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var watchEvaluate bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Retrain whenever the corpus directory changes",
	Long: `Train on the corpus, then watch the corpus directory and retrain after
every burst of changes. Each line read from standard input is classified
against the current model while retraining happens in the background.

Only the file backend can be watched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.Corpus.Backend != "file" {
			return errors.Errorf("watch requires the file corpus backend, got %q", a.cfg.Corpus.Backend)
		}

		debounce, err := a.cfg.WatchDebounce()
		if err != nil {
			return err
		}

		nb := a.newClassifier()
		retrain := func() {
			docs, err := a.store.LoadAll(ctx)
			if err != nil {
				a.logger.Error("failed to reload corpus", "error", err)
				return
			}
			// Train off to the side so a failed run keeps the served model
			scratch := a.newClassifier()
			if err := scratch.Train(docs); err != nil {
				a.logger.Warn("retraining failed, keeping previous model", "error", err)
				return
			}
			if err := nb.Adopt(scratch); err != nil {
				a.logger.Error("failed to publish retrained model", "error", err)
				return
			}
			info := nb.Info()
			fmt.Printf("🔄 Model retrained: %d documents, %d categories, vocabulary %d\n",
				info.TotalDocuments, len(info.Categories), info.VocabularySize)

			if watchEvaluate {
				evaluateSnapshot(ctx, a, docs)
			}
		}

		retrain()

		watcher, err := corpus.NewWatcher(a.cfg.Corpus.File.Dir, debounce, a.logger)
		if err != nil {
			return err
		}
		defer watcher.Close()

		fmt.Printf("👀 Watching %s (debounce %v)\n", a.cfg.Corpus.File.Dir, debounce)
		fmt.Printf("📝 Type text to classify, Ctrl+C to stop\n\n")

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return watcher.Run(gctx, retrain)
		})

		g.Go(func() error {
			return classifyLines(gctx, nb)
		})

		return g.Wait()
	},
}

// classifyLines classifies each stdin line with whichever model is current
func classifyLines(ctx context.Context, nb learning.TextClassifier) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// Keep watching after stdin is exhausted
				<-ctx.Done()
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}

			result, err := nb.ClassifyText(line)
			if errors.Is(err, learning.ErrModelNotTrained) {
				fmt.Printf("⚠️  No model yet, add documents to the corpus\n")
				continue
			}
			if err != nil {
				return err
			}
			fmt.Printf("➡️  %s (%.2f%%)\n", result.Category, result.Confidence*100)
		}
	}
}

// evaluateSnapshot runs a split evaluation on docs and prints the accuracy
func evaluateSnapshot(ctx context.Context, a *app, docs []corpus.Document) {
	rng := evaluation.NewRand(a.cfg.Evaluation.Seed)
	if a.cfg.Evaluation.Seed == 0 {
		rng = nil
	}

	trainSet, testSet, err := evaluation.Split(docs, a.cfg.Evaluation.TestRatio, rng)
	if err != nil {
		a.logger.Warn("evaluation split failed", "error", err)
		return
	}

	holdout := a.newClassifier()
	if err := holdout.Train(trainSet); err != nil {
		a.logger.Warn("evaluation training failed", "error", err)
		return
	}

	evaluator := evaluation.NewEvaluator(a.normalizer,
		evaluation.WithWorkers(a.cfg.Evaluation.Workers),
		evaluation.WithLogger(a.logger))

	metrics, err := evaluator.Evaluate(ctx, holdout.Model(), testSet)
	if err != nil {
		a.logger.Warn("evaluation failed", "error", err)
		return
	}

	fmt.Printf("🧪 Accuracy %.2f%% on %d held-out documents, macro F1 %.4f\n",
		metrics.Accuracy*100, metrics.Total, metrics.MacroF1)
}

func init() {
	watchCmd.Flags().BoolVarP(&watchEvaluate, "evaluate", "e", false, "Run a split evaluation after every retrain")
}
