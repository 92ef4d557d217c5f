package cmd

import (
	"fmt"

	"github.com/nbclass/text-classifier/pkg/evaluation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	evaluateRatio float64
	evaluateSeed  uint64
	evaluateJSON  bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Measure accuracy on a held-out test split",
	Long: `Shuffle the corpus, hold out a test split, train on the remaining
documents and report accuracy, per-category precision, recall and F1,
their macro averages and the confusion matrix.

Use --seed for a reproducible split. Without a seed every run shuffles
differently.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		ratio := a.cfg.Evaluation.TestRatio
		if cmd.Flags().Changed("ratio") {
			ratio = evaluateRatio
		}
		seed := a.cfg.Evaluation.Seed
		if cmd.Flags().Changed("seed") {
			seed = evaluateSeed
		}

		docs, err := a.loadCorpus(ctx)
		if err != nil {
			return err
		}

		rng := evaluation.NewRand(seed)
		if seed == 0 {
			rng = nil
		}

		trainSet, testSet, err := evaluation.Split(docs, ratio, rng)
		if err != nil {
			return err
		}
		a.logger.Info("corpus split", "train", len(trainSet), "test", len(testSet), "ratio", ratio, "seed", seed)

		nb, err := a.train(trainSet)
		if err != nil {
			return err
		}

		evaluator := evaluation.NewEvaluator(a.normalizer,
			evaluation.WithWorkers(a.cfg.Evaluation.Workers),
			evaluation.WithLogger(a.logger))

		metrics, err := evaluator.Evaluate(ctx, nb.Model(), testSet)
		if err != nil {
			return errors.Wrap(err, "evaluation failed")
		}

		if evaluateJSON {
			return printJSON(metrics)
		}

		fmt.Print(renderReport(metrics, len(trainSet), len(testSet)))
		return nil
	},
}

func init() {
	evaluateCmd.Flags().Float64VarP(&evaluateRatio, "ratio", "r", 0.2, "Fraction of documents held out for testing")
	evaluateCmd.Flags().Uint64VarP(&evaluateSeed, "seed", "s", 0, "Shuffle seed (0 = random)")
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "Print metrics as JSON")
}
