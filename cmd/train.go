package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	trainTopTokens int
	trainJSON      bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the Naive Bayes model on the corpus",
	Long: `Train the multinomial Naive Bayes model on every document in the corpus
and print the resulting model statistics.

Documents that normalize to no tokens are skipped and do not count toward
the category priors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		docs, err := a.loadCorpus(ctx)
		if err != nil {
			return err
		}

		if !trainJSON {
			fmt.Printf("🧠 nbclass Training\n")
			fmt.Printf("═══════════════════════════════════════\n")
			fmt.Printf("📁 Corpus backend: %s\n", a.cfg.Corpus.Backend)
			fmt.Printf("📚 Documents loaded: %d\n\n", len(docs))
		}

		start := time.Now()
		nb, err := a.train(docs)
		if err != nil {
			return err
		}
		duration := time.Since(start)

		if trainJSON {
			return printJSON(nb.Info())
		}

		info := nb.Info()
		fmt.Printf("🎉 Training Complete!\n")
		fmt.Printf("📊 Documents used: %d (skipped %d)\n", info.TotalDocuments, len(docs)-info.TotalDocuments)
		fmt.Printf("⏱️  Time taken: %v\n", duration)
		fmt.Printf("📈 Rate: %.0f documents/second\n\n", float64(len(docs))/duration.Seconds())

		nb.PrintStats(os.Stdout, trainTopTokens)

		return nil
	},
}

func init() {
	trainCmd.Flags().IntVarP(&trainTopTokens, "top", "t", 10, "Number of top tokens to show per category")
	trainCmd.Flags().BoolVar(&trainJSON, "json", false, "Print model information as JSON")
}
