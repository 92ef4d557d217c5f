package cmd

import (
	"fmt"

	"github.com/nbclass/text-classifier/pkg/corpus"
	"github.com/nbclass/text-classifier/pkg/learning"
	"github.com/nbclass/text-classifier/pkg/normalizer"
	"github.com/spf13/cobra"
)

var statsJSON bool

type statsReport struct {
	Corpus     *corpus.DataStats   `json:"corpus"`
	Normalizer normalizer.Stats    `json:"normalizer"`
	Model      *learning.ModelInfo `json:"model"`
	Priors     map[string]float64  `json:"priors"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus and model statistics",
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

		nb, err := a.train(docs)
		if err != nil {
			return err
		}
		priors, err := nb.Priors()
		if err != nil {
			return err
		}

		report := statsReport{
			Corpus:     corpus.Stats(docs),
			Normalizer: a.normalizer.Stats(),
			Model:      nb.Info(),
			Priors:     priors,
		}

		if statsJSON {
			return printJSON(report)
		}

		fmt.Printf("📊 nbclass Statistics\n")
		fmt.Printf("═══════════════════════════════════════\n")

		fmt.Printf("\n📚 Corpus:\n")
		fmt.Printf("  Documents: %d\n", report.Corpus.TotalDocuments)
		fmt.Printf("  Average words per document: %d\n", report.Corpus.AverageWordsPerDocument)
		for _, category := range report.Corpus.SortedCategories() {
			fmt.Printf("  %-15s %d documents\n", category, report.Corpus.Categories[category])
		}

		fmt.Printf("\n🔤 Normalizer:\n")
		fmt.Printf("  Stop words: %d\n", report.Normalizer.StopWords)
		fmt.Printf("  Strip diacritics: %v\n", report.Normalizer.Diacritics)
		fmt.Printf("  Stemming: %v\n", report.Normalizer.Stemming)
		fmt.Printf("  Lua filter: %v\n", report.Normalizer.LuaFilter)

		fmt.Printf("\n🧠 Model:\n")
		fmt.Printf("  Documents used: %d\n", report.Model.TotalDocuments)
		fmt.Printf("  Vocabulary size: %d\n", report.Model.VocabularySize)
		for _, info := range report.Model.Categories {
			fmt.Printf("  %-15s prior %.4f, %d words, %d unique tokens\n",
				info.Name, info.Prior, info.Words, info.UniqueTokens)
		}

		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print statistics as JSON")
}
