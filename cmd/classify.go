package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nbclass/text-classifier/pkg/learning"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	classifyFile string
	classifyJSON bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Classify a text",
	Long: `Train on the corpus, then classify the given text, the content of --file,
or standard input, and print the probability of every category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, err := readInput(args, classifyFile)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("text cannot be empty")
		}

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

		start := time.Now()
		result, err := nb.ClassifyText(text)
		if err != nil {
			return errors.Wrap(err, "classification failed")
		}
		duration := time.Since(start)

		if classifyJSON {
			return printJSON(result)
		}

		printResult(result)
		fmt.Printf("Processing time: %.2fms\n", float64(duration.Nanoseconds())/1e6)

		return nil
	},
}

// printResult prints a classification with categories by descending probability
func printResult(result *learning.Result) {
	fmt.Printf("nbclass Classification:\n")
	fmt.Printf("Category: %s\n", result.Category)
	fmt.Printf("Confidence: %.2f%%\n", result.Confidence*100)
	fmt.Printf("Tokens: %d (%d unique)\n", result.TotalTokens, result.UniqueTokens)

	categories := make([]string, 0, len(result.Probabilities))
	for category := range result.Probabilities {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		pi, pj := result.Probabilities[categories[i]], result.Probabilities[categories[j]]
		if pi != pj {
			return pi > pj
		}
		return categories[i] < categories[j]
	})

	fmt.Printf("\n📊 Distribution:\n")
	for _, category := range categories {
		p := result.Probabilities[category]
		bar := strings.Repeat("█", int(p*30+0.5))
		fmt.Printf("  %-15s %6.2f%% %s\n", category, p*100, bar)
	}
	fmt.Printf("\n")
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyFile, "file", "f", "", "Read the text from a file")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print the result as JSON")
}
