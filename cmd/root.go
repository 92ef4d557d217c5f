package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rootConfigFile string
	rootVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "nbclass",
	Short: "nbclass - Naive Bayes text classifier",
	Long: `nbclass trains a multinomial Naive Bayes classifier with Laplace smoothing
on a labeled text corpus, classifies new text and measures accuracy,
precision, recall and F1 on a held-out test split.

The model is always rebuilt from the full corpus; nothing is persisted
between runs.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("nbclass - Naive Bayes text classifier")
		fmt.Println("Use 'nbclass --help' for usage information")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigFile, "config", "c", "", "Configuration file path (.yaml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Verbose (debug) logging")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(configCmd)
}
