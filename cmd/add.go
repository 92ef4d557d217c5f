package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	addCategory string
	addName     string
	addFile     string
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a labeled document to the corpus",
	Long: `Store a new labeled document in the configured corpus backend.

The text is taken from the arguments, --file, or standard input. With the
file backend the document is written to <dir>/<category>/<name><ext>; a
random name is generated when --name is omitted.`,
	Example: `  nbclass add --category sport "the team won the final"
  nbclass add --category politics --file article.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, err := readInput(args, addFile)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("document text cannot be empty")
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := a.store.Append(ctx, addCategory, text, addName)
		if err != nil {
			return errors.Wrap(err, "failed to add document")
		}

		fmt.Printf("✅ Added document %s to category %q\n", name, addCategory)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "C", "", "Document category (required)")
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "Document name (default: random UUID)")
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "Read the document from a file")
	addCmd.MarkFlagRequired("category")
}
