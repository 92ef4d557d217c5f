package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/nbclass/text-classifier/pkg/corpus"
	"github.com/nbclass/text-classifier/pkg/evaluation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	generateCount  int
	generateWords  int
	generateNoise  float64
	generateSeed   uint64
	generateDryRun bool
	generateReset  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic labeled corpus",
	Long: `Generate a synthetic labeled corpus and store it through the configured
corpus backend. Useful for trying out training, evaluation and benchmarks
without a real dataset.

Each document mixes words from its category vocabulary with words shared by
all categories; --noise controls the share of shared words. --reset drops
the stored corpus first and is supported by the redis backend only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if generateCount <= 0 {
			return errors.New("count must be greater than 0")
		}
		if generateWords <= 0 {
			return errors.New("words must be greater than 0")
		}
		if generateNoise < 0 || generateNoise > 1 {
			return errors.New("noise must be between 0 and 1")
		}

		var rng *rand.Rand
		if generateSeed != 0 {
			rng = evaluation.NewRand(generateSeed)
		} else {
			rng = evaluation.NewRand(uint64(time.Now().UnixNano()))
		}
		generator := NewDocumentGenerator(rng, generateNoise)

		if generateDryRun {
			for i := 0; i < generateCount; i++ {
				category, text := generator.Generate(generateWords)
				fmt.Printf("%s\t%s\n", category, text)
			}
			return nil
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("🧪 Generating synthetic corpus...\n")
		fmt.Printf("📄 Documents: %d (%d words each)\n", generateCount, generateWords)
		fmt.Printf("🏷️  Categories: %s\n", strings.Join(generator.Categories(), ", "))
		fmt.Printf("📂 Backend: %s\n\n", a.cfg.Corpus.Backend)

		if generateReset {
			if err := resetCorpus(ctx, a.store); err != nil {
				return err
			}
			fmt.Printf("🧹 Existing corpus removed\n")
		}

		start := time.Now()
		counts := make(map[string]int)

		for i := 0; i < generateCount; i++ {
			category, text := generator.Generate(generateWords)
			if _, err := a.store.Append(ctx, category, text, ""); err != nil {
				return errors.Wrapf(err, "failed to store document %d", i+1)
			}
			counts[category]++
		}

		duration := time.Since(start)

		fmt.Printf("✅ Generation complete!\n")
		for _, category := range generator.Categories() {
			fmt.Printf("  %-12s %d documents\n", category, counts[category])
		}
		fmt.Printf("⏱️  Time taken: %v\n", duration)

		return nil
	},
}

// resetCorpus drops every document of store when the backend supports it
func resetCorpus(ctx context.Context, store corpus.Store) error {
	resetter, ok := store.(corpus.Resetter)
	if !ok {
		return errors.New("the configured corpus backend does not support reset")
	}
	if err := resetter.Reset(ctx); err != nil {
		return errors.Wrap(err, "failed to reset corpus")
	}
	return nil
}

// DocumentGenerator produces random documents for a fixed set of categories
type DocumentGenerator struct {
	rng        *rand.Rand
	noise      float64
	categories []string
	vocabulary map[string][]string
	shared     []string
}

// NewDocumentGenerator creates a generator. noise is the probability that a
// word is drawn from the shared vocabulary instead of the category's own.
func NewDocumentGenerator(rng *rand.Rand, noise float64) *DocumentGenerator {
	g := &DocumentGenerator{
		rng:   rng,
		noise: noise,
		vocabulary: map[string][]string{
			"sport": {
				"match", "goal", "team", "coach", "league", "season", "player",
				"stadium", "referee", "championship", "score", "tournament",
				"striker", "defender", "victory", "penalty",
			},
			"economy": {
				"market", "inflation", "bank", "currency", "investment", "growth",
				"budget", "export", "import", "interest", "stocks", "trade",
				"revenue", "deficit", "prices", "oil",
			},
			"technology": {
				"software", "computer", "network", "data", "internet", "device",
				"startup", "algorithm", "cloud", "security", "smartphone",
				"processor", "robot", "server", "application", "chip",
			},
			"politics": {
				"government", "minister", "election", "parliament", "party",
				"president", "vote", "policy", "law", "opposition", "cabinet",
				"campaign", "treaty", "diplomat", "reform", "senate",
			},
		},
		shared: []string{
			"today", "year", "new", "people", "report", "city", "week",
			"official", "country", "said", "major", "time", "news", "announced",
		},
	}

	for category := range g.vocabulary {
		g.categories = append(g.categories, category)
	}
	sort.Strings(g.categories)

	return g
}

// Categories returns the generated category names in lexical order
func (g *DocumentGenerator) Categories() []string {
	return append([]string(nil), g.categories...)
}

// Generate returns a random category and a document of words words for it
func (g *DocumentGenerator) Generate(words int) (string, string) {
	category := g.categories[g.rng.IntN(len(g.categories))]
	vocabulary := g.vocabulary[category]

	tokens := make([]string, words)
	for i := range tokens {
		if g.rng.Float64() < g.noise {
			tokens[i] = g.shared[g.rng.IntN(len(g.shared))]
		} else {
			tokens[i] = vocabulary[g.rng.IntN(len(vocabulary))]
		}
	}

	return category, strings.Join(tokens, " ")
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 100, "Number of documents to generate")
	generateCmd.Flags().IntVarP(&generateWords, "words", "w", 30, "Words per document")
	generateCmd.Flags().Float64VarP(&generateNoise, "noise", "r", 0.3, "Share of words drawn from the shared vocabulary (0.0-1.0)")
	generateCmd.Flags().Uint64VarP(&generateSeed, "seed", "s", 0, "Random seed (0 = time based)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Print documents instead of storing them")
	generateCmd.Flags().BoolVar(&generateReset, "reset", false, "Remove the stored corpus before generating (redis backend)")
}
