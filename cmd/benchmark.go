package cmd

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nbclass/text-classifier/pkg/corpus"
	"github.com/nbclass/text-classifier/pkg/learning"
	"github.com/nbclass/text-classifier/pkg/profiler"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	benchmarkRuns    int
	benchmarkWorkers int
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Performance benchmark of training and classification",
	Long: `Train on the corpus, then classify every corpus document repeatedly
with concurrent workers and report per-stage latencies and throughput.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if benchmarkRuns <= 0 {
			return errors.New("runs must be greater than 0")
		}
		if benchmarkWorkers <= 0 {
			return errors.New("workers must be greater than 0")
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

		fmt.Printf("🚀 nbclass Performance Benchmark\n")
		fmt.Printf("📚 Documents: %d\n", len(docs))
		fmt.Printf("🔄 Benchmark runs: %d\n", benchmarkRuns)
		fmt.Printf("⚡ Concurrent workers: %d\n\n", benchmarkWorkers)

		prof := profiler.NewProfiler()

		var nb *learning.NaiveBayes
		var trainErr error
		prof.Measure("train", func() {
			nb, trainErr = a.train(docs)
		})
		if trainErr != nil {
			return trainErr
		}

		result := runBenchmark(nb, a.normalizer, docs, benchmarkRuns, benchmarkWorkers, prof)
		displayBenchmarkResults(result)
		prof.PrintReport(os.Stdout)

		return nil
	},
}

// BenchmarkResult contains classification throughput figures
type BenchmarkResult struct {
	TotalDocuments     int
	TotalTime          time.Duration
	DocumentsPerSecond float64
	Correct            int
	Errors             int
}

// runBenchmark classifies docs runs times over a bounded worker pool,
// timing normalization and scoring separately
func runBenchmark(nb learning.TextClassifier, n learning.Normalizer, docs []corpus.Document, runs, workers int, prof *profiler.Profiler) *BenchmarkResult {
	model := nb.Model()

	jobs := make(chan corpus.Document)
	var correct, failed atomic.Int64
	var wg sync.WaitGroup

	start := time.Now()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				timer := prof.Start("normalize")
				tokens, err := n.Normalize(doc.Text)
				timer.Stop()
				if err != nil {
					failed.Add(1)
					continue
				}

				timer = prof.Start("classify")
				result, err := model.Classify(tokens)
				timer.Stop()
				if err != nil {
					failed.Add(1)
					continue
				}

				if result.Category == doc.Category {
					correct.Add(1)
				}
			}
		}()
	}

	for run := 0; run < runs; run++ {
		for _, doc := range docs {
			jobs <- doc
		}
	}
	close(jobs)
	wg.Wait()

	result := &BenchmarkResult{
		TotalDocuments: len(docs) * runs,
		TotalTime:      time.Since(start),
		Correct:        int(correct.Load()),
		Errors:         int(failed.Load()),
	}
	if result.TotalTime > 0 {
		result.DocumentsPerSecond = float64(result.TotalDocuments) / result.TotalTime.Seconds()
	}

	return result
}

func displayBenchmarkResults(result *BenchmarkResult) {
	fmt.Printf("📊 Benchmark Results\n")
	fmt.Printf("═══════════════════════════════════════\n\n")

	fmt.Printf("⚡ Performance Metrics:\n")
	fmt.Printf("  Total documents classified: %d\n", result.TotalDocuments)
	fmt.Printf("  Total time: %v\n", result.TotalTime)
	fmt.Printf("  Documents per second: %.0f\n", result.DocumentsPerSecond)
	fmt.Printf("\n")

	fmt.Printf("🎯 Classification Results:\n")
	if result.TotalDocuments > 0 {
		fmt.Printf("  Training-set accuracy: %.2f%%\n", float64(result.Correct)/float64(result.TotalDocuments)*100)
	}
	fmt.Printf("  Errors: %d\n", result.Errors)
	fmt.Printf("\n")
}

func init() {
	benchmarkCmd.Flags().IntVarP(&benchmarkRuns, "runs", "r", 3, "Number of passes over the corpus")
	benchmarkCmd.Flags().IntVarP(&benchmarkWorkers, "workers", "w", 4, "Number of concurrent workers")
}
