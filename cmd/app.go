package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/nbclass/text-classifier/pkg/config"
	"github.com/nbclass/text-classifier/pkg/corpus"
	"github.com/nbclass/text-classifier/pkg/learning"
	"github.com/nbclass/text-classifier/pkg/logging"
	"github.com/nbclass/text-classifier/pkg/normalizer"
	"github.com/pkg/errors"
)

// app wires configuration, logging, corpus storage and normalization for a command run
type app struct {
	cfg        *config.Config
	logger     hclog.Logger
	store      corpus.Store
	normalizer *normalizer.Normalizer
	closers    []io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(rootConfigFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	logger, logCloser, err := logging.New(cfg.Logging, rootVerbose)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		closers: []io.Closer{logCloser},
	}

	a.normalizer, err = normalizer.New(cfg.NormalizerOptions(), logger)
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "failed to create normalizer")
	}
	a.closers = append(a.closers, a.normalizer)

	switch cfg.Corpus.Backend {
	case "redis":
		store, err := corpus.NewRedisStore(ctx, cfg.RedisOptions(), logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.store = store
		a.closers = append(a.closers, store)
	default:
		a.store = corpus.NewFileStore(cfg.Corpus.File.Dir, cfg.Corpus.File.Extension, logger)
	}

	return a, nil
}

// Close releases resources in reverse creation order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

// loadCorpus loads every stored document, failing when there are none
func (a *app) loadCorpus(ctx context.Context) ([]corpus.Document, error) {
	docs, err := a.store.LoadAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load training data")
	}
	if len(docs) == 0 {
		if a.cfg.Corpus.Backend == "file" {
			return nil, errors.Errorf("no training data found: add %s files under %s/", a.cfg.Corpus.File.Extension, a.cfg.Corpus.File.Dir)
		}
		return nil, errors.New("no training data found")
	}
	return docs, nil
}

func (a *app) newClassifier() *learning.NaiveBayes {
	return learning.NewNaiveBayes(a.normalizer, a.logger)
}

// train builds a classifier from docs
func (a *app) train(docs []corpus.Document) (*learning.NaiveBayes, error) {
	nb := a.newClassifier()
	if err := nb.Train(docs); err != nil {
		return nil, errors.Wrap(err, "training failed")
	}
	return nb, nil
}

// readInput returns args joined, the content of file, or stdin
func readInput(args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrap(err, "failed to read input file")
		}
		return string(data), nil
	}

	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.Wrap(err, "failed to read stdin")
	}
	return string(data), nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
