package learning

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/nbclass/text-classifier/pkg/corpus"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingNormalizer rejects any text containing "poison"
type failingNormalizer struct{}

func (failingNormalizer) Normalize(text string) ([]string, error) {
	if strings.Contains(text, "poison") {
		return nil, errors.New("cannot normalize")
	}
	return strings.Fields(text), nil
}

func trainingCorpus() []corpus.Document {
	return []corpus.Document{
		{Category: "sport", Text: "gol gol match"},
		{Category: "news", Text: "match report today"},
	}
}

func TestNaiveBayesTrainAndClassify(t *testing.T) {
	nb := NewNaiveBayes(nil, nil)
	assert.False(t, nb.IsTrained())

	require.NoError(t, nb.Train(trainingCorpus()))
	assert.True(t, nb.IsTrained())

	result, err := nb.ClassifyText("gol match")
	require.NoError(t, err)
	assert.Equal(t, "sport", result.Category)

	result, err = nb.Classify([]string{"report", "today"})
	require.NoError(t, err)
	assert.Equal(t, "news", result.Category)

	priors, err := nb.Priors()
	require.NoError(t, err)
	assert.Len(t, priors, 2)
}

func TestNaiveBayesUntrained(t *testing.T) {
	nb := NewNaiveBayes(nil, nil)

	_, err := nb.ClassifyText("anything")
	assert.ErrorIs(t, err, ErrModelNotTrained)

	_, err = nb.Classify([]string{"anything"})
	assert.ErrorIs(t, err, ErrModelNotTrained)

	_, err = nb.Priors()
	assert.ErrorIs(t, err, ErrModelNotTrained)

	assert.NotNil(t, nb.Model())
}

func TestNaiveBayesFailedTrainResetsModel(t *testing.T) {
	tests := []struct {
		name string
		docs []corpus.Document
	}{
		{name: "no documents", docs: nil},
		{name: "only blank documents", docs: []corpus.Document{{Category: "news", Text: "   "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb := NewNaiveBayes(nil, nil)
			require.NoError(t, nb.Train([]corpus.Document{{Category: "sport", Text: "gol gol match"}}))
			require.True(t, nb.IsTrained())

			err := nb.Train(tt.docs)
			assert.ErrorIs(t, err, ErrEmptyTrainingSet)
			assert.False(t, nb.IsTrained())
			assert.Equal(t, 0, nb.Model().TotalDocuments())
			assert.Empty(t, nb.Model().Categories())

			_, err = nb.ClassifyText("gol")
			assert.ErrorIs(t, err, ErrModelNotTrained)
		})
	}
}

func TestNaiveBayesAdopt(t *testing.T) {
	nb := NewNaiveBayes(nil, nil)
	require.NoError(t, nb.Train(trainingCorpus()))
	served := nb.Model()

	// An untrained source never replaces the served model
	failed := NewNaiveBayes(nil, nil)
	require.ErrorIs(t, failed.Train(nil), ErrEmptyTrainingSet)
	assert.ErrorIs(t, nb.Adopt(failed), ErrModelNotTrained)
	assert.Same(t, served, nb.Model())

	retrained := NewNaiveBayes(nil, nil)
	require.NoError(t, retrained.Train([]corpus.Document{{Category: "weather", Text: "rain wind"}}))
	require.NoError(t, nb.Adopt(retrained))
	assert.Same(t, retrained.Model(), nb.Model())
	assert.Equal(t, []string{"weather"}, nb.Model().Categories())
}

func TestNaiveBayesRetrainReplacesModel(t *testing.T) {
	nb := NewNaiveBayes(nil, nil)
	require.NoError(t, nb.Train(trainingCorpus()))
	first := nb.Model()

	require.NoError(t, nb.Train([]corpus.Document{
		{Category: "weather", Text: "rain cloud"},
		{Category: "food", Text: "bread cheese"},
	}))

	assert.NotSame(t, first, nb.Model())
	assert.Equal(t, []string{"weather", "food"}, nb.Model().Categories())

	// The old snapshot is untouched
	assert.Equal(t, []string{"sport", "news"}, first.Categories())
}

func TestNaiveBayesNormalizationFailureTreatedAsEmpty(t *testing.T) {
	nb := NewNaiveBayes(failingNormalizer{}, nil)

	require.NoError(t, nb.Train([]corpus.Document{
		{Category: "sport", Text: "gol match"},
		{Category: "sport", Text: "poison pill"},
		{Category: "news", Text: "report today"},
	}))
	assert.Equal(t, 2, nb.Model().TotalDocuments())

	result, err := nb.ClassifyText("poison gol")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.Confidence, 1e-12)
	assert.Equal(t, "sport", result.Category)
	assert.Equal(t, 0, result.TotalTokens)
}

func TestNaiveBayesConcurrentClassifyDuringTrain(t *testing.T) {
	nb := NewNaiveBayes(nil, nil)
	require.NoError(t, nb.Train(trainingCorpus()))

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := nb.Train(trainingCorpus()); err != nil {
					errs <- err
				}
			}
		}()
	}

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				result, err := nb.ClassifyText("gol match")
				if err != nil {
					errs <- err
					continue
				}
				if result.Category != "sport" {
					errs <- errors.Errorf("unexpected category %s", result.Category)
				}
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestNaiveBayesPrintStats(t *testing.T) {
	nb := NewNaiveBayes(nil, nil)

	var buf bytes.Buffer
	nb.PrintStats(&buf, 3)
	assert.Contains(t, buf.String(), "Model not trained")

	require.NoError(t, nb.Train(trainingCorpus()))

	buf.Reset()
	nb.PrintStats(&buf, 3)
	out := buf.String()
	assert.Contains(t, out, "Vocabulary size: 4")
	assert.Contains(t, out, "Top tokens for sport")
	assert.Contains(t, out, "gol")
}

func TestNormalizeOrEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, NormalizeOrEmpty(WhitespaceNormalizer{}, " a  b ", nil))
	assert.Nil(t, NormalizeOrEmpty(failingNormalizer{}, "poison", nil))
}
