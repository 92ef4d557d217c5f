package evaluation

import (
	"fmt"
	"math"
	"testing"

	"github.com/nbclass/text-classifier/pkg/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedDocs(n int) []corpus.Document {
	docs := make([]corpus.Document, n)
	for i := range docs {
		docs[i] = corpus.Document{
			Category: fmt.Sprintf("c%d", i%3),
			Text:     fmt.Sprintf("document %d", i),
		}
	}
	return docs
}

func TestSplitSizes(t *testing.T) {
	docs := numberedDocs(8)

	for i := 0; i < 20; i++ {
		train, test, err := Split(docs, 0.25, nil)
		require.NoError(t, err)
		assert.Len(t, test, 2)
		assert.Len(t, train, 6)
	}
}

func TestSplitIsPartition(t *testing.T) {
	docs := numberedDocs(17)

	train, test, err := Split(docs, 0.3, NewRand(42))
	require.NoError(t, err)

	assert.Len(t, test, 5) // floor(17 * 0.3)
	assert.ElementsMatch(t, docs, append(append([]corpus.Document{}, train...), test...))
}

func TestSplitFloorsTestSize(t *testing.T) {
	tests := []struct {
		n        int
		ratio    float64
		expected int
	}{
		{n: 10, ratio: 0.0, expected: 0},
		{n: 10, ratio: 1.0, expected: 10},
		{n: 3, ratio: 0.5, expected: 1},
		{n: 7, ratio: 0.99, expected: 6},
		{n: 0, ratio: 0.5, expected: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d@%v", tt.n, tt.ratio), func(t *testing.T) {
			train, test, err := Split(numberedDocs(tt.n), tt.ratio, NewRand(1))
			require.NoError(t, err)
			assert.Len(t, test, tt.expected)
			assert.Len(t, train, tt.n-tt.expected)
		})
	}
}

func TestSplitSeededIsDeterministic(t *testing.T) {
	docs := numberedDocs(50)

	trainA, testA, err := Split(docs, 0.2, NewRand(7))
	require.NoError(t, err)
	trainB, testB, err := Split(docs, 0.2, NewRand(7))
	require.NoError(t, err)

	assert.Equal(t, testA, testB)
	assert.Equal(t, trainA, trainB)
}

func TestSplitDoesNotMutateInput(t *testing.T) {
	docs := numberedDocs(20)
	original := append([]corpus.Document(nil), docs...)

	train, test, err := Split(docs, 0.5, NewRand(3))
	require.NoError(t, err)
	assert.Equal(t, original, docs)

	// Appending to the test set must not clobber the training set
	test = append(test, corpus.Document{Category: "x", Text: "y"})
	assert.NotEqual(t, "x", train[0].Category)
}

func TestSplitInvalidRatio(t *testing.T) {
	for _, ratio := range []float64{-0.1, 1.5, math.NaN()} {
		_, _, err := Split(numberedDocs(4), ratio, nil)
		assert.ErrorIs(t, err, ErrInvalidRatio)
	}
}
