package evaluation

import (
	"math"
	"math/rand/v2"

	"github.com/nbclass/text-classifier/pkg/corpus"
	"github.com/pkg/errors"
)

// ErrInvalidRatio is returned when a test ratio is outside [0, 1]
var ErrInvalidRatio = errors.New("test ratio must be between 0 and 1")

// NewRand returns a seeded random source for reproducible splits
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Split shuffles a copy of docs and returns floor(len(docs)*testRatio)
// documents as the test set and the rest as the training set.
// Categories are not stratified. A nil rng uses the process-wide source.
func Split(docs []corpus.Document, testRatio float64, rng *rand.Rand) (train, test []corpus.Document, err error) {
	if math.IsNaN(testRatio) || testRatio < 0 || testRatio > 1 {
		return nil, nil, errors.Wrapf(ErrInvalidRatio, "got %v", testRatio)
	}

	shuffled := make([]corpus.Document, len(docs))
	copy(shuffled, docs)

	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	testSize := int(math.Floor(float64(len(shuffled)) * testRatio))

	test = shuffled[:testSize:testSize]
	train = shuffled[testSize:]

	return train, test, nil
}
