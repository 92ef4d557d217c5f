package learning

import "github.com/pkg/errors"

var (
	// ErrEmptyTrainingSet is returned when a training run has no document with usable tokens
	ErrEmptyTrainingSet = errors.New("no usable training data")

	// ErrModelNotTrained is returned by queries issued before a successful training run
	ErrModelNotTrained = errors.New("model not trained")

	// ErrUnknownCategory is returned when a category was never seen during training
	ErrUnknownCategory = errors.New("unknown category")
)
