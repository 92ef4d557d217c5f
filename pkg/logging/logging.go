// Package logging builds the structured logger shared by every command.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/nbclass/text-classifier/pkg/config"
	"github.com/pkg/errors"
)

// New creates the root logger from the logging section of cfg.
// The returned closer releases the log file, if one was opened.
func New(cfg config.LoggingConfig, verbose bool) (hclog.Logger, io.Closer, error) {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	if verbose {
		level = hclog.Debug
	}

	var output io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open log file")
		}
		output = file
		closer = file
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "nbclass",
		Level:      level,
		Output:     output,
		JSONFormat: cfg.Format == "json",
	})

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
