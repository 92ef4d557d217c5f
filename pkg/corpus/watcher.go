package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

// Watcher reports changes below a corpus directory.
// Bursts of events are collapsed into a single notification once the
// directory has been quiet for the debounce interval.
type Watcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   hclog.Logger
}

// NewWatcher creates a watcher for dir and every directory below it
func NewWatcher(dir string, debounce time.Duration, logger hclog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = time.Second
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}

	w := &Watcher{
		dir:      filepath.Clean(dir),
		debounce: debounce,
		watcher:  watcher,
		logger:   logger.Named("watcher"),
	}

	if err := w.addRecursive(w.dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return w, nil
}

// addRecursive adds a directory and all its subdirectories to the watch list
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

// Run blocks until ctx is done, calling onChange after each quiet period
// that follows one or more changes. onChange runs on the Run goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			w.logger.Debug("corpus changed", "path", event.Name, "op", event.Op.String())
			pending = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-pending:
			pending = nil
			onChange()
		}
	}
}

// Close stops watching and releases resources
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
