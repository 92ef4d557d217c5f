package corpus

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

// FileStore keeps documents as text files under a corpus directory.
//
// Two layouts are understood and may be mixed:
//
//	<dir>/<category>.txt          one document, category from the file name
//	<dir>/<category>/<name>.txt   any number of documents per category
type FileStore struct {
	dir       string
	extension string
	logger    hclog.Logger
}

// NewFileStore creates a store rooted at dir. extension defaults to ".txt".
func NewFileStore(dir, extension string, logger hclog.Logger) *FileStore {
	if extension == "" {
		extension = ".txt"
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &FileStore{
		dir:       filepath.Clean(dir),
		extension: extension,
		logger:    logger.Named("corpus"),
	}
}

// Dir returns the corpus directory
func (s *FileStore) Dir() string {
	return s.dir
}

// LoadAll reads every document file in the corpus directory.
// Blank and unreadable files are logged and skipped.
func (s *FileStore) LoadAll(ctx context.Context) ([]Document, error) {
	info, err := os.Stat(s.dir)
	if err != nil || !info.IsDir() {
		s.logger.Warn("training data directory not found", "dir", s.dir)
		return nil, nil
	}

	var docs []Document

	err = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Error("error accessing path", "path", path, "error", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			// Categories are a single directory level deep
			if path != s.dir && filepath.Dir(path) != s.dir {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), s.extension) {
			return nil
		}

		category := s.categoryFor(path)

		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Error("error reading file", "path", path, "error", err)
			return nil
		}

		if strings.TrimSpace(string(content)) == "" {
			s.logger.Warn("empty file", "path", path)
			return nil
		}

		docs = append(docs, Document{Category: category, Text: string(content)})
		s.logger.Debug("loaded document", "path", path, "category", category, "chars", len(content))

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk corpus directory")
	}

	s.logger.Info("loaded training documents", "count", len(docs), "dir", s.dir)
	return docs, nil
}

func (s *FileStore) categoryFor(path string) string {
	parent := filepath.Dir(path)
	if parent == s.dir {
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return filepath.Base(parent)
}

// Append writes content to <dir>/<category>/<name><ext> and returns the path.
// An existing file is never overwritten.
func (s *FileStore) Append(ctx context.Context, category, content, suggestedName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ValidateCategory(category); err != nil {
		return "", err
	}

	name := strings.TrimSuffix(filepath.Base(suggestedName), filepath.Ext(suggestedName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = uuid.NewString()
	}

	categoryDir := filepath.Join(s.dir, category)
	if err := os.MkdirAll(categoryDir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create category directory")
	}

	path := filepath.Join(categoryDir, name+s.extension)
	err := createExclusive(path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("added training document", "path", path, "category", category)
	return path, nil
}

// createExclusive creates path, which must not exist yet, and fills it with
// write. On any failure the partial file is removed so the name stays free.
func createExclusive(path string, write func(w io.Writer) error) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return errors.Wrapf(ErrDocumentExists, "%s", path)
		}
		return errors.Wrap(err, "failed to create document file")
	}

	if err := write(file); err != nil {
		file.Close()
		os.Remove(path)
		return errors.Wrap(err, "failed to write document")
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return errors.Wrap(err, "failed to close document")
	}

	return nil
}

var _ Store = (*FileStore)(nil)
