// Package corpus loads and persists labeled training documents.
package corpus

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCategory is returned when a category cannot be used as a storage name
	ErrInvalidCategory = errors.New("invalid category")

	// ErrDocumentExists is returned when Append would overwrite a stored document
	ErrDocumentExists = errors.New("document already exists")
)

// Document is a raw labeled document
type Document struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Store supplies labeled documents from persistent storage and accepts new ones
type Store interface {
	// LoadAll returns every stored document
	LoadAll(ctx context.Context) ([]Document, error)

	// Append persists a new document and returns its storage identifier.
	// An empty suggestedName lets the store pick one.
	Append(ctx context.Context, category, content, suggestedName string) (string, error)
}

// Resetter is implemented by stores that can drop every stored document
type Resetter interface {
	Reset(ctx context.Context) error
}

// DataStats contains statistics about a set of documents
type DataStats struct {
	TotalDocuments          int            `json:"total_documents"`
	Categories              map[string]int `json:"categories"`
	AverageWordsPerDocument int            `json:"average_words_per_document"`
}

// Stats counts documents per category and the average raw word count
func Stats(docs []Document) *DataStats {
	stats := &DataStats{
		TotalDocuments: len(docs),
		Categories:     make(map[string]int),
	}

	var totalWords int
	for _, doc := range docs {
		stats.Categories[doc.Category]++
		totalWords += len(strings.Fields(doc.Text))
	}

	if len(docs) > 0 {
		stats.AverageWordsPerDocument = totalWords / len(docs)
	}

	return stats
}

// SortedCategories returns the category names of stats in lexical order
func (s *DataStats) SortedCategories() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateCategory rejects names that cannot be stored as a single path element
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return errors.Wrap(ErrInvalidCategory, "category cannot be empty")
	}
	if category == "." || category == ".." || strings.ContainsAny(category, `/\:`) {
		return errors.Wrapf(ErrInvalidCategory, "category %q", category)
	}
	return nil
}
