package corpus

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func sortDocuments(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Category != docs[j].Category {
			return docs[i].Category < docs[j].Category
		}
		return docs[i].Text < docs[j].Text
	})
}

func TestFileStoreLoadAllLayouts(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "sport.txt"), "gol gol match")
	writeFile(t, filepath.Join(dir, "news", "a.txt"), "match report")
	writeFile(t, filepath.Join(dir, "news", "b.TXT"), "today")
	writeFile(t, filepath.Join(dir, "news", "notes.md"), "ignored extension")
	writeFile(t, filepath.Join(dir, "blank.txt"), "  \n\t ")
	writeFile(t, filepath.Join(dir, "news", "deep", "c.txt"), "too deep")

	store := NewFileStore(dir+string(filepath.Separator), "txt", nil)
	assert.Equal(t, filepath.Clean(dir), store.Dir())

	docs, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	sortDocuments(docs)

	assert.Equal(t, []Document{
		{Category: "news", Text: "match report"},
		{Category: "news", Text: "today"},
		{Category: "sport", Text: "gol gol match"},
	}, docs)
}

func TestFileStoreMissingDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"), "", nil)

	docs, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFileStoreAppend(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, ".txt", nil)
	ctx := context.Background()

	path, err := store.Append(ctx, "sport", "gol match", "first")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sport", "first.txt"), path)

	generated, err := store.Append(ctx, "sport", "another gol", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sport"), filepath.Dir(generated))
	assert.NotEqual(t, path, generated)

	_, err = store.Append(ctx, "sport", "overwrite?", "first")
	assert.ErrorIs(t, err, ErrDocumentExists)

	docs, err := store.LoadAll(ctx)
	require.NoError(t, err)
	sortDocuments(docs)
	assert.Equal(t, []Document{
		{Category: "sport", Text: "another gol"},
		{Category: "sport", Text: "gol match"},
	}, docs)
}

func TestCreateExclusiveRemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")

	err := createExclusive(path, func(w io.Writer) error {
		io.WriteString(w, "gol g")
		return errors.New("disk full")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// The name is free for a retry
	require.NoError(t, createExclusive(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "gol gol match")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gol gol match", string(data))

	err = createExclusive(path, func(io.Writer) error { return nil })
	assert.ErrorIs(t, err, ErrDocumentExists)
}

func TestFileStoreAppendInvalidCategory(t *testing.T) {
	store := NewFileStore(t.TempDir(), "", nil)

	for _, category := range []string{"", "  ", ".", "..", "a/b", `a\b`} {
		_, err := store.Append(context.Background(), category, "text", "")
		assert.ErrorIs(t, err, ErrInvalidCategory, "category %q", category)
	}
}

func TestFileStoreCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sport.txt"), "gol")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileStore(dir, "", nil).LoadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStats(t *testing.T) {
	stats := Stats([]Document{
		{Category: "b", Text: "one two three"},
		{Category: "a", Text: "one"},
		{Category: "b", Text: "one two"},
	})

	assert.Equal(t, 3, stats.TotalDocuments)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, stats.Categories)
	assert.Equal(t, 2, stats.AverageWordsPerDocument)
	assert.Equal(t, []string{"a", "b"}, stats.SortedCategories())

	empty := Stats(nil)
	assert.Equal(t, 0, empty.AverageWordsPerDocument)
}
