package normalizer

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNormalizeLatin(t *testing.T) {
	n, err := New(DefaultConfig(), nil)
	require.NoError(t, err)

	tokens, err := n.Normalize("The Café's résumé, 2024 edition!")
	require.NoError(t, err)

	assert.Equal(t, []string{"cafe", "resume", "2024", "edition"}, tokens)
}

func TestNormalizeArabic(t *testing.T) {
	n, err := New(DefaultConfig(), nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "Diacritics removed",
			text:     "الْكِتَابُ",
			expected: []string{"كتاب"},
		},
		{
			name:     "Tatweel removed",
			text:     "كتـــاب",
			expected: []string{"كتاب"},
		},
		{
			name:     "Stop words removed",
			text:     "ذهب الولد إلى المدرسة",
			expected: []string{"ذهب", "ولد", "مدرس"},
		},
		{
			name:     "Empty text",
			text:     "",
			expected: []string{},
		},
		{
			name:     "Only punctuation",
			text:     "!!! ... ???",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := n.Normalize(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestNormalizeOptions(t *testing.T) {
	config := DefaultConfig()
	config.CaseSensitive = true
	config.StripDiacritics = false
	config.Stemming = false
	config.DefaultStopWords = false
	config.MinTokenLength = 1
	config.MaxTokenLength = 5

	n, err := New(config, nil)
	require.NoError(t, err)

	tokens, err := n.Normalize("The Café a extraordinary")
	require.NoError(t, err)
	assert.Equal(t, []string{"The", "Café", "a"}, tokens)

	assert.Equal(t, Stats{StopWords: 0}, n.Stats())
}

func TestNormalizeStopWordsFile(t *testing.T) {
	path := writeTemp(t, "stop.txt", "# custom list\nfoo\n\n  BAR  \n")

	config := DefaultConfig()
	config.DefaultStopWords = false
	config.StopWordsFile = path

	n, err := New(config, nil)
	require.NoError(t, err)

	assert.True(t, n.IsStopWord("foo"))
	assert.True(t, n.IsStopWord("bar"))
	assert.False(t, n.IsStopWord("the"))
	assert.Equal(t, 2, n.Stats().StopWords)

	tokens, err := n.Normalize("foo Bar baz the")
	require.NoError(t, err)
	assert.Equal(t, []string{"baz", "the"}, tokens)
}

func TestNewMissingStopWordsFile(t *testing.T) {
	config := DefaultConfig()
	config.StopWordsFile = filepath.Join(t.TempDir(), "missing.txt")

	_, err := New(config, nil)
	assert.Error(t, err)
}

func TestStem(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{token: "والكتاب", expected: "كتاب"},
		{token: "المدرسة", expected: "مدرس"},
		{token: "كتابها", expected: "كتاب"},
		{token: "المعلمون", expected: "معلم"},
		{token: "لل", expected: "لل"},
		{token: "football", expected: "football"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.expected, Stem(tt.token))
		})
	}
}

func TestNormalizeLuaFilter(t *testing.T) {
	script := writeTemp(t, "filter.lua", `
function filter(token)
  if token == "drop" then
    return nil
  end
  return string.upper(token)
end
`)

	config := DefaultConfig()
	config.LuaScript = script
	config.LuaPoolSize = 2

	n, err := New(config, nil)
	require.NoError(t, err)
	defer n.Close()

	assert.True(t, n.Stats().LuaFilter)

	// More goroutines than pooled VMs
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens, err := n.Normalize("keep drop this")
			assert.NoError(t, err)
			assert.Equal(t, []string{"KEEP"}, tokens)
		}()
	}
	wg.Wait()
}

func TestLuaFilterStopWordAPI(t *testing.T) {
	script := writeTemp(t, "filter.lua", `
function filter(token)
  if nbclass.is_stop_word(token) then
    return ""
  end
  return token
end
`)

	lf, err := NewLuaFilter(script, 1, func(s string) bool { return s == "noise" })
	require.NoError(t, err)
	defer lf.Close()

	tokens, err := lf.Apply([]string{"signal", "noise", "more"})
	require.NoError(t, err)
	assert.Equal(t, []string{"signal", "more"}, tokens)
}

func TestLuaFilterInvalidScripts(t *testing.T) {
	_, err := NewLuaFilter(filepath.Join(t.TempDir(), "missing.lua"), 1, nil)
	assert.Error(t, err)

	noFilter := writeTemp(t, "nofilter.lua", `x = 1`)
	_, err = NewLuaFilter(noFilter, 1, nil)
	assert.Error(t, err)

	broken := writeTemp(t, "broken.lua", `function filter(`)
	_, err = NewLuaFilter(broken, 1, nil)
	assert.Error(t, err)

	failing := writeTemp(t, "failing.lua", `function filter(token) error("boom") end`)
	lf, err := NewLuaFilter(failing, 1, nil)
	require.NoError(t, err)
	defer lf.Close()

	_, err = lf.Apply([]string{"x"})
	assert.Error(t, err)
}
