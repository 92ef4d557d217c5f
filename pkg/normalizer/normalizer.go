// Package normalizer turns raw text into classification tokens.
package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = "ـ"

// Config holds normalization settings
type Config struct {
	MinTokenLength   int    `json:"min_token_length"`
	MaxTokenLength   int    `json:"max_token_length"`
	CaseSensitive    bool   `json:"case_sensitive"`
	StripDiacritics  bool   `json:"strip_diacritics"`
	Stemming         bool   `json:"stemming"`
	DefaultStopWords bool   `json:"default_stop_words"`
	StopWordsFile    string `json:"stop_words_file"`
	LuaScript        string `json:"lua_script"`
	LuaPoolSize      int    `json:"lua_pool_size"`
}

// DefaultConfig returns default normalization configuration
func DefaultConfig() *Config {
	return &Config{
		MinTokenLength:   2,
		MaxTokenLength:   40,
		CaseSensitive:    false,
		StripDiacritics:  true,
		Stemming:         true,
		DefaultStopWords: true,
		LuaPoolSize:      4,
	}
}

// Normalizer runs the tokenization pipeline:
// unicode folding, tokenization, length filter, stop words, stemming and an
// optional Lua token filter. It is safe for concurrent use.
type Normalizer struct {
	config    *Config
	stopWords map[string]struct{}
	filter    *LuaFilter
	logger    hclog.Logger
}

// New builds a normalizer from config
func New(config *Config, logger hclog.Logger) (*Normalizer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	n := &Normalizer{
		config:    config,
		stopWords: make(map[string]struct{}),
		logger:    logger.Named("normalizer"),
	}

	if config.DefaultStopWords {
		for _, word := range defaultStopWords {
			n.addStopWord(word)
		}
	}

	if config.StopWordsFile != "" {
		words, err := LoadStopWords(config.StopWordsFile)
		if err != nil {
			return nil, err
		}
		for _, word := range words {
			n.addStopWord(word)
		}
		n.logger.Info("loaded stop words", "file", config.StopWordsFile, "count", len(words))
	}

	if config.LuaScript != "" {
		filter, err := NewLuaFilter(config.LuaScript, config.LuaPoolSize, n.IsStopWord)
		if err != nil {
			return nil, err
		}
		n.filter = filter
	}

	return n, nil
}

// Normalize implements learning.Normalizer
func (n *Normalizer) Normalize(text string) ([]string, error) {
	folded, err := n.fold(text)
	if err != nil {
		return nil, errors.Wrap(err, "unicode normalization failed")
	}

	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, token := range fields {
		length := utf8.RuneCountInString(token)
		if length < n.config.MinTokenLength || (n.config.MaxTokenLength > 0 && length > n.config.MaxTokenLength) {
			continue
		}
		if n.IsStopWord(token) {
			continue
		}
		if n.config.Stemming {
			token = Stem(token)
		}
		tokens = append(tokens, token)
	}

	if n.filter != nil {
		return n.filter.Apply(tokens)
	}

	return tokens, nil
}

// fold applies unicode compatibility folding, diacritic removal and case folding
func (n *Normalizer) fold(text string) (string, error) {
	var t transform.Transformer = norm.NFKC
	if n.config.StripDiacritics {
		t = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	}

	folded, _, err := transform.String(t, text)
	if err != nil {
		return "", err
	}

	folded = strings.ReplaceAll(folded, tatweel, "")
	if !n.config.CaseSensitive {
		folded = strings.ToLower(folded)
	}

	return folded, nil
}

// IsStopWord reports whether word is filtered out
func (n *Normalizer) IsStopWord(word string) bool {
	_, ok := n.stopWords[word]
	return ok
}

func (n *Normalizer) addStopWord(word string) {
	folded, err := n.fold(strings.TrimSpace(word))
	if err != nil || folded == "" {
		return
	}
	n.stopWords[folded] = struct{}{}
}

// Stats describes the configured pipeline
type Stats struct {
	StopWords  int  `json:"stop_words"`
	Diacritics bool `json:"strip_diacritics"`
	Stemming   bool `json:"stemming"`
	LuaFilter  bool `json:"lua_filter"`
}

// Stats returns a description of the configured pipeline
func (n *Normalizer) Stats() Stats {
	return Stats{
		StopWords:  len(n.stopWords),
		Diacritics: n.config.StripDiacritics,
		Stemming:   n.config.Stemming,
		LuaFilter:  n.filter != nil,
	}
}

// Close releases the Lua VMs, if any
func (n *Normalizer) Close() error {
	if n.filter != nil {
		n.filter.Close()
	}
	return nil
}
