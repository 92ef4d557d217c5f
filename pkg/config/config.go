package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/nbclass/text-classifier/pkg/corpus"
	"github.com/nbclass/text-classifier/pkg/normalizer"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents nbclass configuration
type Config struct {
	// Training corpus settings
	Corpus CorpusConfig `yaml:"corpus" toml:"corpus"`

	// Text normalization settings
	Normalizer NormalizerConfig `yaml:"normalizer" toml:"normalizer"`

	// Train/test evaluation settings
	Evaluation EvaluationConfig `yaml:"evaluation" toml:"evaluation"`

	// Corpus watch settings
	Watch WatchConfig `yaml:"watch" toml:"watch"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// CorpusConfig contains corpus storage settings
type CorpusConfig struct {
	// Backend selection: "file" or "redis"
	Backend string `yaml:"backend" toml:"backend"`

	// File-based backend settings
	File FileBackendConfig `yaml:"file" toml:"file"`

	// Redis-based backend settings
	Redis RedisBackendConfig `yaml:"redis" toml:"redis"`
}

// FileBackendConfig contains file-based corpus settings
type FileBackendConfig struct {
	Dir       string `yaml:"dir" toml:"dir"`
	Extension string `yaml:"extension" toml:"extension"`
}

// RedisBackendConfig contains Redis-based corpus settings
type RedisBackendConfig struct {
	RedisURL    string `yaml:"redis_url" toml:"redis_url"`
	KeyPrefix   string `yaml:"key_prefix" toml:"key_prefix"`
	DatabaseNum int    `yaml:"database_num" toml:"database_num"`
	BatchSize   int    `yaml:"batch_size" toml:"batch_size"`
}

// NormalizerConfig contains tokenization settings
type NormalizerConfig struct {
	MinTokenLength   int             `yaml:"min_token_length" toml:"min_token_length"`
	MaxTokenLength   int             `yaml:"max_token_length" toml:"max_token_length"`
	CaseSensitive    bool            `yaml:"case_sensitive" toml:"case_sensitive"`
	StripDiacritics  bool            `yaml:"strip_diacritics" toml:"strip_diacritics"`
	Stemming         bool            `yaml:"stemming" toml:"stemming"`
	DefaultStopWords bool            `yaml:"default_stop_words" toml:"default_stop_words"`
	StopWordsFile    string          `yaml:"stop_words_file" toml:"stop_words_file"`
	LuaFilter        LuaFilterConfig `yaml:"lua_filter" toml:"lua_filter"`
}

// LuaFilterConfig contains the optional Lua token filter settings
type LuaFilterConfig struct {
	Script   string `yaml:"script" toml:"script"`
	PoolSize int    `yaml:"pool_size" toml:"pool_size"`
}

// EvaluationConfig contains train/test split settings
type EvaluationConfig struct {
	TestRatio float64 `yaml:"test_ratio" toml:"test_ratio"`
	Seed      uint64  `yaml:"seed" toml:"seed"` // 0 = random split
	Workers   int     `yaml:"workers" toml:"workers"`
}

// WatchConfig contains corpus watch settings
type WatchConfig struct {
	Debounce string `yaml:"debounce" toml:"debounce"` // Duration string like "2s"
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	File   string `yaml:"file" toml:"file"`     // log file path, empty = stderr
	Format string `yaml:"format" toml:"format"` // json, text
}

// DefaultConfig returns nbclass default configuration
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Backend: "file",
			File: FileBackendConfig{
				Dir:       "Data",
				Extension: ".txt",
			},
			Redis: RedisBackendConfig{
				RedisURL:    "redis://localhost:6379",
				KeyPrefix:   "nbclass:corpus",
				DatabaseNum: 0,
				BatchSize:   100,
			},
		},
		Normalizer: NormalizerConfig{
			MinTokenLength:   2,
			MaxTokenLength:   40,
			CaseSensitive:    false,
			StripDiacritics:  true,
			Stemming:         true,
			DefaultStopWords: true,
			LuaFilter: LuaFilterConfig{
				PoolSize: 4,
			},
		},
		Evaluation: EvaluationConfig{
			TestRatio: 0.2,
			Seed:      0,
			Workers:   4,
		},
		Watch: WatchConfig{
			Debounce: "2s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML or TOML file.
// An empty path returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if isTOML(configPath) {
		err = toml.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return config, nil
}

// SaveConfig saves configuration to file, as TOML for .toml paths and YAML otherwise
func (c *Config) SaveConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	file, err := os.Create(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}
	defer file.Close()

	if isTOML(configPath) {
		err = toml.NewEncoder(file).Encode(c)
	} else {
		encoder := yaml.NewEncoder(file)
		encoder.SetIndent(2)
		err = encoder.Encode(c)
		if err == nil {
			err = encoder.Close()
		}
	}
	if err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Corpus.Backend {
	case "file":
		if c.Corpus.File.Dir == "" {
			return errors.New("corpus file dir cannot be empty")
		}
	case "redis":
		if c.Corpus.Redis.RedisURL == "" {
			return errors.New("corpus redis_url cannot be empty")
		}
		if c.Corpus.Redis.BatchSize < 1 {
			return errors.New("corpus redis batch_size must be >= 1")
		}
	default:
		return errors.Errorf("corpus backend must be 'file' or 'redis', got %q", c.Corpus.Backend)
	}

	if c.Normalizer.MinTokenLength < 1 {
		return errors.New("min_token_length must be >= 1")
	}
	if c.Normalizer.MaxTokenLength != 0 && c.Normalizer.MaxTokenLength < c.Normalizer.MinTokenLength {
		return errors.New("max_token_length must be >= min_token_length")
	}

	if c.Evaluation.TestRatio < 0 || c.Evaluation.TestRatio > 1 {
		return errors.New("test_ratio must be between 0 and 1")
	}
	if c.Evaluation.Workers < 1 {
		return errors.New("evaluation workers must be >= 1")
	}

	if _, err := c.WatchDebounce(); err != nil {
		return err
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	validLevel := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return errors.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return errors.Errorf("logging format must be 'text' or 'json', got %q", c.Logging.Format)
	}

	return nil
}

// WatchDebounce parses the watch debounce interval
func (c *Config) WatchDebounce() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return time.Second, nil
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, errors.Wrap(err, "invalid watch debounce")
	}
	if d <= 0 {
		return 0, errors.New("watch debounce must be positive")
	}
	return d, nil
}

// NormalizerOptions converts the normalizer section
func (c *Config) NormalizerOptions() *normalizer.Config {
	return &normalizer.Config{
		MinTokenLength:   c.Normalizer.MinTokenLength,
		MaxTokenLength:   c.Normalizer.MaxTokenLength,
		CaseSensitive:    c.Normalizer.CaseSensitive,
		StripDiacritics:  c.Normalizer.StripDiacritics,
		Stemming:         c.Normalizer.Stemming,
		DefaultStopWords: c.Normalizer.DefaultStopWords,
		StopWordsFile:    c.Normalizer.StopWordsFile,
		LuaScript:        c.Normalizer.LuaFilter.Script,
		LuaPoolSize:      c.Normalizer.LuaFilter.PoolSize,
	}
}

// RedisOptions converts the Redis corpus section
func (c *Config) RedisOptions() *corpus.RedisConfig {
	return &corpus.RedisConfig{
		RedisURL:    c.Corpus.Redis.RedisURL,
		KeyPrefix:   c.Corpus.Redis.KeyPrefix,
		DatabaseNum: c.Corpus.Redis.DatabaseNum,
		BatchSize:   c.Corpus.Redis.BatchSize,
	}
}
