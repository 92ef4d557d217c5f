package cmd

import (
	"fmt"
	"os"

	"github.com/nbclass/text-classifier/pkg/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and inspect nbclass configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long: `Generate a default configuration file with all options.
The format is TOML for .toml paths and YAML otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "config.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}

		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return errors.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}
		}

		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return errors.Wrap(err, "failed to save config")
		}

		fmt.Printf("✅ Configuration file generated: %s\n", configPath)
		fmt.Printf("🚀 Use 'nbclass evaluate --config %s' to use the configuration\n", configPath)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax and logical errors`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := args[0]

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return errors.Wrap(err, "❌ Configuration validation failed")
		}

		warnings := validateConfigLogic(cfg)

		fmt.Printf("✅ Configuration is valid: %s\n", configPath)

		if len(warnings) > 0 {
			fmt.Printf("\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show current configuration",
	Long:  `Display the current configuration with all values`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error

		if len(args) > 0 {
			cfg, err = config.LoadConfig(args[0])
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			fmt.Printf("Configuration: %s\n\n", args[0])
		} else {
			cfg = config.DefaultConfig()
			fmt.Printf("Default Configuration:\n\n")
		}

		fmt.Printf("📚 Corpus:\n")
		fmt.Printf("  Backend: %s\n", cfg.Corpus.Backend)
		switch cfg.Corpus.Backend {
		case "redis":
			fmt.Printf("  Redis URL: %s (db %d)\n", cfg.Corpus.Redis.RedisURL, cfg.Corpus.Redis.DatabaseNum)
			fmt.Printf("  Key prefix: %s\n", cfg.Corpus.Redis.KeyPrefix)
		default:
			fmt.Printf("  Directory: %s (*%s)\n", cfg.Corpus.File.Dir, cfg.Corpus.File.Extension)
		}

		fmt.Printf("\n🔤 Normalizer:\n")
		fmt.Printf("  Token length: %d-%d\n", cfg.Normalizer.MinTokenLength, cfg.Normalizer.MaxTokenLength)
		fmt.Printf("  Case sensitive: %v\n", cfg.Normalizer.CaseSensitive)
		fmt.Printf("  Strip diacritics: %v\n", cfg.Normalizer.StripDiacritics)
		fmt.Printf("  Stemming: %v\n", cfg.Normalizer.Stemming)
		fmt.Printf("  Default stop words: %v\n", cfg.Normalizer.DefaultStopWords)
		if cfg.Normalizer.StopWordsFile != "" {
			fmt.Printf("  Stop words file: %s\n", cfg.Normalizer.StopWordsFile)
		}
		if cfg.Normalizer.LuaFilter.Script != "" {
			fmt.Printf("  Lua filter: %s (%d VMs)\n", cfg.Normalizer.LuaFilter.Script, cfg.Normalizer.LuaFilter.PoolSize)
		}

		fmt.Printf("\n🧪 Evaluation:\n")
		fmt.Printf("  Test ratio: %.2f\n", cfg.Evaluation.TestRatio)
		if cfg.Evaluation.Seed == 0 {
			fmt.Printf("  Seed: random\n")
		} else {
			fmt.Printf("  Seed: %d\n", cfg.Evaluation.Seed)
		}
		fmt.Printf("  Workers: %d\n", cfg.Evaluation.Workers)

		fmt.Printf("\n👀 Watch:\n")
		fmt.Printf("  Debounce: %s\n", cfg.Watch.Debounce)

		fmt.Printf("\n📝 Logging:\n")
		fmt.Printf("  Level: %s\n", cfg.Logging.Level)
		fmt.Printf("  Format: %s\n", cfg.Logging.Format)
		if cfg.Logging.File != "" {
			fmt.Printf("  File: %s\n", cfg.Logging.File)
		}

		return nil
	},
}

// validateConfigLogic performs additional logical validation
func validateConfigLogic(cfg *config.Config) []string {
	var warnings []string

	if cfg.Evaluation.TestRatio == 0 {
		warnings = append(warnings, "Test ratio is 0 - evaluation will have no test documents")
	}
	if cfg.Evaluation.TestRatio == 1 {
		warnings = append(warnings, "Test ratio is 1 - no documents are left for training")
	}
	if cfg.Evaluation.TestRatio > 0.5 {
		warnings = append(warnings, "More than half of the corpus is held out for testing")
	}

	if cfg.Normalizer.CaseSensitive && cfg.Normalizer.DefaultStopWords {
		warnings = append(warnings, "Case-sensitive matching may miss capitalized stop words")
	}

	if !cfg.Normalizer.DefaultStopWords && cfg.Normalizer.StopWordsFile == "" {
		warnings = append(warnings, "No stop words configured - frequent function words will dominate the vocabulary")
	}

	if cfg.Normalizer.LuaFilter.Script != "" {
		if _, err := os.Stat(cfg.Normalizer.LuaFilter.Script); err != nil {
			warnings = append(warnings, fmt.Sprintf("Lua filter script not found: %s", cfg.Normalizer.LuaFilter.Script))
		}
	}

	if cfg.Corpus.Backend == "file" {
		if _, err := os.Stat(cfg.Corpus.File.Dir); err != nil {
			warnings = append(warnings, fmt.Sprintf("Corpus directory not found: %s", cfg.Corpus.File.Dir))
		}
	}

	return warnings
}

func init() {
	configGenCmd.Flags().Bool("force", false, "Overwrite existing configuration file")

	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}
