package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-matcher"
)

type Config struct {
	Taxonomy  *TaxonomyConfig  `mapstructure:"taxonomy"`
	Matching  *MatchingConfig  `mapstructure:"matching"`
	Scoring   *ScoringConfig   `mapstructure:"scoring"`
	Embedding *EmbeddingConfig `mapstructure:"embedding"`
	Sections  *SectionsConfig  `mapstructure:"sections"`
}

type TaxonomyConfig struct {
	Source     string `mapstructure:"source"`
	Mirror     string `mapstructure:"mirror"`
	SoftSkills string `mapstructure:"soft-skills"`
}

type MatchingConfig struct {
	JobTitleLimit      int     `mapstructure:"job-title-limit"`
	ReplaceThreshold   int     `mapstructure:"replace-threshold"`
	AlignmentThreshold float64 `mapstructure:"alignment-threshold"`
}

type ScoringConfig struct {
	KeywordWeight  float64 `mapstructure:"keyword-weight"`
	SemanticWeight float64 `mapstructure:"semantic-weight"`
}

type EmbeddingConfig struct {
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type SectionsConfig struct {
	HeaderThreshold int `mapstructure:"header-threshold"`
}

var (
	// Used for flags.
	cfgFile string
	envFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher splits resumes into sections and scores them against job descriptions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"embedding.gemini.api-key":      "GEMINI_API_KEY",
		"embedding.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"taxonomy.source":               "RESUME_MATCHER_TAXONOMY",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "a dotenv file to load before reading the config (default is .env if present)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("taxonomy.source", "data/job_skills.json")
	v.SetDefault("matching.job-title-limit", 3)
	v.SetDefault("matching.replace-threshold", 95)
	v.SetDefault("matching.alignment-threshold", 0.90)
	v.SetDefault("scoring.keyword-weight", 0.5)
	v.SetDefault("scoring.semantic-weight", 0.5)
	v.SetDefault("embedding.provider", "none")
	v.SetDefault("embedding.timeout", 30*time.Second)
	v.SetDefault("embedding.gemini.model", "text-embedding-004")
	v.SetDefault("embedding.gemini.max-retries", 1)
	v.SetDefault("embedding.gemini.max-log-length", 200)
	v.SetDefault("sections.header-threshold", 80)
}

func initConfig() {
	if err := loadEnv(envFile); err != nil {
		log.Fatal(err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// An explicit config must be readable; the default one is optional.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

// loadEnv loads variables from path, or from .env when path is empty and the
// file exists. Variables already set in the environment win.
func loadEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %q: %w", path, err)
	}
	return nil
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	if config.Taxonomy == nil {
		config.Taxonomy = &TaxonomyConfig{}
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.Embedding == nil {
		config.Embedding = &EmbeddingConfig{}
	}
	if config.Embedding.Gemini == nil {
		config.Embedding.Gemini = &GeminiConfig{}
	}
	if config.Sections == nil {
		config.Sections = &SectionsConfig{}
	}

	return config, nil
}
