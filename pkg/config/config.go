// Package config loads rf2tool settings from a YAML file, a .env file and
// RF2_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gofhir/rf2"
)

// Config holds all configuration for rf2tool.
// Environment variables override YAML values.
type Config struct {
	// Handler is the registry key used when a command does not name one.
	Handler string `yaml:"handler" env:"RF2_HANDLER" env-default:"RF2"`

	// Naming of exported files
	Namespace    string `yaml:"namespace" env:"RF2_NAMESPACE" env-default:"INT"`
	ReleaseType  string `yaml:"release_type" env:"RF2_RELEASE_TYPE" env-default:"Snapshot"`
	CorePrefix   string `yaml:"core_prefix" env:"RF2_CORE_PREFIX" env-default:"sct2"`
	RefsetPrefix string `yaml:"refset_prefix" env:"RF2_REFSET_PREFIX" env-default:"der2"`

	// Import policy
	DropDanglingLinks bool `yaml:"drop_dangling_links" env:"RF2_DROP_DANGLING_LINKS" env-default:"false"`
	TextDefinitions   bool `yaml:"text_definitions" env:"RF2_TEXT_DEFINITIONS" env-default:"false"`

	// Workers is the batch import parallelism; 0 means one per CPU.
	Workers int `yaml:"workers" env:"RF2_WORKERS" env-default:"0"`

	Log LogConfig `yaml:"log"`

	// Translation is the default owner of imported translation content.
	Translation TranslationConfig `yaml:"translation"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" env:"RF2_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"RF2_LOG_FORMAT" env-default:"console"`
}

// TranslationConfig describes the translation that owns imported content.
type TranslationConfig struct {
	Language         string `yaml:"language" env:"RF2_LANGUAGE" env-default:"es"`
	Version          string `yaml:"version" env:"RF2_VERSION" env-default:""`
	Module           string `yaml:"module" env:"RF2_MODULE" env-default:""`
	LanguageRefsetID string `yaml:"language_refset_id" env:"RF2_LANGUAGE_REFSET_ID" env-default:""`
}

// Load reads configuration. The .env files are loaded first (a missing
// default .env is ignored), then path if given, then the environment.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to read env files: %w", err)
	}
	return nil
}

// Validate checks values that cleanenv cannot.
func (c *Config) Validate() error {
	if _, err := rf2.ParseReleaseType(c.ReleaseType); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

// Options converts the configuration to codec options.
func (c *Config) Options(log *zap.Logger, metrics *rf2.Metrics) []rf2.Option {
	release, _ := rf2.ParseReleaseType(c.ReleaseType)
	return []rf2.Option{
		rf2.WithNamespace(c.Namespace),
		rf2.WithReleaseType(release),
		rf2.WithPrefixes(c.CorePrefix, c.RefsetPrefix),
		rf2.WithDropDanglingLinks(c.DropDanglingLinks),
		rf2.WithTextDefinitions(c.TextDefinitions),
		rf2.WithWorkerCount(c.Workers),
		rf2.WithLogger(log),
		rf2.WithMetrics(metrics),
	}
}
