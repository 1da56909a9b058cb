package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SourceConfig holds the configuration for a single message-stream source.
type SourceConfig struct {
	// ID is the unique identifier for this source instance.
	ID string `mapstructure:"id" yaml:"id"`

	// Type identifies the source kind (e.g., "email", "scripted").
	Type string `mapstructure:"type" yaml:"type"`

	// Name is the user-defined label for this source instance.
	Name string `mapstructure:"name" yaml:"name"`

	// Enabled controls whether this source is monitored.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// PollIntervalSec is how often (in seconds) polling sources check
	// for new messages.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// Config holds source-specific key-value settings (e.g., IMAP host,
	// username, script path, preset group selection).
	Config map[string]string `mapstructure:"config" yaml:"config"`
}

// OCRConfig holds settings for image text recognition.
type OCRConfig struct {
	// Enabled controls whether image media is classified at all.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Profiles is the ordered list of recognition profile names to try
	// ("block", "line", "word"). Empty means the default order.
	Profiles []string `mapstructure:"profiles" yaml:"profiles"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DBPath is the SQLite database file location.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// Brands overrides the built-in vocabulary when non-empty. Order is
	// match priority.
	Brands []string `mapstructure:"brands" yaml:"brands"`

	Sources []SourceConfig `mapstructure:"sources" yaml:"sources"`
	OCR     OCRConfig      `mapstructure:"ocr" yaml:"ocr"`

	// RecentLimit is how many alerts the review view shows.
	RecentLimit int `mapstructure:"recent_limit" yaml:"recent_limit"`

	// ShutdownGraceSec bounds how long in-flight events may drain on
	// shutdown.
	ShutdownGraceSec int `mapstructure:"shutdown_grace_sec" yaml:"shutdown_grace_sec"`
}

// Vocabulary returns the configured brand list, falling back to the
// built-in vocabulary when none is set.
func (c *AppConfig) Vocabulary() Vocabulary {
	if len(c.Brands) == 0 {
		return DefaultVocabulary()
	}
	return NewVocabulary(c.Brands)
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/brandwatch/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "brandwatch", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dbPath := "brandwatch.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".config", "brandwatch", "brandwatch.db")
	}
	return &AppConfig{
		DBPath:           dbPath,
		Sources:          []SourceConfig{},
		OCR:              OCRConfig{Enabled: true},
		RecentLimit:      15,
		ShutdownGraceSec: 5,
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("ocr.enabled", true)
	v.SetDefault("recent_limit", 15)
	v.SetDefault("shutdown_grace_sec", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	for i := range cfg.Sources {
		if cfg.Sources[i].PollIntervalSec == 0 {
			cfg.Sources[i].PollIntervalSec = 60
		}
		if !cfg.Sources[i].Enabled {
			// Viper unmarshals missing bools as false; treat unset as true.
			key := fmt.Sprintf("sources.%d.enabled", i)
			if !v.IsSet(key) {
				cfg.Sources[i].Enabled = true
			}
		}
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("brands", cfg.Brands)
	v.Set("sources", cfg.Sources)
	v.Set("ocr", cfg.OCR)
	v.Set("recent_limit", cfg.RecentLimit)
	v.Set("shutdown_grace_sec", cfg.ShutdownGraceSec)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
