package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Data        DataConfig        `mapstructure:"data"`
	Providers   ProvidersConfig   `mapstructure:"providers"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// DataConfig holds local storage configuration
type DataConfig struct {
	Dir  string `mapstructure:"dir"`  // Directory holding the database file
	File string `mapstructure:"file"` // Database file name
}

// ProvidersConfig holds metadata catalog configuration
type ProvidersConfig struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Kitsu   CatalogConfig `mapstructure:"kitsu"`
	AniList CatalogConfig `mapstructure:"anilist"`
	Jikan   CatalogConfig `mapstructure:"jikan"`
}

// TMDBConfig holds TMDB API configuration
type TMDBConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CatalogConfig holds configuration for a keyless catalog API
type CatalogConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// PersistenceConfig tunes document caching and write coalescing
type PersistenceConfig struct {
	FreshnessSeconds int `mapstructure:"freshness_seconds"`   // Snapshot age before a re-read hits disk
	ThrottleWindowMs int `mapstructure:"throttle_window_ms"` // Trailing-drop window for rapid edits
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:  defaultDataPath(),
			File: "watchkeep.db",
		},
		Providers: ProvidersConfig{
			TMDB:    TMDBConfig{BaseURL: "https://api.themoviedb.org/3"},
			Kitsu:   CatalogConfig{BaseURL: "https://kitsu.io/api/edge"},
			AniList: CatalogConfig{BaseURL: "https://graphql.anilist.co"},
			Jikan:   CatalogConfig{BaseURL: "https://api.jikan.moe/v4"},
		},
		Persistence: PersistenceConfig{
			FreshnessSeconds: 5,
			ThrottleWindowMs: 1000,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "watchkeep")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "watchkeep")
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "watchkeep", "watchkeep.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "watchkeep", "watchkeep.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "watchkeep")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "watchkeep")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("WATCHKEEP")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// First run: materialize the defaults so the user has a file to
		// edit. Failing to write it is not fatal, defaults still apply.
		_ = SaveConfig(cfg)
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("data.dir", cfg.Data.Dir)
	viper.Set("data.file", cfg.Data.File)

	viper.Set("providers.tmdb.api_key", cfg.Providers.TMDB.APIKey)
	viper.Set("providers.tmdb.base_url", cfg.Providers.TMDB.BaseURL)
	viper.Set("providers.kitsu.base_url", cfg.Providers.Kitsu.BaseURL)
	viper.Set("providers.anilist.base_url", cfg.Providers.AniList.BaseURL)
	viper.Set("providers.jikan.base_url", cfg.Providers.Jikan.BaseURL)

	viper.Set("persistence.freshness_seconds", cfg.Persistence.FreshnessSeconds)
	viper.Set("persistence.throttle_window_ms", cfg.Persistence.ThrottleWindowMs)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// HasTMDBKey returns true if a TMDB API key is configured
func (c *Config) HasTMDBKey() bool {
	return c.Providers.TMDB.APIKey != ""
}
