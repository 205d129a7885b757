package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Data     DataConfig
	Ingest   IngestConfig
	Auth     AuthConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// DataConfig describes the transaction dataset and the columns the filters
// and stats read.
type DataConfig struct {
	Source        string
	PageSize      int    `mapstructure:"page_size"`
	StatusColumn  string `mapstructure:"status_column"`
	FraudColumn   string `mapstructure:"fraud_column"`
	FraudValue    string `mapstructure:"fraud_value"`
	DeclinedValue string `mapstructure:"declined_value"`
}

// IngestConfig holds the retry policy for loading the dataset.
type IngestConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
	Timeout     time.Duration
}

// AuthConfig holds the single analyst credential. An empty PasswordHash
// means the built-in default password.
type AuthConfig struct {
	Username     string
	PasswordHash string `mapstructure:"password_hash"`
}

// LogConfig holds logger settings. An empty File logs to stderr.
type LogConfig struct {
	Level string
	File  string
}

func configPath() string {
	if p := os.Getenv("FRAUDSCOPE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "fraudscope", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix FRAUDSCOPE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "fraudscope", "fraudscope.db"))
	v.SetDefault("data.source", "data.csv")
	v.SetDefault("data.page_size", 50)
	v.SetDefault("data.status_column", "state")
	v.SetDefault("data.fraud_column", "fraud")
	v.SetDefault("data.fraud_value", "1")
	v.SetDefault("data.declined_value", "declined")
	v.SetDefault("ingest.max_attempts", 3)
	v.SetDefault("ingest.base_delay", time.Second)
	v.SetDefault("ingest.max_delay", 10*time.Second)
	v.SetDefault("ingest.timeout", 30*time.Second)
	v.SetDefault("auth.username", "test")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetConfigType("toml")
	v.SetConfigFile(configPath())

	v.SetEnvPrefix("FRAUDSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a broken one is not
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath()); statErr == nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Data.PageSize <= 0 {
		return Config{}, fmt.Errorf("data.page_size must be positive, got %d", c.Data.PageSize)
	}
	if c.Ingest.MaxAttempts <= 0 {
		return Config{}, fmt.Errorf("ingest.max_attempts must be positive, got %d", c.Ingest.MaxAttempts)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("data.source", cfg.Data.Source)
	v.Set("data.page_size", cfg.Data.PageSize)
	v.Set("data.status_column", cfg.Data.StatusColumn)
	v.Set("data.fraud_column", cfg.Data.FraudColumn)
	v.Set("data.fraud_value", cfg.Data.FraudValue)
	v.Set("data.declined_value", cfg.Data.DeclinedValue)
	v.Set("ingest.max_attempts", cfg.Ingest.MaxAttempts)
	v.Set("ingest.base_delay", cfg.Ingest.BaseDelay.String())
	v.Set("ingest.max_delay", cfg.Ingest.MaxDelay.String())
	v.Set("ingest.timeout", cfg.Ingest.Timeout.String())
	v.Set("auth.username", cfg.Auth.Username)
	v.Set("auth.password_hash", cfg.Auth.PasswordHash)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
