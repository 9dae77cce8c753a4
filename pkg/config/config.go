package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates client configuration values.
type Config struct {
	URL      string        `yaml:"url"`
	Database string        `yaml:"database"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
	Logging  LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console|json
}

const (
	defaultURL           = "http://localhost:8529"
	defaultDatabase      = "_system"
	defaultTimeout       = 30 * time.Second
	defaultLoggingLevel  = "info"
	defaultLoggingFormat = "console"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		URL:      defaultURL,
		Database: defaultDatabase,
		Timeout:  defaultTimeout,
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
	}
}

// Load reads the YAML file at path when it exists, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults and environment only
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.URL = valueOrDefault("ARANGO_URL", cfg.URL)
	cfg.Database = valueOrDefault("ARANGO_DATABASE", cfg.Database)
	cfg.Username = valueOrDefault("ARANGO_USERNAME", cfg.Username)
	cfg.Password = valueOrDefault("ARANGO_PASSWORD", cfg.Password)
	cfg.Logging.Level = valueOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("LOG_FORMAT", cfg.Logging.Format)

	if v := os.Getenv("ARANGO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ARANGO_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a client cannot work without.
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("url is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout %s is negative", c.Timeout)
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
