// Package config handles configuration loading and validation for censedit.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Database  DatabaseConfig `yaml:"database"`
	AssetsDir string         `yaml:"assets_dir"`
	LogLevel  string         `yaml:"log_level"`
	DataDir   string         `yaml:"-"` // set by caller, not from config file
}

// DatabaseConfig holds the SQL Server connection settings.
type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Name           string `yaml:"name"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	ConnectTimeout int    `yaml:"connect_timeout"` // seconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           1433,
			ConnectTimeout: 5,
		},
		AssetsDir: "assets",
		LogLevel:  "info",
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Database.Host == "" {
		c.Database.Host = defaults.Database.Host
	}
	if c.Database.Port == 0 {
		c.Database.Port = defaults.Database.Port
	}
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = defaults.Database.ConnectTimeout
	}
	if c.AssetsDir == "" {
		c.AssetsDir = defaults.AssetsDir
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("database.name cannot be empty")
	}

	if c.Database.Username == "" {
		return fmt.Errorf("database.username cannot be empty")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port must be between 1 and 65535")
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("log_level %q must be one of trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// AssetPath returns the path of one spreadsheet under the assets directory.
func (c *Config) AssetPath(file string) string {
	return filepath.Join(c.AssetsDir, file)
}

// LogFile returns the path to the application log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "censedit.log")
}

func isValidLogLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
