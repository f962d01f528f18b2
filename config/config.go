// Package config provides configuration management for the rolodex CLI.
// It supports loading configuration from a YAML file with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rkarimi/rolodex/pkg/db"
	"github.com/rkarimi/rolodex/pkg/logging"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
)

// Default configuration values.
const (
	DefaultConfigDir  = ".rolodex"
	DefaultConfigFile = "config.yaml"
	DefaultUserID     = "local"
)

// DatabaseConfig holds contact-store connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Database string `yaml:"database,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`
}

// RedisConfig holds cache connection settings. Leave Addr empty to disable
// cache invalidation signals.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level logging.Level `yaml:"level,omitempty"`
	JSON  bool          `yaml:"json,omitempty"`
}

// Config is the complete CLI configuration.
type Config struct {
	// UserID identifies whose contact set the CLI operates on.
	UserID string `yaml:"user_id,omitempty"`

	Database DatabaseConfig `yaml:"database,omitempty"`
	Redis    RedisConfig    `yaml:"redis,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`

	// Output selects the default output format (text or json).
	Output OutputFormat `yaml:"output,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	dbDefaults := db.DefaultConfig()
	return &Config{
		UserID: DefaultUserID,
		Database: DatabaseConfig{
			Host:     dbDefaults.Host,
			Port:     dbDefaults.Port,
			Database: dbDefaults.Database,
			User:     dbDefaults.User,
			SSLMode:  dbDefaults.SSLMode,
		},
		Log: LogConfig{
			Level: logging.LevelInfo,
		},
		Output: OutputFormatText,
	}
}

// DefaultPath returns the default config file path (~/.rolodex/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFile
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// Load reads configuration from path, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("ROLODEX_USER_ID"); v != "" {
		c.UserID = v
	}
	if v := os.Getenv("ROLODEX_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("ROLODEX_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("ROLODEX_LOG_LEVEL"); v != "" {
		c.Log.Level = logging.Level(strings.ToLower(v))
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	switch c.Output {
	case OutputFormatText, OutputFormatJSON, "":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	return nil
}

// DBConfig converts the database section into a pool configuration.
func (c *Config) DBConfig() *db.Config {
	cfg := db.DefaultConfig()
	if c.Database.Host != "" {
		cfg.Host = c.Database.Host
	}
	if c.Database.Port != 0 {
		cfg.Port = c.Database.Port
	}
	if c.Database.Database != "" {
		cfg.Database = c.Database.Database
	}
	if c.Database.User != "" {
		cfg.User = c.Database.User
	}
	cfg.Password = c.Database.Password
	if c.Database.SSLMode != "" {
		cfg.SSLMode = c.Database.SSLMode
	}
	return cfg
}

// Save writes the configuration as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
