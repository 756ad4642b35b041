// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied by MergeWithDefaults.
const (
	DefaultAPIBaseURL = "http://localhost:8000"
	DefaultTimeout    = 60 * time.Second
	DefaultStorage    = "file"
	DefaultLogLevel   = "info"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Remote workflow service
	APIBaseURL string `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty"` // Base URL of the workflow service
	Timeout    string `json:"timeout,omitempty" yaml:"timeout,omitempty"`           // Per-request timeout, e.g. "60s"

	// Storage
	Storage     string `json:"storage,omitempty" yaml:"storage,omitempty"`           // file, memory, redis or postgres
	StateDir    string `json:"state_dir,omitempty" yaml:"state_dir,omitempty"`       // Directory for the file backend
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`       // Redis URL for the redis backend
	Namespace   string `json:"namespace,omitempty" yaml:"namespace,omitempty"`       // Redis key prefix
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL

	// Logging
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"` // debug, info, warn, error
	LogFile  string `json:"log_file,omitempty" yaml:"log_file,omitempty"`   // Rotating JSON log file
	LogJSON  bool   `json:"log_json,omitempty" yaml:"log_json,omitempty"`   // JSON console logs

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Use headless browser for SPA job pages
	Verbose    bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`         // Print detailed debug information

	// Users allowed to log in. When empty the demo users are used.
	Users []UserConfig `json:"users,omitempty" yaml:"users,omitempty"`
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv() {
	envs := []struct {
		name   string
		target *string
	}{
		{"TALENTFIT_API_URL", &c.APIBaseURL},
		{"TALENTFIT_TIMEOUT", &c.Timeout},
		{"TALENTFIT_STORAGE", &c.Storage},
		{"TALENTFIT_STATE_DIR", &c.StateDir},
		{"TALENTFIT_REDIS_NAMESPACE", &c.Namespace},
		{"REDIS_URL", &c.RedisURL},
		{"DATABASE_URL", &c.DatabaseURL},
		{"TALENTFIT_LOG_LEVEL", &c.LogLevel},
		{"TALENTFIT_LOG_FILE", &c.LogFile},
	}
	for _, e := range envs {
		if v := strings.TrimSpace(os.Getenv(e.name)); v != "" {
			*e.target = v
		}
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'timeout' %q: %w", c.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'timeout' must be positive")
		}
	}

	switch c.Storage {
	case "", "file", "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for redis storage")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for postgres storage")
		}
	default:
		return fmt.Errorf("config error: unknown storage %q", c.Storage)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: unknown log level %q", c.LogLevel)
	}

	seen := make(map[string]bool, len(c.Users))
	for i, u := range c.Users {
		if err := u.Validate(); err != nil {
			return fmt.Errorf("config error: users[%d]: %w", i, err)
		}
		if seen[u.Username] {
			return fmt.Errorf("config error: duplicate user %q", u.Username)
		}
		seen[u.Username] = true
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// then from the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(dst *string, def, builtin string) {
		if *dst == "" {
			*dst = def
		}
		if *dst == "" {
			*dst = builtin
		}
	}
	fill(&result.APIBaseURL, defaults.APIBaseURL, DefaultAPIBaseURL)
	fill(&result.Timeout, defaults.Timeout, DefaultTimeout.String())
	fill(&result.Storage, defaults.Storage, DefaultStorage)
	fill(&result.StateDir, defaults.StateDir, DefaultStateDir())
	fill(&result.RedisURL, defaults.RedisURL, "")
	fill(&result.Namespace, defaults.Namespace, "")
	fill(&result.DatabaseURL, defaults.DatabaseURL, "")
	fill(&result.LogLevel, defaults.LogLevel, DefaultLogLevel)
	fill(&result.LogFile, defaults.LogFile, "")

	if len(result.Users) == 0 {
		result.Users = defaults.Users
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// TimeoutDuration parses Timeout, falling back to DefaultTimeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// DefaultStateDir returns the per-user state directory for the file backend.
func DefaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "talentfit")
	}
	return ".talentfit"
}
