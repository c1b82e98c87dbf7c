// Package config loads the fsend configuration file and applies
// environment overrides on top of it.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"fsend/internal/platform"
)

// Environment variables read by applyEnvOverrides. The switches only need to
// be present; their value is ignored.
const (
	EnvHost       = "FSEND_HOST"
	EnvHistory    = "FSEND_HISTORY"
	EnvTimeout    = "FSEND_TIMEOUT"
	EnvNoInteract = "FSEND_NO_INTERACT"
	EnvYes        = "FSEND_YES"
	EnvForce      = "FSEND_FORCE"
	EnvIncognito  = "FSEND_INCOGNITO"
	EnvVerbose    = "FSEND_VERBOSE"
)

const (
	DefaultHost    = "https://send.vis.ee/"
	DefaultTimeout = "30s"
)

// Config holds all fsend configuration.
type Config struct {
	// Host is the default Send server.
	Host string `yaml:"host"`

	// History is the path of the history database.
	History string `yaml:"history"`

	// Timeout bounds each API request, in time.ParseDuration form.
	Timeout string `yaml:"timeout"`

	// DownloadLimit is the default limit for the params command; 0 unset.
	DownloadLimit int `yaml:"download_limit"`

	NoInteract bool `yaml:"no_interact"`
	AssumeYes  bool `yaml:"assume_yes"`

	// Incognito disables reading and writing history.
	Incognito bool `yaml:"incognito"`

	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:    DefaultHost,
		History: DefaultHistoryPath(),
		Timeout: DefaultTimeout,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultPath returns <user config dir>/fsend/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "fsend", "config.yaml")
}

// DefaultHistoryPath returns <user cache dir>/fsend/history.db.
func DefaultHistoryPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "fsend", "history.db")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if host := os.Getenv(EnvHost); host != "" {
		c.Host = host
	}
	if path := os.Getenv(EnvHistory); path != "" {
		c.History = path
	}
	if timeout := os.Getenv(EnvTimeout); timeout != "" {
		c.Timeout = timeout
	}

	if platform.EnvVarPresent(EnvNoInteract) {
		c.NoInteract = true
	}
	if platform.EnvVarPresent(EnvYes) {
		c.AssumeYes = true
	}
	if platform.EnvVarPresent(EnvIncognito) {
		c.Incognito = true
	}
	if platform.EnvVarPresent(EnvVerbose) {
		c.Logging.Level = "debug"
	}
}

// GetTimeout returns the request timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// HostURL returns the parsed default host.
func (c *Config) HostURL() (*url.URL, error) {
	u, err := url.Parse(c.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid host %q: %w", c.Host, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid host %q: must be an http or https URL", c.Host)
	}
	return u, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := c.HostURL(); err != nil {
		return err
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
		}
	}

	if c.DownloadLimit < 0 {
		return fmt.Errorf("invalid download limit %d: must not be negative", c.DownloadLimit)
	}

	return c.Logging.Validate()
}
