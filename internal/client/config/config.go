// Package config loads the terminal client configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvServerURL overrides server_url from the file.
const EnvServerURL = "NOTEKEEPER_SERVER_URL"

// Defaults.
const (
	DefaultServerURL      = "http://localhost:8000"
	DefaultRequestTimeout = 30 * time.Second
	DefaultSearchDebounce = 300 * time.Millisecond
	DefaultLogLevel       = "warn"
)

// Config is the client configuration.
type Config struct {
	ServerURL      string        `yaml:"server_url"`
	StateDir       string        `yaml:"state_dir"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SearchDebounce time.Duration `yaml:"search_debounce"`
	LogLevel       string        `yaml:"log_level"`

	// path is the file the config was loaded from.
	path string
}

// DefaultPath returns $XDG_CONFIG_HOME/notekeeper/config.yaml, falling back
// to the platform config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user config directory: %w", err)
	}
	return filepath.Join(dir, "notekeeper", "config.yaml"), nil
}

// Default returns the configuration used when no file exists at path.
func Default(path string) *Config {
	return &Config{
		ServerURL:      DefaultServerURL,
		StateDir:       filepath.Join(filepath.Dir(path), "state"),
		RequestTimeout: DefaultRequestTimeout,
		SearchDebounce: DefaultSearchDebounce,
		LogLevel:       DefaultLogLevel,
		path:           path,
	}
}

// Load reads the config at path. An empty path means DefaultPath. A missing
// file is not an error; the defaults apply. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default(path)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	if cfg.StateDir == "" {
		cfg.StateDir = Default(path).StateDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server_url %q must be an http or https URL", c.ServerURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("search_debounce must not be negative, got %s", c.SearchDebounce)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// Save writes the config to its path, creating the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(c.path, data, 0o644)
}

// LogFile is the client log written inside the state directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.StateDir, "notekeeper.log")
}

// StoreDir is the local store directory inside the state directory.
func (c *Config) StoreDir() string {
	return filepath.Join(c.StateDir, "store")
}
