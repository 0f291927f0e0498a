package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted values of Config.Backend.
var Backends = []string{BackendFile, BackendSQLite}

// LogLevels lists the accepted values of Config.LogLevel.
var LogLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	Backend  string        `yaml:"backend,omitempty"`
	LogLevel string        `yaml:"log_level,omitempty"`
	Public   *PublicConfig `yaml:"public,omitempty"`
}

// PublicConfig points the publish mirror at a public smoothies API.
type PublicConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key,omitempty"`
}

// BackendName returns the configured backend, defaulting to file.
func (c *Config) BackendName() string {
	if c.Backend == "" {
		return BackendFile
	}
	return c.Backend
}

func (c *Config) Validate() error {
	if c.Backend != "" && !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %v)", c.Backend, Backends)
	}
	if c.LogLevel != "" && !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("unknown log level %q (want one of %v)", c.LogLevel, LogLevels)
	}
	if c.Public != nil && c.Public.URL == "" {
		return errors.New("public.url is required when public is set")
	}
	return nil
}

func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func Save(dataDir string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, "config.yaml")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
