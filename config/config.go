// Package config loads the bepgen application configuration from YAML.
// Every field has a default, so bepgen runs with no configuration file at
// all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level bepgen configuration.
type Config struct {
	// DataDir holds the preset store and the history database.
	DataDir string `yaml:"data_dir"`
	// OutputDir receives filled documents and generated prose.
	OutputDir string `yaml:"output_dir"`
	// Template is the default BEP template path; can be overridden per run.
	Template string `yaml:"template"`
	LogLevel string `yaml:"log_level"`

	Generator GeneratorConfig `yaml:"generator"`
	Watch     WatchConfig     `yaml:"watch"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// GeneratorConfig selects and tunes the generation collaborator.
type GeneratorConfig struct {
	Provider string        `yaml:"provider"` // engine | openai | mock
	Command  string        `yaml:"command"`
	Args     []string      `yaml:"args"`
	Timeout  time.Duration `yaml:"timeout"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
}

// WatchConfig tunes the template watch loop.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Ignore   []string      `yaml:"ignore"`
}

// HTTPConfig tunes the MCP-over-HTTP server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Generator.Provider == "" {
		c.Generator.Provider = "engine"
	}
	if c.Generator.Timeout <= 0 {
		c.Generator.Timeout = 2 * time.Minute
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = 400 * time.Millisecond
	}
	if len(c.Watch.Ignore) == 0 {
		// Word drops ~$ lock files next to any open document.
		c.Watch.Ignore = []string{"**/~$*"}
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8085"
	}
}

// HistoryPath returns the SQLite history database path under DataDir.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".bepgen"
	}
	return filepath.Join(base, "bepgen")
}
