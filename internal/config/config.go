// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"infra-review/internal/errors"
	"infra-review/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Analysis contains analyzer configuration
	Analysis AnalysisConfig `json:"analysis"`

	// Skills contains skill tracking configuration
	Skills SkillsConfig `json:"skills"`

	// API contains HTTP API configuration
	API APIConfig `json:"api"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// AnalysisConfig contains analyzer-related settings
type AnalysisConfig struct {
	// FailOn is the severity that makes the CLI exit non-zero (critical, warning, never)
	FailOn string `json:"fail_on"`

	// MaxFileSizeKB skips files larger than this when walking a directory
	MaxFileSizeKB int `json:"max_file_size_kb"`
}

// SkillsConfig contains skill tracking settings
type SkillsConfig struct {
	// ProfilePath is where the skill profile is persisted
	ProfilePath string `json:"profile_path"`
}

// APIConfig contains HTTP API settings
type APIConfig struct {
	// Listen is the address the API server binds to
	Listen string `json:"listen"`

	// RequestTimeoutSeconds bounds a single request
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (text, json)
	DefaultFormat string `json:"default_format"`

	// Pretty indents JSON output
	Pretty bool `json:"pretty"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	profilePath := filepath.Join(homeDir, ".infra-review", "profile.json")

	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			FailOn:        "critical",
			MaxFileSizeKB: 512,
		},
		Skills: SkillsConfig{
			ProfilePath: profilePath,
		},
		API: APIConfig{
			Listen:                ":8080",
			RequestTimeoutSeconds: 30,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			Pretty:        true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.TypeConfig, "failed to read config file", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to parse config file", err)
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to marshal config", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var (
	mu           sync.RWMutex
	globalConfig = Default()
)

// Get returns the global configuration
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = config
}
