/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gonap/gava/pkg/fixed"
	"gopkg.in/yaml.v3"
)

// Config represents the fixrec configuration
type Config struct {
	DataDir  string   `yaml:"data_dir"`
	Port     int      `yaml:"port"`
	Bind     string   `yaml:"bind"`
	Record   Record   `yaml:"record"`
	Security Security `yaml:"security"`
	Logging  Logging  `yaml:"logging"`
}

// Record describes the fixed-width format handled by the tool
type Record struct {
	Width      int          `yaml:"width"`
	Pad        string       `yaml:"pad"`
	BufferSize int          `yaml:"buffer_size"`
	BatchSize  int          `yaml:"batch_size"`
	Fields     fixed.Layout `yaml:"fields,omitempty"`
}

// Security contains security-related configuration
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Port:    8080,
		Bind:    "127.0.0.1",
		Record: Record{
			Width:      80,
			Pad:        " ",
			BufferSize: 64 * 1024,
			BatchSize:  1000,
		},
		Security: Security{
			APIKey: "auto",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// PadByte returns the configured pad byte
func (r Record) PadByte() byte {
	if r.Pad == "" {
		return fixed.DefaultPad
	}
	return r.Pad[0]
}

// Validate checks the configuration for values the tool cannot work with
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Record.Width <= 0 {
		return fmt.Errorf("record width must be > 0, got %d", c.Record.Width)
	}
	if len(c.Record.Pad) > 1 {
		return fmt.Errorf("record pad must be a single byte, got %q", c.Record.Pad)
	}
	if c.Record.BufferSize != 0 && c.Record.BufferSize < c.Record.Width {
		return fmt.Errorf("buffer size %d is smaller than record width %d", c.Record.BufferSize, c.Record.Width)
	}
	if c.Record.BatchSize < 0 {
		return fmt.Errorf("batch size must be >= 0, got %d", c.Record.BatchSize)
	}
	if err := c.Record.Fields.Validate(c.Record.Width); err != nil {
		return fmt.Errorf("invalid record fields: %w", err)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Logging.Format)
	}
	return nil
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so a partial file only overrides what it names
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions (0600)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated API key and saves it
func BootstrapConfig(configPath string, dataDir string, width int) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}
	if width > 0 {
		config.Record.Width = width
		if config.Record.BufferSize < width {
			config.Record.BufferSize = width
		}
	}

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Security.APIKey = apiKey

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bootstrap config: %w", err)
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./fixrec.yaml"
	}

	// For Linux/macOS, use ~/.config/fixrec/config.yaml
	configDir := filepath.Join(homeDir, ".config", "fixrec")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
