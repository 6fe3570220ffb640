/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package config provides configuration management for SakayDB.

The configuration system supports multiple sources with clear precedence:
 1. Command-line flags (highest priority)
 2. Environment variables
 3. Configuration file
 4. Default values (lowest priority)

Configuration File Format:
The configuration file uses TOML format for readability and ease of use.

Example configuration file:

	# SakayDB Configuration
	data_dir = "/var/lib/sakaydb"
	log_level = "info"
	log_json = false
	duplicate_rel_tolerance = 1e-5
	duplicate_abs_tolerance = 1e-8

Environment Variables:
  - SAKAYDB_DATA_DIR: Directory holding the CSV tables
  - SAKAYDB_LOG_LEVEL: Log level (debug, info, warn, error)
  - SAKAYDB_LOG_JSON: Enable JSON logging (true/false)
  - SAKAYDB_CONFIG_FILE: Path to configuration file
  - SAKAYDB_HISTORY_FILE: Shell history file path
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Environment variable names for configuration.
const (
	EnvDataDir     = "SAKAYDB_DATA_DIR"
	EnvLogLevel    = "SAKAYDB_LOG_LEVEL"
	EnvLogJSON     = "SAKAYDB_LOG_JSON"
	EnvConfigFile  = "SAKAYDB_CONFIG_FILE"
	EnvHistoryFile = "SAKAYDB_HISTORY_FILE"
)

// GetDefaultDataDir returns the default directory for table storage.
// For root users, it uses /var/lib/sakaydb (Filesystem Hierarchy Standard).
// For non-root users, it uses ~/.local/share/sakaydb (XDG Base Directory).
func GetDefaultDataDir() string {
	if os.Getuid() == 0 {
		return "/var/lib/sakaydb"
	}
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "sakaydb")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share", "sakaydb")
	}
	// Last resort: current directory
	return "./data"
}

// Default configuration file paths (searched in order).
var DefaultConfigPaths = []string{
	"/etc/sakaydb/sakaydb.conf",
	"$HOME/.config/sakaydb/sakaydb.conf",
	"./sakaydb.conf",
}

// Config holds all configuration values for SakayDB.
type Config struct {
	// Storage configuration
	DataDir string `toml:"data_dir" json:"data_dir"`

	// Duplicate-trip detection tolerance for real-valued fields.
	// A candidate matches an existing value when
	// |a-b| <= abs_tol + rel_tol*|b|. The epsilon is deliberately a
	// configurable constant rather than a fixed implementation detail.
	DupRelTolerance float64 `toml:"duplicate_rel_tolerance" json:"duplicate_rel_tolerance"`
	DupAbsTolerance float64 `toml:"duplicate_abs_tolerance" json:"duplicate_abs_tolerance"`

	// Logging configuration
	LogLevel string `toml:"log_level" json:"log_level"`
	LogJSON  bool   `toml:"log_json" json:"log_json"`

	// Shell configuration
	HistoryFile string `toml:"history_file" json:"history_file"`

	// Metadata
	ConfigFile string `toml:"-" json:"-"` // Path to loaded config file
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		DataDir:         GetDefaultDataDir(),
		DupRelTolerance: 1e-5,
		DupAbsTolerance: 1e-8,
		LogLevel:        "info",
		LogJSON:         false,
		HistoryFile:     defaultHistoryFile(),
	}
}

func defaultHistoryFile() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".sakaydb_history")
	}
	return "./.sakaydb_history"
}

// Manager handles configuration loading, validation, and access.
type Manager struct {
	config *Config
	mu     sync.RWMutex
}

// NewManager creates a new configuration manager with default values.
func NewManager() *Manager {
	return &Manager{config: DefaultConfig()}
}

// Global manager instance for convenience.
var globalManager = NewManager()

// Global returns the global configuration manager.
func Global() *Manager {
	return globalManager
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Return a copy to prevent external modification
	cfg := *m.config
	return &cfg
}

// Set updates the configuration.
func (m *Manager) Set(cfg *Config) {
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.DataDir == "" {
		errs = append(errs, "data_dir cannot be empty")
	}

	if c.DupRelTolerance < 0 {
		errs = append(errs, fmt.Sprintf("invalid duplicate_rel_tolerance: %g (must be >= 0)", c.DupRelTolerance))
	}
	if c.DupAbsTolerance < 0 {
		errs = append(errs, fmt.Sprintf("invalid duplicate_abs_tolerance: %g (must be >= 0)", c.DupAbsTolerance))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		// Valid log levels
	default:
		errs = append(errs, fmt.Sprintf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// LoadFromFile loads configuration from a TOML file.
func (m *Manager) LoadFromFile(path string) error {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := parseTOML(string(data), cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ConfigFile = path
	m.Set(cfg)
	return nil
}

// LoadFromEnv loads configuration from environment variables.
// This merges with existing configuration (env vars override file values).
func (m *Manager) LoadFromEnv() {
	cfg := m.Get()

	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogJSON); v != "" {
		cfg.LogJSON = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv(EnvHistoryFile); v != "" {
		cfg.HistoryFile = v
	}

	m.Set(cfg)
}

// FindConfigFile searches for a configuration file in the default locations.
// Returns the path to the first file found, or empty string if none found.
func FindConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(EnvConfigFile); envPath != "" {
		if _, err := os.Stat(os.ExpandEnv(envPath)); err == nil {
			return os.ExpandEnv(envPath)
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		expandedPath := os.ExpandEnv(path)
		if _, err := os.Stat(expandedPath); err == nil {
			return expandedPath
		}
	}

	return ""
}

// Load loads configuration from all sources with proper precedence.
// Order: defaults -> config file -> environment variables
// Command-line flags should be applied after calling this function.
func (m *Manager) Load() error {
	configPath := FindConfigFile()
	if configPath != "" {
		if err := m.LoadFromFile(configPath); err != nil {
			return err
		}
	}

	m.LoadFromEnv()

	return nil
}

// parseTOML is a simple TOML parser for our configuration format.
// It handles the subset of TOML we need without external dependencies.
func parseTOML(data string, cfg *Config) error {
	lines := strings.Split(data, "\n")

	for lineNum, line := range lines {
		// Remove comments
		if idx := strings.Index(line, "#"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("line %d: invalid syntax: %s", lineNum+1, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes from string values
		if len(value) >= 2 && ((value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'')) {
			value = value[1 : len(value)-1]
		}

		if err := applyConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("line %d: %w", lineNum+1, err)
		}
	}

	return nil
}

// applyConfigValue applies a key-value pair to the configuration.
func applyConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "data_dir":
		cfg.DataDir = value
	case "duplicate_rel_tolerance":
		tol, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid duplicate_rel_tolerance value: %s", value)
		}
		cfg.DupRelTolerance = tol
	case "duplicate_abs_tolerance":
		tol, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid duplicate_abs_tolerance value: %s", value)
		}
		cfg.DupAbsTolerance = tol
	case "log_level":
		cfg.LogLevel = value
	case "log_json":
		cfg.LogJSON = strings.ToLower(value) == "true" || value == "1"
	case "history_file":
		cfg.HistoryFile = value
	default:
		// Ignore unknown keys for forward compatibility
	}

	return nil
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("SakayDB Configuration:\n")
	sb.WriteString(fmt.Sprintf("  Data Dir:       %s\n", c.DataDir))
	sb.WriteString(fmt.Sprintf("  Rel Tolerance:  %g\n", c.DupRelTolerance))
	sb.WriteString(fmt.Sprintf("  Abs Tolerance:  %g\n", c.DupAbsTolerance))
	sb.WriteString(fmt.Sprintf("  Log Level:      %s\n", c.LogLevel))
	sb.WriteString(fmt.Sprintf("  Log JSON:       %v\n", c.LogJSON))
	sb.WriteString(fmt.Sprintf("  History File:   %s\n", c.HistoryFile))
	if c.ConfigFile != "" {
		sb.WriteString(fmt.Sprintf("  Config File:    %s\n", c.ConfigFile))
	}
	return sb.String()
}

// ToTOML returns the configuration as a TOML string.
func (c *Config) ToTOML() string {
	var sb strings.Builder
	sb.WriteString("# SakayDB Configuration File\n")
	sb.WriteString("# Generated by SakayDB\n\n")
	sb.WriteString("# Directory holding the CSV tables\n")
	sb.WriteString(fmt.Sprintf("data_dir = \"%s\"\n\n", c.DataDir))
	sb.WriteString("# Duplicate-trip detection tolerance for distance/fare comparison\n")
	sb.WriteString(fmt.Sprintf("duplicate_rel_tolerance = %g\n", c.DupRelTolerance))
	sb.WriteString(fmt.Sprintf("duplicate_abs_tolerance = %g\n\n", c.DupAbsTolerance))
	sb.WriteString("# Logging\n")
	sb.WriteString(fmt.Sprintf("log_level = \"%s\"\n", c.LogLevel))
	sb.WriteString(fmt.Sprintf("log_json = %v\n\n", c.LogJSON))
	sb.WriteString("# Shell history\n")
	sb.WriteString(fmt.Sprintf("history_file = \"%s\"\n", c.HistoryFile))
	return sb.String()
}

// SaveToFile saves the configuration to a file.
func (c *Config) SaveToFile(path string) error {
	// Expand environment variables
	path = os.ExpandEnv(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(c.ToTOML()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
