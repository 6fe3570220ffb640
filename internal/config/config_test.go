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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DataDir == "" {
		t.Error("Expected a default data dir")
	}
	if cfg.DupRelTolerance != 1e-5 {
		t.Errorf("Expected rel tolerance 1e-5, got %g", cfg.DupRelTolerance)
	}
	if cfg.DupAbsTolerance != 1e-8 {
		t.Errorf("Expected abs tolerance 1e-8, got %g", cfg.DupAbsTolerance)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level info, got %s", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestValidateRejectsNegativeTolerance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DupRelTolerance = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for negative tolerance")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "sakaydb_config_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	content := `# SakayDB configuration
data_dir = "/srv/sakaydb"
duplicate_rel_tolerance = 1e-6
log_level = "debug"
log_json = true
unknown_key = "ignored"
`
	path := filepath.Join(tmpDir, "sakaydb.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	mgr := NewManager()
	if err := mgr.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	cfg := mgr.Get()
	if cfg.DataDir != "/srv/sakaydb" {
		t.Errorf("Expected data_dir /srv/sakaydb, got %s", cfg.DataDir)
	}
	if cfg.DupRelTolerance != 1e-6 {
		t.Errorf("Expected rel tolerance 1e-6, got %g", cfg.DupRelTolerance)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.LogLevel)
	}
	if !cfg.LogJSON {
		t.Error("Expected log_json true")
	}
	if cfg.ConfigFile != path {
		t.Errorf("Expected ConfigFile %s, got %s", path, cfg.ConfigFile)
	}
}

func TestLoadFromFileBadValue(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "sakaydb_config_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "sakaydb.toml")
	if err := os.WriteFile(path, []byte("duplicate_rel_tolerance = soon\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	mgr := NewManager()
	if err := mgr.LoadFromFile(path); err == nil {
		t.Error("Expected parse error for non-numeric tolerance")
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvDataDir, "/env/data")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogJSON, "1")

	mgr := NewManager()
	mgr.LoadFromEnv()

	cfg := mgr.Get()
	if cfg.DataDir != "/env/data" {
		t.Errorf("Expected env data dir, got %s", cfg.DataDir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("Expected env log level, got %s", cfg.LogLevel)
	}
	if !cfg.LogJSON {
		t.Error("Expected env log_json true")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "sakaydb_config_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "sakaydb.toml")
	if err := os.WriteFile(path, []byte("data_dir = \"/file/data\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv(EnvDataDir, "/env/data")

	mgr := NewManager()
	if err := mgr.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	mgr.LoadFromEnv()

	if got := mgr.Get().DataDir; got != "/env/data" {
		t.Errorf("Expected env to win over file, got %s", got)
	}
}

func TestToTOMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/srv/sakaydb"
	cfg.LogLevel = "warn"

	parsed := DefaultConfig()
	if err := parseTOML(cfg.ToTOML(), parsed); err != nil {
		t.Fatalf("parseTOML failed on generated TOML: %v", err)
	}
	if parsed.DataDir != cfg.DataDir {
		t.Errorf("Expected data dir %s, got %s", cfg.DataDir, parsed.DataDir)
	}
	if parsed.LogLevel != "warn" {
		t.Errorf("Expected log level warn, got %s", parsed.LogLevel)
	}
}

func TestStringIncludesTolerances(t *testing.T) {
	s := DefaultConfig().String()
	if !strings.Contains(s, "1e-05") && !strings.Contains(s, "1e-5") {
		t.Errorf("Expected tolerance in config string, got:\n%s", s)
	}
}
