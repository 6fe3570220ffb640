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

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// withCapturedOutput routes global logging into a buffer for one test.
func withCapturedOutput(t *testing.T, level Level, jsonMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetGlobalOutput(&buf)
	SetGlobalLevel(level)
	SetJSONMode(jsonMode)
	t.Cleanup(func() {
		SetGlobalOutput(os.Stderr)
		SetGlobalLevel(INFO)
		SetJSONMode(false)
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", DEBUG},
		{"DEBUG", DEBUG},
		{"info", INFO},
		{"warn", WARN},
		{"error", ERROR},
		{"nonsense", INFO},
		{"", INFO},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := withCapturedOutput(t, WARN, false)

	logger := NewLogger("test")
	logger.Debug("too quiet")
	logger.Info("still too quiet")
	logger.Warn("audible")

	out := buf.String()
	if strings.Contains(out, "too quiet") {
		t.Errorf("Expected sub-threshold messages filtered, got: %s", out)
	}
	if !strings.Contains(out, "audible") {
		t.Errorf("Expected warn message emitted, got: %s", out)
	}
}

func TestTextOutputCarriesComponentAndFields(t *testing.T) {
	buf := withCapturedOutput(t, DEBUG, false)

	NewLogger("engine").Info("Trip recorded", "trip_id", 7)

	out := buf.String()
	if !strings.Contains(out, "engine") {
		t.Errorf("Expected component in output, got: %s", out)
	}
	if !strings.Contains(out, "trip_id") || !strings.Contains(out, "7") {
		t.Errorf("Expected field pair in output, got: %s", out)
	}
}

func TestJSONOutput(t *testing.T) {
	buf := withCapturedOutput(t, DEBUG, true)

	NewLogger("storage").Info("Table saved", "table", "trips")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected valid JSON, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "Table saved" {
		t.Errorf("Expected message field, got %v", entry)
	}
	if entry["component"] != "storage" {
		t.Errorf("Expected component field, got %v", entry)
	}
}

func TestContextLoggerMergesFields(t *testing.T) {
	buf := withCapturedOutput(t, DEBUG, false)

	NewLogger("ingest").With("batch_id", "b1").Info("Working", "index", 2)

	out := buf.String()
	if !strings.Contains(out, "batch_id") || !strings.Contains(out, "index") {
		t.Errorf("Expected merged fields, got: %s", out)
	}
}

func TestGenerateBatchIDUnique(t *testing.T) {
	a := GenerateBatchID()
	b := GenerateBatchID()
	if a == b {
		t.Errorf("Expected distinct batch ids, got %s twice", a)
	}
}

func TestBatchContextLogComplete(t *testing.T) {
	buf := withCapturedOutput(t, DEBUG, false)

	batch := NewBatchContext("add_trips")
	batch.LogComplete(NewLogger("engine"), 3, 1)

	out := buf.String()
	if !strings.Contains(out, batch.ID) {
		t.Errorf("Expected batch id in completion log, got: %s", out)
	}
}
