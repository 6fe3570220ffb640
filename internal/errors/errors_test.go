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

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := InvalidTripInput()
	s := err.Error()
	if !strings.Contains(s, "ERROR 1001") {
		t.Errorf("Expected code in message, got %s", s)
	}
	if !strings.Contains(s, string(CategoryValidation)) {
		t.Errorf("Expected category in message, got %s", s)
	}
}

func TestUniformInvalidInputMessage(t *testing.T) {
	// The invalid-input family never names the failing field.
	msg := InvalidTripInput().Message
	for _, field := range []string{"driver", "fare", "distance", "passenger", "datetime"} {
		if strings.Contains(strings.ToLower(msg), field) {
			t.Errorf("Invalid-input message leaks field name %q: %s", field, msg)
		}
	}
}

func TestClassificationHelpers(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		usage       bool
		notFound    bool
		duplicate   bool
		description string
	}{
		{"invalid input", InvalidTripInput(), true, false, false, "validation"},
		{"duplicate", DuplicateTrip(), true, false, true, "validation"},
		{"trip not found", TripNotFound(7), false, true, false, "not found"},
		{"ledger missing", LedgerMissing(), false, true, false, "not found"},
		{"unknown field", UnknownSearchField("fare"), true, false, false, "query"},
		{"empty criteria", EmptyCriteria(), true, false, false, "query"},
		{"bad range", BadRange("inverted"), true, false, false, "query"},
		{"unknown stat", UnknownStatKind("weekly"), true, false, false, "query"},
		{"io error", IOError("trips", errors.New("disk gone")), false, false, false, "storage"},
		{"plain error", errors.New("boring"), false, false, false, "untyped"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUsage(tc.err); got != tc.usage {
				t.Errorf("IsUsage = %v, want %v", got, tc.usage)
			}
			if got := IsNotFound(tc.err); got != tc.notFound {
				t.Errorf("IsNotFound = %v, want %v", got, tc.notFound)
			}
			if got := IsDuplicate(tc.err); got != tc.duplicate {
				t.Errorf("IsDuplicate = %v, want %v", got, tc.duplicate)
			}
		})
	}
}

func TestHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while adding: %w", DuplicateTrip())
	if !IsDuplicate(wrapped) {
		t.Error("Expected IsDuplicate to unwrap")
	}
	if !IsUsage(wrapped) {
		t.Error("Expected IsUsage to unwrap")
	}
}

func TestUserMessage(t *testing.T) {
	err := TripNotFound(42)
	msg := err.UserMessage()
	if !strings.HasPrefix(msg, "ERROR:") {
		t.Errorf("Expected ERROR prefix, got %s", msg)
	}
	if !strings.Contains(msg, "42") {
		t.Errorf("Expected trip id in message, got %s", msg)
	}
}

func TestWithDetailAndCause(t *testing.T) {
	cause := errors.New("root")
	err := TableCorrupt("trips", 3, cause)
	if !errors.Is(err, cause) {
		t.Error("Expected cause to unwrap via errors.Is")
	}
	withDetail := EmptyCriteria().WithDetail("no filters given")
	if !strings.Contains(withDetail.Error(), "no filters given") {
		t.Errorf("Expected detail in message, got %s", withDetail.Error())
	}
}
