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

package main

import (
	"reflect"
	"testing"

	"sakaydb/internal/engine"
)

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`add x y`, []string{"add", "x", "y"}},
		{`add "Cruz, Juan" Cubao`, []string{"add", "Cruz, Juan", "Cubao"}},
		{`add 'Legazpi Village'`, []string{"add", "Legazpi Village"}},
		{`search fare_amount=100..200`, []string{"search", "fare_amount=100..200"}},
		{`  spaced   out  `, []string{"spaced", "out"}},
		{`empty ""`, []string{"empty", ""}},
		{``, nil},
	}
	for _, tc := range cases {
		got, err := splitArgs(tc.in)
		if err != nil {
			t.Errorf("splitArgs(%q) failed: %v", tc.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitArgs(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestSplitArgsUnterminatedQuote(t *testing.T) {
	if _, err := splitArgs(`add "Cruz, Juan`); err == nil {
		t.Error("Expected error for unterminated quote")
	}
}

func TestParseCriterion(t *testing.T) {
	c, err := parseCriterion("fare_amount=182.5")
	if err != nil {
		t.Fatalf("parseCriterion failed: %v", err)
	}
	if c.Field != engine.FieldFareAmount || c.Exact == nil || *c.Exact != "182.5" {
		t.Errorf("Expected exact fare criterion, got %+v", c)
	}

	c, err = parseCriterion("trip_distance=100..200")
	if err != nil {
		t.Fatalf("parseCriterion failed: %v", err)
	}
	if c.Exact != nil || c.Lo == nil || c.Hi == nil || *c.Lo != "100" || *c.Hi != "200" {
		t.Errorf("Expected closed range, got %+v", c)
	}

	c, err = parseCriterion("passenger_count=2..")
	if err != nil {
		t.Fatalf("parseCriterion failed: %v", err)
	}
	if c.Lo == nil || c.Hi != nil || *c.Lo != "2" {
		t.Errorf("Expected lower-bounded range, got %+v", c)
	}

	c, err = parseCriterion("fare_amount=..50")
	if err != nil {
		t.Fatalf("parseCriterion failed: %v", err)
	}
	if c.Hi == nil || c.Lo != nil || *c.Hi != "50" {
		t.Errorf("Expected upper-bounded range, got %+v", c)
	}

	// Timestamps pass through the range syntax untouched.
	c, err = parseCriterion("pickup_datetime=10:00:00,05-01-2026")
	if err != nil {
		t.Fatalf("parseCriterion failed: %v", err)
	}
	if c.Exact == nil || *c.Exact != "10:00:00,05-01-2026" {
		t.Errorf("Expected exact timestamp criterion, got %+v", c)
	}
}

func TestParseCriterionErrors(t *testing.T) {
	for _, in := range []string{
		"fare_amount",
		"fare=50",
		"fare_amount=..",
	} {
		if _, err := parseCriterion(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}
