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

package engine

import (
	"math"
	"testing"

	"sakaydb/internal/errors"
)

// seedWeek adds four trips: two on Monday Jan 5 2026, one on Monday
// Jan 12, and one on Tuesday Jan 6. Mean trips per Monday is therefore
// 1.5 and per Tuesday 1.
func seedWeek(t *testing.T, db *DB) {
	t.Helper()
	specs := []struct {
		pickup     string
		passengers string
		driver     string
	}{
		{"08:00:00,05-01-2026", "2", "Cruz, Juan"},
		{"09:00:00,05-01-2026", "2", "Cruz, Juan"},
		{"08:00:00,12-01-2026", "1", "Reyes, Ana"},
		{"08:00:00,06-01-2026", "2", "Cruz, Juan"},
	}
	for _, s := range specs {
		_, err := db.AddTrip(testTrip(func(in *TripInput) {
			in.PickupDatetime = s.pickup
			in.PassengerCount = s.passengers
			in.Driver = s.driver
		}))
		if err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGenerateStatisticsTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedWeek(t, db)

	stats, err := db.GenerateStatistics(StatTrip)
	if err != nil {
		t.Fatalf("GenerateStatistics failed: %v", err)
	}
	if !almostEqual(stats.Trip["Monday"], 1.5) {
		t.Errorf("Expected Monday mean 1.5, got %g", stats.Trip["Monday"])
	}
	if !almostEqual(stats.Trip["Tuesday"], 1) {
		t.Errorf("Expected Tuesday mean 1, got %g", stats.Trip["Tuesday"])
	}
	if _, ok := stats.Trip["Wednesday"]; ok {
		t.Error("Expected no entry for a day with no trips")
	}
}

func TestGenerateStatisticsPassenger(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedWeek(t, db)

	stats, err := db.GenerateStatistics(StatPassenger)
	if err != nil {
		t.Fatalf("GenerateStatistics failed: %v", err)
	}

	// Two-passenger trips: 2 on Jan 5, 1 on Jan 6.
	two := stats.Passenger[2]
	if !almostEqual(two["Monday"], 2) {
		t.Errorf("Expected 2-passenger Monday mean 2, got %g", two["Monday"])
	}
	if !almostEqual(two["Tuesday"], 1) {
		t.Errorf("Expected 2-passenger Tuesday mean 1, got %g", two["Tuesday"])
	}

	// One-passenger trips: only Jan 12, a Monday.
	one := stats.Passenger[1]
	if !almostEqual(one["Monday"], 1) {
		t.Errorf("Expected 1-passenger Monday mean 1, got %g", one["Monday"])
	}
}

func TestGenerateStatisticsDriver(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedWeek(t, db)

	stats, err := db.GenerateStatistics(StatDriver)
	if err != nil {
		t.Fatalf("GenerateStatistics failed: %v", err)
	}

	cruz := stats.Driver["Cruz, Juan"]
	if cruz == nil {
		t.Fatalf("Expected stats keyed by 'Cruz, Juan', got keys %v", keysOf(stats.Driver))
	}
	if !almostEqual(cruz["Monday"], 2) {
		t.Errorf("Expected Cruz Monday mean 2, got %g", cruz["Monday"])
	}

	reyes := stats.Driver["Reyes, Ana"]
	if reyes == nil || !almostEqual(reyes["Monday"], 1) {
		t.Errorf("Expected Reyes Monday mean 1, got %v", reyes)
	}
}

func TestGenerateStatisticsAll(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedWeek(t, db)

	stats, err := db.GenerateStatistics(StatAll)
	if err != nil {
		t.Fatalf("GenerateStatistics failed: %v", err)
	}
	if stats.Trip == nil || stats.Passenger == nil || stats.Driver == nil {
		t.Error("Expected all three maps populated for the all kind")
	}
}

func TestGenerateStatisticsUnknownKind(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.GenerateStatistics(StatKind("weekly"))
	if !errors.IsUsage(err) {
		t.Errorf("Expected usage error for unknown kind, got %v", err)
	}
}

func TestGenerateStatisticsAbsentLedger(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	stats, err := db.GenerateStatistics(StatAll)
	if err != nil {
		t.Fatalf("Expected empty statistics, got error %v", err)
	}
	if len(stats.Trip) != 0 || len(stats.Passenger) != 0 || len(stats.Driver) != 0 {
		t.Errorf("Expected empty maps for absent ledger, got %+v", stats)
	}
}

func keysOf(m map[string]map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
