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
	"testing"

	"sakaydb/internal/errors"
)

// seedFares adds three trips with fares 50, 100 and 75, in that order.
func seedFares(t *testing.T, db *DB) {
	t.Helper()
	fares := []string{"50", "100", "75"}
	for i, fare := range fares {
		_, err := db.AddTrip(testTrip(func(in *TripInput) {
			in.PickupDatetime = "10:00:0" + string(rune('0'+i)) + ",05-01-2026"
			in.FareAmount = fare
		}))
		if err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}
	}
}

func TestSearchTripsExact(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedFares(t, db)

	trips, err := db.SearchTrips([]Criterion{Eq(FieldFareAmount, "75")})
	if err != nil {
		t.Fatalf("SearchTrips failed: %v", err)
	}
	if len(trips) != 1 || trips[0].FareAmount != 75 {
		t.Errorf("Expected exactly the 75-fare trip, got %v", trips)
	}
}

func TestSearchTripsInclusiveRange(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedFares(t, db)

	// Both endpoints are inclusive: 50 and 75 match, 100 does not.
	trips, err := db.SearchTrips([]Criterion{Between(FieldFareAmount, "50", "75")})
	if err != nil {
		t.Fatalf("SearchTrips failed: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("Expected 2 trips in [50,75], got %d", len(trips))
	}
	if trips[0].FareAmount != 50 || trips[1].FareAmount != 75 {
		t.Errorf("Expected results sorted by fare [50 75], got [%g %g]",
			trips[0].FareAmount, trips[1].FareAmount)
	}
}

func TestSearchTripsOpenRanges(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedFares(t, db)

	trips, err := db.SearchTrips([]Criterion{Min(FieldFareAmount, "75")})
	if err != nil {
		t.Fatalf("SearchTrips failed: %v", err)
	}
	if len(trips) != 2 {
		t.Errorf("Expected 2 trips with fare >= 75, got %d", len(trips))
	}

	trips, err = db.SearchTrips([]Criterion{Max(FieldFareAmount, "50")})
	if err != nil {
		t.Fatalf("SearchTrips failed: %v", err)
	}
	if len(trips) != 1 || trips[0].FareAmount != 50 {
		t.Errorf("Expected only the 50-fare trip, got %v", trips)
	}
}

func TestSearchTripsTimestampRange(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedFares(t, db)

	trips, err := db.SearchTrips([]Criterion{
		Between(FieldPickupDatetime, "10:00:00,05-01-2026", "10:00:01,05-01-2026"),
	})
	if err != nil {
		t.Fatalf("SearchTrips failed: %v", err)
	}
	if len(trips) != 2 {
		t.Errorf("Expected 2 trips in the timestamp window, got %d", len(trips))
	}
}

func TestSearchTripsSortFollowsCriteriaOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedFares(t, db)

	// All trips share a passenger count, so the secondary fare key
	// decides the order.
	trips, err := db.SearchTrips([]Criterion{
		Min(FieldPassengerCount, "0"),
		Min(FieldFareAmount, "0"),
	})
	if err != nil {
		t.Fatalf("SearchTrips failed: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("Expected 3 trips, got %d", len(trips))
	}
	if trips[0].FareAmount != 50 || trips[1].FareAmount != 75 || trips[2].FareAmount != 100 {
		t.Errorf("Expected fares sorted [50 75 100], got [%g %g %g]",
			trips[0].FareAmount, trips[1].FareAmount, trips[2].FareAmount)
	}
}

func TestSearchTripsStableOnTies(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedFares(t, db)

	// Every trip ties on passenger count; original row order must hold.
	trips, err := db.SearchTrips([]Criterion{Eq(FieldPassengerCount, "2")})
	if err != nil {
		t.Fatalf("SearchTrips failed: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("Expected 3 trips, got %d", len(trips))
	}
	for i, want := range []int{1, 2, 3} {
		if trips[i].TripID != want {
			t.Errorf("Expected row order [1 2 3], got trip %d at position %d", trips[i].TripID, i)
		}
	}
}

func TestSearchTripsUsageErrors(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedFares(t, db)

	cases := []struct {
		name     string
		criteria []Criterion
	}{
		{"empty criteria", nil},
		{"unknown field", []Criterion{Eq(Field(99), "1")}},
		{"uncoercible value", []Criterion{Eq(FieldFareAmount, "a lot")}},
		{"uncoercible timestamp", []Criterion{Eq(FieldPickupDatetime, "yesterday")}},
		{"exact mixed with bound", []Criterion{{
			Field: FieldFareAmount,
			Exact: strPtr("50"),
			Lo:    strPtr("10"),
		}}},
		{"no value no bound", []Criterion{{Field: FieldFareAmount}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.SearchTrips(tc.criteria)
			if !errors.IsUsage(err) {
				t.Errorf("Expected usage error, got %v", err)
			}
		})
	}
}

func TestSearchTripsAbsentLedger(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	trips, err := db.SearchTrips([]Criterion{Eq(FieldFareAmount, "50")})
	if err != nil {
		t.Fatalf("Expected empty result for absent ledger, got %v", err)
	}
	if len(trips) != 0 {
		t.Errorf("Expected no trips, got %d", len(trips))
	}

	// Malformed criteria are still rejected even with no ledger.
	_, err = db.SearchTrips(nil)
	if !errors.IsUsage(err) {
		t.Errorf("Expected usage error before ledger access, got %v", err)
	}
}

func TestParseField(t *testing.T) {
	for _, name := range []string{
		"driver_id", "pickup_datetime", "dropoff_datetime",
		"passenger_count", "trip_distance", "fare_amount",
	} {
		f, err := ParseField(name)
		if err != nil {
			t.Errorf("ParseField(%q) failed: %v", name, err)
		}
		if f.String() != name {
			t.Errorf("Field round-trip mismatch: %q -> %q", name, f.String())
		}
	}

	if _, err := ParseField("fare"); !errors.IsUsage(err) {
		t.Errorf("Expected usage error for unknown field, got %v", err)
	}
}

func strPtr(s string) *string { return &s }
