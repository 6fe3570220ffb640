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

	"sakaydb/internal/storage"
)

func TestExportDataJoinsNames(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := db.AddTrip(testTrip(nil)); err != nil {
		t.Fatalf("AddTrip failed: %v", err)
	}

	views, err := db.ExportData()
	if err != nil {
		t.Fatalf("ExportData failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("Expected 1 view row, got %d", len(views))
	}

	v := views[0]
	if v.DriverLastname != "Cruz" || v.DriverGivenname != "Juan" {
		t.Errorf("Expected joined driver 'Cruz'/'Juan', got '%s'/'%s'",
			v.DriverLastname, v.DriverGivenname)
	}
	if v.PickupLocName != "Legazpi Village" || v.DropoffLocName != "Cubao" {
		t.Errorf("Expected joined locations, got '%s'/'%s'",
			v.PickupLocName, v.DropoffLocName)
	}
	if v.PickupDatetime != "10:30:00,05-01-2026" {
		t.Errorf("Expected pickup timestamp preserved, got %s", v.PickupDatetime)
	}
	if v.TripDistance != 5500 || v.FareAmount != 182.5 {
		t.Errorf("Expected distance 5500 and fare 182.5, got %g and %g",
			v.TripDistance, v.FareAmount)
	}
}

func TestExportDataSortedByTripID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, ts := range []string{
		"10:00:00,05-01-2026",
		"11:00:00,05-01-2026",
		"12:00:00,05-01-2026",
	} {
		pickup := ts
		if _, err := db.AddTrip(testTrip(func(in *TripInput) {
			in.PickupDatetime = pickup
		})); err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}
	}

	views, err := db.ExportData()
	if err != nil {
		t.Fatalf("ExportData failed: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("Expected 3 view rows, got %d", len(views))
	}
	for i, want := range []string{"10:00:00,05-01-2026", "11:00:00,05-01-2026", "12:00:00,05-01-2026"} {
		if views[i].PickupDatetime != want {
			t.Errorf("Expected row %d pickup %s, got %s", i, want, views[i].PickupDatetime)
		}
	}
}

func TestExportDataAbsentTable(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	views, err := db.ExportData()
	if err != nil {
		t.Fatalf("Expected empty export, got error %v", err)
	}
	if len(views) != 0 {
		t.Errorf("Expected no rows, got %d", len(views))
	}
}

func TestExportDataDanglingReference(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := db.AddTrip(testTrip(nil)); err != nil {
		t.Fatalf("AddTrip failed: %v", err)
	}

	// Empty the drivers table so the trip's driver_id no longer resolves.
	if err := db.Store().SaveDrivers([]storage.DriverRecord{}); err != nil {
		t.Fatalf("SaveDrivers failed: %v", err)
	}

	views, err := db.ExportData()
	if err != nil {
		t.Fatalf("ExportData failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("Expected 1 view row, got %d", len(views))
	}
	if views[0].DriverLastname != "" || views[0].DriverGivenname != "" {
		t.Errorf("Expected empty driver names for dangling reference, got '%s'/'%s'",
			views[0].DriverLastname, views[0].DriverGivenname)
	}
}
