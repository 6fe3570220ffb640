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
	"sort"

	"sakaydb/internal/storage"
)

// TripView is one row of the denormalized export: the ledger's own
// fields with driver and location names joined in place of ids.
type TripView struct {
	DriverLastname  string  `json:"driver_lastname"`
	DriverGivenname string  `json:"driver_givenname"`
	PickupDatetime  string  `json:"pickup_datetime"`
	DropoffDatetime string  `json:"dropoff_datetime"`
	PassengerCount  int     `json:"passenger_count"`
	PickupLocName   string  `json:"pickup_loc_name"`
	DropoffLocName  string  `json:"dropoff_loc_name"`
	TripDistance    float64 `json:"trip_distance"`
	FareAmount      float64 `json:"fare_amount"`
}

// TripViewColumns is the fixed column set of the export, in order.
var TripViewColumns = []string{
	"driver_lastname", "driver_givenname", "pickup_datetime",
	"dropoff_datetime", "passenger_count", "pickup_loc_name",
	"dropoff_loc_name", "trip_distance", "fare_amount",
}

// ExportData denormalizes the ledger: a left join to the drivers table on
// driver_id and two independent left joins to the locations table for
// pickup and dropoff, sorted by trip_id ascending. A reference that does
// not resolve surfaces as an empty name, not an error; if any of the
// three tables is absent the result is empty.
func (db *DB) ExportData() ([]TripView, error) {
	if !db.store.Exists(storage.TableTrips) ||
		!db.store.Exists(storage.TableDrivers) ||
		!db.store.Exists(storage.TableLocations) {
		return []TripView{}, nil
	}

	trips, err := db.store.LoadTrips()
	if err != nil {
		return nil, err
	}
	drivers, err := db.store.LoadDrivers()
	if err != nil {
		return nil, err
	}
	locations, err := db.store.LoadLocations()
	if err != nil {
		return nil, err
	}

	driverByID := make(map[int]storage.DriverRecord, len(drivers))
	for _, d := range drivers {
		driverByID[d.DriverID] = d
	}
	locByID := make(map[int]storage.LocationRecord, len(locations))
	for _, l := range locations {
		locByID[l.LocationID] = l
	}

	sorted := make([]storage.TripRecord, len(trips))
	copy(sorted, trips)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].TripID < sorted[b].TripID
	})

	views := make([]TripView, 0, len(sorted))
	for _, t := range sorted {
		v := TripView{
			PickupDatetime:  t.PickupDatetime,
			DropoffDatetime: t.DropoffDatetime,
			PassengerCount:  t.PassengerCount,
			TripDistance:    t.TripDistance,
			FareAmount:      t.FareAmount,
		}
		if d, ok := driverByID[t.DriverID]; ok {
			v.DriverLastname = d.LastName
			v.DriverGivenname = d.GivenName
		}
		if l, ok := locByID[t.PickupLocID]; ok {
			v.PickupLocName = l.LocName
		}
		if l, ok := locByID[t.DropoffLocID]; ok {
			v.DropoffLocName = l.LocName
		}
		views = append(views, v)
	}

	db.stats.Exports.Add(1)
	return views, nil
}
