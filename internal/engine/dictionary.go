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
	"sakaydb/internal/storage"
)

// The dictionary tables map free-text natural keys to stable surrogate
// integer ids. Resolution operates on in-memory working copies and never
// persists on its own; the enclosing operation saves every touched table
// as its final step so that new dictionary rows and the ledger row land
// together.

// resolveDriver resolves a (last, given) name pair against the working
// copy of the drivers table. A case-insensitive hit returns the existing
// id and leaves the record untouched; a miss appends a new record with
// id max(existing)+1 (or 1) and the names stored title-cased.
func (db *DB) resolveDriver(drivers []storage.DriverRecord, last, given string) ([]storage.DriverRecord, int) {
	for _, d := range drivers {
		if db.coll.Equal(d.LastName, last) && db.coll.Equal(d.GivenName, given) {
			return drivers, d.DriverID
		}
	}
	id := maxDriverID(drivers) + 1
	drivers = append(drivers, storage.DriverRecord{
		DriverID:  id,
		LastName:  storage.TitleCase(last),
		GivenName: storage.TitleCase(given),
	})
	return drivers, id
}

// resolveLocation resolves a location name against the working copy of
// the locations table, with the same hit/miss contract as resolveDriver.
func (db *DB) resolveLocation(locations []storage.LocationRecord, name string) ([]storage.LocationRecord, int) {
	for _, l := range locations {
		if db.coll.Equal(l.LocName, name) {
			return locations, l.LocationID
		}
	}
	id := maxLocationID(locations) + 1
	locations = append(locations, storage.LocationRecord{
		LocationID: id,
		LocName:    storage.TitleCase(name),
	})
	return locations, id
}

// maxDriverID returns the highest assigned driver id, or 0 for an empty
// table. Ids are never reused, so a gap left by a delete stays a gap.
func maxDriverID(drivers []storage.DriverRecord) int {
	max := 0
	for _, d := range drivers {
		if d.DriverID > max {
			max = d.DriverID
		}
	}
	return max
}

func maxLocationID(locations []storage.LocationRecord) int {
	max := 0
	for _, l := range locations {
		if l.LocationID > max {
			max = l.LocationID
		}
	}
	return max
}

func maxTripID(trips []storage.TripRecord) int {
	max := 0
	for _, t := range trips {
		if t.TripID > max {
			max = t.TripID
		}
	}
	return max
}
