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
	"time"

	"sakaydb/internal/errors"
	"sakaydb/internal/storage"
)

// DateRange is an optional inclusive pickup-datetime window. A nil bound
// leaves that side open; bounds use the timestamp wire format.
type DateRange struct {
	Start *string
	End   *string
}

// ODMatrix is the origin-destination view: mean daily trip count keyed
// by dropoff location name (rows) then pickup location name (columns).
// Every observed (dropoff, pickup) pair is present; pairs with no trips
// carry 0.
type ODMatrix map[string]map[string]float64

// GenerateODMatrix restricts the ledger to pickups within dateRange and
// computes, for each (dropoff, pickup) location pair, the mean daily trip
// count: total matching trips divided by the number of distinct pickup
// calendar dates for that pair. An absent trips or locations table yields
// an empty matrix; a malformed range bound is a usage error.
func (db *DB) GenerateODMatrix(dateRange *DateRange) (ODMatrix, error) {
	var start, end *time.Time
	if dateRange != nil {
		if dateRange.Start != nil {
			ts, err := storage.ParseTimestamp(*dateRange.Start)
			if err != nil {
				return nil, errors.BadRange("start bound does not parse: " + *dateRange.Start)
			}
			start = &ts
		}
		if dateRange.End != nil {
			ts, err := storage.ParseTimestamp(*dateRange.End)
			if err != nil {
				return nil, errors.BadRange("end bound does not parse: " + *dateRange.End)
			}
			end = &ts
		}
	}

	if !db.store.Exists(storage.TableTrips) || !db.store.Exists(storage.TableLocations) {
		return ODMatrix{}, nil
	}
	trips, err := db.store.LoadTrips()
	if err != nil {
		return nil, err
	}
	locations, err := db.store.LoadLocations()
	if err != nil {
		return nil, err
	}

	nameByID := make(map[int]string, len(locations))
	for _, l := range locations {
		nameByID[l.LocationID] = l.LocName
	}

	type pair struct{ dropoff, pickup string }
	tripCount := make(map[pair]int)
	dates := make(map[pair]map[string]struct{})
	pickupNames := make(map[string]struct{})
	dropoffNames := make(map[string]struct{})

	for _, t := range trips {
		ts, perr := storage.ParseTimestamp(t.PickupDatetime)
		if perr != nil {
			return nil, errors.TableCorrupt(string(storage.TableTrips), t.TripID, perr)
		}
		if start != nil && ts.Before(*start) {
			continue
		}
		if end != nil && ts.After(*end) {
			continue
		}

		pickupName, okP := nameByID[t.PickupLocID]
		dropoffName, okD := nameByID[t.DropoffLocID]
		if !okP || !okD {
			// Dangling location reference; dropped from the matrix.
			continue
		}

		p := pair{dropoff: dropoffName, pickup: pickupName}
		tripCount[p]++
		if dates[p] == nil {
			dates[p] = make(map[string]struct{})
		}
		dates[p][ts.Format("2006-01-02")] = struct{}{}
		pickupNames[pickupName] = struct{}{}
		dropoffNames[dropoffName] = struct{}{}
	}

	// Zero-fill over the cross product of observed names so that pairs
	// with no trips in range are explicit zeros, not absences.
	matrix := make(ODMatrix, len(dropoffNames))
	for dropoff := range dropoffNames {
		row := make(map[string]float64, len(pickupNames))
		for pickup := range pickupNames {
			p := pair{dropoff: dropoff, pickup: pickup}
			if n := tripCount[p]; n > 0 {
				row[pickup] = float64(n) / float64(len(dates[p]))
			} else {
				row[pickup] = 0
			}
		}
		matrix[dropoff] = row
	}

	db.stats.ODMatrixRuns.Add(1)
	return matrix, nil
}
