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
	stderrors "errors"
	"fmt"

	"sakaydb/internal/errors"
	"sakaydb/internal/logging"
	"sakaydb/internal/storage"
)

// WarnSink receives per-item failures during batch add. Implementations
// must not fail and must not halt the caller.
type WarnSink interface {
	Warn(index int, message string)
}

// WarnFunc adapts a function to the WarnSink interface.
type WarnFunc func(index int, message string)

// Warn implements WarnSink.
func (f WarnFunc) Warn(index int, message string) {
	f(index, message)
}

// logWarnSink is the default sink: batch warnings go to the logger.
type logWarnSink struct {
	logger *logging.Logger
}

func (s *logWarnSink) Warn(index int, message string) {
	s.logger.Warn("Trip skipped", "index", index, "reason", message)
}

// AddTrip validates a trip request, resolves its driver and location
// names to ids, rejects exact duplicates, and appends the trip to the
// ledger. The dictionary tables and the ledger are persisted together as
// the final step, so a failure anywhere earlier leaves no table modified.
func (db *DB) AddTrip(in TripInput) (int, error) {
	fields, err := parseTripInput(in)
	if err != nil {
		db.stats.TripsRejected.Add(1)
		return 0, err
	}

	drivers, err := db.loadOrEmptyDrivers()
	if err != nil {
		return 0, err
	}
	locations, err := db.loadOrEmptyLocations()
	if err != nil {
		return 0, err
	}
	trips, err := db.loadOrEmptyTrips()
	if err != nil {
		return 0, err
	}

	// Resolution precedes duplicate detection: duplicates are defined
	// over resolved ids, not raw names.
	drivers, driverID := db.resolveDriver(drivers, fields.driverLast, fields.driverGiven)
	locations, pickupID := db.resolveLocation(locations, fields.pickupLoc)
	locations, dropoffID := db.resolveLocation(locations, fields.dropoffLoc)

	for _, t := range trips {
		if t.DriverID == driverID &&
			t.PickupDatetime == fields.pickup &&
			t.DropoffDatetime == fields.dropoff &&
			t.PassengerCount == fields.passengers &&
			t.PickupLocID == pickupID &&
			t.DropoffLocID == dropoffID &&
			db.isClose(t.TripDistance, fields.distance) &&
			db.isClose(t.FareAmount, fields.fare) {
			db.stats.TripsRejected.Add(1)
			return 0, errors.DuplicateTrip()
		}
	}

	// Ids come from the larger of the ledger maximum and the stored
	// high-water mark, so deleting the newest trip never frees its id.
	seq, err := db.store.LoadTripSeq()
	if err != nil {
		return 0, err
	}
	tripID := maxTripID(trips) + 1
	if seq >= tripID {
		tripID = seq + 1
	}
	trips = append(trips, storage.TripRecord{
		TripID:          tripID,
		DriverID:        driverID,
		PickupDatetime:  fields.pickup,
		DropoffDatetime: fields.dropoff,
		PassengerCount:  fields.passengers,
		PickupLocID:     pickupID,
		DropoffLocID:    dropoffID,
		TripDistance:    fields.distance,
		FareAmount:      fields.fare,
	})

	// Persist everything the operation touched, last.
	if err := db.store.SaveDrivers(drivers); err != nil {
		return 0, err
	}
	if err := db.store.SaveLocations(locations); err != nil {
		return 0, err
	}
	if err := db.store.SaveTrips(trips); err != nil {
		return 0, err
	}
	if err := db.store.SaveTripSeq(tripID); err != nil {
		return 0, err
	}

	db.stats.TripsAdded.Add(1)
	db.logger.Debug("Trip recorded",
		"trip_id", tripID, "driver_id", driverID,
		"pickup_loc_id", pickupID, "dropoff_loc_id", dropoffID)
	return tripID, nil
}

// AddTrips adds a batch of trip requests in input order. A failing item
// is reported to the warn sink with its index and skipped; the batch
// never aborts early. Returns the ids created, in creation order.
// A nil sink logs warnings through the engine's logger.
func (db *DB) AddTrips(ins []TripInput, warn WarnSink) []int {
	if warn == nil {
		warn = &logWarnSink{logger: db.logger}
	}

	batch := logging.NewBatchContext("add_trips")
	ids := make([]int, 0, len(ins))
	for i, in := range ins {
		id, err := db.AddTrip(in)
		if err != nil {
			warn.Warn(i, reasonText(err))
			continue
		}
		ids = append(ids, id)
	}
	batch.LogComplete(db.logger, len(ids), len(ins)-len(ids))
	return ids
}

// reasonText extracts the human-readable reason for a batch warning.
// Structured errors contribute their message family; anything unexpected
// collapses to the invalid-information family, matching the single-trip
// contract that unexpected failures read as malformed input.
func reasonText(err error) string {
	var se *errors.SakayError
	if stderrors.As(err, &se) {
		return se.Message
	}
	return fmt.Sprintf("%s: %v", errors.InvalidTripInput().Message, err)
}

// DeleteTrip removes exactly the trip with the given id and persists the
// ledger. Deleting from an absent or empty ledger, or deleting an id
// that is not present (including an id already deleted), is a not-found
// error. The id is never reassigned.
func (db *DB) DeleteTrip(id int) (int, error) {
	trips, err := db.store.LoadTrips()
	if err == storage.ErrTableAbsent {
		return 0, errors.LedgerMissing()
	}
	if err != nil {
		return 0, err
	}
	if len(trips) == 0 {
		return 0, errors.LedgerMissing()
	}

	idx := -1
	for i, t := range trips {
		if t.TripID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, errors.TripNotFound(id)
	}

	trips = append(trips[:idx], trips[idx+1:]...)
	if err := db.store.SaveTrips(trips); err != nil {
		return 0, err
	}

	db.stats.TripsDeleted.Add(1)
	db.logger.Debug("Trip deleted", "trip_id", id)
	return id, nil
}
