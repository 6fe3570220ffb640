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

/*
Package engine implements the SakayDB core: entity resolution over the
driver and location dictionary tables, the trip ledger with
exact-duplicate rejection, the typed query engine, the denormalizing
exporter, and the ridership aggregator.

Every operation is a complete read-modify-write cycle: it loads the
tables it needs fresh from the store, works on in-memory copies, and
persists whole tables back as its final step. Nothing is cached between
operations and there is no concurrent-writer discipline; the contract is
single-writer, sequential access.
*/
package engine

import (
	"math"
	"strconv"
	"strings"

	"sakaydb/internal/config"
	"sakaydb/internal/errors"
	"sakaydb/internal/logging"
	"sakaydb/internal/metrics"
	"sakaydb/internal/storage"
)

// DB is the handle to a SakayDB record store. All state lives in the
// store's data directory; the handle itself only carries configuration.
type DB struct {
	store  *storage.Store
	coll   storage.Collator
	relTol float64
	absTol float64
	logger *logging.Logger
	stats  *metrics.Metrics
}

// New creates a DB over the given store using cfg's duplicate-detection
// tolerances.
func New(store *storage.Store, cfg *config.Config) *DB {
	return &DB{
		store:  store,
		coll:   storage.DefaultCollator(),
		relTol: cfg.DupRelTolerance,
		absTol: cfg.DupAbsTolerance,
		logger: logging.NewLogger("engine"),
		stats:  metrics.Get(),
	}
}

// Store returns the underlying table store.
func (db *DB) Store() *storage.Store {
	return db.store
}

// TripInput carries one trip request in raw string form. Fields are
// validated and coerced at the AddTrip boundary; any field that fails to
// parse yields the single uniform invalid-input error.
type TripInput struct {
	Driver          string `json:"driver" yaml:"driver"`
	PickupDatetime  string `json:"pickup_datetime" yaml:"pickup_datetime"`
	DropoffDatetime string `json:"dropoff_datetime" yaml:"dropoff_datetime"`
	PassengerCount  string `json:"passenger_count" yaml:"passenger_count"`
	PickupLocName   string `json:"pickup_loc_name" yaml:"pickup_loc_name"`
	DropoffLocName  string `json:"dropoff_loc_name" yaml:"dropoff_loc_name"`
	TripDistance    string `json:"trip_distance" yaml:"trip_distance"`
	FareAmount      string `json:"fare_amount" yaml:"fare_amount"`
}

// tripFields is the typed form of a TripInput after boundary validation.
type tripFields struct {
	driverLast  string
	driverGiven string
	pickup      string // wire-format timestamp, trimmed
	dropoff     string
	passengers  int
	pickupLoc   string
	dropoffLoc  string
	distance    float64
	fare        float64
}

// parseTripInput validates and coerces every scalar field before any
// table lookup. The error deliberately does not say which field failed.
func parseTripInput(in TripInput) (tripFields, error) {
	var f tripFields

	last, given, ok := splitDriverName(in.Driver)
	if !ok {
		return f, errors.InvalidTripInput()
	}
	f.driverLast = last
	f.driverGiven = given

	f.pickup = strings.TrimSpace(in.PickupDatetime)
	if _, err := storage.ParseTimestamp(f.pickup); err != nil {
		return f, errors.InvalidTripInput()
	}
	f.dropoff = strings.TrimSpace(in.DropoffDatetime)
	if _, err := storage.ParseTimestamp(f.dropoff); err != nil {
		return f, errors.InvalidTripInput()
	}

	passengers, err := strconv.Atoi(strings.TrimSpace(in.PassengerCount))
	if err != nil || passengers < 0 {
		return f, errors.InvalidTripInput()
	}
	f.passengers = passengers

	f.pickupLoc = strings.TrimSpace(in.PickupLocName)
	f.dropoffLoc = strings.TrimSpace(in.DropoffLocName)
	if f.pickupLoc == "" || f.dropoffLoc == "" {
		return f, errors.InvalidTripInput()
	}

	distance, err := strconv.ParseFloat(strings.TrimSpace(in.TripDistance), 64)
	if err != nil || distance < 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return f, errors.InvalidTripInput()
	}
	f.distance = distance

	fare, err := strconv.ParseFloat(strings.TrimSpace(in.FareAmount), 64)
	if err != nil || fare < 0 || math.IsNaN(fare) || math.IsInf(fare, 0) {
		return f, errors.InvalidTripInput()
	}
	f.fare = fare

	return f, nil
}

// splitDriverName parses a "Last, Given" driver key: exactly one comma,
// both halves non-empty after trimming.
func splitDriverName(s string) (last, given string, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return "", "", false
	}
	last = strings.TrimSpace(parts[0])
	given = strings.TrimSpace(parts[1])
	if last == "" || given == "" {
		return "", "", false
	}
	return last, given, true
}

// isClose reports whether two real values match within the configured
// duplicate-detection tolerance: |a-b| <= abs_tol + rel_tol*|b|.
func (db *DB) isClose(a, b float64) bool {
	return math.Abs(a-b) <= db.absTol+db.relTol*math.Abs(b)
}

// loadOrEmptyDrivers loads the drivers table, treating an absent file as
// an empty table.
func (db *DB) loadOrEmptyDrivers() ([]storage.DriverRecord, error) {
	records, err := db.store.LoadDrivers()
	if err == storage.ErrTableAbsent {
		return nil, nil
	}
	return records, err
}

func (db *DB) loadOrEmptyLocations() ([]storage.LocationRecord, error) {
	records, err := db.store.LoadLocations()
	if err == storage.ErrTableAbsent {
		return nil, nil
	}
	return records, err
}

func (db *DB) loadOrEmptyTrips() ([]storage.TripRecord, error) {
	records, err := db.store.LoadTrips()
	if err == storage.ErrTableAbsent {
		return nil, nil
	}
	return records, err
}
