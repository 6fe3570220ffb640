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

package storage

import (
	"strconv"
	"time"

	"sakaydb/internal/errors"
)

// TimestampLayout is the wire format for trip timestamps, both as caller
// input and in the persisted tables: 24-hour clock, comma separator,
// day-month-year. A value written in this form must parse back to the
// same instant.
const TimestampLayout = "15:04:05,02-01-2006"

// ParseTimestamp parses a trip timestamp in the fixed wire format.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

// FormatTimestamp renders an instant in the fixed wire format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// DriverRecord is a row of the drivers table. The (last, given) name pair
// is the natural key, unique up to case; names are stored title-cased.
type DriverRecord struct {
	DriverID  int
	LastName  string
	GivenName string
}

// LocationRecord is a row of the locations table. The name is the natural
// key, unique up to case, stored title-cased.
type LocationRecord struct {
	LocationID int
	LocName    string
}

// TripRecord is a row of the trips table. Timestamps are kept in their
// string wire form so that persisted values round-trip byte for byte;
// readers re-parse them as needed.
type TripRecord struct {
	TripID          int
	DriverID        int
	PickupDatetime  string
	DropoffDatetime string
	PassengerCount  int
	PickupLocID     int
	DropoffLocID    int
	TripDistance    float64
	FareAmount      float64
}

// Column headers for each table, in persisted order.
var (
	DriverColumns   = []string{"driver_id", "last_name", "given_name"}
	LocationColumns = []string{"location_id", "loc_name"}
	TripColumns = []string{
		"trip_id", "driver_id", "pickup_datetime", "dropoff_datetime",
		"passenger_count", "pickup_loc_id", "dropoff_loc_id",
		"trip_distance", "fare_amount",
	}
)

// encodeDriver renders a driver record as a CSV row.
func encodeDriver(r DriverRecord) []string {
	return []string{strconv.Itoa(r.DriverID), r.LastName, r.GivenName}
}

// decodeDriver parses a CSV row into a driver record.
func decodeDriver(table Table, rowNum int, row []string) (DriverRecord, error) {
	if len(row) != len(DriverColumns) {
		return DriverRecord{}, errors.TableCorrupt(string(table), rowNum, nil)
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return DriverRecord{}, errors.TableCorrupt(string(table), rowNum, err)
	}
	return DriverRecord{DriverID: id, LastName: row[1], GivenName: row[2]}, nil
}

// encodeLocation renders a location record as a CSV row.
func encodeLocation(r LocationRecord) []string {
	return []string{strconv.Itoa(r.LocationID), r.LocName}
}

// decodeLocation parses a CSV row into a location record.
func decodeLocation(table Table, rowNum int, row []string) (LocationRecord, error) {
	if len(row) != len(LocationColumns) {
		return LocationRecord{}, errors.TableCorrupt(string(table), rowNum, nil)
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return LocationRecord{}, errors.TableCorrupt(string(table), rowNum, err)
	}
	return LocationRecord{LocationID: id, LocName: row[1]}, nil
}

// encodeTrip renders a trip record as a CSV row.
func encodeTrip(r TripRecord) []string {
	return []string{
		strconv.Itoa(r.TripID),
		strconv.Itoa(r.DriverID),
		r.PickupDatetime,
		r.DropoffDatetime,
		strconv.Itoa(r.PassengerCount),
		strconv.Itoa(r.PickupLocID),
		strconv.Itoa(r.DropoffLocID),
		strconv.FormatFloat(r.TripDistance, 'g', -1, 64),
		strconv.FormatFloat(r.FareAmount, 'g', -1, 64),
	}
}

// decodeTrip parses a CSV row into a trip record.
func decodeTrip(table Table, rowNum int, row []string) (TripRecord, error) {
	if len(row) != len(TripColumns) {
		return TripRecord{}, errors.TableCorrupt(string(table), rowNum, nil)
	}
	bad := func(err error) (TripRecord, error) {
		return TripRecord{}, errors.TableCorrupt(string(table), rowNum, err)
	}
	tripID, err := strconv.Atoi(row[0])
	if err != nil {
		return bad(err)
	}
	driverID, err := strconv.Atoi(row[1])
	if err != nil {
		return bad(err)
	}
	passengers, err := strconv.Atoi(row[4])
	if err != nil {
		return bad(err)
	}
	pickupLoc, err := strconv.Atoi(row[5])
	if err != nil {
		return bad(err)
	}
	dropoffLoc, err := strconv.Atoi(row[6])
	if err != nil {
		return bad(err)
	}
	distance, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return bad(err)
	}
	fare, err := strconv.ParseFloat(row[8], 64)
	if err != nil {
		return bad(err)
	}
	return TripRecord{
		TripID:          tripID,
		DriverID:        driverID,
		PickupDatetime:  row[2],
		DropoffDatetime: row[3],
		PassengerCount:  passengers,
		PickupLocID:     pickupLoc,
		DropoffLocID:    dropoffLoc,
		TripDistance:    distance,
		FareAmount:      fare,
	}, nil
}
