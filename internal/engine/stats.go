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
	"sakaydb/internal/errors"
	"sakaydb/internal/storage"
)

// StatKind selects which ridership statistic to compute.
type StatKind string

const (
	StatTrip      StatKind = "trip"
	StatPassenger StatKind = "passenger"
	StatDriver    StatKind = "driver"
	StatAll       StatKind = "all"
)

// Statistics carries the computed day-of-week means. Only the maps for
// the requested kind are populated; StatAll populates all three.
type Statistics struct {
	Trip      map[string]float64            `json:"trip,omitempty"`
	Passenger map[int]map[string]float64    `json:"passenger,omitempty"`
	Driver    map[string]map[string]float64 `json:"driver,omitempty"`
}

// DayNames lists the day-of-week keys in display order.
var DayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// GenerateStatistics computes mean-trips-per-day-of-week statistics:
// trips are counted per calendar pickup date, and the daily counts are
// averaged by day-of-week name. Only dates that saw at least one trip
// participate in a mean. An absent ledger (and, for the driver kind, an
// absent drivers table) yields empty maps rather than an error.
func (db *DB) GenerateStatistics(kind StatKind) (*Statistics, error) {
	out := &Statistics{}
	switch kind {
	case StatTrip:
		m, err := db.statTrip()
		if err != nil {
			return nil, err
		}
		out.Trip = m
	case StatPassenger:
		m, err := db.statPassenger()
		if err != nil {
			return nil, err
		}
		out.Passenger = m
	case StatDriver:
		m, err := db.statDriver()
		if err != nil {
			return nil, err
		}
		out.Driver = m
	case StatAll:
		trip, err := db.statTrip()
		if err != nil {
			return nil, err
		}
		passenger, err := db.statPassenger()
		if err != nil {
			return nil, err
		}
		driver, err := db.statDriver()
		if err != nil {
			return nil, err
		}
		out.Trip = trip
		out.Passenger = passenger
		out.Driver = driver
	default:
		return nil, errors.UnknownStatKind(string(kind))
	}
	db.stats.StatRuns.Add(1)
	return out, nil
}

// pickupDay extracts the calendar date and day-of-week name of a trip's
// pickup timestamp.
func pickupDay(t storage.TripRecord) (date string, dayName string, err error) {
	ts, perr := storage.ParseTimestamp(t.PickupDatetime)
	if perr != nil {
		return "", "", errors.TableCorrupt(string(storage.TableTrips), t.TripID, perr)
	}
	return ts.Format("2006-01-02"), ts.Weekday().String(), nil
}

// meanByDay averages per-date counts by day-of-week name.
func meanByDay(countsByDate map[string]int, dayOfDate map[string]string) map[string]float64 {
	sum := make(map[string]float64)
	n := make(map[string]int)
	for date, count := range countsByDate {
		day := dayOfDate[date]
		sum[day] += float64(count)
		n[day]++
	}
	mean := make(map[string]float64, len(sum))
	for day, s := range sum {
		mean[day] = s / float64(n[day])
	}
	return mean
}

func (db *DB) statTrip() (map[string]float64, error) {
	trips, err := db.store.LoadTrips()
	if err == storage.ErrTableAbsent {
		return map[string]float64{}, nil
	}
	if err != nil {
		return nil, err
	}

	countsByDate := make(map[string]int)
	dayOfDate := make(map[string]string)
	for _, t := range trips {
		date, day, err := pickupDay(t)
		if err != nil {
			return nil, err
		}
		countsByDate[date]++
		dayOfDate[date] = day
	}
	return meanByDay(countsByDate, dayOfDate), nil
}

func (db *DB) statPassenger() (map[int]map[string]float64, error) {
	trips, err := db.store.LoadTrips()
	if err == storage.ErrTableAbsent {
		return map[int]map[string]float64{}, nil
	}
	if err != nil {
		return nil, err
	}

	countsByDate := make(map[int]map[string]int)
	dayOfDate := make(map[string]string)
	for _, t := range trips {
		date, day, err := pickupDay(t)
		if err != nil {
			return nil, err
		}
		if countsByDate[t.PassengerCount] == nil {
			countsByDate[t.PassengerCount] = make(map[string]int)
		}
		countsByDate[t.PassengerCount][date]++
		dayOfDate[date] = day
	}

	out := make(map[int]map[string]float64, len(countsByDate))
	for passengers, byDate := range countsByDate {
		out[passengers] = meanByDay(byDate, dayOfDate)
	}
	return out, nil
}

func (db *DB) statDriver() (map[string]map[string]float64, error) {
	if !db.store.Exists(storage.TableTrips) || !db.store.Exists(storage.TableDrivers) {
		return map[string]map[string]float64{}, nil
	}
	trips, err := db.store.LoadTrips()
	if err != nil {
		return nil, err
	}
	drivers, err := db.store.LoadDrivers()
	if err != nil {
		return nil, err
	}

	nameByID := make(map[int]string, len(drivers))
	for _, d := range drivers {
		nameByID[d.DriverID] = d.LastName + ", " + d.GivenName
	}

	countsByDate := make(map[string]map[string]int)
	dayOfDate := make(map[string]string)
	for _, t := range trips {
		name, ok := nameByID[t.DriverID]
		if !ok {
			// Dangling driver reference; the left join drops it from
			// the grouping rather than failing the read.
			continue
		}
		date, day, err := pickupDay(t)
		if err != nil {
			return nil, err
		}
		if countsByDate[name] == nil {
			countsByDate[name] = make(map[string]int)
		}
		countsByDate[name][date]++
		dayOfDate[date] = day
	}

	out := make(map[string]map[string]float64, len(countsByDate))
	for name, byDate := range countsByDate {
		out[name] = meanByDay(byDate, dayOfDate)
	}
	return out, nil
}
