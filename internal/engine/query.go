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
	"strconv"
	"strings"

	"sakaydb/internal/errors"
	"sakaydb/internal/storage"
)

// Field enumerates the searchable trip fields. Criteria are typed over
// this enumeration, so an unknown field name can only arise when parsing
// caller-supplied text and is rejected before any filtering.
type Field int

const (
	FieldDriverID Field = iota + 1
	FieldPickupDatetime
	FieldDropoffDatetime
	FieldPassengerCount
	FieldTripDistance
	FieldFareAmount
)

// String returns the wire name of the field.
func (f Field) String() string {
	switch f {
	case FieldDriverID:
		return "driver_id"
	case FieldPickupDatetime:
		return "pickup_datetime"
	case FieldDropoffDatetime:
		return "dropoff_datetime"
	case FieldPassengerCount:
		return "passenger_count"
	case FieldTripDistance:
		return "trip_distance"
	case FieldFareAmount:
		return "fare_amount"
	default:
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
}

// ParseField resolves a field name to its Field value.
func ParseField(name string) (Field, error) {
	switch strings.TrimSpace(name) {
	case "driver_id":
		return FieldDriverID, nil
	case "pickup_datetime":
		return FieldPickupDatetime, nil
	case "dropoff_datetime":
		return FieldDropoffDatetime, nil
	case "passenger_count":
		return FieldPassengerCount, nil
	case "trip_distance":
		return FieldTripDistance, nil
	case "fare_amount":
		return FieldFareAmount, nil
	default:
		return 0, errors.UnknownSearchField(name)
	}
}

// isTimeField reports whether values of the field parse as timestamps.
func (f Field) isTimeField() bool {
	return f == FieldPickupDatetime || f == FieldDropoffDatetime
}

// Criterion is one search filter: an exact value, or an inclusive range
// with either bound open. Values are raw strings coerced per field type
// when the search runs; a value that fails to coerce is a usage error.
type Criterion struct {
	Field Field
	Exact *string
	Lo    *string
	Hi    *string
}

// Eq builds an exact-match criterion.
func Eq(f Field, value string) Criterion {
	return Criterion{Field: f, Exact: &value}
}

// Between builds a closed-range criterion, inclusive on both ends.
func Between(f Field, lo, hi string) Criterion {
	return Criterion{Field: f, Lo: &lo, Hi: &hi}
}

// Min builds a lower-bounded open range.
func Min(f Field, lo string) Criterion {
	return Criterion{Field: f, Lo: &lo}
}

// Max builds an upper-bounded open range.
func Max(f Field, hi string) Criterion {
	return Criterion{Field: f, Hi: &hi}
}

// fieldKey extracts a trip's value for a field as a sortable float64.
// Timestamp fields map to Unix seconds; the stored strings were validated
// at write time, so a parse failure here means a corrupted table.
func fieldKey(t storage.TripRecord, f Field) (float64, error) {
	switch f {
	case FieldDriverID:
		return float64(t.DriverID), nil
	case FieldPassengerCount:
		return float64(t.PassengerCount), nil
	case FieldTripDistance:
		return t.TripDistance, nil
	case FieldFareAmount:
		return t.FareAmount, nil
	case FieldPickupDatetime:
		ts, err := storage.ParseTimestamp(t.PickupDatetime)
		if err != nil {
			return 0, errors.TableCorrupt(string(storage.TableTrips), t.TripID, err)
		}
		return float64(ts.Unix()), nil
	case FieldDropoffDatetime:
		ts, err := storage.ParseTimestamp(t.DropoffDatetime)
		if err != nil {
			return 0, errors.TableCorrupt(string(storage.TableTrips), t.TripID, err)
		}
		return float64(ts.Unix()), nil
	default:
		return 0, errors.UnknownSearchField(f.String())
	}
}

// coerce parses a criterion value under the field's type.
func coerce(f Field, value string) (float64, error) {
	value = strings.TrimSpace(value)
	if f.isTimeField() {
		ts, err := storage.ParseTimestamp(value)
		if err != nil {
			return 0, errors.BadCriterion(f.String(), value)
		}
		return float64(ts.Unix()), nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.BadCriterion(f.String(), value)
	}
	return v, nil
}

// compiled is a criterion with its values coerced to the comparison domain.
type compiled struct {
	field Field
	exact *float64
	lo    *float64
	hi    *float64
}

// compileCriteria validates the criteria set before any filtering:
// at least one criterion, known fields only, every value coercible, and
// each criterion either exact or ranged but not both.
func compileCriteria(criteria []Criterion) ([]compiled, error) {
	if len(criteria) == 0 {
		return nil, errors.EmptyCriteria()
	}
	out := make([]compiled, 0, len(criteria))
	for _, c := range criteria {
		switch c.Field {
		case FieldDriverID, FieldPickupDatetime, FieldDropoffDatetime,
			FieldPassengerCount, FieldTripDistance, FieldFareAmount:
		default:
			return nil, errors.UnknownSearchField(c.Field.String())
		}
		if c.Exact != nil && (c.Lo != nil || c.Hi != nil) {
			return nil, errors.BadRange("criterion mixes an exact value with range bounds")
		}
		if c.Exact == nil && c.Lo == nil && c.Hi == nil {
			return nil, errors.BadRange("criterion carries neither a value nor a bound")
		}

		cc := compiled{field: c.Field}
		if c.Exact != nil {
			v, err := coerce(c.Field, *c.Exact)
			if err != nil {
				return nil, err
			}
			cc.exact = &v
		}
		if c.Lo != nil {
			v, err := coerce(c.Field, *c.Lo)
			if err != nil {
				return nil, err
			}
			cc.lo = &v
		}
		if c.Hi != nil {
			v, err := coerce(c.Field, *c.Hi)
			if err != nil {
				return nil, err
			}
			cc.hi = &v
		}
		out = append(out, cc)
	}
	return out, nil
}

// matches evaluates one compiled criterion against a trip.
func (c compiled) matches(t storage.TripRecord) (bool, error) {
	v, err := fieldKey(t, c.field)
	if err != nil {
		return false, err
	}
	if c.exact != nil {
		return v == *c.exact, nil
	}
	if c.lo != nil && v < *c.lo {
		return false, nil
	}
	if c.hi != nil && v > *c.hi {
		return false, nil
	}
	return true, nil
}

// SearchTrips filters the ledger by the logical AND of the criteria and
// returns matching trips sorted ascending by the criteria fields in the
// order supplied, stable, ties in original row order. An absent ledger
// yields an empty result; malformed criteria are usage errors raised
// before any filtering.
func (db *DB) SearchTrips(criteria []Criterion) ([]storage.TripRecord, error) {
	compiledSet, err := compileCriteria(criteria)
	if err != nil {
		return nil, err
	}

	trips, err := db.store.LoadTrips()
	if err == storage.ErrTableAbsent {
		return []storage.TripRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	matched := make([]storage.TripRecord, 0)
	for _, t := range trips {
		keep := true
		for _, c := range compiledSet {
			ok, err := c.matches(t)
			if err != nil {
				return nil, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			matched = append(matched, t)
		}
	}

	// Precompute sort keys; per-row field extraction was already
	// validated during matching.
	type keyedTrip struct {
		rec storage.TripRecord
		key []float64
	}
	rows := make([]keyedTrip, len(matched))
	for i, t := range matched {
		key := make([]float64, len(compiledSet))
		for j, c := range compiledSet {
			v, err := fieldKey(t, c.field)
			if err != nil {
				return nil, err
			}
			key[j] = v
		}
		rows[i] = keyedTrip{rec: t, key: key}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		for j := range compiledSet {
			if rows[a].key[j] != rows[b].key[j] {
				return rows[a].key[j] < rows[b].key[j]
			}
		}
		return false
	})
	for i, r := range rows {
		matched[i] = r.rec
	}

	db.stats.Searches.Add(1)
	return matched, nil
}
