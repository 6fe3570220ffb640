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
Package ingest decodes batch trip-spec files for bulk import.

A trip file is a JSON or YAML list of objects with the keys driver,
pickup_datetime, dropoff_datetime, passenger_count, pickup_loc_name,
dropoff_loc_name, trip_distance, fare_amount. Values are carried to the
engine as raw strings; a field of the wrong shape in one item becomes a
per-item warning during batch add rather than failing the file.
*/
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sakaydb/internal/engine"
)

// ReadTripFile loads a batch of trip specs from a .json, .yaml, or .yml
// file. The format is picked by extension; anything else defaults to JSON.
func ReadTripFile(path string) ([]engine.TripInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trip file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

// decodeJSON decodes a JSON list of trip specs. Numeric literals are kept
// verbatim via json.Number so values round-trip into the engine's string
// fields without floating-point reformatting.
func decodeJSON(data []byte) ([]engine.TripInput, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse trip file as JSON: %w", err)
	}
	return fromMaps(items), nil
}

// decodeYAML decodes a YAML list of trip specs.
func decodeYAML(data []byte) ([]engine.TripInput, error) {
	var items []map[string]any
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse trip file as YAML: %w", err)
	}
	return fromMaps(items), nil
}

// fromMaps converts decoded items to engine inputs. Missing keys become
// empty strings, which the engine's boundary validation rejects per item.
func fromMaps(items []map[string]any) []engine.TripInput {
	ins := make([]engine.TripInput, len(items))
	for i, item := range items {
		ins[i] = engine.TripInput{
			Driver:          fieldString(item, "driver"),
			PickupDatetime:  fieldString(item, "pickup_datetime"),
			DropoffDatetime: fieldString(item, "dropoff_datetime"),
			PassengerCount:  fieldString(item, "passenger_count"),
			PickupLocName:   fieldString(item, "pickup_loc_name"),
			DropoffLocName:  fieldString(item, "dropoff_loc_name"),
			TripDistance:    fieldString(item, "trip_distance"),
			FareAmount:      fieldString(item, "fare_amount"),
		}
	}
	return ins
}

// fieldString renders one decoded value as the engine's raw string form.
func fieldString(item map[string]any, key string) string {
	v, ok := item[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
