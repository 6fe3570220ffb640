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
Package storage provides the flat-file table store for SakayDB.

Each logical table is one CSV file in the data directory, with a header
row and a fixed column set:

	drivers.csv    driver_id,last_name,given_name
	locations.csv  location_id,loc_name
	trips.csv      trip_id,driver_id,pickup_datetime,dropoff_datetime,
	               passenger_count,pickup_loc_id,dropoff_loc_id,
	               trip_distance,fare_amount

Every operation works on whole tables: Load reads the full file into
memory in file order, Save rewrites the file wholesale. There is no
shared in-memory cache; callers re-load before each operation. A table
whose file has never been created loads as ErrTableAbsent, which read
paths treat as an empty table and mutating paths treat as "start at id 1".
*/
package storage

import (
	"encoding/csv"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sakaydb/internal/errors"
	"sakaydb/internal/logging"
)

// Table identifies one of the three fixed tables.
type Table string

const (
	TableTrips     Table = "trips"
	TableDrivers   Table = "drivers"
	TableLocations Table = "locations"
)

// ErrTableAbsent is returned by Load when the backing file for a table
// has never been created. Callers distinguish "absent" from "empty".
var ErrTableAbsent = stderrors.New("table file absent")

// Store is the handle to a SakayDB data directory. All components receive
// an explicit *Store; there is no ambient global data path.
type Store struct {
	dataDir string
	logger  *logging.Logger
}

// Open creates a Store rooted at dataDir, creating the directory if needed.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.IOError("data_dir", err)
	}
	return &Store{
		dataDir: dataDir,
		logger:  logging.NewLogger("storage"),
	}, nil
}

// DataDir returns the directory holding the table files.
func (s *Store) DataDir() string {
	return s.dataDir
}

// path returns the CSV file path for a table.
func (s *Store) path(t Table) string {
	return filepath.Join(s.dataDir, string(t)+".csv")
}

// Exists reports whether the backing file for a table has been created.
func (s *Store) Exists(t Table) bool {
	_, err := os.Stat(s.path(t))
	return err == nil
}

// load reads all rows of a table, skipping the header. Returns
// ErrTableAbsent when the file does not exist.
func (s *Store) load(t Table) ([][]string, error) {
	f, err := os.Open(s.path(t))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTableAbsent
		}
		return nil, errors.IOError(string(t), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // column count validated per row by the decoders
	all, err := r.ReadAll()
	if err != nil {
		return nil, errors.TableCorrupt(string(t), 0, err)
	}
	if len(all) == 0 {
		// File exists but carries no header; treat as empty.
		return nil, nil
	}
	return all[1:], nil
}

// save rewrites a table wholesale: header plus rows, written to a temp
// file and renamed into place so a failed write never truncates the table.
func (s *Store) save(t Table, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(s.dataDir, string(t)+".csv.tmp*")
	if err != nil {
		return errors.IOError(string(t), err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.IOError(string(t), err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.IOError(string(t), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.IOError(string(t), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.IOError(string(t), err)
	}
	if err := os.Rename(tmpName, s.path(t)); err != nil {
		os.Remove(tmpName)
		return errors.IOError(string(t), err)
	}
	s.logger.Debug("Table saved", "table", t, "rows", len(rows))
	return nil
}

// LoadDrivers loads the drivers table in file order.
func (s *Store) LoadDrivers() ([]DriverRecord, error) {
	rows, err := s.load(TableDrivers)
	if err != nil {
		return nil, err
	}
	records := make([]DriverRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeDriver(TableDrivers, i+1, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveDrivers rewrites the drivers table.
func (s *Store) SaveDrivers(records []DriverRecord) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = encodeDriver(rec)
	}
	return s.save(TableDrivers, DriverColumns, rows)
}

// LoadLocations loads the locations table in file order.
func (s *Store) LoadLocations() ([]LocationRecord, error) {
	rows, err := s.load(TableLocations)
	if err != nil {
		return nil, err
	}
	records := make([]LocationRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeLocation(TableLocations, i+1, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveLocations rewrites the locations table.
func (s *Store) SaveLocations(records []LocationRecord) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = encodeLocation(rec)
	}
	return s.save(TableLocations, LocationColumns, rows)
}

// LoadTrips loads the trips table in file order.
func (s *Store) LoadTrips() ([]TripRecord, error) {
	rows, err := s.load(TableTrips)
	if err != nil {
		return nil, err
	}
	records := make([]TripRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeTrip(TableTrips, i+1, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveTrips rewrites the trips table.
func (s *Store) SaveTrips(records []TripRecord) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = encodeTrip(rec)
	}
	return s.save(TableTrips, TripColumns, rows)
}

// LoadRaw loads a table as raw string rows including the header, for
// tools that re-export tables verbatim. Returns ErrTableAbsent when the
// table has never been created.
func (s *Store) LoadRaw(t Table) (header []string, rows [][]string, err error) {
	switch t {
	case TableTrips:
		header = TripColumns
	case TableDrivers:
		header = DriverColumns
	case TableLocations:
		header = LocationColumns
	default:
		return nil, nil, errors.UnknownTable(string(t))
	}
	rows, err = s.load(t)
	if err != nil {
		if err == ErrTableAbsent {
			return header, nil, err
		}
		return nil, nil, err
	}
	return header, rows, nil
}

// tripSeqFile is the high-water marker for assigned trip ids. It exists
// so a deleted maximum id is never handed out again.
const tripSeqFile = "trip_seq"

// LoadTripSeq returns the highest trip id ever assigned, or 0 when the
// marker has never been written or does not parse.
func (s *Store) LoadTripSeq() (int, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, tripSeqFile))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.IOError(tripSeqFile, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// SaveTripSeq records the highest trip id assigned so far.
func (s *Store) SaveTripSeq(id int) error {
	tmp, err := os.CreateTemp(s.dataDir, tripSeqFile+".tmp*")
	if err != nil {
		return errors.IOError(tripSeqFile, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(strconv.Itoa(id) + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.IOError(tripSeqFile, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.IOError(tripSeqFile, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dataDir, tripSeqFile)); err != nil {
		os.Remove(tmpName)
		return errors.IOError(tripSeqFile, err)
	}
	return nil
}
