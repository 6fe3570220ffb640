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
Package main is the entry point for the SakayDB dump utility (sakaydb-dump).

SakayDB Dump Utility exports SakayDB data directories for backup,
migration, and data analysis, and batch-imports trip files.

Features:
  - Raw table exports (trips, drivers, locations)
  - Denormalized trip view export (driver names and location names joined in)
  - Output formats: CSV, JSON
  - Compression support (gzip)
  - Batch import of JSON or YAML trip files

Usage:

	sakaydb-dump -d <data_dir> [options]

Options:

	-d <path>       Data directory path (required)
	-o <file>       Output file path (default: stdout; for csv, a directory)
	-f <format>     Output format: csv, json (default: json)
	-t <tables>     Comma-separated tables: trips, drivers, locations, view (default: all)
	-z              Compress output with gzip (json only)
	-import <file>  Import trips from a JSON or YAML trip file
	-v              Verbose output
	-version        Show version information
	-h              Show help

Examples:

	# Full JSON dump to stdout
	sakaydb-dump -d ./data

	# Compressed JSON dump
	sakaydb-dump -d ./data -z -o backup.json.gz

	# Raw trips table plus the joined view, as CSV files in ./out
	sakaydb-dump -d ./data -f csv -t trips,view -o ./out

	# Batch import a trip file
	sakaydb-dump -d ./data -import trips.yaml
*/
package main

import (
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sakaydb/internal/config"
	"sakaydb/internal/engine"
	"sakaydb/internal/ingest"
	"sakaydb/internal/logging"
	"sakaydb/internal/storage"
	"sakaydb/pkg/cli"
)

// Version information
const (
	Version   = "1.0.0"
	BuildDate = "2026-08-20"
)

// viewTable names the denormalized export in the -t list alongside the
// raw tables.
const viewTable = "view"

// Command-line flags
var (
	dataDir     = flag.String("d", "", "Data directory path (required)")
	outputFile  = flag.String("o", "", "Output file path (default: stdout; for csv, a directory)")
	format      = flag.String("f", "json", "Output format: csv, json")
	tables      = flag.String("t", "", "Comma-separated tables to dump (default: all)")
	compress    = flag.Bool("z", false, "Compress output with gzip (json only)")
	importFile  = flag.String("import", "", "Import trips from a JSON or YAML trip file")
	verbose     = flag.Bool("v", false, "Verbose output")
	showVersion = flag.Bool("version", false, "Show version information")
	help        = flag.Bool("h", false, "Show help")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("sakaydb-dump version %s (built %s)\n", Version, BuildDate)
		os.Exit(0)
	}

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *dataDir == "" {
		fmt.Fprintf(os.Stderr, "%s Data directory (-d) is required\n", cli.ErrorIcon())
		fmt.Fprintf(os.Stderr, "   %s sakaydb-dump -d <data_dir> [options]\n", cli.Dimmed("Usage:"))
		os.Exit(1)
	}

	if *verbose {
		logging.SetGlobalLevel(logging.DEBUG)
	} else {
		logging.SetGlobalLevel(logging.WARN)
	}

	// Handle import mode
	if *importFile != "" {
		if err := runImport(); err != nil {
			fmt.Fprintf(os.Stderr, "%s Import failed: %v\n", cli.ErrorIcon(), err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := runExport(); err != nil {
		fmt.Fprintf(os.Stderr, "%s Export failed: %v\n", cli.ErrorIcon(), err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("SakayDB Dump Utility - Trip record export and import tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sakaydb-dump -d <data_dir> [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  sakaydb-dump -d ./data                       # Full JSON dump to stdout")
	fmt.Println("  sakaydb-dump -d ./data -z -o backup.json.gz  # Compressed JSON dump")
	fmt.Println("  sakaydb-dump -d ./data -f csv -o ./out       # One CSV file per table")
	fmt.Println("  sakaydb-dump -d ./data -t view -f csv -o .   # Joined trip view only")
	fmt.Println("  sakaydb-dump -d ./data -import trips.yaml    # Batch import a trip file")
}

// openDB opens the engine against the configured data directory.
func openDB() (*engine.DB, *storage.Store, error) {
	mgr := config.Global()
	mgr.LoadFromEnv()
	cfg := mgr.Get()
	cfg.DataDir = *dataDir

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	return engine.New(store, cfg), store, nil
}

// Dumper handles export operations against one data directory.
type Dumper struct {
	db        *engine.DB
	store     *storage.Store
	tables    []string
	format    string
	writer    io.Writer
	verbose   bool
	rowCount  int
	startTime time.Time
}

// getTablesToDump returns the requested table names, defaulting to the
// raw tables plus the joined view.
func (d *Dumper) getTablesToDump() []string {
	if len(d.tables) > 0 {
		return d.tables
	}
	return []string{
		string(storage.TableTrips),
		string(storage.TableDrivers),
		string(storage.TableLocations),
		viewTable,
	}
}

// tableRows returns the header and string rows for one named table.
func (d *Dumper) tableRows(name string) ([]string, [][]string, error) {
	if name == viewTable {
		views, err := d.db.ExportData()
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]string, len(views))
		for i, v := range views {
			rows[i] = []string{
				v.DriverLastname,
				v.DriverGivenname,
				v.PickupDatetime,
				v.DropoffDatetime,
				strconv.Itoa(v.PassengerCount),
				v.PickupLocName,
				v.DropoffLocName,
				strconv.FormatFloat(v.TripDistance, 'g', -1, 64),
				strconv.FormatFloat(v.FareAmount, 'g', -1, 64),
			}
		}
		return engine.TripViewColumns, rows, nil
	}
	header, rows, err := d.store.LoadRaw(storage.Table(name))
	if err == storage.ErrTableAbsent {
		return header, nil, nil
	}
	return header, rows, err
}

// runExport performs the data directory export.
func runExport() error {
	startTime := time.Now()

	toStdout := *outputFile == "" || *outputFile == "-"
	if !toStdout {
		fmt.Fprintf(os.Stderr, "%s Exporting data directory '%s'...\n", cli.InfoIcon(), *dataDir)
	}

	if _, err := os.Stat(*dataDir); os.IsNotExist(err) {
		return fmt.Errorf("data directory not found: %s", *dataDir)
	}

	db, store, err := openDB()
	if err != nil {
		return err
	}

	dumper := &Dumper{
		db:        db,
		store:     store,
		format:    *format,
		verbose:   *verbose,
		startTime: startTime,
	}

	if *tables != "" {
		dumper.tables = strings.Split(*tables, ",")
		for i, t := range dumper.tables {
			dumper.tables[i] = strings.TrimSpace(t)
		}
	}

	var dumpErr error
	switch dumper.format {
	case "json":
		dumpErr = dumper.dumpJSON(toStdout)
	case "csv":
		dumpErr = dumper.dumpCSV()
	default:
		return fmt.Errorf("unsupported format: %s", dumper.format)
	}
	if dumpErr != nil {
		return dumpErr
	}

	if !toStdout {
		elapsed := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "%s Export completed successfully\n", cli.SuccessIcon())
		fmt.Fprintf(os.Stderr, "   %s %d rows\n", cli.Dimmed("Exported:"), dumper.rowCount)
		fmt.Fprintf(os.Stderr, "   %s %s\n", cli.Dimmed("Output:"), *outputFile)
		fmt.Fprintf(os.Stderr, "   %s %v\n", cli.Dimmed("Duration:"), elapsed.Round(time.Millisecond))
	}
	return nil
}

// dumpJSON writes all requested tables as one JSON document.
func (d *Dumper) dumpJSON(toStdout bool) error {
	var output io.Writer = os.Stdout
	if !toStdout {
		f, err := os.Create(*outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}
	if *compress {
		gz := gzip.NewWriter(output)
		defer gz.Close()
		output = gz
	}
	d.writer = output

	result := map[string]interface{}{
		"data_dir":  *dataDir,
		"generated": time.Now().Format(time.RFC3339),
	}
	tablesData := make(map[string]interface{})

	for _, name := range d.getTablesToDump() {
		header, rows, err := d.tableRows(name)
		if err != nil {
			return err
		}
		records := make([]map[string]string, len(rows))
		for i, row := range rows {
			rec := make(map[string]string, len(header))
			for j, col := range header {
				if j < len(row) {
					rec[col] = row[j]
				}
			}
			records[i] = rec
		}
		tablesData[name] = records
		d.rowCount += len(rows)
		if d.verbose {
			fmt.Fprintf(os.Stderr, "  %s Dumped %d rows from %s\n", cli.SuccessIcon(), len(rows), name)
		}
	}
	result["tables"] = tablesData

	encoder := json.NewEncoder(d.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// dumpCSV writes each requested table to its own CSV file under the
// output directory.
func (d *Dumper) dumpCSV() error {
	outputDir := *outputFile
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, name := range d.getTablesToDump() {
		header, rows, err := d.tableRows(name)
		if err != nil {
			return err
		}

		csvPath := filepath.Join(outputDir, name+".csv")
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("failed to create CSV file for %s: %w", name, err)
		}

		writer := csv.NewWriter(f)
		if err := writer.Write(header); err != nil {
			f.Close()
			return err
		}
		if err := writer.WriteAll(rows); err != nil {
			f.Close()
			return err
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			f.Close()
			return err
		}
		f.Close()

		d.rowCount += len(rows)
		if d.verbose {
			fmt.Fprintf(os.Stderr, "Exported table %s to %s\n", name, csvPath)
		}
	}
	return nil
}

// runImport batch-adds trips from a JSON or YAML trip file. Failing
// items are skipped with a warning carrying their index.
func runImport() error {
	startTime := time.Now()

	fmt.Fprintf(os.Stderr, "%s Importing from '%s' into '%s'...\n",
		cli.InfoIcon(), *importFile, *dataDir)

	db, _, err := openDB()
	if err != nil {
		return err
	}

	ins, err := ingest.ReadTripFile(*importFile)
	if err != nil {
		return err
	}

	skipped := 0
	ids := db.AddTrips(ins, engine.WarnFunc(func(index int, message string) {
		skipped++
		fmt.Fprintf(os.Stderr, "  %s trip index %d %s. Skipping...\n", cli.WarningIcon(), index, message)
	}))

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "%s Import completed successfully\n", cli.SuccessIcon())
	fmt.Fprintf(os.Stderr, "   %s %d trips added\n", cli.Dimmed("Imported:"), len(ids))
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "   %s %d trips skipped (errors)\n", cli.Dimmed("Skipped:"), skipped)
	}
	fmt.Fprintf(os.Stderr, "   %s %v\n", cli.Dimmed("Duration:"), elapsed.Round(time.Millisecond))
	return nil
}
