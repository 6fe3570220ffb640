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
Package main is the interactive shell for SakayDB (sakaydb-shell).

The shell operates directly on a local data directory; there is no
server. It supports command history, tab completion, and line editing
through readline, and falls back to a plain scanner when stdin is not a
terminal.

Commands:

	add <driver> <pickup> <dropoff> <passengers> <pickup_loc> <dropoff_loc> <distance> <fare>
	import <file>                    batch add from a JSON or YAML trip file
	delete <trip_id>                 remove one trip by id
	search <field>=<value> ...       exact filters; ranges as lo..hi, lo.., ..hi
	export [file]                    denormalized trip view (CSV when a file is given)
	stats <trip|passenger|driver|all>
	odmatrix [start..end]            origin-destination mean daily trips
	status                           table row counts and operation counters
	config                           effective configuration
	help, \h                         this help
	quit, \q                         exit

Usage Examples:
===============

	Start against the default data directory:
	  sakaydb-shell

	Start against an explicit directory:
	  sakaydb-shell -d ./data

	Example session:
	  sakaydb> add "Cruz, Juan" 10:30:00,05-01-2026 10:55:00,05-01-2026 2 Legazpi Cubao 5500 182.50
	  Trip 1 recorded
	  sakaydb> search fare_amount=100..200
	  sakaydb> stats trip
*/
package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"sakaydb/internal/config"
	"sakaydb/internal/engine"
	"sakaydb/internal/errors"
	"sakaydb/internal/ingest"
	"sakaydb/internal/logging"
	"sakaydb/internal/metrics"
	"sakaydb/internal/storage"
	"sakaydb/pkg/cli"
)

const shellVersion = "1.0.0"

// isTerminal returns true if stdin is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// allCompletions contains all completable commands for tab completion.
var allCompletions = []string{
	"add", "import", "delete", "search", "export", "stats", "odmatrix",
	"status", "config", "help", "quit", "exit",
	"\\q", "\\h",
	"trip", "passenger", "driver", "all",
	"driver_id=", "pickup_datetime=", "dropoff_datetime=",
	"passenger_count=", "trip_distance=", "fare_amount=",
}

// createCompleter creates a readline completer for tab completion.
func createCompleter() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(allCompletions))
	for _, cmd := range allCompletions {
		items = append(items, readline.PcItem(cmd))
	}
	return readline.NewPrefixCompleter(items...)
}

func main() {
	dataDir := flag.String("d", "", "Data directory path (default: from config)")
	configFile := flag.String("c", "", "Configuration file path")
	execute := flag.String("e", "", "Execute a single command and exit")
	format := flag.String("format", "table", "Output format: table, json, plain")
	verbose := flag.Bool("v", false, "Enable debug logging")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sakaydb-shell %s\n", shellVersion)
		return
	}
	if *noColor {
		cli.SetColorsEnabled(false)
	}

	mgr := config.Global()
	if *configFile != "" {
		if err := mgr.LoadFromFile(*configFile); err != nil {
			cli.PrintError("Failed to load config: %v", err)
			os.Exit(1)
		}
		mgr.LoadFromEnv()
	} else if err := mgr.Load(); err != nil {
		cli.PrintError("Failed to load config: %v", err)
		os.Exit(1)
	}
	cfg := mgr.Get()
	if *dataDir != "" {
		cfg.DataDir = *dataDir
		mgr.Set(cfg)
	}
	if err := cfg.Validate(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}

	logging.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel))
	if *verbose {
		logging.SetGlobalLevel(logging.DEBUG)
	}
	logging.SetJSONMode(cfg.LogJSON)

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		cli.PrintError("Failed to open data directory: %v", err)
		os.Exit(1)
	}

	sh := &shell{
		db:     engine.New(store, cfg),
		store:  store,
		cfg:    cfg,
		format: cli.ParseOutputFormat(*format),
	}

	if *execute != "" {
		if err := sh.dispatch(*execute); err != nil {
			printCommandError(err)
			os.Exit(1)
		}
		return
	}

	if !isTerminal() {
		sh.runSimpleREPL()
		return
	}
	sh.runREPL()
}

// shell holds the session state for one shell run.
type shell struct {
	db     *engine.DB
	store  *storage.Store
	cfg    *config.Config
	format cli.OutputFormat
}

// runREPL runs the readline-backed interactive loop.
func (sh *shell) runREPL() {
	fmt.Println(cli.Highlight("SakayDB shell"), cli.Dimmed("v"+shellVersion))
	fmt.Println(cli.Dimmed("Data directory: " + sh.cfg.DataDir))
	fmt.Printf("Type %s for help, %s to quit, %s for completion\n\n",
		cli.Highlight("help"), cli.Highlight("\\q"), cli.Highlight("Tab"))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cli.Info("sakaydb") + cli.Dimmed(">") + " ",
		HistoryFile:     sh.cfg.HistoryFile,
		AutoComplete:    createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		// Fall back to simple scanner if readline fails
		cli.PrintWarning("Advanced line editing unavailable: %v", err)
		sh.runSimpleREPL()
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(cli.Dimmed("(Use \\q to quit or Ctrl+D to exit)"))
				continue
			}
			if err == io.EOF {
				cli.PrintInfo("Goodbye!")
				break
			}
			cli.PrintInfo("Goodbye!")
			break
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" || input == "\\q" {
			cli.PrintInfo("Goodbye!")
			break
		}

		if err := sh.dispatch(input); err != nil {
			printCommandError(err)
		}
	}
}

// runSimpleREPL reads commands line by line without line editing, for
// piped input.
func (sh *shell) runSimpleREPL() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" || input == "\\q" {
			break
		}
		if err := sh.dispatch(input); err != nil {
			printCommandError(err)
		}
	}
}

// printCommandError renders an error with its structured detail when
// available.
func printCommandError(err error) {
	var se *errors.SakayError
	if stderrors.As(err, &se) {
		cli.PrintError("%s", se.UserMessage())
		return
	}
	cli.PrintError("%v", err)
}

// dispatch parses and executes one shell command line.
func (sh *shell) dispatch(input string) error {
	args, err := splitArgs(input)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	start := time.Now()
	defer func() { metrics.Get().RecordOp(time.Since(start)) }()

	cmd := strings.ToLower(args[0])
	rest := args[1:]

	switch cmd {
	case "add":
		return sh.cmdAdd(rest)
	case "import":
		return sh.cmdImport(rest)
	case "delete":
		return sh.cmdDelete(rest)
	case "search":
		return sh.cmdSearch(rest)
	case "export":
		return sh.cmdExport(rest)
	case "stats":
		return sh.cmdStats(rest)
	case "odmatrix":
		return sh.cmdODMatrix(rest)
	case "status":
		return sh.cmdStatus()
	case "config":
		fmt.Print(sh.cfg.String())
		return nil
	case "help", "\\h":
		sh.printHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s (try 'help')", args[0])
	}
}

// splitArgs tokenizes a command line, honoring double and single quotes.
func splitArgs(input string) ([]string, error) {
	var args []string
	var current strings.Builder
	inQuote := rune(0)
	hasToken := false

	for _, r := range input {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
			hasToken = true
		case r == ' ' || r == '\t':
			if hasToken {
				args = append(args, current.String())
				current.Reset()
				hasToken = false
			}
		default:
			current.WriteRune(r)
			hasToken = true
		}
	}
	if inQuote != 0 {
		return nil, fmt.Errorf("unterminated quote in command")
	}
	if hasToken {
		args = append(args, current.String())
	}
	return args, nil
}

func (sh *shell) printHelp() {
	fmt.Println(cli.Highlight("Commands:"))
	fmt.Println(`  add <driver> <pickup> <dropoff> <passengers> <pickup_loc> <dropoff_loc> <distance> <fare>
      Record one trip. The driver is "Last, Given"; timestamps use
      HH:MM:SS,DD-MM-YYYY. Quote arguments containing spaces.
  import <file>
      Batch add from a JSON or YAML trip file. Failing items are
      skipped with a warning carrying their index.
  delete <trip_id>
      Remove one trip by id. Ids are never reused.
  search <field>=<value> [<field>=<value> ...]
      Filter trips. Exact: fare_amount=182.5 — Inclusive range:
      fare_amount=100..200, open-ended: fare_amount=100.. or ..200.
      Fields: driver_id, pickup_datetime, dropoff_datetime,
      passenger_count, trip_distance, fare_amount.
  export [file]
      Denormalized trip view sorted by trip id; CSV when a file is given.
  stats <trip|passenger|driver|all>
      Mean trips per day of week, optionally per passenger count or driver.
  odmatrix [start..end]
      Mean daily trips per (dropoff, pickup) location pair, with an
      optional inclusive pickup window.
  status    Table row counts and operation counters.
  config    Effective configuration.
  quit      Exit the shell.`)
}

func (sh *shell) cmdAdd(args []string) error {
	if len(args) != 8 {
		return fmt.Errorf("add requires 8 arguments, got %d (see 'help')", len(args))
	}
	id, err := sh.db.AddTrip(engine.TripInput{
		Driver:          args[0],
		PickupDatetime:  args[1],
		DropoffDatetime: args[2],
		PassengerCount:  args[3],
		PickupLocName:   args[4],
		DropoffLocName:  args[5],
		TripDistance:    args[6],
		FareAmount:      args[7],
	})
	if err != nil {
		return err
	}
	cli.PrintSuccess("Trip %d recorded", id)
	return nil
}

func (sh *shell) cmdImport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import requires a file path")
	}
	ins, err := ingest.ReadTripFile(args[0])
	if err != nil {
		return err
	}

	skipped := 0
	ids := sh.db.AddTrips(ins, engine.WarnFunc(func(index int, message string) {
		skipped++
		cli.PrintWarning("trip index %d %s. Skipping...", index, message)
	}))

	cli.PrintSuccess("%d trips added, %d skipped", len(ids), skipped)
	return nil
}

func (sh *shell) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("delete requires a trip id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("trip id must be an integer: %s", args[0])
	}
	if _, err := sh.db.DeleteTrip(id); err != nil {
		return err
	}
	cli.PrintSuccess("Trip %d deleted", id)
	return nil
}

// parseCriterion parses one field=value token. Range values use "lo..hi"
// with either side omissible.
func parseCriterion(token string) (engine.Criterion, error) {
	parts := strings.SplitN(token, "=", 2)
	if len(parts) != 2 {
		return engine.Criterion{}, fmt.Errorf("criterion must be field=value: %s", token)
	}
	field, err := engine.ParseField(parts[0])
	if err != nil {
		return engine.Criterion{}, err
	}
	value := parts[1]

	if !strings.Contains(value, "..") {
		return engine.Eq(field, value), nil
	}
	bounds := strings.SplitN(value, "..", 2)
	lo, hi := bounds[0], bounds[1]
	switch {
	case lo == "" && hi == "":
		return engine.Criterion{}, fmt.Errorf("range needs at least one bound: %s", token)
	case lo == "":
		return engine.Max(field, hi), nil
	case hi == "":
		return engine.Min(field, lo), nil
	default:
		return engine.Between(field, lo, hi), nil
	}
}

func (sh *shell) cmdSearch(args []string) error {
	criteria := make([]engine.Criterion, 0, len(args))
	for _, token := range args {
		c, err := parseCriterion(token)
		if err != nil {
			return err
		}
		criteria = append(criteria, c)
	}

	trips, err := sh.db.SearchTrips(criteria)
	if err != nil {
		return err
	}
	if len(trips) == 0 {
		cli.PrintInfo("No trips matched")
		return nil
	}

	if sh.format == cli.FormatJSON {
		return printJSON(trips)
	}
	rows := make([][]string, len(trips))
	for i, t := range trips {
		rows[i] = []string{
			strconv.Itoa(t.TripID),
			strconv.Itoa(t.DriverID),
			t.PickupDatetime,
			t.DropoffDatetime,
			strconv.Itoa(t.PassengerCount),
			strconv.Itoa(t.PickupLocID),
			strconv.Itoa(t.DropoffLocID),
			strconv.FormatFloat(t.TripDistance, 'g', -1, 64),
			strconv.FormatFloat(t.FareAmount, 'g', -1, 64),
		}
	}
	fmt.Print(cli.RenderTable(storage.TripColumns, rows))
	fmt.Printf("%s\n", cli.Dimmed(fmt.Sprintf("(%d rows)", len(trips))))
	return nil
}

func (sh *shell) cmdExport(args []string) error {
	views, err := sh.db.ExportData()
	if err != nil {
		return err
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

	if len(args) == 1 {
		if err := writeCSVFile(args[0], engine.TripViewColumns, rows); err != nil {
			return err
		}
		cli.PrintSuccess("%d trips exported to %s", len(views), args[0])
		return nil
	}

	if sh.format == cli.FormatJSON {
		return printJSON(views)
	}
	fmt.Print(cli.RenderTable(engine.TripViewColumns, rows))
	fmt.Printf("%s\n", cli.Dimmed(fmt.Sprintf("(%d rows)", len(views))))
	return nil
}

func (sh *shell) cmdStats(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("stats requires a kind: trip, passenger, driver, or all")
	}
	stats, err := sh.db.GenerateStatistics(engine.StatKind(args[0]))
	if err != nil {
		return err
	}

	if sh.format == cli.FormatJSON {
		return printJSON(stats)
	}

	if stats.Trip != nil {
		fmt.Println(cli.Highlight("Mean trips per day of week"))
		printDayMeans("", stats.Trip)
	}
	if stats.Passenger != nil {
		fmt.Println(cli.Highlight("Mean trips per day of week by passenger count"))
		counts := make([]int, 0, len(stats.Passenger))
		for c := range stats.Passenger {
			counts = append(counts, c)
		}
		sort.Ints(counts)
		for _, c := range counts {
			fmt.Printf("%s\n", cli.Info(fmt.Sprintf("passengers: %d", c)))
			printDayMeans("  ", stats.Passenger[c])
		}
	}
	if stats.Driver != nil {
		fmt.Println(cli.Highlight("Mean trips per day of week by driver"))
		names := make([]string, 0, len(stats.Driver))
		for n := range stats.Driver {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Printf("%s\n", cli.Info(n))
			printDayMeans("  ", stats.Driver[n])
		}
	}
	return nil
}

// printDayMeans prints day means in Monday-first order, skipping days
// with no data.
func printDayMeans(indent string, means map[string]float64) {
	for _, day := range engine.DayNames {
		if v, ok := means[day]; ok {
			fmt.Printf("%s%-10s %.2f\n", indent, day, v)
		}
	}
}

func (sh *shell) cmdODMatrix(args []string) error {
	var dateRange *engine.DateRange
	if len(args) == 1 {
		bounds := strings.SplitN(args[0], "..", 2)
		if len(bounds) != 2 {
			return fmt.Errorf("odmatrix range must be start..end (either side may be empty)")
		}
		dateRange = &engine.DateRange{}
		if bounds[0] != "" {
			dateRange.Start = &bounds[0]
		}
		if bounds[1] != "" {
			dateRange.End = &bounds[1]
		}
	} else if len(args) > 1 {
		return fmt.Errorf("odmatrix takes at most one range argument")
	}

	matrix, err := sh.db.GenerateODMatrix(dateRange)
	if err != nil {
		return err
	}
	if len(matrix) == 0 {
		cli.PrintInfo("No trips in range")
		return nil
	}

	if sh.format == cli.FormatJSON {
		return printJSON(matrix)
	}

	dropoffs := make([]string, 0, len(matrix))
	for d := range matrix {
		dropoffs = append(dropoffs, d)
	}
	sort.Strings(dropoffs)
	pickupSet := matrix[dropoffs[0]]
	pickups := make([]string, 0, len(pickupSet))
	for p := range pickupSet {
		pickups = append(pickups, p)
	}
	sort.Strings(pickups)

	headers := append([]string{"dropoff \\ pickup"}, pickups...)
	rows := make([][]string, 0, len(dropoffs))
	for _, d := range dropoffs {
		row := make([]string, 0, len(pickups)+1)
		row = append(row, d)
		for _, p := range pickups {
			row = append(row, strconv.FormatFloat(matrix[d][p], 'g', -1, 64))
		}
		rows = append(rows, row)
	}
	fmt.Print(cli.RenderTable(headers, rows))
	return nil
}

func (sh *shell) cmdStatus() error {
	fmt.Println(cli.Highlight("Tables"))
	for _, t := range []storage.Table{storage.TableTrips, storage.TableDrivers, storage.TableLocations} {
		if !sh.store.Exists(t) {
			fmt.Printf("  %-10s %s\n", t, cli.Dimmed("absent"))
			continue
		}
		_, rows, err := sh.store.LoadRaw(t)
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s %d rows\n", t, len(rows))
	}

	snap := metrics.Get().Snapshot()
	fmt.Println(cli.Highlight("Session counters"))
	fmt.Printf("  trips added     %d\n", snap.TripsAdded)
	fmt.Printf("  trips rejected  %d\n", snap.TripsRejected)
	fmt.Printf("  trips deleted   %d\n", snap.TripsDeleted)
	fmt.Printf("  searches        %d\n", snap.Searches)
	fmt.Printf("  exports         %d\n", snap.Exports)
	fmt.Printf("  stat runs       %d\n", snap.StatRuns)
	fmt.Printf("  odmatrix runs   %d\n", snap.ODMatrixRuns)
	fmt.Printf("  avg latency     %.0f us\n", snap.AvgLatencyUs)
	return nil
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// writeCSVFile writes headers and rows as a CSV file.
func writeCSVFile(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
