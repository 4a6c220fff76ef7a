// Command import loads life events from a JSON file into a user's calendar.
//
// Usage:
//
//	go run ./cmd/import -user dana -json events.json -db data/lifecal.db
//
// The JSON file is an array of events:
//
//	[{"title": "Graduated", "date": "2017-06-30"}, ...]
//
// This tool:
// 1. Parses the JSON file
// 2. Opens the SQLite database and runs migrations
// 3. Checks every date against the user's date of birth
// 4. Imports all events in a single transaction
//
// One bad event aborts the whole import. Events already on the user's
// calendar with the same title and date are skipped.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/lifecal/internal/calendar"
	"github.com/zapponejosh/lifecal/internal/database"
)

// ImportEvent is one entry of the import file.
type ImportEvent struct {
	Title string        `json:"title"`
	Date  calendar.Date `json:"date"`
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Imported int
	Skipped  int
}

func main() {
	// Parse command line flags
	username := flag.String("user", "", "Username to import events for (required)")
	jsonPath := flag.String("json", "events.json", "Path to events JSON file")
	dbPath := flag.String("db", "data/lifecal.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Run import
	if err := run(*username, *jsonPath, *dbPath, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(username, jsonPath, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and parse JSON
	// =========================================================================
	logger.Info("reading JSON file", slog.String("path", jsonPath))

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("read JSON file: %w", err)
	}

	var events []ImportEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	logger.Info("parsed JSON", slog.Int("events", len(events)))

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import events in a transaction
	// =========================================================================
	user, err := db.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	logger.Info("starting import",
		slog.String("username", user.Username),
		slog.String("dob", user.DOB.String()),
	)

	var stats ImportStats
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		return importEvents(ctx, tx, user, events, logger, &stats)
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	elapsed := time.Since(startTime)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Events imported:     %d\n", stats.Imported)
	fmt.Printf("Already present:     %d\n", stats.Skipped)
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// importEvents validates every event against user's birth date and
// inserts those not already stored.
func importEvents(ctx context.Context, tx *database.Tx, user *database.User, events []ImportEvent, logger *slog.Logger, stats *ImportStats) error {
	existing, err := tx.ListEventsByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	type key struct {
		title string
		date  calendar.Date
	}
	seen := make(map[key]bool, len(existing))
	for _, e := range existing {
		seen[key{e.Title, e.Date}] = true
	}

	for i, ev := range events {
		title := strings.TrimSpace(ev.Title)
		if title == "" {
			return fmt.Errorf("event %d: title is required", i+1)
		}
		if ev.Date.IsZero() {
			return fmt.Errorf("event %d (%s): date is required", i+1, title)
		}
		if err := calendar.ValidateEventDate(user.DOB, ev.Date); err != nil {
			return fmt.Errorf("event %d (%s, %s): %w", i+1, title, ev.Date, err)
		}

		k := key{title, ev.Date}
		if seen[k] {
			stats.Skipped++
			continue
		}
		seen[k] = true

		event := &database.LifeEvent{UserID: user.ID, Title: title, Date: ev.Date}
		if err := tx.CreateEvent(ctx, event); err != nil {
			return fmt.Errorf("create event %d (%s): %w", i+1, title, err)
		}

		coord := calendar.EventCoordinate(user.DOB, ev.Date)
		logger.Debug("event imported",
			slog.String("title", title),
			slog.Int("year", coord.Year),
			slog.Int("week", coord.Week),
		)
		stats.Imported++
	}

	return nil
}
