package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zapponejosh/lifecal/internal/calendar"
	"github.com/zapponejosh/lifecal/internal/database"
	"github.com/zapponejosh/lifecal/internal/logger"
)

func setup(t *testing.T) (*database.DB, *database.User) {
	t.Helper()

	db, err := database.Open(database.DefaultConfig(":memory:"), logger.Quiet())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	user := &database.User{
		Username:     "dana",
		DOB:          calendar.MustDate(1995, time.December, 1),
		PasswordHash: "not-a-real-hash",
	}
	if err := db.CreateUser(ctx, user); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return db, user
}

func TestImportEvents(t *testing.T) {
	db, user := setup(t)
	ctx := context.Background()

	events := []ImportEvent{
		{Title: "Started school", Date: calendar.MustDate(2000, time.September, 4)},
		{Title: "Graduated", Date: calendar.MustDate(2005, time.May, 31)},
		{Title: "Graduated", Date: calendar.MustDate(2005, time.May, 31)},
	}

	var stats ImportStats
	err := db.WithTx(ctx, func(tx *database.Tx) error {
		return importEvents(ctx, tx, user, events, logger.Quiet(), &stats)
	})
	if err != nil {
		t.Fatalf("importEvents() error = %v", err)
	}
	if stats.Imported != 2 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 2 imported, 1 skipped", stats)
	}

	// A second run adds nothing.
	stats = ImportStats{}
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		return importEvents(ctx, tx, user, events, logger.Quiet(), &stats)
	})
	if err != nil {
		t.Fatalf("second importEvents() error = %v", err)
	}
	if stats.Imported != 0 || stats.Skipped != 3 {
		t.Errorf("second stats = %+v, want 0 imported, 3 skipped", stats)
	}
}

func TestImportEvents_OutOfRangeRollsBack(t *testing.T) {
	db, user := setup(t)
	ctx := context.Background()

	events := []ImportEvent{
		{Title: "Graduated", Date: calendar.MustDate(2005, time.May, 31)},
		{Title: "Before birth", Date: calendar.MustDate(1990, time.January, 1)},
	}

	var stats ImportStats
	err := db.WithTx(ctx, func(tx *database.Tx) error {
		return importEvents(ctx, tx, user, events, logger.Quiet(), &stats)
	})
	if !errors.Is(err, calendar.ErrEventOutOfRange) {
		t.Fatalf("importEvents() error = %v, want ErrEventOutOfRange", err)
	}

	stored, err := db.ListEventsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListEventsByUser() error = %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("stored events = %d, want 0 after rollback", len(stored))
	}
}
