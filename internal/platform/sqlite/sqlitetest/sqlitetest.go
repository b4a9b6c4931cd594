// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqlitetest opens migrated in-memory databases for repository and
// service tests.
package sqlitetest

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/taibuivan/stargazer/internal/platform/migration"
	"github.com/taibuivan/stargazer/internal/platform/sqlite"
)

// Logger discards output; tests assert on behaviour, not log lines.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New returns a fresh in-memory database with the full schema applied.
// It is closed automatically when the test ends.
func New(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(context.Background(), sqlite.MemoryPath, Logger())
	if err != nil {
		t.Fatalf("sqlitetest: open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migration.RunSQLite(db, Logger()); err != nil {
		t.Fatalf("sqlitetest: migrate: %v", err)
	}
	return db
}

// InsertProfile writes a bare profile row so author joins resolve.
func InsertProfile(t testing.TB, db *sql.DB, userID, username string) {
	t.Helper()

	now := sqlite.FormatTime(sqlite.Now())
	_, err := db.Exec(`INSERT INTO profiles (id, username, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		userID, username, now, now)
	if err != nil {
		t.Fatalf("sqlitetest: insert profile: %v", err)
	}
}

// Count returns the number of rows in table matching the optional where clause.
func Count(t testing.TB, db *sql.DB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var count int
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		t.Fatalf("sqlitetest: count %s: %v", table, err)
	}
	return count
}

// InsertStory writes a minimal story row and returns its id.
func InsertStory(t testing.TB, db *sql.DB, storyID, userID, title string) string {
	t.Helper()

	now := sqlite.FormatTime(sqlite.Now())
	_, err := db.Exec(`INSERT INTO stories (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		storyID, userID, title, now, now)
	if err != nil {
		t.Fatalf("sqlitetest: insert story: %v", err)
	}
	return storyID
}
