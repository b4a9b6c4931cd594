// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqlite provides the embedded SQLite entity store used by single-node
// deployments and by repository tests.
//
// # Architecture
//
// The driver is modernc.org/sqlite (pure Go, no cgo). SQLite allows a single
// writer, so the pool is pinned to one connection: every statement and
// transaction is serialized, which is what the bookmark toggle and rating
// upsert rely on for atomicity.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

const (
	// MemoryPath opens a private in-memory database.
	MemoryPath = ":memory:"

	pingTimeout = 2 * time.Second

	// timeLayout is fixed-width so lexical order equals chronological order.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Open creates the SQLite handle, applies connection pragmas and validates it.
//
// # Parameters
//   - ctx: Context for the initial ping.
//   - path: Database file path, or [MemoryPath].
//   - logger: Structured logger for connection events.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Single writer. An in-memory database also lives and dies with its one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("sqlite database opened", slog.String("path", path))
	return db, nil
}

// Ping verifies that the database handle is usable.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}

// dsn builds a modernc DSN with foreign keys enforced on every connection.
func dsn(path string) string {
	pragmas := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"}
	if path == MemoryPath {
		return "file::memory:?" + strings.Join(pragmas, "&")
	}
	pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	return "file:" + path + "?" + strings.Join(pragmas, "&")
}

// # Time Encoding

// FormatTime renders t in the store's sortable UTC text format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime reads a timestamp written by [FormatTime].
func ParseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: invalid timestamp %q: %w", value, err)
	}
	return t, nil
}

// Now returns the current time in UTC, the zone every stored timestamp uses.
func Now() time.Time {
	return time.Now().UTC()
}
