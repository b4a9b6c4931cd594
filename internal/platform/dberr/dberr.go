// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Both store backends funnel their errors through [Wrap], so services see the
// same [apperr.AppError] codes whether PostgreSQL or SQLite is underneath.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/taibuivan/stargazer/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
//
// # Classification
//
//   - No rows: NOT_FOUND for resource.
//   - Unique violation: CONFLICT.
//   - Foreign key violation: NOT_FOUND for resource (the parent row is gone).
//   - Anything else: STORE_FAILURE, keeping the driver error as the cause.
//
// action names the failing operation and only ends up in the server-side cause.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	// Errors that were already classified pass through untouched.
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint violations
	switch {
	case IsUniqueViolation(err):
		conflict := apperr.Conflict(resource + " already exists")
		conflict.Cause = err
		return conflict
	case IsForeignKeyViolation(err):
		missing := apperr.NotFound(resource)
		missing.Cause = err
		return missing
	}

	// 3. Everything else is a store failure
	return apperr.StoreFailure(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a unique or primary-key constraint failure.
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == pgerrcode.UniqueViolation
	}

	code, ok := sqliteCode(err)
	return ok && (code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
}

// IsForeignKeyViolation reports whether err is a foreign-key constraint failure.
func IsForeignKeyViolation(err error) bool {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == pgerrcode.ForeignKeyViolation
	}

	code, ok := sqliteCode(err)
	return ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// sqliteCode extracts the extended result code from a modernc sqlite error.
func sqliteCode(err error) (int, bool) {
	var sqliteError *sqlite.Error
	if errors.As(err, &sqliteError) {
		return sqliteError.Code(), true
	}
	return 0, false
}
