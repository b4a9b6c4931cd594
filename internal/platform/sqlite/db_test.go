// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stargazer/internal/platform/sqlite"
)

/*
TestOpen_ForeignKeysEnabled verifies the DSN pragmas reach the connection.
*/
func TestOpen_ForeignKeysEnabled(t *testing.T) {
	db, err := sqlite.Open(context.Background(), sqlite.MemoryPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer db.Close()

	var enabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

/*
TestTimeEncoding checks the text format sorts chronologically and round-trips.
*/
func TestTimeEncoding(t *testing.T) {
	earlier := time.Date(2026, 3, 1, 9, 0, 0, 5, time.UTC)
	later := earlier.Add(time.Millisecond)

	assert.Less(t, sqlite.FormatTime(earlier), sqlite.FormatTime(later))

	parsed, err := sqlite.ParseTime(sqlite.FormatTime(earlier))
	require.NoError(t, err)
	assert.True(t, earlier.Equal(parsed))

	_, err = sqlite.ParseTime("yesterday")
	assert.Error(t, err)
}
