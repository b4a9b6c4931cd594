// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// # Column Codecs

// Time returns a scanner that decodes a [FormatTime] column into dest.
func Time(dest *time.Time) sql.Scanner {
	return timeColumn{dest: dest}
}

type timeColumn struct {
	dest *time.Time
}

func (column timeColumn) Scan(src any) error {
	switch value := src.(type) {
	case nil:
		*column.dest = time.Time{}
		return nil
	case time.Time:
		*column.dest = value.UTC()
		return nil
	case string:
		parsed, err := ParseTime(value)
		if err != nil {
			return err
		}
		*column.dest = parsed
		return nil
	case []byte:
		return column.Scan(string(value))
	default:
		return fmt.Errorf("sqlite: cannot scan %T into time", src)
	}
}

// JSON returns a scanner that unmarshals a JSON text column into dest.
// A NULL or empty column leaves dest untouched.
func JSON(dest any) sql.Scanner {
	return jsonColumn{dest: dest}
}

type jsonColumn struct {
	dest any
}

func (column jsonColumn) Scan(src any) error {
	var raw []byte
	switch value := src.(type) {
	case nil:
		return nil
	case string:
		raw = []byte(value)
	case []byte:
		raw = value
	default:
		return fmt.Errorf("sqlite: cannot scan %T into json", src)
	}

	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, column.dest)
}

// EncodeJSON renders value as JSON text for a list or object column.
// A nil slice is stored as an empty array.
func EncodeJSON[T any](value []T) (string, error) {
	if value == nil {
		return "[]", nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding json column: %w", err)
	}
	return string(encoded), nil
}
