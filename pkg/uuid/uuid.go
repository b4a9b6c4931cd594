// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid generates the time-ordered identifiers used as primary keys.
//
// Version 7 values sort by creation time, which keeps B-tree inserts local
// and gives SQLite text keys the same order as their creation.
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
// It panics only when the system entropy source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUID: " + err.Error())
	}
	return id.String()
}
