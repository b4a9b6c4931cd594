// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names every table and column the repositories touch.
//
// Both backends share these names; queries are assembled from them so a
// renamed column is a one-line change. Table names carry no schema prefix
// because SQLite has no schemas.
package schema

// Quote wraps an identifier that collides with an SQL keyword.
func Quote(identifier string) string {
	return `"` + identifier + `"`
}
