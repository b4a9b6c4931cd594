// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Catalog listings are bounded rather than paged: the caller asks for at most
// N items and gets the newest N. This package owns that bound.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items returned if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per request to prevent system abuse.
	MaxLimit = 100
)

// Meta is the list metadata included in API list responses.
type Meta struct {
	Limit int `json:"limit"`
	Count int `json:"count"`
}

// NewMeta constructs list metadata for a response.
func NewMeta(limit, count int) Meta {
	return Meta{Limit: limit, Count: count}
}

// ClampLimit normalizes a requested limit.
//
// # Clamping
//
// Zero or negative values fall back to [DefaultLimit]; anything above
// [MaxLimit] is capped at [MaxLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitFromRequest parses the "limit" query parameter and clamps it.
func LimitFromRequest(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultLimit
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultLimit
	}

	return ClampLimit(n)
}
