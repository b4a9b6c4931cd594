// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stargazer/pkg/pagination"
)

/*
TestClampLimit checks the default and cap applied to list limits.
*/
func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero_defaults", 0, 20},
		{"negative_defaults", -5, 20},
		{"within_range", 35, 35},
		{"at_cap", 100, 100},
		{"above_cap", 500, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.ClampLimit(tt.limit))
		})
	}
}

/*
TestLimitFromRequest verifies query parsing falls back on garbage input.
*/
func TestLimitFromRequest(t *testing.T) {
	assert.Equal(t, 20, pagination.LimitFromRequest(httptest.NewRequest("GET", "/stories", nil)))
	assert.Equal(t, 20, pagination.LimitFromRequest(httptest.NewRequest("GET", "/stories?limit=abc", nil)))
	assert.Equal(t, 7, pagination.LimitFromRequest(httptest.NewRequest("GET", "/stories?limit=7", nil)))
	assert.Equal(t, 100, pagination.LimitFromRequest(httptest.NewRequest("GET", "/stories?limit=1000", nil)))
}
