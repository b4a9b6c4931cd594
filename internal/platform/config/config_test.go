// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stargazer/internal/platform/config"
)

/*
TestParse_Defaults checks the sqlite profile with defaults filled in.
*/
func TestParse_Defaults(t *testing.T) {
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")
	t.Setenv("STORE_DRIVER", "SQLite")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "./data/stargazer.db", cfg.SQLitePath)
	assert.Equal(t, "*/5 * * * *", cfg.RatingRefreshSchedule)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.RedisURL)
}

/*
TestParse_Invalid covers the combinations rejected at startup.
*/
func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing_public_key", map[string]string{"STORE_DRIVER": "sqlite"}},
		{"postgres_without_url", map[string]string{"JWT_PUBLIC_KEY_PATH": "k", "STORE_DRIVER": "postgres"}},
		{"unknown_driver", map[string]string{"JWT_PUBLIC_KEY_PATH": "k", "STORE_DRIVER": "mongo"}},
		{"bad_schedule", map[string]string{"JWT_PUBLIC_KEY_PATH": "k", "STORE_DRIVER": "sqlite", "RATING_REFRESH_SCHEDULE": "every tuesday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_PUBLIC_KEY_PATH", "")
			t.Setenv("DATABASE_URL", "")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := config.Parse()
			assert.Error(t, err)
		})
	}
}

/*
TestAllowedOrigins splits and trims EXTRA_ORIGINS.
*/
func TestAllowedOrigins(t *testing.T) {
	cfg := &config.Config{ExtraOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
