// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/translatedtags/internal/platform/config"
)

/*
TestLoad_Defaults verifies defaults are applied when only the required variables exist.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tags")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "./data/metamodels.yaml", cfg.MetaModelsFile)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.AdminEnabled())
}

/*
TestLoad_MissingDatabaseURL ensures the required DSN is enforced.
*/
func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_Overrides checks explicit values win over defaults.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tags")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
}
