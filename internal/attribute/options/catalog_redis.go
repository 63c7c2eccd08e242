// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package options

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/translatedtags/internal/platform/constants"
)

// CacheStore is the subset of [redis.Cmdable] used by [CachedCatalog].
type CacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

/*
CachedCatalog serves catalog reads from Redis and falls through to the
wrapped [Catalog] on a miss.

A failing cache never fails a lookup: errors are logged and the database
answers instead.
*/
type CachedCatalog struct {
	catalog Catalog
	cache   CacheStore
	ttl     time.Duration
	logger  *slog.Logger
}

func NewCachedCatalog(catalog Catalog, cache CacheStore, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedCatalog{catalog: catalog, cache: cache, ttl: ttl, logger: logger}
}

func (catalog *CachedCatalog) ListTables(context context.Context) ([]string, error) {
	return cached(context, catalog, constants.RedisPrefixCatalog+"tables", func() ([]string, error) {
		return catalog.catalog.ListTables(context)
	})
}

func (catalog *CachedCatalog) TableExists(context context.Context, table string) (bool, error) {
	return cached(context, catalog, constants.RedisPrefixCatalog+"exists:"+table, func() (bool, error) {
		return catalog.catalog.TableExists(context, table)
	})
}

func (catalog *CachedCatalog) ListFields(context context.Context, table string) ([]Field, error) {
	return cached(context, catalog, constants.RedisPrefixCatalog+"fields:"+table, func() ([]Field, error) {
		return catalog.catalog.ListFields(context, table)
	})
}

// cached reads key as JSON or stores the loaded value under it.
func cached[T any](context context.Context, catalog *CachedCatalog, key string, load func() (T, error)) (T, error) {
	payload, err := catalog.cache.Get(context, key).Bytes()
	switch {
	case err == nil:
		var value T
		if err := json.Unmarshal(payload, &value); err == nil {
			return value, nil
		}
		catalog.logger.WarnContext(context, "catalog_cache_corrupt", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		catalog.logger.WarnContext(context, "catalog_cache_read_failed", slog.String("key", key), slog.Any("error", err))
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := catalog.cache.Set(context, key, encoded, catalog.ttl).Err(); err != nil {
		catalog.logger.WarnContext(context, "catalog_cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}

	return value, nil
}
