// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package options_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/translatedtags/internal/attribute"
	"github.com/taibuivan/translatedtags/internal/attribute/options"
	"github.com/taibuivan/translatedtags/internal/platform/ctxutil"
	"github.com/taibuivan/translatedtags/internal/platform/sec"
)

// # Fakes

type fakeCatalog struct {
	tables     []string
	fields     map[string][]options.Field
	fieldCalls int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tables: []string{"color", "color_i18n", "shop.size"},
		fields: map[string][]options.Field{
			"color_i18n": {
				{Name: "id", Type: "integer"},
				{Name: "langcode", Type: "character varying"},
				{Name: "label", Type: "text"},
				{Name: "color_i18n_pkey", Type: options.FieldTypeIndex},
			},
			"color": {
				{Name: "id", Type: "integer"},
				{Name: "sorting", Type: "integer"},
				{Name: "color_sorting_idx", Type: options.FieldTypeIndex},
			},
		},
	}
}

func (fake *fakeCatalog) ListTables(context.Context) ([]string, error) {
	return fake.tables, nil
}

func (fake *fakeCatalog) TableExists(_ context.Context, table string) (bool, error) {
	_, ok := fake.fields[table]
	return ok, nil
}

func (fake *fakeCatalog) ListFields(_ context.Context, table string) ([]options.Field, error) {
	fake.fieldCalls++
	return fake.fields[table], nil
}

type fakeCache struct {
	entries map[string][]byte
	readErr error
}

func (fake *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	if fake.readErr != nil {
		return redis.NewStringResult("", fake.readErr)
	}
	value, ok := fake.entries[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(value), nil)
}

func (fake *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	fake.entries[key] = value.([]byte)
	return redis.NewStatusResult("OK", nil)
}

func newService(catalog options.Catalog) *options.Service {
	dispatcher := options.NewDispatcher()
	options.NewSubscriber(catalog, nil).RegisterEvents(dispatcher)
	return options.NewService(dispatcher)
}

// # Subscriber

/*
TestPropertyOptions covers every property the subscriber answers for.
*/
func TestPropertyOptions(t *testing.T) {
	service := newService(newFakeCatalog())

	tests := []struct {
		name     string
		property string
		model    attribute.Settings
		expected []string
	}{
		{"lang_columns", "tag_langcolumn", attribute.Settings{"tag_table": "color_i18n"}, []string{"id", "langcode", "label"}},
		{"lang_columns_without_table", "tag_langcolumn", attribute.Settings{}, []string{}},
		{"source_tables", "tag_srctable", nil, []string{"color", "color_i18n", "shop.size"}},
		{"sort_columns_skip_indexes", "tag_srcsorting", attribute.Settings{"tag_srctable": "color"}, []string{"id", "sorting"}},
		{"sort_columns_unknown_table", "tag_srcsorting", attribute.Settings{"tag_srctable": "missing"}, []string{}},
		{"sort_columns_ignore_select_setting", "tag_srcsorting", attribute.Settings{"select_srctable": "color"}, []string{}},
		{"unrelated_property", "tag_where", attribute.Settings{"tag_table": "color_i18n"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.PropertyOptions(context.Background(), "metamodel_attribute", tt.property, tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPropertyOptions_OtherDataDefinition(t *testing.T) {
	catalog := newFakeCatalog()
	service := newService(catalog)

	result, err := service.PropertyOptions(context.Background(), "metamodel_filtersetting", "tag_langcolumn", attribute.Settings{"tag_table": "color_i18n"})
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Zero(t, catalog.fieldCalls)
}

func TestPropertyOptions_InvalidProperty(t *testing.T) {
	service := newService(newFakeCatalog())

	_, err := service.PropertyOptions(context.Background(), "metamodel_attribute", "tag table", nil)
	assert.Error(t, err)
}

func TestDispatcher_StopsOnError(t *testing.T) {
	dispatcher := options.NewDispatcher()
	failure := errors.New("catalog offline")
	reached := false

	dispatcher.
		AddListener(options.EventGetPropertyOptions, func(context.Context, *options.GetPropertyOptionsEvent) error { return failure }).
		AddListener(options.EventGetPropertyOptions, func(context.Context, *options.GetPropertyOptionsEvent) error {
			reached = true
			return nil
		})

	err := dispatcher.Dispatch(context.Background(), options.EventGetPropertyOptions, &options.GetPropertyOptionsEvent{})
	assert.ErrorIs(t, err, failure)
	assert.False(t, reached)
}

// # Cached Catalog

/*
TestCachedCatalog verifies a miss populates the cache and a hit skips the database.
*/
func TestCachedCatalog(t *testing.T) {
	catalog := newFakeCatalog()
	cache := &fakeCache{entries: make(map[string][]byte)}
	cached := options.NewCachedCatalog(catalog, cache, time.Minute, nil)

	fields, err := cached.ListFields(context.Background(), "color")
	require.NoError(t, err)
	assert.Len(t, fields, 3)
	assert.Contains(t, cache.entries, "catalog:fields:color")

	again, err := cached.ListFields(context.Background(), "color")
	require.NoError(t, err)
	assert.Equal(t, fields, again)
	assert.Equal(t, 1, catalog.fieldCalls)

	exists, err := cached.TableExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCachedCatalog_CacheDown(t *testing.T) {
	catalog := newFakeCatalog()
	cache := &fakeCache{entries: make(map[string][]byte), readErr: errors.New("connection refused")}
	cached := options.NewCachedCatalog(catalog, cache, time.Minute, nil)

	tables, err := cached.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.tables, tables)
}

// # HTTP

func TestHandler_RequiresAdmin(t *testing.T) {
	handler := options.NewHandler(newService(newFakeCatalog()))

	tests := []struct {
		name   string
		role   sec.UserRole
		status int
	}{
		{"admin", sec.RoleAdmin, http.StatusOK},
		{"editor", sec.RoleEditor, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := chi.NewRouter()
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
					claims := &sec.AuthClaims{UserID: "user-1", Role: string(tt.role)}
					next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
				})
			})
			router.Mount("/attribute-options", handler.Routes())

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/attribute-options/tag_langcolumn?tag_table=color_i18n", nil))

			assert.Equal(t, tt.status, recorder.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"data":["id","langcode","label"]}`, recorder.Body.String())
			}
		})
	}
}
