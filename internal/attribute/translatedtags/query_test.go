// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translatedtags

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/translatedtags/internal/attribute"
	"github.com/taibuivan/translatedtags/internal/platform/database/schema"
)

func colorSource(settings attribute.Settings) Source {
	base := attribute.Settings{
		SettingTable:         "color_i18n",
		SettingValueColumn:   "label",
		SettingAliasColumn:   "alias",
		SettingSortingColumn: "sorting",
		SettingLangColumn:    "langcode",
	}
	for key, value := range settings {
		base[key] = value
	}
	return NewSource(attribute.Definition{ID: 12, Name: "colors", Type: TypeName, Settings: base}, "mm_products")
}

/*
TestNewSource_Defaults checks the fallbacks of unset columns.
*/
func TestNewSource_Defaults(t *testing.T) {
	source := NewSource(attribute.Definition{
		ID:       3,
		Settings: attribute.Settings{SettingTable: "tags", SettingSortSourceColumn: "sorting"},
	}, "public.mm_items")

	assert.Equal(t, "id", source.IDColumn)
	assert.Equal(t, "id", source.AliasColumn)
	assert.Equal(t, "id", source.SortingColumn)
	assert.Equal(t, "public_mm_items_id", source.ItemAlias)
	assert.Empty(t, source.SortColumn, "sort column requires a sort table")
	assert.True(t, source.HasTable())
	assert.False(t, source.IsTranslated())
}

func TestTagCountQuery(t *testing.T) {
	sql, args, err := tagCountQuery(colorSource(nil), []int64{1, 2})
	require.NoError(t, err)

	assert.Contains(t, sql, `COUNT(*) AS "count"`)
	assert.Contains(t, sql, `FROM "core"."tagrelation"`)
	assert.Contains(t, sql, `"core"."tagrelation"."item_id" IN (`)
	assert.Contains(t, sql, `GROUP BY "core"."tagrelation"."item_id"`)
	assert.Equal(t, []interface{}{int64(12), int64(1), int64(2)}, args)
}

/*
TestValueIDsQuery covers the item restricted, used only and unrestricted forms.
*/
func TestValueIDsQuery(t *testing.T) {
	source := colorSource(nil)

	t.Run("restricted_to_items", func(t *testing.T) {
		sql, args, err := valueIDsQuery(source, []int64{7}, false)
		require.NoError(t, err)

		assert.Contains(t, sql, `FROM "color_i18n"`)
		assert.Contains(t, sql, `INNER JOIN "core"."tagrelation"`)
		assert.Contains(t, sql, `"core"."tagrelation"."item_id" IN (`)
		assert.Contains(t, sql, `GROUP BY "color_i18n"."id"`)
		assert.Contains(t, sql, `ORDER BY MIN("color_i18n"."sorting") ASC`)
		assert.Equal(t, []interface{}{int64(12), int64(7)}, args)
	})

	t.Run("used_only", func(t *testing.T) {
		sql, args, err := valueIDsQuery(source, nil, true)
		require.NoError(t, err)

		assert.Contains(t, sql, `FROM "core"."tagrelation"`)
		assert.Contains(t, sql, `INNER JOIN "color_i18n"`)
		assert.Contains(t, sql, `GROUP BY "core"."tagrelation"."value_id"`)
		assert.Equal(t, []interface{}{int64(12)}, args)
	})

	t.Run("unrestricted", func(t *testing.T) {
		sql, args, err := valueIDsQuery(source, nil, false)
		require.NoError(t, err)

		assert.NotContains(t, sql, "tagrelation")
		assert.Contains(t, sql, `GROUP BY "color_i18n"."id"`)
		assert.Empty(t, args)
	})
}

/*
TestValueIDsQuery_SortSourceAndWhere checks the sort table join and the raw filter fragment.
*/
func TestValueIDsQuery_SortSourceAndWhere(t *testing.T) {
	source := colorSource(attribute.Settings{
		SettingSortSourceTable:  "color",
		SettingSortSourceColumn: "sorting",
		SettingWhere:            "visible = 1",
	})

	sql, _, err := valueIDsQuery(source, nil, false)
	require.NoError(t, err)

	assert.Contains(t, sql, `INNER JOIN "color" ON`)
	assert.Contains(t, sql, `"color"."id"`)
	assert.Contains(t, sql, "(visible = 1)")
	assert.Contains(t, sql, `GROUP BY "color_i18n"."id", "color"."sorting"`)
	assert.Contains(t, sql, `ORDER BY "color"."sorting" ASC, MIN("color_i18n"."sorting") ASC`)
}

func TestValuesQuery(t *testing.T) {
	source := colorSource(attribute.Settings{
		SettingSortSourceTable:  "color",
		SettingSortSourceColumn: "sorting",
	})

	sql, args, err := valuesQuery(source, []int64{1, 3}, "de")
	require.NoError(t, err)

	assert.Contains(t, sql, `"color_i18n".*`)
	assert.Contains(t, sql, `"color"."sorting" AS "srcsorting"`)
	assert.Contains(t, sql, `"color_i18n"."langcode" = `)
	assert.Contains(t, sql, `ORDER BY "color"."sorting" ASC, "color_i18n"."sorting" ASC`)
	assert.Equal(t, []interface{}{int64(1), int64(3), "de"}, args)
}

/*
TestTranslatedDataQuery verifies the item alias column and the language join.
*/
func TestTranslatedDataQuery(t *testing.T) {
	source := colorSource(attribute.Settings{SettingTable: "public.color_i18n"})

	sql, args, err := translatedDataQuery(source, []int64{100, 200}, "fr")
	require.NoError(t, err)

	assert.Contains(t, sql, `"public"."color_i18n".*`)
	assert.Contains(t, sql, `"core"."tagrelation"."item_id" AS "mm_products_id"`)
	assert.Contains(t, sql, `"public"."color_i18n"."langcode" = `)
	assert.Equal(t, []interface{}{int64(12), "fr", int64(100), int64(200)}, args)
}

/*
TestSearchQuery verifies both case-insensitive matches are grouped before the
language restriction.
*/
func TestSearchQuery(t *testing.T) {
	source := colorSource(nil)

	sql, args, err := searchQuery(source, "r%d", []string{"en", "de"})
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT DISTINCT")
	assert.Contains(t, sql, `"color_i18n"."label" ILIKE`)
	assert.Contains(t, sql, `"color_i18n"."alias" ILIKE`)
	assert.NotContains(t, sql, " LIKE ", "a plain LIKE misses differently cased values")

	orAt := strings.Index(sql, " OR ")
	langAt := strings.Index(sql, `"color_i18n"."langcode" IN`)
	require.Positive(t, orAt)
	require.Positive(t, langAt)
	assert.Less(t, orAt, langAt)

	assert.Equal(t, []interface{}{int64(12), "r%d", "r%d", "en", "de"}, args)

	t.Run("all_languages", func(t *testing.T) {
		sql, args, err := searchQuery(source, "red", nil)
		require.NoError(t, err)
		assert.NotContains(t, sql, "langcode")
		assert.Len(t, args, 3)
	})
}

func TestRelationWriteQueries(t *testing.T) {
	source := colorSource(nil)

	sql, args, err := clearRelationsQuery(source, []int64{5})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, `DELETE FROM "core"."tagrelation"`))
	assert.Equal(t, []interface{}{int64(12), int64(5)}, args)

	sql, args, err = insertRelationQuery(schema.TagRelationRow{AttributeID: 12, ItemID: 5, ValueSorting: 1, ValueID: 9})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, `INSERT INTO "core"."tagrelation"`))
	assert.Contains(t, sql, `"value_sorting"`)
	assert.ElementsMatch(t, []interface{}{int64(12), int64(5), int64(1), int64(9)}, args)
}

/*
TestGroupByItem checks nesting and removal of the item alias column.
*/
func TestGroupByItem(t *testing.T) {
	source := colorSource(nil)

	grouped := groupByItem(source, []Row{
		{"id": int32(1), "label": "red", "mm_products_id": int64(100)},
		{"id": int32(2), "label": "blue", "mm_products_id": int64(100)},
		{"id": int32(1), "label": "red", "mm_products_id": int64(200)},
		{"id": nil, "label": "broken", "mm_products_id": int64(300)},
	})

	require.Len(t, grouped, 2)
	assert.Equal(t, 2, grouped[100].Len())

	blue, ok := grouped[100].Get(2)
	require.True(t, ok)
	assert.Equal(t, "blue", blue["label"])

	red, ok := grouped[200].Get(1)
	require.True(t, ok)
	assert.NotContains(t, red, "mm_products_id")
}

/*
TestGroupByItem_KeepsQueryOrder verifies rows stay in the order the query
sorted them, including in the JSON output.
*/
func TestGroupByItem_KeepsQueryOrder(t *testing.T) {
	grouped := groupByItem(colorSource(nil), []Row{
		{"id": int64(9), "sorting": int64(1), "mm_products_id": int64(100)},
		{"id": int64(10), "sorting": int64(2), "mm_products_id": int64(100)},
		{"id": int64(3), "sorting": int64(3), "mm_products_id": int64(100)},
	})

	assert.Equal(t, []int64{9, 10, 3}, grouped[100].IDs())

	encoded, err := json.Marshal(grouped[100])
	require.NoError(t, err)
	assert.Equal(t, `{"9":{"id":9,"sorting":1},"10":{"id":10,"sorting":2},"3":{"id":3,"sorting":3}}`, string(encoded))
}

/*
TestCompareRows orders by the sort source first, then the sorting column,
with missing values last.
*/
func TestCompareRows(t *testing.T) {
	source := colorSource(attribute.Settings{SettingSortSourceTable: "color_order", SettingSortSourceColumn: "position"})

	tests := []struct {
		name     string
		a, b     Row
		expected int
	}{
		{"source_first", Row{sortSourceAlias: int32(1), "sorting": 9}, Row{sortSourceAlias: int32(2), "sorting": 1}, -1},
		{"sorting_breaks_ties", Row{sortSourceAlias: 1, "sorting": int64(5)}, Row{sortSourceAlias: 1, "sorting": int64(4)}, 1},
		{"null_last", Row{sortSourceAlias: nil, "sorting": 1}, Row{sortSourceAlias: 3, "sorting": 1}, 1},
		{"text", Row{sortSourceAlias: 1, "sorting": "b"}, Row{sortSourceAlias: 1, "sorting": "a"}, 1},
		{"equal", Row{sortSourceAlias: 1, "sorting": 1}, Row{sortSourceAlias: 1, "sorting": 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, source.compareRows(tt.a, tt.b))
		})
	}

	// Without a sort source only the sorting column counts.
	assert.Equal(t, -1, colorSource(nil).compareRows(Row{sortSourceAlias: 9, "sorting": 1}, Row{sortSourceAlias: 1, "sorting": 2}))
}
