// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metamodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/translatedtags/internal/metamodel"
	"github.com/taibuivan/translatedtags/internal/platform/apperr"
)

const definitions = `
metamodels:
  - name: products
    table: mm_products
    fallback_language: en
    languages: [en, de, fr]
    attributes:
      - id: 12
        name: colors
        type: translatedtags
        settings:
          tag_table: color_i18n
          tag_langcolumn: langcode
  - name: news
    table: mm_news
    fallback_language: de
`

/*
TestParseRegistry loads models, defaults languages and exposes attributes.
*/
func TestParseRegistry(t *testing.T) {
	registry, err := metamodel.ParseRegistry([]byte(definitions))
	require.NoError(t, err)

	assert.Equal(t, []string{"news", "products"}, registry.Names())

	products, err := registry.Get("products")
	require.NoError(t, err)
	assert.Equal(t, "mm_products", products.GetTableName())
	assert.True(t, products.IsTranslated())

	colors, ok := products.Attribute("colors")
	require.True(t, ok)
	assert.Equal(t, int64(12), colors.ID)
	assert.Equal(t, "color_i18n", colors.Settings.Get("tag_table"))

	news, err := registry.Get("news")
	require.NoError(t, err)
	assert.Equal(t, []string{"de"}, news.Languages)
	assert.False(t, news.IsTranslated())

	_, err = registry.Get("events")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestParseRegistry_Invalid rejects broken definitions.
*/
func TestParseRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing_table", "metamodels:\n  - name: a\n    fallback_language: en\n"},
		{"bad_language", "metamodels:\n  - name: a\n    table: t\n    fallback_language: english\n"},
		{"duplicate_model", "metamodels:\n  - name: a\n    table: t\n    fallback_language: en\n  - name: a\n    table: u\n    fallback_language: en\n"},
		{"duplicate_attribute", "metamodels:\n  - name: a\n    table: t\n    fallback_language: en\n    attributes:\n      - {id: 1, name: x, type: translatedtags}\n      - {id: 2, name: x, type: translatedtags}\n"},
		{"not_yaml", "metamodels: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metamodel.ParseRegistry([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

/*
TestMetaModel_Languages covers the active/fallback accessors and negotiation.
*/
func TestMetaModel_Languages(t *testing.T) {
	model := &metamodel.MetaModel{Name: "products", FallbackLanguage: "en", Languages: []string{"en", "de", "fr"}}

	assert.Equal(t, "en", model.ActiveLanguage())

	german := model.WithActiveLanguage("de")
	assert.Equal(t, "de", german.ActiveLanguage())
	assert.Equal(t, "en", german.GetFallbackLanguage())
	assert.Equal(t, "en", model.ActiveLanguage(), "copy must not alter the original")

	tests := []struct {
		preference string
		want       string
	}{
		{"", "en"},
		{"de", "de"},
		{"de-CH, en;q=0.5", "de"},
		{"fr-FR", "fr"},
		{"ja", "en"},
		{"!!", "en"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, model.MatchLanguage(tt.preference), tt.preference)
	}
}

func TestIsTranslated_CountsFallback(t *testing.T) {
	assert.True(t, (&metamodel.MetaModel{FallbackLanguage: "en", Languages: []string{"de"}}).IsTranslated())
	assert.False(t, (&metamodel.MetaModel{FallbackLanguage: "en", Languages: []string{"en"}}).IsTranslated())
}
