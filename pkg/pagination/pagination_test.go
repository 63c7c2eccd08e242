// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/translatedtags/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected pagination.Params
	}{
		{"defaults", "/search", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"explicit", "/search?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"negative_page", "/search?page=-2", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"excessive_limit", "/search?limit=100000", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"malformed", "/search?page=x&limit=y", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pagination.FromRequest(httptest.NewRequest("GET", tt.target, nil)))
		})
	}
}

func TestPage(t *testing.T) {
	items := []int64{10, 20, 30, 40, 50}

	window, meta := pagination.Page(items, pagination.Params{Page: 2, Limit: 2})
	assert.Equal(t, []int64{30, 40}, window)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, meta)

	last, _ := pagination.Page(items, pagination.Params{Page: 3, Limit: 2})
	assert.Equal(t, []int64{50}, last)

	beyond, meta := pagination.Page(items, pagination.Params{Page: 9, Limit: 2})
	assert.Equal(t, []int64{}, beyond)
	assert.Equal(t, 5, meta.Total)
}
