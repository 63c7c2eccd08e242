// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/translatedtags/pkg/query"
)

func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"de", "en"}, query.StringSlice(" de, ,en "))
}

func TestInt64Slice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []int64
	}{
		{"empty", "", []int64{}},
		{"plain", "3,1,2", []int64{3, 1, 2}},
		{"malformed_skipped", "1,x,2", []int64{1, 2}},
		{"duplicates_dropped", "2,1,2", []int64{2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, query.Int64Slice(tt.input))
		})
	}
}
