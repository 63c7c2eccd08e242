// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses the comma separated list parameters of the API, such
// as ?ids=1,2,3 or ?langs=de,en.
package query

import (
	"strconv"
	"strings"
)

// StringSlice splits a comma separated value into trimmed, non-empty parts.
// An empty value yields nil.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Int64Slice parses a comma separated id list. Malformed entries and repeated
// ids are dropped; the first occurrence keeps its position. The result is never nil.
func Int64Slice(val string) []int64 {
	parts := StringSlice(val)
	res := make([]int64, 0, len(parts))
	seen := make(map[int64]struct{}, len(parts))

	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
