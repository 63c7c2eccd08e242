// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant conversions of loosely typed input.

Query parameters arrive as strings and rows of admin-defined tables arrive as
whatever scalar the driver picked for the column type. The helpers here
collapse both into plain Go values without returning errors.

Do not use this package where a malformed value must be told apart from a
zero value.
*/
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToIntD converts a string to an int, returning def if it is empty or malformed.
func ToIntD(str string, def int) int {
	if str == "" {
		return def
	}
	if v, err := strconv.Atoi(str); err == nil {
		return v
	}
	return def
}

// ToBool parses a boolean flag. Besides the [strconv.ParseBool] forms it
// accepts "on" and "yes" as submitted by HTML checkboxes. Anything else is false.
func ToBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true
	}
	v, _ := strconv.ParseBool(s)
	return v
}

// ToInt64 converts the integer-like scalars a SQL driver produces, including
// pgx NUMERIC values. The second result is false when value holds no integer
// or one that does not fit an int64.
func ToInt64(value any) (int64, bool) {
	switch typed := value.(type) {
	case int64:
		return typed, true
	case int32:
		return int64(typed), true
	case int16:
		return int64(typed), true
	case int8:
		return int64(typed), true
	case int:
		return int64(typed), true
	case uint64:
		if typed > math.MaxInt64 {
			return 0, false
		}
		return int64(typed), true
	case uint32:
		return int64(typed), true
	case uint16:
		return int64(typed), true
	case uint8:
		return int64(typed), true
	case uint:
		if uint64(typed) > math.MaxInt64 {
			return 0, false
		}
		return int64(typed), true
	case float64:
		return int64(typed), true
	case float32:
		return int64(typed), true
	case pgtype.Numeric:
		integer, err := typed.Int64Value()
		if err != nil || !integer.Valid {
			return 0, false
		}
		return integer.Int64, true
	case string:
		parsed, err := strconv.ParseInt(typed, 10, 64)
		return parsed, err == nil
	case []byte:
		parsed, err := strconv.ParseInt(string(typed), 10, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// ToString renders a scalar as text. nil becomes the empty string.
func ToString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []byte:
		return string(typed)
	case pgtype.Numeric:
		value, err := typed.Value()
		if text, ok := value.(string); ok && err == nil {
			return text
		}
		return ""
	default:
		return fmt.Sprint(typed)
	}
}
