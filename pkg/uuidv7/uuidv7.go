// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// Request correlation ids use it so that ids sort in arrival order when
// log lines are grepped across instances.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// When the clock or entropy source fails it falls back to a random UUIDv4,
// so callers never see an error.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether value parses as a UUID of any version. Client supplied
// request ids that fail it are replaced.
func Valid(value string) bool {
	return uuid.Validate(value) == nil
}
