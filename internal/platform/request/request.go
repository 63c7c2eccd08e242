// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/translatedtags/internal/platform/ctxutil"
	"github.com/taibuivan/translatedtags/internal/platform/sec"
	"github.com/taibuivan/translatedtags/internal/platform/validate"
	"github.com/taibuivan/translatedtags/pkg/convert"
	"github.com/taibuivan/translatedtags/pkg/query"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IDs parses a comma separated list of integer ids from the query string.

A missing parameter yields nil ("no restriction"). A present but empty
parameter yields an empty, non-nil slice. Malformed and repeated entries are skipped.
*/
func IDs(request *http.Request, name string) []int64 {
	values := request.URL.Query()
	if !values.Has(name) {
		return nil
	}

	return query.Int64Slice(values.Get(name))
}

/*
Flag reads a boolean query parameter ("1", "true", "on"). Anything else is false.
*/
func Flag(request *http.Request, name string) bool {
	return convert.ToBool(request.URL.Query().Get(name))
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}
