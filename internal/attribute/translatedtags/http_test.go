// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translatedtags_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/translatedtags/internal/attribute"
	"github.com/taibuivan/translatedtags/internal/attribute/translatedtags"
	"github.com/taibuivan/translatedtags/internal/metamodel"
	"github.com/taibuivan/translatedtags/internal/platform/ctxutil"
	"github.com/taibuivan/translatedtags/internal/platform/middleware"
	"github.com/taibuivan/translatedtags/internal/platform/sec"
)

const definitions = `
metamodels:
  - name: products
    table: mm_products
    fallback_language: en
    languages: [en, de]
    attributes:
      - id: 12
        name: colors
        type: translatedtags
        settings:
          tag_table: color_i18n
          tag_column: label
          tag_alias: alias
          tag_langcolumn: langcode
`

func newTestRouter(t *testing.T, claims *sec.AuthClaims) (http.Handler, *fakeRepository) {
	t.Helper()

	models, err := metamodel.ParseRegistry([]byte(definitions))
	require.NoError(t, err)

	repository := newFakeRepository()
	types := attribute.NewRegistry[*metamodel.MetaModel, *translatedtags.Attribute]()
	require.NoError(t, types.Register(translatedtags.TypeName, translatedtags.NewFactory(repository, nil)))

	router := chi.NewRouter()
	router.Use(middleware.Language())
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Mount("/metamodels/{model}/attributes/{attribute}",
		translatedtags.NewHandler(translatedtags.NewResolver(models, types)).Routes())

	return router, repository
}

func serve(router http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		request.Header.Set(header[i], header[i+1])
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

const colors = "/metamodels/products/attributes/colors"

/*
TestHandler_GetData checks language negotiation and the merged payload.
*/
func TestHandler_GetData(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	recorder := serve(router, http.MethodGet, colors+"/data?ids=100,200", "", "Accept-Language", "de-CH, en;q=0.5")
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data map[string]map[string]map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.Equal(t, "rot", envelope.Data["100"]["1"]["label"])
	assert.Equal(t, "blue", envelope.Data["100"]["2"]["label"])
	assert.Equal(t, "grün", envelope.Data["200"]["3"]["label"])
}

func TestHandler_GetData_UnsupportedLanguageFallsBack(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	recorder := serve(router, http.MethodGet, colors+"/data?ids=100&lang=fr", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"red"`)
}

func TestHandler_Errors(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"missing_ids", http.MethodGet, colors + "/data", http.StatusBadRequest},
		{"invalid_language", http.MethodGet, colors + "/data/german?ids=1", http.StatusBadRequest},
		{"unknown_attribute", http.MethodGet, "/metamodels/products/attributes/sizes/data?ids=1", http.StatusNotFound},
		{"unknown_model", http.MethodGet, "/metamodels/pages/attributes/colors/settings", http.StatusNotFound},
		{"missing_query", http.MethodGet, colors + "/search", http.StatusBadRequest},
		{"anonymous_write", http.MethodPut, colors + "/data", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(router, tt.method, tt.target, "")
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestHandler_FilterOptions_EmptyIDs ensures "ids=" selects nothing without a query.
*/
func TestHandler_FilterOptions_EmptyIDs(t *testing.T) {
	router, repository := newTestRouter(t, nil)

	recorder := serve(router, http.MethodGet, colors+"/filter-options?ids=", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":[]}`, recorder.Body.String())
	assert.Empty(t, repository.calls)
}

func TestHandler_FilterOptions_Counts(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	recorder := serve(router, http.MethodGet, colors+"/filter-options?used_only=1&count=true&lang=en", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `{"id":1,"alias":"red","value":"red","count":2}`)
}

func TestHandler_Search(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	recorder := serve(router, http.MethodGet, colors+"/search?q=r*d&limit=1", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []int64 `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, []int64{100}, envelope.Data)
	assert.Equal(t, 2, envelope.Meta.Total)
}

/*
TestHandler_Writes covers relation replacement and the unsupported unset.
*/
func TestHandler_Writes(t *testing.T) {
	router, repository := newTestRouter(t, &sec.AuthClaims{UserID: "editor-7", Role: string(sec.RoleEditor)})

	recorder := serve(router, http.MethodPut, colors+"/data", `{"100":[3,1],"300":[]}`)
	require.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, map[int64][]int64{100: {1, 3}, 300: {}}, repository.replaced)

	recorder = serve(router, http.MethodDelete, colors+"/data/de?ids=100", "")
	assert.Equal(t, http.StatusNotImplemented, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "NOT_IMPLEMENTED")
}

func TestHandler_Writes_ViewerForbidden(t *testing.T) {
	router, _ := newTestRouter(t, &sec.AuthClaims{UserID: "viewer-1", Role: string(sec.RoleViewer)})

	recorder := serve(router, http.MethodPut, colors+"/data", `{"100":[1]}`)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
