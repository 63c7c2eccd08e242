// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translatedtags

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/translatedtags/internal/platform/ctxutil"
	"github.com/taibuivan/translatedtags/internal/platform/middleware"
	requestutil "github.com/taibuivan/translatedtags/internal/platform/request"
	"github.com/taibuivan/translatedtags/internal/platform/respond"
	"github.com/taibuivan/translatedtags/internal/platform/sec"
	"github.com/taibuivan/translatedtags/internal/platform/validate"
	"github.com/taibuivan/translatedtags/pkg/pagination"
	"github.com/taibuivan/translatedtags/pkg/query"
)

// Handler serves one attribute of one metamodel under
// /metamodels/{model}/attributes/{attribute}.
type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/settings", handler.getSettings)
	router.Get("/data", handler.getData)
	router.Get("/data/{lang}", handler.getTranslatedData)
	router.Get("/filter-options", handler.getFilterOptions)
	router.Get("/search", handler.search)

	router.Group(func(editor chi.Router) {
		editor.Use(middleware.RequireRole(sec.RoleEditor))
		editor.Put("/data", handler.putData)
		editor.Put("/data/{lang}", handler.putData)
		editor.Delete("/data/{lang}", handler.unsetData)
	})

	return router
}

// attribute resolves the addressed attribute in the negotiated language.
func (handler *Handler) attribute(request *http.Request) (*Attribute, error) {
	return handler.resolver.Resolve(
		requestutil.Param(request, "model"),
		requestutil.Param(request, "attribute"),
		ctxutil.GetLanguage(request.Context()),
	)
}

// requiredIDs reads the mandatory ids list.
func requiredIDs(request *http.Request) ([]int64, error) {
	ids := requestutil.IDs(request, "ids")
	if len(ids) == 0 {
		return nil, validate.RequiredError("ids", "At least one item id is required")
	}
	return ids, nil
}

type settingsResponse struct {
	Definition any      `json:"definition"`
	Source     Source   `json:"source"`
	Names      []string `json:"setting_names"`
}

func (handler *Handler) getSettings(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.attribute(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, settingsResponse{Definition: tags.Definition(), Source: tags.Source(), Names: tags.SettingNames()})
}

func (handler *Handler) getData(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.attribute(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ids, err := requiredIDs(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	data, err := tags.DataFor(request.Context(), ids)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, data)
}

func (handler *Handler) getTranslatedData(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.attribute(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	language := requestutil.Param(request, "lang")
	if err := (&validate.Validator{}).LanguageCode("lang", language).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ids, err := requiredIDs(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	data, err := tags.TranslatedDataFor(request.Context(), ids, language)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, data)
}

func (handler *Handler) getFilterOptions(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.attribute(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	options, err := tags.FilterOptions(request.Context(),
		requestutil.IDs(request, "ids"),
		requestutil.Flag(request, "used_only"),
		requestutil.Flag(request, "count"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}

// search handles GET /search?q=&langs=, paginating the matching item ids.
// Without langs only the active language is searched.
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.attribute(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pattern := request.URL.Query().Get("q")
	if err := (&validate.Validator{}).Required("q", pattern).MaxLen("q", pattern, 255).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var items []int64
	if languages := query.StringSlice(request.URL.Query().Get("langs")); languages != nil {
		items, err = tags.SearchForInLanguages(request.Context(), pattern, languages)
	} else {
		items, err = tags.SearchFor(request.Context(), pattern)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	window, meta := pagination.Page(items, pagination.FromRequest(request))
	respond.Paginated(writer, window, meta)
}

// putData replaces the values of the items in the body: {"<item id>": [value ids]}.
func (handler *Handler) putData(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.attribute(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body map[int64][]int64
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if len(body) == 0 {
		respond.Error(writer, request, validate.RequiredError("body", "At least one item is required"))
		return
	}

	values := make(map[int64]*ItemValues, len(body))
	for itemID, valueIDs := range body {
		values[itemID] = NewItemValues()
		for _, valueID := range valueIDs {
			values[itemID].Set(valueID, Row{tags.Source().IDColumn: valueID})
		}
	}

	if language := requestutil.Param(request, "lang"); language != "" {
		err = tags.SetTranslatedDataFor(request.Context(), values, language)
	} else {
		err = tags.SetDataFor(request.Context(), values)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if claims := requestutil.Claims(request); claims != nil {
		ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "translatedtags_values_replaced",
			slog.String("user_id", claims.UserID),
			slog.String("attribute", tags.Definition().Name),
			slog.Int("items", len(values)),
		)
	}
	respond.NoContent(writer)
}

func (handler *Handler) unsetData(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.attribute(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := tags.UnsetValueFor(request.Context(), requestutil.IDs(request, "ids"), requestutil.Param(request, "lang")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
