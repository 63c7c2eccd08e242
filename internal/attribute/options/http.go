// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package options

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/translatedtags/internal/attribute"
	"github.com/taibuivan/translatedtags/internal/platform/constants"
	"github.com/taibuivan/translatedtags/internal/platform/middleware"
	requestutil "github.com/taibuivan/translatedtags/internal/platform/request"
	"github.com/taibuivan/translatedtags/internal/platform/respond"
	"github.com/taibuivan/translatedtags/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes serves GET /{property}. The query string carries the current form
// values, e.g. /tag_langcolumn?tag_table=color_i18n.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))
	router.Get("/{property}", handler.getOptions)
	return router
}

func (handler *Handler) getOptions(writer http.ResponseWriter, request *http.Request) {
	model := make(attribute.Settings)
	for key, values := range request.URL.Query() {
		if len(values) > 0 {
			model[key] = values[0]
		}
	}

	options, err := handler.service.PropertyOptions(request.Context(),
		constants.AttributeDataDefinition,
		requestutil.Param(request, "property"),
		model,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}
