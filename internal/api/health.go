// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/translatedtags/internal/platform/constants"
	"github.com/taibuivan/translatedtags/internal/platform/respond"
)

// Check probes one dependency within the given context.
type Check func(ctx context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
// A nil checker is skipped, so an unconfigured cache never degrades readiness.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase Check

	// CheckCache pings the Redis client backing the catalog cache.
	CheckCache Check
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type readinessReport struct {
	Status  string        `json:"status"`
	Version string        `json:"version"`
	Checks  []checkResult `json:"checks"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe). Any failing check answers 503.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	report := readinessReport{Status: "ready", Version: constants.AppVersion, Checks: make([]checkResult, 0, 2)}

	probes := []struct {
		name  string
		check Check
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	for _, probe := range probes {
		if probe.check == nil {
			continue
		}

		result := checkResult{Name: probe.name, IsOK: true}
		if err := probe.check(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			report.Status = "degraded"
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", probe.name),
				slog.Any("error", err),
			)
		}
		report.Checks = append(report.Checks, result)
	}

	status := http.StatusOK
	if report.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	respond.JSON(writer, status, respond.SuccessEnvelope{Data: report})
}
