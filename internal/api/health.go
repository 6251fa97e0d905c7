// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/shopit/internal/platform/constants"
	"github.com/taibuivan/shopit/internal/platform/respond"
)

// Dependency is a named backend probed by the readiness endpoint.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	dependencies []Dependency
	logger       *slog.Logger
}

// NewHealthHandler creates the probe handler for the given dependencies.
func NewHealthHandler(logger *slog.Logger, dependencies ...Dependency) *HealthHandler {
	return &HealthHandler{dependencies: dependencies, logger: logger}
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Liveness handles GET /health. It answers 200 while the process runs.
func (handler *HealthHandler) Liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, respond.Fields{constants.FieldStatus: "ok"})
}

// Readiness handles GET /ready. It answers 503 when any dependency fails its ping.
func (handler *HealthHandler) Readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, len(handler.dependencies))
	isSystemReady := true

	for _, dependency := range handler.dependencies {
		result := checkResult{Name: dependency.Name, IsOK: true}
		if err := dependency.Ping(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", dependency.Name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	responseStatus, httpStatus := "ready", http.StatusOK
	if !isSystemReady {
		responseStatus, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.Fields{
		constants.FieldSuccess: isSystemReady,
		constants.FieldStatus:  responseStatus,
		constants.FieldChecks:  results,
	})
}
