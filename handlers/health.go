// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ninetiop/polygon/middleware"
	"github.com/ninetiop/polygon/models"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
	CountPolygons(ctx context.Context) (int64, error)
	CountPoints(ctx context.Context) (int64, error)
}

type HealthHandler struct {
	store  HealthChecker
	logger *slog.Logger
}

func NewHealthHandler(store HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("health check failed", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	polygons, err := h.store.CountPolygons(ctx)
	if err != nil {
		h.logger.Error("failed to count polygons", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	points, err := h.store.CountPoints(ctx)
	if err != nil {
		h.logger.Error("failed to count points", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:   "ok",
		Polygons: polygons,
		Points:   points,
	})
}
