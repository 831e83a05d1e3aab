// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ninetiop/polygon/geometry"
	"github.com/ninetiop/polygon/middleware"
	"github.com/ninetiop/polygon/models"
	"github.com/ninetiop/polygon/render"
)

// PointReader is the store capability the render handler needs
type PointReader interface {
	GetPoints(ctx context.Context, id *int64) ([]models.Point, error)
}

type PolygonHandler struct {
	store  PointReader
	opts   render.Options
	logger *slog.Logger
}

func NewPolygonHandler(store PointReader, opts render.Options, logger *slog.Logger) *PolygonHandler {
	return &PolygonHandler{store: store, opts: opts, logger: logger}
}

// GetPolygon handles GET /polygon/{id}
// Returns a PNG of one polygon annotated with its ID and area
func (h *PolygonHandler) GetPolygon(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("request_id", middleware.RequestID(r.Context()))

	rawID := r.PathValue("id")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		log.Error("invalid polygon id", "id", rawID)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid polygon id")
		return
	}

	log.Info("get polygon", "polygon_id", id)
	h.renderPoints(w, r, log, &id, fmt.Sprintf("Polygon %d not found in DB", id))
}

// GetAllPolygons handles GET /polygons
// Returns a PNG with every stored polygon
func (h *PolygonHandler) GetAllPolygons(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("request_id", middleware.RequestID(r.Context()))

	log.Info("get all polygons")
	h.renderPoints(w, r, log, nil, "No polygon found in DB")
}

func (h *PolygonHandler) renderPoints(w http.ResponseWriter, r *http.Request, log *slog.Logger, id *int64, notFound string) {
	points, err := h.store.GetPoints(r.Context(), id)
	if err != nil {
		log.Error("failed to get points", "polygon_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while generating the polygon.")
		return
	}
	if len(points) == 0 {
		log.Error("no polygon found", "polygon_id", id)
		middleware.ErrorResponse(w, http.StatusBadRequest, notFound)
		return
	}

	polygons := geometry.GroupByPolygon(points)

	var buf bytes.Buffer
	if err := render.PNG(&buf, polygons, h.opts); err != nil {
		log.Error("failed to render polygon", "polygon_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while generating the polygon.")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error("failed to write image", "error", err)
	}
}
