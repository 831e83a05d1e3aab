// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/ninetiop/polygon/db"
	"github.com/ninetiop/polygon/handlers"
	"github.com/ninetiop/polygon/middleware"
	"github.com/ninetiop/polygon/render"
)

const banner = "polygon API v1"

func NewRouter(store *db.Store, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(store, logger)
	polygonHandler := handlers.NewPolygonHandler(store, render.DefaultOptions(), logger)
	healthHandler := handlers.NewHealthHandler(store, logger)

	// Health check
	mux.HandleFunc("GET /health", middleware.WithLogging(logger, healthHandler.Health))

	// Upload
	mux.HandleFunc("POST /upload", middleware.WithLogging(logger, uploadHandler.UploadCSV))

	// Rendering
	mux.HandleFunc("GET /polygon/{id}", middleware.WithLogging(logger, polygonHandler.GetPolygon))
	mux.HandleFunc("GET /polygons", middleware.WithLogging(logger, polygonHandler.GetAllPolygons))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(banner))
	})

	return mux
}
