// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ninetiop/polygon/middleware"
	"github.com/ninetiop/polygon/models"
)

// defaultMaxUploadBytes bounds the multipart body
const defaultMaxUploadBytes = 32 << 20

// PolygonWriter is the store capability the upload handler needs
type PolygonWriter interface {
	InsertPolygon(ctx context.Context, points []models.Point) (int64, error)
}

type UploadHandler struct {
	store    PolygonWriter
	maxBytes int64
	logger   *slog.Logger
}

func NewUploadHandler(store PolygonWriter, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{store: store, maxBytes: defaultMaxUploadBytes, logger: logger}
}

// UploadCSV handles POST /upload
// Parses the csv_file form field into points and stores them as a polygon,
// returning the new or already existing polygon ID
func (h *UploadHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("request_id", middleware.RequestID(r.Context()))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile("csv_file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Error("upload too large", "limit", humanize.IBytes(uint64(tooLarge.Limit)))
			middleware.ErrorResponse(w, http.StatusBadRequest, "File is too large")
			return
		}
		log.Error("missing csv_file field", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "csv_file is required")
		return
	}
	defer file.Close()

	log.Info("uploading file", "filename", header.Filename, "size", humanize.Bytes(uint64(header.Size)))

	// Check file format (must be CSV)
	if !strings.HasSuffix(header.Filename, ".csv") {
		log.Error("the file is not in CSV format", "filename", header.Filename)
		middleware.ErrorResponse(w, http.StatusBadRequest, "The file is not in CSV format")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read upload", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read the uploaded file")
		return
	}

	points, err := ParsePointsCSV(data)
	if err == nil {
		err = ValidatePointCount(points)
	}
	if err != nil {
		log.Error("invalid csv", "filename", header.Filename, "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	polygonID, err := h.store.InsertPolygon(r.Context(), points)
	if err != nil {
		log.Error("failed to insert polygon", "filename", header.Filename, "points", len(points), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error: the polygon could not be stored")
		return
	}

	log.Info("file uploaded", "filename", header.Filename, "polygon_id", polygonID, "points", len(points))

	middleware.JSONResponse(w, http.StatusOK, models.UploadResponse{
		Message: models.MessageUploaded,
		ID:      polygonID,
		Points:  models.Views(points),
	})
}
