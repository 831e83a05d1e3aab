// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the polygon API.

# Handler Types

Each handler is a struct holding the store capability it needs and a
logger:

  - UploadHandler: CSV upload and polygon insert
  - PolygonHandler: PNG rendering of one or all polygons
  - HealthHandler: store liveness and counts

Handlers depend on small interfaces (PolygonWriter, PointReader,
HealthChecker) that *db.Store satisfies:

	uploadHandler := handlers.NewUploadHandler(store, logger)

# Upload

	POST /upload → UploadCSV

The multipart field csv_file must name a .csv file holding UTF-8 text with
the header x,y,comment and three fields per row. At least
MinPolygonPoints points are required; the store itself accepts any
non-empty set. Uploading the same points twice returns the same id.

# Rendering

	GET /polygon/{id} → GetPolygon
	GET /polygons     → GetAllPolygons

Each polygon is outlined and labelled with its id and planar area. An id
with no points is a 400, not a 404.

# Errors

All error bodies are {"detail": "..."}:

  - *ValidationError (bad file, malformed CSV, too few points, bad id) → 400
  - store failures (*db.StorageError) and render failures → 500, with a
    generic message; the cause is only logged
*/
package handlers
