// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the polygon API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, logger)

# Endpoints

	GET  /              - Banner
	GET  /health        - Store liveness and row counts
	POST /upload        - Upload a CSV of points (multipart field csv_file)
	GET  /polygon/{id}  - PNG of one polygon
	GET  /polygons      - PNG of every polygon

Every route except the banner is wrapped in middleware.WithLogging, so
responses carry an X-Request-ID header. CORS is applied by the caller
around the whole mux.
*/
package router
