// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the polygon API server.

The server accepts CSV uploads of 2D points, stores each upload as a
polygon in a SQL database, and renders stored polygons as PNG images
labelled with their planar area. Uploading points that already form a
stored polygon returns that polygon's ID instead of creating a new one.

# Starting the Server

The server reads environment variables, an optional .env file, or CLI
flags:

	DATABASE_URL=postgres://... go run .

Or with flags:

	go run . -p 8080 -t sqlite -db-name polygons.db

# Configuration

Database (one of):

  - DATABASE_URL (-d): full connection string
  - DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSLMODE: parts of
    a PostgreSQL DSN; for sqlite, DB_NAME is the file path

Optional settings:

  - PORT (-p): Server port (default: 8080)
  - DATABASE_TYPE (-t): postgres, pgx or sqlite (default: postgres)
  - STORE_TIMEOUT (-store-timeout): bound on each store operation (default: 5s)
  - MATCH_MODE (-match-mode): shared or exact duplicate detection (default: shared)
  - LOG_LEVEL (-log-level), LOG_FILE (-log-file)

# Architecture

  - handlers: HTTP request handlers (upload, render, health)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Point and response types
  - db: connection, schema, polygon store
  - geometry: grouping, area and bounds
  - render: PNG drawing
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
