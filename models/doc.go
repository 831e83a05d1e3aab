// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain and response types for the polygon API.

# Domain Types

Plain records with explicit foreign keys, no behavior:

  - Point: x, y, optional comment, owning polygon_id
  - Polygon: identifier plus its points in stored order

# Response Types

Types for JSON responses:

  - UploadResponse: message, id, points
  - HealthResponse: status, polygon and point counts
  - ErrorResponse: detail

PointView is the client-facing form of a Point; the owning polygon is
implied by the enclosing response.
*/
package models
