// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the persistent schema, driver selection and the polygon
store.

# Connecting

Open selects a database/sql driver from the configured type and pings it:

	conn, err := db.Open(ctx, cfg)

Supported types:

  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib
  - sqlite: modernc.org/sqlite (single connection, foreign keys on)

When no DATABASE_URL is configured the DSN is assembled from host, port,
user, password, database name and sslmode (for sqlite the name is a file
path).

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn, db.DialectFor(cfg.DatabaseType)); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

	polygons 1──* points

  - polygons: id only
  - points: x, y, nullable comment, polygon_id

points.polygon_id uses ON DELETE CASCADE. Ids are autoincrement and never
reused.

# Store

	store := db.NewStore(conn, cfg, logger)
	id, err := store.InsertPolygon(ctx, points)

  - FindMatchingPolygon: dedup lookup, read-only
  - InsertPolygon: returns the matching polygon or creates a new one
    atomically
  - GetPoints: points of one polygon, or of all polygons

Every failure is returned as a *StorageError carrying the operation name.
Each call opens and releases its own transaction under a timeout.

# Dedup Modes

The match mode picks how FindMatchingPolygon decides:

  - shared (default): the single polygon owning any candidate point
    matches; points owned by several polygons are ambiguous, logged as a
    warning and treated as no match
  - exact: a polygon matches only if its full set of (x, y) pairs equals
    the candidate set

Two concurrent inserts of the same new point set can both miss and both
insert; no uniqueness constraint prevents it.
*/
package db
