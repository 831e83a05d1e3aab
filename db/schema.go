// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB, dialect string) error {
	stmts := postgresSchema
	if dialect == DialectSQLite {
		stmts = sqliteSchema
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS polygons (
    id BIGSERIAL PRIMARY KEY
)`,
	`CREATE TABLE IF NOT EXISTS points (
    id BIGSERIAL PRIMARY KEY,
    x DOUBLE PRECISION NOT NULL,
    y DOUBLE PRECISION NOT NULL,
    comment TEXT,
    polygon_id BIGINT NOT NULL REFERENCES polygons(id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_points_xy ON points(x, y)`,
	`CREATE INDEX IF NOT EXISTS idx_points_polygon_id ON points(polygon_id)`,
}

// AUTOINCREMENT keeps SQLite from reusing the ids of deleted rows
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS polygons (
    id INTEGER PRIMARY KEY AUTOINCREMENT
)`,
	`CREATE TABLE IF NOT EXISTS points (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    x REAL NOT NULL,
    y REAL NOT NULL,
    comment TEXT,
    polygon_id INTEGER NOT NULL REFERENCES polygons(id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_points_xy ON points(x, y)`,
	`CREATE INDEX IF NOT EXISTS idx_points_polygon_id ON points(polygon_id)`,
}
