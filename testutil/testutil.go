// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ninetiop/polygon/cliparse"
	"github.com/ninetiop/polygon/db"
	"github.com/ninetiop/polygon/models"
)

// ValidCSV is the reference upload: four points, one with a comment
const ValidCSV = "x,y,comment\n4.0,0.0,\n4.0,3.0,\n6.7,5.7,note\n6.7,0.0,"

// GetTestConfig returns a standard test configuration backed by a fresh
// SQLite file in the test's temp dir
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()

	return cliparse.Config{
		Port:         8080,
		DatabaseType: cliparse.DBSQLite,
		DBName:       filepath.Join(t.TempDir(), "polygons.db"),
		StoreTimeout: 5 * time.Second,
		MatchMode:    cliparse.MatchShared,
		LogLevel:     "debug",
	}
}

// SetupTestDB opens the database described by cfg and creates the schema.
// The connection is closed when the test ends.
func SetupTestDB(t *testing.T, cfg cliparse.Config) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn, db.DialectFor(cfg.DatabaseType)); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a store over a fresh database using matchMode
func SetupTestStore(t *testing.T, matchMode string) (*db.Store, *sql.DB, *bytes.Buffer) {
	t.Helper()

	cfg := GetTestConfig(t)
	cfg.MatchMode = matchMode
	conn := SetupTestDB(t, cfg)
	logger, logs := NewTestLogger()

	return db.NewStore(conn, cfg, logger), conn, logs
}

// NewTestLogger returns a debug-level logger writing text to a buffer
func NewTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// DiscardLogger drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Pts builds comment-less points from x, y pairs
func Pts(coords ...[2]float64) []models.Point {
	points := make([]models.Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, models.Point{X: c[0], Y: c[1]})
	}
	return points
}

// SeedPolygon inserts a polygon directly, bypassing dedup, and returns its ID
func SeedPolygon(t *testing.T, conn *sql.DB, points []models.Point) int64 {
	t.Helper()

	var id int64
	if err := conn.QueryRow(`INSERT INTO polygons DEFAULT VALUES RETURNING id`).Scan(&id); err != nil {
		t.Fatalf("Failed to create test polygon: %v", err)
	}
	for _, p := range points {
		_, err := conn.Exec(`
			INSERT INTO points (x, y, comment, polygon_id)
			VALUES (?, ?, ?, ?)
		`, p.X, p.Y, p.Comment, id)
		if err != nil {
			t.Fatalf("Failed to create test point: %v", err)
		}
	}

	return id
}

// CountRows returns COUNT(*) for table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeUploadRequest builds a multipart POST /upload request carrying
// content in the csv_file field
func MakeUploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("csv_file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
