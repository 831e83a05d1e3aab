// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ninetiop/polygon/cliparse"
	"github.com/ninetiop/polygon/db"
	"github.com/ninetiop/polygon/models"
	"github.com/ninetiop/polygon/testutil"
)

type failingWriter struct{}

func (failingWriter) InsertPolygon(ctx context.Context, points []models.Point) (int64, error) {
	return 0, &db.StorageError{Op: "insert polygon", Err: errors.New("disk full")}
}

func TestUploadCSV(t *testing.T) {
	store, conn, _ := testutil.SetupTestStore(t, cliparse.MatchShared)
	handler := NewUploadHandler(store, testutil.DiscardLogger())

	req := testutil.MakeUploadRequest(t, "polygon.csv", testutil.ValidCSV)
	w := httptest.NewRecorder()
	handler.UploadCSV(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.UploadResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Message != models.MessageUploaded {
		t.Errorf("Expected message %q, got %q", models.MessageUploaded, resp.Message)
	}
	if resp.ID <= 0 {
		t.Errorf("Expected positive polygon id, got %d", resp.ID)
	}
	if len(resp.Points) != 4 {
		t.Fatalf("Expected 4 points, got %d", len(resp.Points))
	}
	if resp.Points[0].Comment != nil {
		t.Errorf("Expected null comment for empty field, got %q", *resp.Points[0].Comment)
	}
	if resp.Points[2].Comment == nil || *resp.Points[2].Comment != "note" {
		t.Errorf("Expected comment 'note' on third point, got %v", resp.Points[2].Comment)
	}

	if n := testutil.CountRows(t, conn, "points"); n != 4 {
		t.Errorf("Expected 4 stored points, got %d", n)
	}
}

func TestUploadCSV_NullCommentInJSON(t *testing.T) {
	store, _, _ := testutil.SetupTestStore(t, cliparse.MatchShared)
	handler := NewUploadHandler(store, testutil.DiscardLogger())

	req := testutil.MakeUploadRequest(t, "polygon.csv", "x,y,comment\n0,0,\n1,0,\n0,1,\n")
	w := httptest.NewRecorder()
	handler.UploadCSV(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `"comment":null`) {
		t.Errorf("Expected null comments in body, got %s", w.Body.String())
	}
}

func TestUploadCSV_SamePointsSameID(t *testing.T) {
	store, conn, _ := testutil.SetupTestStore(t, cliparse.MatchShared)
	handler := NewUploadHandler(store, testutil.DiscardLogger())

	upload := func(content string) int64 {
		t.Helper()
		w := httptest.NewRecorder()
		handler.UploadCSV(w, testutil.MakeUploadRequest(t, "polygon.csv", content))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.UploadResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.ID
	}

	first := upload(testutil.ValidCSV)
	// Same coordinates, different order and comments
	second := upload("x,y,comment\n6.7,0.0,other\n4.0,3.0,\n4.0,0.0,\n6.7,5.7,")

	if first != second {
		t.Errorf("Expected same polygon id for identical points, got %d and %d", first, second)
	}
	if n := testutil.CountRows(t, conn, "polygons"); n != 1 {
		t.Errorf("Expected 1 polygon, got %d", n)
	}
	if n := testutil.CountRows(t, conn, "points"); n != 4 {
		t.Errorf("Expected 4 points, got %d", n)
	}
}

func TestUploadCSV_DifferentPolygons(t *testing.T) {
	store, _, _ := testutil.SetupTestStore(t, cliparse.MatchShared)
	handler := NewUploadHandler(store, testutil.DiscardLogger())

	var ids []int64
	for _, content := range []string{
		"x,y,comment\n0,0,\n1,0,\n0,1,\n",
		"x,y,comment\n10,10,\n11,10,\n10,11,\n",
	} {
		w := httptest.NewRecorder()
		handler.UploadCSV(w, testutil.MakeUploadRequest(t, "polygon.csv", content))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.UploadResponse
		testutil.AssertJSON(t, w, &resp)
		ids = append(ids, resp.ID)
	}

	if ids[0] == ids[1] {
		t.Errorf("Expected distinct polygon ids, got %d twice", ids[0])
	}
}

func TestUploadCSV_InvalidFiles(t *testing.T) {
	store, conn, _ := testutil.SetupTestStore(t, cliparse.MatchShared)
	handler := NewUploadHandler(store, testutil.DiscardLogger())

	testCases := []struct {
		name     string
		filename string
		content  string
		detail   string
	}{
		{"not csv extension", "polygon.txt", testutil.ValidCSV, "The file is not in CSV format"},
		{"no header", "polygon.csv", "4,0\n4,3\n6.7,5.7\n6.7,0", "CSV is malformed"},
		{"wrong header", "polygon.csv", "a,b,c\n4,0,\n4,3,\n6.7,5.7,\n", "CSV is malformed"},
		{"short row", "polygon.csv", "x,y,comment\n2.0,4.0,2.2\n1.0,2.1,\n1.2,0", "CSV is malformed"},
		{"long row", "polygon.csv", "x,y,comment\n2.0,4.0,hello world,4.5\n1.0,2.1,\n1.2,2.3,", "CSV is malformed"},
		{"missing value", "polygon.csv", "x,y,comment\n2.0,\n1.0,2.1,\n1.2,2.3,", "CSV is malformed"},
		{"non-numeric", "polygon.csv", "x,y,comment\nabc,0,\n1,1,\n2,2,\n", "invalid x value"},
		{"too few points", "polygon.csv", "x,y,comment\n0,0,\n1,1,\n", "A polygon must have at least 3 points."},
		{"header only", "polygon.csv", "x,y,comment\n", "A polygon must have at least 3 points."},
		{"empty", "polygon.csv", "", "CSV is empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.UploadCSV(w, testutil.MakeUploadRequest(t, tc.filename, tc.content))

			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if !strings.Contains(resp.Detail, tc.detail) {
				t.Errorf("Expected detail containing %q, got %q", tc.detail, resp.Detail)
			}
		})
	}

	if n := testutil.CountRows(t, conn, "polygons"); n != 0 {
		t.Errorf("Expected no polygons after rejected uploads, got %d", n)
	}
}

func TestUploadCSV_MinimumPoints(t *testing.T) {
	store, _, _ := testutil.SetupTestStore(t, cliparse.MatchShared)
	handler := NewUploadHandler(store, testutil.DiscardLogger())

	w := httptest.NewRecorder()
	handler.UploadCSV(w, testutil.MakeUploadRequest(t, "polygon.csv", "x,y,comment\n0,0,\n1,0,\n0,1,\n"))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestUploadCSV_MissingField(t *testing.T) {
	store, _, _ := testutil.SetupTestStore(t, cliparse.MatchShared)
	handler := NewUploadHandler(store, testutil.DiscardLogger())

	req := httptest.NewRequest("POST", "/upload", strings.NewReader("x,y,comment\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	handler.UploadCSV(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Detail != "csv_file is required" {
		t.Errorf("Expected 'csv_file is required', got %q", resp.Detail)
	}
}

func TestUploadCSV_TooLarge(t *testing.T) {
	store, conn, _ := testutil.SetupTestStore(t, cliparse.MatchShared)
	handler := NewUploadHandler(store, testutil.DiscardLogger())
	handler.maxBytes = 512

	content := "x,y,comment\n" + strings.Repeat("1.0,2.0,padding padding padding\n", 100)
	w := httptest.NewRecorder()
	handler.UploadCSV(w, testutil.MakeUploadRequest(t, "polygon.csv", content))

	testutil.AssertStatus(t, w, http.StatusBadRequest)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Detail == "" {
		t.Error("Expected a detail message")
	}
	if n := testutil.CountRows(t, conn, "polygons"); n != 0 {
		t.Errorf("Expected no polygons after oversized upload, got %d", n)
	}
}

func TestUploadCSV_LargePolygon(t *testing.T) {
	for _, mode := range []string{cliparse.MatchShared, cliparse.MatchExact} {
		t.Run(mode, func(t *testing.T) {
			store, conn, _ := testutil.SetupTestStore(t, mode)
			handler := NewUploadHandler(store, testutil.DiscardLogger())

			const n = 2000
			var sb strings.Builder
			sb.WriteString("x,y,comment\n")
			for i := 0; i < n; i++ {
				fmt.Fprintf(&sb, "%d.25,%d,\n", i, i%13)
			}

			var ids []int64
			for range 2 {
				w := httptest.NewRecorder()
				handler.UploadCSV(w, testutil.MakeUploadRequest(t, "big.csv", sb.String()))
				testutil.AssertStatus(t, w, http.StatusOK)

				var resp models.UploadResponse
				testutil.AssertJSON(t, w, &resp)
				ids = append(ids, resp.ID)
			}

			if ids[0] != ids[1] {
				t.Errorf("Expected same polygon id on re-upload, got %d and %d", ids[0], ids[1])
			}
			if got := testutil.CountRows(t, conn, "points"); got != n {
				t.Errorf("Expected %d points, got %d", n, got)
			}
		})
	}
}

func TestUploadCSV_StorageFailure(t *testing.T) {
	handler := NewUploadHandler(failingWriter{}, testutil.DiscardLogger())

	w := httptest.NewRecorder()
	handler.UploadCSV(w, testutil.MakeUploadRequest(t, "polygon.csv", testutil.ValidCSV))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if strings.Contains(resp.Detail, "disk full") {
		t.Errorf("Expected internal cause to be hidden, got %q", resp.Detail)
	}
	if !strings.HasPrefix(resp.Detail, "Database error") {
		t.Errorf("Expected database error detail, got %q", resp.Detail)
	}
}

func TestUploadCSV_ClosedDatabase(t *testing.T) {
	store, conn, _ := testutil.SetupTestStore(t, cliparse.MatchShared)
	handler := NewUploadHandler(store, testutil.DiscardLogger())
	conn.Close()

	w := httptest.NewRecorder()
	handler.UploadCSV(w, testutil.MakeUploadRequest(t, "polygon.csv", testutil.ValidCSV))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}
