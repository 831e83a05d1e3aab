// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ninetiop/polygon/models"
)

// MinPolygonPoints is the fewest points an uploaded polygon may have
const MinPolygonPoints = 3

var csvHeader = []string{"x", "y", "comment"}

// ValidationError reports bad client input. Its message is safe to return
// to the client as is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ParsePointsCSV decodes UTF-8 CSV text with the header x,y,comment and
// exactly three fields per row. Empty comments become nil.
func ParsePointsCSV(data []byte) ([]models.Point, error) {
	if !utf8.Valid(data) {
		return nil, invalid("File is not valid UTF-8")
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(csvHeader)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, invalid("CSV is empty")
	}
	if err != nil {
		return nil, malformed(err)
	}
	for i, name := range csvHeader {
		if strings.TrimSpace(header[i]) != name {
			return nil, invalid("CSV is malformed: header must be %s", strings.Join(csvHeader, ","))
		}
	}

	var points []models.Point
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(err)
		}
		line, _ := r.FieldPos(0)

		x, err := parseCoord(record[0])
		if err != nil {
			return nil, invalid("CSV is malformed: line %d: invalid x value %q", line, record[0])
		}
		y, err := parseCoord(record[1])
		if err != nil {
			return nil, invalid("CSV is malformed: line %d: invalid y value %q", line, record[1])
		}

		points = append(points, models.Point{X: x, Y: y, Comment: models.StringPtr(record[2])})
	}

	return points, nil
}

// ValidatePointCount enforces the upload minimum; the store itself accepts
// any non-empty set
func ValidatePointCount(points []models.Point) error {
	if len(points) < MinPolygonPoints {
		return invalid("A polygon must have at least %d points.", MinPolygonPoints)
	}
	return nil
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("coordinate is not finite")
	}
	return v, nil
}

func malformed(err error) *ValidationError {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		if errors.Is(pe.Err, csv.ErrFieldCount) {
			return invalid("CSV is malformed: line %d: expected %d columns", pe.Line, len(csvHeader))
		}
		return invalid("CSV is malformed: line %d: %v", pe.Line, pe.Err)
	}
	return invalid("CSV is malformed.")
}
