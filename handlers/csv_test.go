// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninetiop/polygon/models"
)

func TestParsePointsCSV_Valid(t *testing.T) {
	points, err := ParsePointsCSV([]byte("x,y,comment\n4.0,0.0,\n4.0,3.0,\n6.7,5.7,was 6.5 before version 2.3.0\n6.7,0.0,"))
	require.NoError(t, err)

	require.Len(t, points, 4)
	assert.Equal(t, models.Point{X: 4, Y: 0}, points[0])
	assert.Equal(t, 6.7, points[2].X)
	require.NotNil(t, points[2].Comment)
	assert.Equal(t, "was 6.5 before version 2.3.0", *points[2].Comment)
	assert.Nil(t, points[3].Comment)
}

func TestParsePointsCSV_Tolerated(t *testing.T) {
	testCases := []struct {
		name string
		data string
		want int
	}{
		{"BOM", "\xef\xbb\xbfx,y,comment\n1,2,\n", 1},
		{"CRLF", "x,y,comment\r\n1,2,a\r\n3,4,b\r\n", 2},
		{"blank lines", "x,y,comment\n\n1,2,\n\n3,4,\n", 2},
		{"spaces around numbers", "x,y,comment\n 1.5 , -2e3 ,c\n", 1},
		{"numeric comment", "x,y,comment\n2.0,4.0,2.2\n", 1},
		{"quoted comment", "x,y,comment\n1,2,\"hello, world\"\n", 1},
		{"header only", "x,y,comment\n", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			points, err := ParsePointsCSV([]byte(tc.data))
			require.NoError(t, err)
			assert.Len(t, points, tc.want)
		})
	}
}

func TestParsePointsCSV_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"no header", "4,0\n4,3\n6.7,5.7\n6.7,0"},
		{"bad header", "a,b,c\n4,0\n4,3\n6.7,5.7\n6.7,0,"},
		{"short row", "x,y,comment\n2.0,4.0,2.2\n1.0,2.1,\n1.2,0"},
		{"long row", "x,y,comment\n2.0,4.0,hello world,4.5\n1.0,2.1,\n1.2,2.3,"},
		{"missing value", "x,y,comment\n2.0,\n1.0,2.1,\n1.2,2.3,"},
		{"non-numeric x", "x,y,comment\nabc,1,\n"},
		{"empty y", "x,y,comment\n1,,\n"},
		{"NaN", "x,y,comment\nNaN,1,\n"},
		{"infinity", "x,y,comment\n1,+Inf,\n"},
		{"bad quote", "x,y,comment\n1,2,\"open\n"},
		{"empty file", ""},
		{"not utf-8", "x,y,comment\n1,2,\xff\xfe\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePointsCSV([]byte(tc.data))
			require.Error(t, err)

			var ve *ValidationError
			assert.True(t, errors.As(err, &ve), "expected ValidationError, got %T", err)
		})
	}
}

func TestParsePointsCSV_LineNumbers(t *testing.T) {
	_, err := ParsePointsCSV([]byte("x,y,comment\n1,2,\n1,oops,\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "invalid y value")
}

func TestValidatePointCount(t *testing.T) {
	two := make([]models.Point, 2)
	three := make([]models.Point, 3)

	err := ValidatePointCount(two)
	require.Error(t, err)
	assert.Equal(t, "A polygon must have at least 3 points.", err.Error())

	assert.NoError(t, ValidatePointCount(three))
}
