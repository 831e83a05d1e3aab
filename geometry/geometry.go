// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package geometry turns stored points into polygons and measures them.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/ninetiop/polygon/models"
)

// GroupByPolygon splits points by owning polygon, keeping the order in
// which polygons first appear and the order of points within each
func GroupByPolygon(points []models.Point) []models.Polygon {
	index := map[int64]int{}
	var polygons []models.Polygon
	for _, p := range points {
		i, ok := index[p.PolygonID]
		if !ok {
			i = len(polygons)
			index[p.PolygonID] = i
			polygons = append(polygons, models.Polygon{ID: p.PolygonID})
		}
		polygons[i].Points = append(polygons[i].Points, p)
	}
	return polygons
}

// Ring returns the points as a closed orb ring
func Ring(points []models.Point) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// Area is the planar (shoelace) area enclosed by points taken in order.
// Fewer than 3 points enclose nothing.
func Area(points []models.Point) float64 {
	if len(points) < 3 {
		return 0
	}
	return math.Abs(planar.Area(orb.Polygon{Ring(points)}))
}

// Bounds is the bounding box of every point across polygons
func Bounds(polygons []models.Polygon) orb.Bound {
	var mp orb.MultiPoint
	for _, poly := range polygons {
		for _, p := range poly.Points {
			mp = append(mp, orb.Point{p.X, p.Y})
		}
	}
	return mp.Bound()
}
