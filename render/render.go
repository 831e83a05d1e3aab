// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package render draws stored polygons as PNG images.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"github.com/ninetiop/polygon/geometry"
	"github.com/ninetiop/polygon/models"
)

var ErrNothingToDraw = errors.New("no polygons to draw")

type Options struct {
	Width     int
	Height    int
	Margin    float64
	LineWidth float64
}

// DefaultOptions matches the size of a default matplotlib figure
func DefaultOptions() Options {
	return Options{Width: 640, Height: 480, Margin: 40, LineWidth: 2}
}

// palette cycles per polygon
var palette = []color.RGBA{
	{31, 119, 180, 255},
	{255, 127, 14, 255},
	{44, 160, 44, 255},
	{214, 39, 40, 255},
	{148, 103, 189, 255},
	{140, 86, 75, 255},
	{227, 119, 194, 255},
	{23, 190, 207, 255},
}

// Legend is the annotation drawn for one polygon
func Legend(p models.Polygon) string {
	return fmt.Sprintf("Polygon %d, Area = %.2f", p.ID, geometry.Area(p.Points))
}

// PNG draws every polygon as a closed outline scaled to fit the canvas,
// with one legend line per polygon, and writes the image to w
func PNG(w io.Writer, polygons []models.Polygon, opts Options) error {
	if len(polygons) == 0 {
		return ErrNothingToDraw
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	project := fit(geometry.Bounds(polygons), float64(opts.Width), float64(opts.Height), opts.Margin)

	dc.SetLineWidth(opts.LineWidth)
	for i, poly := range polygons {
		if len(poly.Points) == 0 {
			continue
		}
		dc.SetColor(palette[i%len(palette)])
		for j, p := range poly.Points {
			x, y := project(p.X, p.Y)
			if j == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.Stroke()
	}

	// Legend in the upper right corner
	lineHeight := dc.FontHeight() * 1.5
	for i, poly := range polygons {
		dc.SetColor(palette[i%len(palette)])
		y := opts.Margin/2 + float64(i+1)*lineHeight
		dc.DrawStringAnchored(Legend(poly), float64(opts.Width)-opts.Margin/2, y, 1, 0)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// fit maps data coordinates into the canvas keeping the aspect ratio, with
// Y pointing up and margin pixels on every side. A degenerate extent (all
// points on one line or one spot) is centered.
func fit(b orb.Bound, width, height, margin float64) func(x, y float64) (float64, float64) {
	spanX := b.Right() - b.Left()
	spanY := b.Top() - b.Bottom()
	innerW := math.Max(width-2*margin, 1)
	innerH := math.Max(height-2*margin, 1)

	scale := 1.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(innerW/spanX, innerH/spanY)
	case spanX > 0:
		scale = innerW / spanX
	case spanY > 0:
		scale = innerH / spanY
	}

	offsetX := margin + (innerW-spanX*scale)/2
	offsetY := margin + (innerH-spanY*scale)/2
	return func(x, y float64) (float64, float64) {
		px := offsetX + (x-b.Left())*scale
		py := height - (offsetY + (y-b.Bottom())*scale)
		return px, py
	}
}
