// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"

	"github.com/gogpu/markup"
)

// FillRule selects how overlapping contours resolve to filled area.
type FillRule uint8

const (
	// FillNonZero fills where the winding number is non-zero.
	FillNonZero FillRule = iota
	// FillEvenOdd fills between alternating edge crossings.
	FillEvenOdd
)

// jointSegments is the vertex count of the disc welded onto polyline
// joints and caps.
const jointSegments = 8

// edge is one non-horizontal segment prepared for scanline walking,
// normalized so y0 < y1 with the original direction kept for winding.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
	dir    int
}

func newEdge(p0, p1 markup.Point) edge {
	dir := 1
	if p0.Y > p1.Y {
		dir = -1
		p0, p1 = p1, p0
	}
	dy := p1.Y - p0.Y
	var dxdy float64
	if dy != 0 {
		dxdy = (p1.X - p0.X) / dy
	}
	return edge{x0: p0.X, y0: p0.Y, x1: p1.X, y1: p1.Y, dxdy: dxdy, dir: dir}
}

// xAt returns the edge's x coordinate at scanline y.
func (e edge) xAt(y float64) float64 {
	if e.y1 == e.y0 {
		return e.x0
	}
	t := (y - e.y0) / (e.y1 - e.y0)
	return e.x0 + (e.x1-e.x0)*t
}

// crossing is an active edge intersection on the current scanline.
type crossing struct {
	x   float64
	dir int
}

// FillPolygon rasterizes a closed polygon onto the surface, blending the
// color into covered pixels. The contour closes implicitly when the last
// point differs from the first. Fewer than three points cover nothing.
func FillPolygon(dst *Surface, points []markup.Point, rule FillRule, c markup.RGBA) {
	if len(points) < 3 {
		return
	}
	edges := make([]edge, 0, len(points))
	edges = appendContour(edges, points)
	fillEdges(dst, edges, rule, c)
}

// StrokePolyline rasterizes a polyline with the given width, blending
// the color once per covered pixel no matter how many segments overlap
// it. Joints and ends get small discs, giving round caps and joins.
// Widths below one pixel draw as one pixel.
func StrokePolyline(dst *Surface, points []markup.Point, width float64, c markup.RGBA) {
	if len(points) == 0 {
		return
	}
	if width < 1 {
		width = 1
	}
	half := width / 2

	// All segment quads and joint discs share one edge list; the single
	// non-zero fill pass keeps translucent ink from doubling up where
	// they overlap.
	edges := make([]edge, 0, len(points)*(jointSegments+4))
	for i := 0; i+1 < len(points); i++ {
		edges = appendSegmentQuad(edges, points[i], points[i+1], half)
	}
	for _, p := range points {
		edges = appendDisc(edges, p, half)
	}
	fillEdges(dst, edges, FillNonZero, c)
}

// appendContour adds the polygon outline as edges, skipping horizontal
// segments that contribute no crossings.
func appendContour(edges []edge, points []markup.Point) []edge {
	n := len(points)
	for i := 0; i < n; i++ {
		p0 := points[i]
		p1 := points[(i+1)%n]
		if math.Abs(p1.Y-p0.Y) < 1e-9 {
			continue
		}
		edges = append(edges, newEdge(p0, p1))
	}
	return edges
}

// appendSegmentQuad adds the rectangle covering one stroked segment. The
// corner order is rotation-invariant, so every quad winds the same way
// and overlapping quads reinforce instead of cancel.
func appendSegmentQuad(edges []edge, p0, p1 markup.Point, half float64) []edge {
	d := p1.Sub(p0)
	length := d.Length()
	if length < 1e-9 {
		return edges
	}
	n := d.Perp().Mul(half / length)
	quad := []markup.Point{p0.Add(n), p0.Sub(n), p1.Sub(n), p1.Add(n)}
	return appendContour(edges, quad)
}

// appendDisc adds a small polygonal disc wound like the segment quads.
func appendDisc(edges []edge, center markup.Point, radius float64) []edge {
	var pts [jointSegments]markup.Point
	for i := 0; i < jointSegments; i++ {
		a := 2 * math.Pi * float64(i) / jointSegments
		pts[i] = markup.Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		}
	}
	return appendContour(edges, pts[:])
}

// fillEdges walks scanlines through the edge list and blends the spans
// selected by the fill rule.
func fillEdges(dst *Surface, edges []edge, rule FillRule, c markup.RGBA) {
	if len(edges) == 0 || c.A <= 0 {
		return
	}

	yMin := math.MaxFloat64
	yMax := -math.MaxFloat64
	for _, e := range edges {
		yMin = math.Min(yMin, e.y0)
		yMax = math.Max(yMax, e.y1)
	}
	top := int(math.Floor(yMin))
	bottom := int(math.Ceil(yMax))
	if top < 0 {
		top = 0
	}
	if bottom > dst.Height() {
		bottom = dst.Height()
	}

	active := make([]crossing, 0, 16)
	for y := top; y < bottom; y++ {
		scanY := float64(y) + 0.5

		active = active[:0]
		for _, e := range edges {
			if e.y0 <= scanY && scanY < e.y1 {
				active = append(active, crossing{x: e.xAt(scanY), dir: e.dir})
			}
		}
		if len(active) == 0 {
			continue
		}
		sortCrossings(active)

		if rule == FillNonZero {
			winding := 0
			var spanStart float64
			for _, cr := range active {
				if winding == 0 {
					spanStart = cr.x
				}
				winding += cr.dir
				if winding == 0 {
					dst.FillSpan(int(spanStart), int(cr.x), y, c)
				}
			}
		} else {
			for i := 0; i+1 < len(active); i += 2 {
				dst.FillSpan(int(active[i].x), int(active[i+1].x), y, c)
			}
		}
	}
}

// sortCrossings orders crossings by x. Insertion sort; scanlines rarely
// carry more than a handful of crossings.
func sortCrossings(cs []crossing) {
	for i := 1; i < len(cs); i++ {
		key := cs[i]
		j := i - 1
		for j >= 0 && cs[j].x > key.x {
			cs[j+1] = cs[j]
			j--
		}
		cs[j+1] = key
	}
}
