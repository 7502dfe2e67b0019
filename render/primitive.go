// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render translates a document into an ordered sequence of draw
// primitives for a host renderer.
//
// Frame is a pure function of the document plus the edit session's
// overlay state (provisional object, selection, live previews): it never
// mutates either. The primitive sequence is deterministic; the same
// inputs produce the same primitives in the same order.
//
// Primitives are deliberately minimal: polylines, filled and outlined
// polygons, and positioned glyph runs. A host can feed them to any
// graphics API that can draw those four things. Hosts that rasterize
// text themselves can pass glyph runs through Shaper for positioned
// glyphs with full shaping (kerning, ligatures, bidi).
package render

import "github.com/gogpu/markup"

// Kind identifies the type of a draw primitive.
type Kind uint8

const (
	// KindPolyline is an open stroked path.
	KindPolyline Kind = iota
	// KindFilledPolygon is a closed filled path.
	KindFilledPolygon
	// KindOutlinedPolygon is a closed stroked path.
	KindOutlinedPolygon
	// KindGlyphRun is positioned text.
	KindGlyphRun
)

// kindNames maps Kind values to their string representation.
var kindNames = [...]string{
	KindPolyline:        "Polyline",
	KindFilledPolygon:   "FilledPolygon",
	KindOutlinedPolygon: "OutlinedPolygon",
	KindGlyphRun:        "GlyphRun",
}

// String returns the string representation of a Kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Primitive is the interface implemented by all draw primitives.
type Primitive interface {
	// Kind returns the Kind for this primitive.
	Kind() Kind
}

// Polyline strokes an open path through the given points.
type Polyline struct {
	// Points is the path in image coordinates, already transformed.
	Points []markup.Point
	// Width is the stroke width in pixels.
	Width float64
	// Color is non-premultiplied RGBA.
	Color markup.RGBA
}

// Kind implements Primitive.
func (Polyline) Kind() Kind { return KindPolyline }

// FilledPolygon fills a closed path.
type FilledPolygon struct {
	// Points is the closed path; the last point may repeat the first.
	Points []markup.Point
	// Color is non-premultiplied RGBA.
	Color markup.RGBA
}

// Kind implements Primitive.
func (FilledPolygon) Kind() Kind { return KindFilledPolygon }

// OutlinedPolygon strokes a closed path.
type OutlinedPolygon struct {
	// Points is the closed path; the last point may repeat the first.
	Points []markup.Point
	// Width is the stroke width in pixels.
	Width float64
	// Color is non-premultiplied RGBA.
	Color markup.RGBA
}

// Kind implements Primitive.
func (OutlinedPolygon) Kind() Kind { return KindOutlinedPolygon }

// Direction is the resolved paragraph direction of a glyph run.
type Direction uint8

const (
	// DirectionLTR is left-to-right text.
	DirectionLTR Direction = iota
	// DirectionRTL is right-to-left text.
	DirectionRTL
)

// GlyphRun positions a run of text at a baseline origin.
type GlyphRun struct {
	// Origin is the baseline start in image coordinates.
	Origin markup.Point
	// Text is the run content; may embed emoji code points.
	Text string
	// Size is the font size in pixels after the object transform.
	Size float64
	// Color is non-premultiplied RGBA.
	Color markup.RGBA
	// Direction is the resolved paragraph direction.
	Direction Direction
}

// Kind implements Primitive.
func (GlyphRun) Kind() Kind { return KindGlyphRun }
