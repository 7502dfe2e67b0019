// Package markup provides a non-destructive 2D annotation engine for raster
// images.
//
// # Overview
//
// markup keeps freehand strokes, shapes, arrows, and text as independently
// editable objects layered above a base image. Objects live in a Document
// (layers plus an id-indexed object arena), are edited through the session
// tool state machine, and can be rasterized ("baked") into pixels on demand.
// Until baked, every annotation stays editable, movable, and erasable.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/markup"
//	    "github.com/gogpu/markup/render"
//	    "github.com/gogpu/markup/session"
//	)
//
//	s := session.New(session.WithCanvasSize(1280, 720))
//
//	s.SetTool(session.ToolDraw)
//	s.PointerDown(markup.Pt(10, 10))
//	s.PointerMove(markup.Pt(40, 25))
//	s.PointerUp(markup.Pt(80, 30))
//
//	prims := render.Frame(s.Document(), s.Overlay())
//
// # Architecture
//
// The engine is organized into:
//   - Root package: Point, Rect, Matrix, RGBA, Object, Layer, Document,
//     the geometry kernel, and the structural JSON codec
//   - history: command-pattern undo/redo bridge (every mutation is atomic
//     and invertible)
//   - session: tool state machine, eraser engine, bake/flatten orchestration
//   - render: read-only translation of a Document into draw primitives
//   - raster: software surface plus the pixel operations behind bake,
//     flatten, crop, and pixelate
//   - emoji: emoji code point detection for the sticker tool
//   - record: frame capture and animated GIF encoding of a session
//
// # Coordinate System
//
// Coordinates are image-space pixels:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
//
// # Rendering
//
// The engine never talks to a graphics API. render.Frame produces an ordered
// primitive list (polylines, polygons, glyph runs) that any host renderer can
// consume; raster provides a CPU reference implementation used for baking.
package markup

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
