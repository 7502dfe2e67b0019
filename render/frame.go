// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/markup"
)

// Selection highlight styling. The outline sits 2 pixels outside the
// object's bounding box so thin objects stay readable underneath.
const (
	highlightOutset = 2
	highlightWidth  = 1
)

var highlightColor = markup.Cyan

// Overlay carries the edit session's uncommitted view state: the object
// being drawn right now, the current selection, and live preview values
// for objects mid-move or mid-resize. A nil Overlay renders the committed
// document alone.
type Overlay struct {
	// Provisional is the in-progress object, rendered topmost.
	// Nil when no draw gesture is active.
	Provisional *markup.Object
	// Selection lists the selected object ids; each gets a highlight
	// outline appended after its own primitives.
	Selection []markup.ObjectID
	// Preview maps object ids to replacement values, substituted during
	// Moving and Resizing so the document stays untouched until commit.
	Preview map[markup.ObjectID]markup.Object
}

func (o *Overlay) selected(id markup.ObjectID) bool {
	if o == nil {
		return false
	}
	for _, s := range o.Selection {
		if s == id {
			return true
		}
	}
	return false
}

func (o *Overlay) object(committed markup.Object) markup.Object {
	if o == nil {
		return committed
	}
	if p, ok := o.Preview[committed.ID]; ok {
		return p
	}
	return committed
}

// Frame produces the draw primitives for the current state: layers bottom
// to top, hidden layers skipped, objects in insertion order within each
// layer, selected objects followed by their highlight outline, and the
// provisional object last so it always draws topmost. Locked layers
// render normally; locking protects content, it does not hide it.
func Frame(doc *markup.Document, overlay *Overlay) []Primitive {
	var prims []Primitive
	for _, layer := range doc.Layers() {
		if !layer.Visible {
			continue
		}
		objects, err := doc.ObjectsOn(layer.ID)
		if err != nil {
			continue
		}
		for _, committed := range objects {
			o := overlay.object(committed)
			prims = appendObject(prims, o)
			if overlay.selected(committed.ID) {
				prims = append(prims, highlight(o))
			}
		}
	}
	if overlay != nil && overlay.Provisional != nil {
		prims = appendObject(prims, *overlay.Provisional)
	}
	return prims
}

// ObjectPrimitives tessellates a single object outside any document
// traversal. Bake uses it to rasterize exactly the filtered objects.
func ObjectPrimitives(o markup.Object) []Primitive {
	return appendObject(nil, o)
}

// appendObject tessellates one object into primitives.
func appendObject(prims []Primitive, o markup.Object) []Primitive {
	switch o.Kind {
	case markup.KindStroke:
		prims = append(prims, Polyline{
			Points: o.Outline(),
			Width:  o.ScaledWidth(),
			Color:  o.Style.Color,
		})

	case markup.KindRectangle, markup.KindEllipse:
		pts := o.Outline()
		if o.Style.Fill {
			prims = append(prims, FilledPolygon{Points: pts, Color: o.Style.Color})
		} else {
			prims = append(prims, OutlinedPolygon{
				Points: pts,
				Width:  o.ScaledWidth(),
				Color:  o.Style.Color,
			})
		}

	case markup.KindArrow:
		shaft := o.Outline()
		prims = append(prims, Polyline{
			Points: shaft,
			Width:  o.ScaledWidth(),
			Color:  o.Style.Color,
		})
		if tri, ok := markup.ArrowHead(shaft[0], shaft[1], o.ScaledWidth()); ok {
			prims = append(prims, FilledPolygon{Points: tri[:], Color: o.Style.Color})
		}

	case markup.KindText:
		prims = appendText(prims, o)
	}
	return prims
}

// appendText emits background box, shadow run, and main run in paint
// order. Decor geometry derives from the font size: the background pads
// the glyph box by a fifth of the size (half again below the baseline for
// descenders), the shadow offsets by a twentieth.
func appendText(prims []Primitive, o markup.Object) []Primitive {
	m := o.Transform.Matrix()
	size := o.ScaledWidth()
	dir := runDirection(o.Text)

	if o.Style.ShowBackground {
		box := o.TextBox()
		pad := o.Style.Width * 0.2
		bg := markup.Rect{
			MinX: box.MinX - pad,
			MinY: box.MinY - pad,
			MaxX: box.MaxX + pad,
			MaxY: box.MaxY + pad*1.5,
		}
		corners := bg.Corners()
		for i, c := range corners {
			corners[i] = m.Apply(c)
		}
		prims = append(prims, FilledPolygon{Points: corners, Color: o.Style.Background})
	}

	origin := m.Apply(o.Points[0])
	if o.Style.ShowShadow {
		off := size * 0.05
		prims = append(prims, GlyphRun{
			Origin:    origin.Add(markup.Point{X: off, Y: off}),
			Text:      o.Text,
			Size:      size,
			Color:     o.Style.Shadow,
			Direction: dir,
		})
	}
	return append(prims, GlyphRun{
		Origin:    origin,
		Text:      o.Text,
		Size:      size,
		Color:     o.Style.Color,
		Direction: dir,
	})
}

// highlight builds the selection outline for an object.
func highlight(o markup.Object) Primitive {
	return OutlinedPolygon{
		Points: o.Bounds().Outset(highlightOutset).Corners(),
		Width:  highlightWidth,
		Color:  highlightColor,
	}
}

// runDirection resolves the paragraph direction of a text run. The first
// bidi run decides; neutral-only text stays left-to-right.
func runDirection(text string) Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return DirectionLTR
	}
	run := ordering.Run(0)
	if run.Direction() == bidi.RightToLeft {
		return DirectionRTL
	}
	return DirectionLTR
}
