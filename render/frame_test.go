// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/markup"
)

func addStroke(t *testing.T, doc *markup.Document, layer markup.LayerID, points ...markup.Point) markup.ObjectID {
	t.Helper()
	o, err := markup.NewStroke(points, markup.DefaultStyle())
	if err != nil {
		t.Fatalf("NewStroke() error = %v", err)
	}
	id, err := doc.AddObject(layer, o)
	if err != nil {
		t.Fatalf("AddObject() error = %v", err)
	}
	return id
}

func addFilledRect(t *testing.T, doc *markup.Document, layer markup.LayerID, a, b markup.Point) markup.ObjectID {
	t.Helper()
	style := markup.DefaultStyle()
	style.Fill = true
	id, err := doc.AddObject(layer, markup.NewRectangle(a, b, style))
	if err != nil {
		t.Fatalf("AddObject() error = %v", err)
	}
	return id
}

func kinds(prims []Primitive) []Kind {
	out := make([]Kind, len(prims))
	for i, p := range prims {
		out[i] = p.Kind()
	}
	return out
}

func TestFrameZOrder(t *testing.T) {
	doc := markup.NewDocument()
	bottom := doc.CreateLayer("bottom")
	top := doc.CreateLayer("top")
	addStroke(t, doc, bottom, markup.Point{X: 0, Y: 0}, markup.Point{X: 10, Y: 0})
	addFilledRect(t, doc, top, markup.Point{X: 0, Y: 0}, markup.Point{X: 5, Y: 5})

	got := kinds(Frame(doc, nil))
	want := []Kind{KindPolyline, KindFilledPolygon}
	if len(got) != len(want) {
		t.Fatalf("Frame() produced %d primitives, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("primitive %d = %v, want %v", i, got[i], want[i])
		}
	}

	// Swapping the layers must swap exactly the primitive order.
	if err := doc.ReorderLayer(top, 0); err != nil {
		t.Fatalf("ReorderLayer() error = %v", err)
	}
	got = kinds(Frame(doc, nil))
	want = []Kind{KindFilledPolygon, KindPolyline}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("after reorder, primitive %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFrameIsDeterministic(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	addStroke(t, doc, layer, markup.Point{X: 0, Y: 0}, markup.Point{X: 1, Y: 1})
	addFilledRect(t, doc, layer, markup.Point{X: 2, Y: 2}, markup.Point{X: 4, Y: 4})

	a := Frame(doc, nil)
	b := Frame(doc, nil)
	if len(a) != len(b) {
		t.Fatalf("two frames differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind() != b[i].Kind() {
			t.Errorf("primitive %d kind %v vs %v", i, a[i].Kind(), b[i].Kind())
		}
	}
}

func TestFrameSkipsHiddenLayers(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	addStroke(t, doc, layer, markup.Point{X: 0, Y: 0}, markup.Point{X: 1, Y: 1})
	if err := doc.SetLayerVisible(layer, false); err != nil {
		t.Fatalf("SetLayerVisible() error = %v", err)
	}

	if got := Frame(doc, nil); len(got) != 0 {
		t.Errorf("Frame() produced %d primitives from a hidden layer, want 0", len(got))
	}
}

func TestFrameRendersLockedLayers(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	addStroke(t, doc, layer, markup.Point{X: 0, Y: 0}, markup.Point{X: 1, Y: 1})
	if err := doc.SetLayerLocked(layer, true); err != nil {
		t.Fatalf("SetLayerLocked() error = %v", err)
	}

	if got := Frame(doc, nil); len(got) != 1 {
		t.Errorf("Frame() produced %d primitives from a locked layer, want 1", len(got))
	}
}

func TestFrameProvisionalRendersLast(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	addFilledRect(t, doc, layer, markup.Point{X: 0, Y: 0}, markup.Point{X: 5, Y: 5})

	prov, err := markup.NewStroke([]markup.Point{{X: 7, Y: 7}, {X: 9, Y: 9}}, markup.DefaultStyle())
	if err != nil {
		t.Fatalf("NewStroke() error = %v", err)
	}
	prims := Frame(doc, &Overlay{Provisional: &prov})
	if len(prims) != 2 {
		t.Fatalf("Frame() produced %d primitives, want 2", len(prims))
	}
	last, ok := prims[len(prims)-1].(Polyline)
	if !ok {
		t.Fatalf("last primitive is %T, want the provisional Polyline", prims[len(prims)-1])
	}
	if last.Points[0] != (markup.Point{X: 7, Y: 7}) {
		t.Errorf("provisional points = %v, want the in-progress stroke", last.Points)
	}
}

func TestFrameSelectionHighlight(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	id := addFilledRect(t, doc, layer, markup.Point{X: 0, Y: 0}, markup.Point{X: 10, Y: 10})
	addStroke(t, doc, layer, markup.Point{X: 20, Y: 20}, markup.Point{X: 30, Y: 20})

	prims := Frame(doc, &Overlay{Selection: []markup.ObjectID{id}})
	// Rect fill, its highlight, then the unselected stroke.
	if len(prims) != 3 {
		t.Fatalf("Frame() produced %d primitives, want 3", len(prims))
	}
	hl, ok := prims[1].(OutlinedPolygon)
	if !ok {
		t.Fatalf("primitive 1 is %T, want the highlight OutlinedPolygon", prims[1])
	}
	if hl.Color != markup.Cyan {
		t.Errorf("highlight color = %+v, want cyan", hl.Color)
	}
	if hl.Width != 1 {
		t.Errorf("highlight width = %v, want 1", hl.Width)
	}
	// Outline sits 2 px outside the 10x10 rect.
	if hl.Points[0] != (markup.Point{X: -2, Y: -2}) {
		t.Errorf("highlight corner = %v, want (-2,-2)", hl.Points[0])
	}
}

func TestFramePreviewSubstitutes(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	id := addStroke(t, doc, layer, markup.Point{X: 0, Y: 0}, markup.Point{X: 10, Y: 0})

	committed, _ := doc.Object(id)
	preview := committed.Translate(markup.Point{X: 100, Y: 100})

	prims := Frame(doc, &Overlay{Preview: map[markup.ObjectID]markup.Object{id: preview}})
	line, ok := prims[0].(Polyline)
	if !ok {
		t.Fatalf("primitive 0 is %T, want Polyline", prims[0])
	}
	if line.Points[0] != (markup.Point{X: 100, Y: 100}) {
		t.Errorf("preview points = %v, want translated", line.Points)
	}

	// The committed document must stay untouched.
	after, _ := doc.Object(id)
	if after.Points[0] != (markup.Point{X: 0, Y: 0}) {
		t.Errorf("committed object moved to %v; Frame must not mutate", after.Points[0])
	}
}

func TestFrameArrow(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	if _, err := doc.AddObject(layer, markup.NewArrow(markup.Point{X: 0, Y: 0}, markup.Point{X: 50, Y: 0}, markup.DefaultStyle())); err != nil {
		t.Fatalf("AddObject() error = %v", err)
	}

	prims := Frame(doc, nil)
	got := kinds(prims)
	want := []Kind{KindPolyline, KindFilledPolygon}
	if len(got) != len(want) {
		t.Fatalf("arrow produced %v, want shaft and head", got)
	}
	head := prims[1].(FilledPolygon)
	if len(head.Points) != 3 {
		t.Errorf("head has %d points, want 3", len(head.Points))
	}
	if head.Points[0] != (markup.Point{X: 50, Y: 0}) {
		t.Errorf("head tip = %v, want the arrow tip", head.Points[0])
	}
}

func TestFrameShortArrowHasNoHead(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	if _, err := doc.AddObject(layer, markup.NewArrow(markup.Point{X: 0, Y: 0}, markup.Point{X: 0.05, Y: 0}, markup.DefaultStyle())); err != nil {
		t.Fatalf("AddObject() error = %v", err)
	}

	if got := kinds(Frame(doc, nil)); len(got) != 1 || got[0] != KindPolyline {
		t.Errorf("short arrow produced %v, want a bare shaft polyline", got)
	}
}

func TestFrameEllipseOutline(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	if _, err := doc.AddObject(layer, markup.NewEllipse(markup.Point{X: 0, Y: 0}, markup.Point{X: 20, Y: 10}, markup.DefaultStyle())); err != nil {
		t.Fatalf("AddObject() error = %v", err)
	}

	prims := Frame(doc, nil)
	outline, ok := prims[0].(OutlinedPolygon)
	if !ok {
		t.Fatalf("primitive 0 is %T, want OutlinedPolygon", prims[0])
	}
	if len(outline.Points) != 33 {
		t.Errorf("ellipse outline has %d points, want 33", len(outline.Points))
	}
}

func TestFrameTextDecor(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")

	style := markup.TextStyle()
	style.ShowBackground = true
	style.ShowShadow = true
	text, err := markup.NewText(markup.Point{X: 100, Y: 100}, "note", style)
	if err != nil {
		t.Fatalf("NewText() error = %v", err)
	}
	if _, err := doc.AddObject(layer, text); err != nil {
		t.Fatalf("AddObject() error = %v", err)
	}

	prims := Frame(doc, nil)
	got := kinds(prims)
	want := []Kind{KindFilledPolygon, KindGlyphRun, KindGlyphRun}
	if len(got) != len(want) {
		t.Fatalf("decorated text produced %v, want background, shadow, main", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("primitive %d = %v, want %v", i, got[i], want[i])
		}
	}

	shadow := prims[1].(GlyphRun)
	main := prims[2].(GlyphRun)
	if main.Origin != (markup.Point{X: 100, Y: 100}) {
		t.Errorf("main origin = %v, want the anchor", main.Origin)
	}
	// Shadow offsets by a twentieth of the size on both axes.
	off := main.Size * 0.05
	wantShadow := markup.Point{X: 100 + off, Y: 100 + off}
	if shadow.Origin != wantShadow {
		t.Errorf("shadow origin = %v, want %v", shadow.Origin, wantShadow)
	}
	if main.Size != 24 {
		t.Errorf("run size = %v, want the style width 24", main.Size)
	}
	if shadow.Color != style.Shadow || main.Color != style.Color {
		t.Errorf("run colors = %+v / %+v, want shadow / main styles", shadow.Color, main.Color)
	}
}

func TestFramePlainText(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	text, err := markup.NewText(markup.Point{X: 0, Y: 0}, "plain", markup.TextStyle())
	if err != nil {
		t.Fatalf("NewText() error = %v", err)
	}
	if _, err := doc.AddObject(layer, text); err != nil {
		t.Fatalf("AddObject() error = %v", err)
	}

	if got := kinds(Frame(doc, nil)); len(got) != 1 || got[0] != KindGlyphRun {
		t.Errorf("plain text produced %v, want a single glyph run", got)
	}
}

func TestFrameScaledTextSize(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("notes")
	text, err := markup.NewText(markup.Point{X: 0, Y: 0}, "big", markup.TextStyle())
	if err != nil {
		t.Fatalf("NewText() error = %v", err)
	}
	text, err = text.ScaleBy(2, text.Transform.Anchor)
	if err != nil {
		t.Fatalf("ScaleBy() error = %v", err)
	}
	if _, err := doc.AddObject(layer, text); err != nil {
		t.Fatalf("AddObject() error = %v", err)
	}

	run := Frame(doc, nil)[0].(GlyphRun)
	if run.Size != 48 {
		t.Errorf("run size = %v, want 48 after doubling", run.Size)
	}
}

func TestRunDirection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Direction
	}{
		{"latin", "hello", DirectionLTR},
		{"hebrew", "שלום", DirectionRTL},
		{"arabic", "مرحبا", DirectionRTL},
		{"digits only", "12345", DirectionLTR},
		{"empty", "", DirectionLTR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runDirection(tt.text); got != tt.want {
				t.Errorf("runDirection(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
