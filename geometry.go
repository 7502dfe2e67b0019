package markup

import "math"

// ellipseSegments is the tessellation density for ellipse outlines.
// 32 segments keeps the outline smooth at annotation sizes while staying
// cheap to hit-test and rasterize.
const ellipseSegments = 32

// minArrowShaft is the shortest shaft length that still gets a head.
const minArrowShaft = 0.1

// --------------------------------------------------------------------------
// Bounds
// --------------------------------------------------------------------------

// Bounds returns the axis-aligned bounding box of the object's geometry
// after its transform is applied. The box is tight around control points
// and glyph boxes; it does not include stroke width. Use PaintedBounds
// for the pixel extent.
func (o Object) Bounds() Rect {
	m := o.Transform.Matrix()
	box := EmptyRect()
	if o.Kind == KindText {
		for _, c := range o.TextBox().Corners() {
			box = box.UnionPoint(m.Apply(c))
		}
		return box
	}
	for _, p := range o.Points {
		box = box.UnionPoint(m.Apply(p))
	}
	return box
}

// PaintedBounds returns the bounding box grown to cover everything the
// object paints: stroke width, arrow heads, text background and shadow.
func (o Object) PaintedBounds() Rect {
	w := o.ScaledWidth()
	switch o.Kind {
	case KindText:
		// Background pad and shadow offset both derive from the size.
		return o.Bounds().Outset(w * 0.3)
	case KindArrow:
		// The head fans out three widths from the tip.
		return o.Bounds().Outset(w * 3)
	default:
		return o.Bounds().Outset(w / 2)
	}
}

// TextBox returns the untransformed glyph box of a Text object: anchored
// at the baseline start, extending one font size up and an estimated
// advance right. Callers apply the object transform to its corners.
func (o Object) TextBox() Rect {
	if o.Kind != KindText || len(o.Points) == 0 {
		return EmptyRect()
	}
	anchor := o.Points[0]
	size := o.Style.Width
	width := float64(len([]rune(o.Text))) * size * 0.6
	return Rect{
		MinX: anchor.X,
		MinY: anchor.Y - size,
		MaxX: anchor.X + width,
		MaxY: anchor.Y,
	}
}

// --------------------------------------------------------------------------
// Hit testing
// --------------------------------------------------------------------------

// Hit reports whether p touches the object. The point is mapped into the
// object's local space, so hit results stay exact under scale and
// rotation. Strokes and outlines count a touch within tolerance plus half
// the stroke width; filled shapes test containment; Text tests the glyph
// box.
func (o Object) Hit(p Point, tolerance float64) bool {
	scale := o.Transform.Scale
	if scale <= 0 {
		return false
	}
	q := o.Transform.Matrix().Invert().Apply(p)
	// Tolerance and width are image-space quantities; in local space both
	// shrink by the transform scale.
	band := tolerance/scale + o.Style.Width/2

	switch o.Kind {
	case KindStroke:
		return polylineWithin(o.Points, q, band)
	case KindRectangle:
		box := RectFromPoints(o.Points[0], o.Points[1])
		if o.Style.Fill {
			return box.Outset(tolerance / scale).Contains(q)
		}
		return polylineWithin(box.Corners(), q, band)
	case KindEllipse:
		box := RectFromPoints(o.Points[0], o.Points[1])
		if o.Style.Fill {
			return insideEllipse(box, q, tolerance/scale)
		}
		return polylineWithin(ellipsePath(box), q, band)
	case KindArrow:
		if polylineWithin(o.Points[:2], q, band) {
			return true
		}
		if head, ok := ArrowHead(o.Points[0], o.Points[1], o.Style.Width); ok {
			return insideTriangle(head, q)
		}
		return false
	case KindText:
		return o.TextBox().Contains(q)
	}
	return false
}

// TopmostHit scans the document for the object under p, from the top
// layer down, skipping hidden and locked layers. Within a layer the most
// recently inserted object wins, so the annotation drawn last is the one
// picked up.
func TopmostHit(doc *Document, p Point, tolerance float64) ObjectID {
	for i := len(doc.layers) - 1; i >= 0; i-- {
		l := doc.layers[i]
		if !l.Visible || l.Locked {
			continue
		}
		for j := len(l.Objects) - 1; j >= 0; j-- {
			o, ok := doc.objects[l.Objects[j]]
			if !ok {
				continue
			}
			if o.Hit(p, tolerance) {
				return o.ID
			}
		}
	}
	return NoObject
}

// --------------------------------------------------------------------------
// Polyline splitting
// --------------------------------------------------------------------------

// SplitPolyline removes every sample within radius of cut and returns the
// surviving contiguous runs. Runs shorter than two points are discarded:
// they cannot form a visible stroke segment. The result may be empty when
// the cut swallows the whole polyline.
func SplitPolyline(points []Point, cut Point, radius float64) [][]Point {
	var (
		runs [][]Point
		run  []Point
	)
	flush := func() {
		if len(run) >= 2 {
			runs = append(runs, run)
		}
		run = nil
	}
	for _, p := range points {
		if p.Distance(cut) < radius {
			flush()
			continue
		}
		run = append(run, p)
	}
	flush()
	return runs
}

// --------------------------------------------------------------------------
// Tessellation
// --------------------------------------------------------------------------

// Outline returns the object's outline as a transformed point sequence:
// the closed corner loop for rectangles, the closed segment fan for
// ellipses, the shaft for arrows, and the sampled polyline for strokes.
// Text has no outline and returns nil.
func (o Object) Outline() []Point {
	var pts []Point
	switch o.Kind {
	case KindStroke:
		pts = o.Points
	case KindRectangle:
		pts = RectFromPoints(o.Points[0], o.Points[1]).Corners()
	case KindEllipse:
		pts = ellipsePath(RectFromPoints(o.Points[0], o.Points[1]))
	case KindArrow:
		pts = o.Points[:2]
	default:
		return nil
	}
	return o.Transform.ApplyAll(pts)
}

// ArrowHead returns the filled head triangle for an arrow from tail to
// tip, sized from the stroke width. The head reaches three widths back
// from the tip and flares half that distance to each side. ok is false
// when the shaft is too short to orient a head.
func ArrowHead(tail, tip Point, width float64) ([3]Point, bool) {
	shaft := tip.Sub(tail)
	length := shaft.Length()
	if length < minArrowShaft {
		return [3]Point{}, false
	}
	dir := shaft.Mul(1 / length)
	head := width * 3
	base := tip.Sub(dir.Mul(head))
	side := dir.Perp().Mul(head * 0.5)
	return [3]Point{tip, base.Add(side), base.Sub(side)}, true
}

// ellipsePath samples the ellipse inscribed in box as a closed polyline.
func ellipsePath(box Rect) []Point {
	c := box.Center()
	rx := box.Width() / 2
	ry := box.Height() / 2
	pts := make([]Point, 0, ellipseSegments+1)
	for i := 0; i < ellipseSegments; i++ {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		pts = append(pts, Point{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)})
	}
	return append(pts, pts[0])
}

// --------------------------------------------------------------------------
// Distance helpers
// --------------------------------------------------------------------------

// polylineWithin reports whether q lies within band of any segment of the
// polyline. A single point degenerates to a point-distance test.
func polylineWithin(points []Point, q Point, band float64) bool {
	if len(points) == 1 {
		return q.Distance(points[0]) <= band
	}
	for i := 0; i+1 < len(points); i++ {
		if distToSegment(q, points[i], points[i+1]) <= band {
			return true
		}
	}
	return false
}

// distToSegment returns the distance from p to the segment ab.
func distToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.Mul(t)))
}

// insideEllipse tests normalized radial containment, with the box grown
// by pad first.
func insideEllipse(box Rect, q Point, pad float64) bool {
	box = box.Outset(pad)
	rx := box.Width() / 2
	ry := box.Height() / 2
	if rx <= 0 || ry <= 0 {
		return false
	}
	c := box.Center()
	dx := (q.X - c.X) / rx
	dy := (q.Y - c.Y) / ry
	return dx*dx+dy*dy <= 1
}

// insideTriangle tests containment via edge cross products. Points on an
// edge count as inside.
func insideTriangle(t [3]Point, q Point) bool {
	d0 := t[1].Sub(t[0]).Cross(q.Sub(t[0]))
	d1 := t[2].Sub(t[1]).Cross(q.Sub(t[1]))
	d2 := t[0].Sub(t[2]).Cross(q.Sub(t[2]))
	hasNeg := d0 < 0 || d1 < 0 || d2 < 0
	hasPos := d0 > 0 || d1 > 0 || d2 > 0
	return !(hasNeg && hasPos)
}
