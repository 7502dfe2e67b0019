package markup

import "fmt"

// ObjectID identifies an annotation object within a Document.
// Ids are assigned once at insertion and never reused, so a stale id can
// never silently resolve to a different object.
type ObjectID uint64

// NoObject is the zero ObjectID. Objects carry it until a Document
// assigns them a real id.
const NoObject ObjectID = 0

// Kind identifies the variant of an annotation object.
// The kind determines which geometry and style fields are meaningful.
type Kind uint8

const (
	// KindStroke is a freehand polyline sampled from pointer input.
	KindStroke Kind = iota
	// KindRectangle is an axis-aligned rectangle between two corners.
	KindRectangle
	// KindEllipse is an ellipse inscribed in the two-corner box.
	KindEllipse
	// KindArrow is a line from tail to tip with a filled head at the tip.
	KindArrow
	// KindText is a text run anchored at its baseline start.
	KindText
)

// kindNames maps Kind values to their string representation.
var kindNames = [...]string{
	KindStroke:    "Stroke",
	KindRectangle: "Rectangle",
	KindEllipse:   "Ellipse",
	KindArrow:     "Arrow",
	KindText:      "Text",
}

// String returns the string representation of a Kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Object is one annotation: a tagged variant over stroke, rectangle,
// ellipse, arrow, and text. Objects are value snapshots; editing produces
// a new value that replaces the old one through the history bridge, never
// an in-place field write visible outside a single command.
type Object struct {
	ID        ObjectID  // document-unique, assigned on insertion
	Kind      Kind      // variant tag
	Points    []Point   // control points, untransformed; see Validate
	Transform Transform // scale/rotation about the anchor
	Style     Style     // color, width, fill, text decor
	Text      string    // Text kind only; may embed emoji code points
	IsEmoji   bool      // Text kind: placed by the emoji tool
	Layer     LayerID   // owning layer (weak back-reference)
}

// NewStroke creates a freehand stroke from sampled points.
// At least one sample is required.
func NewStroke(points []Point, style Style) (Object, error) {
	if len(points) == 0 {
		return Object{}, fmt.Errorf("stroke needs at least 1 point: %w", ErrInvalidGeometry)
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	return Object{
		Kind:      KindStroke,
		Points:    pts,
		Transform: anchoredAt(pts),
		Style:     style,
	}, nil
}

// NewRectangle creates a rectangle between two opposite corners.
func NewRectangle(a, b Point, style Style) Object {
	return twoPointObject(KindRectangle, a, b, style)
}

// NewEllipse creates an ellipse inscribed in the box between two corners.
func NewEllipse(a, b Point, style Style) Object {
	return twoPointObject(KindEllipse, a, b, style)
}

// NewArrow creates an arrow from tail to tip.
func NewArrow(tail, tip Point, style Style) Object {
	return twoPointObject(KindArrow, tail, tip, style)
}

// NewText creates a text object anchored at the baseline start.
// Style.Width acts as the font size.
func NewText(anchor Point, text string, style Style) (Object, error) {
	if text == "" {
		return Object{}, fmt.Errorf("text content is empty: %w", ErrInvalidGeometry)
	}
	return Object{
		Kind:      KindText,
		Points:    []Point{anchor},
		Transform: Transform{Anchor: anchor, Scale: 1},
		Style:     style,
		Text:      text,
	}, nil
}

// twoPointObject builds the shared two-control-point form.
func twoPointObject(kind Kind, a, b Point, style Style) Object {
	pts := []Point{a, b}
	return Object{
		Kind:      kind,
		Points:    pts,
		Transform: anchoredAt(pts),
		Style:     style,
	}
}

// anchoredAt returns an identity transform anchored at the center of the
// control points, so later scaling pivots where the object sits.
func anchoredAt(points []Point) Transform {
	box := EmptyRect()
	for _, p := range points {
		box = box.UnionPoint(p)
	}
	return Transform{Anchor: box.Center(), Scale: 1}
}

// Validate checks the construction invariants for the object's kind.
// It exists for objects assembled outside the typed constructors, such as
// decoded documents. Returns ErrInvalidGeometry on violation.
func (o Object) Validate() error {
	switch o.Kind {
	case KindStroke:
		if len(o.Points) < 1 {
			return fmt.Errorf("stroke with %d points: %w", len(o.Points), ErrInvalidGeometry)
		}
	case KindRectangle, KindEllipse, KindArrow:
		if len(o.Points) != 2 {
			return fmt.Errorf("%s with %d control points: %w", o.Kind, len(o.Points), ErrInvalidGeometry)
		}
	case KindText:
		if len(o.Points) != 1 {
			return fmt.Errorf("text with %d anchor points: %w", len(o.Points), ErrInvalidGeometry)
		}
		if o.Text == "" {
			return fmt.Errorf("text content is empty: %w", ErrInvalidGeometry)
		}
	default:
		return fmt.Errorf("unknown kind %d: %w", o.Kind, ErrInvalidGeometry)
	}
	if o.Transform.Scale <= 0 {
		return fmt.Errorf("scale %v: %w", o.Transform.Scale, ErrInvalidGeometry)
	}
	return nil
}

// Translate returns a copy shifted by delta. The anchor moves with the
// geometry, so scale and rotation keep pivoting on the object.
func (o Object) Translate(delta Point) Object {
	out := o.Clone()
	for i := range out.Points {
		out.Points[i] = out.Points[i].Add(delta)
	}
	out.Transform.Anchor = out.Transform.Anchor.Add(delta)
	return out
}

// ScaleBy returns a copy scaled by factor about the anchor. The factor
// multiplies the transform scale, which also scales the rendered stroke
// width and text size. Interactive resize passes the object's current
// anchor; handing in a different anchor repositions already-scaled
// geometry. A factor <= 0 is rejected with ErrInvalidGeometry.
func (o Object) ScaleBy(factor float64, anchor Point) (Object, error) {
	if factor <= 0 {
		return Object{}, fmt.Errorf("scale factor %v: %w", factor, ErrInvalidGeometry)
	}
	out := o.Clone()
	out.Transform.Anchor = anchor
	out.Transform.Scale *= factor
	return out, nil
}

// WithStyle returns a copy with the style replaced.
func (o Object) WithStyle(style Style) Object {
	out := o.Clone()
	out.Style = style
	return out
}

// WithText returns a copy with the text content replaced.
// Meaningful for Text objects only.
func (o Object) WithText(text string) Object {
	out := o.Clone()
	out.Text = text
	return out
}

// ScaledWidth returns the stroke width (or font size, for Text) after the
// transform scale is applied.
func (o Object) ScaledWidth() float64 {
	return o.Style.Width * o.Transform.Scale
}

// Clone returns a deep copy. Points are the only reference field.
func (o Object) Clone() Object {
	out := o
	out.Points = make([]Point, len(o.Points))
	copy(out.Points, o.Points)
	return out
}

// Equal reports whether two objects are field-wise identical,
// including id and layer back-reference.
func (o Object) Equal(other Object) bool {
	if o.ID != other.ID || o.Kind != other.Kind ||
		o.Transform != other.Transform || o.Style != other.Style ||
		o.Text != other.Text || o.IsEmoji != other.IsEmoji ||
		o.Layer != other.Layer {
		return false
	}
	if len(o.Points) != len(other.Points) {
		return false
	}
	for i := range o.Points {
		if o.Points[i] != other.Points[i] {
			return false
		}
	}
	return true
}
