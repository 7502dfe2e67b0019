package markup

// Transform positions an object's geometry: a uniform scale followed by a
// rotation, both about the anchor point. Control points are stored untransformed;
// geometry queries and rendering apply the transform on the way out.
type Transform struct {
	Anchor   Point   // center of scaling and rotation
	Scale    float64 // uniform scale factor, > 0
	Rotation float64 // radians, 0 means axis-aligned
}

// IdentityTransform returns a transform that leaves geometry unchanged.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// IsIdentity returns true if the transform leaves geometry unchanged.
func (t Transform) IsIdentity() bool {
	return t.Scale == 1 && t.Rotation == 0
}

// Matrix returns the affine matrix for this transform:
// translate to the anchor, rotate, scale, translate back.
func (t Transform) Matrix() Matrix {
	if t.IsIdentity() {
		return Identity()
	}
	m := Translation(t.Anchor.X, t.Anchor.Y)
	if t.Rotation != 0 {
		m = m.Multiply(Rotation(t.Rotation))
	}
	if t.Scale != 1 {
		m = m.Multiply(Scaling(t.Scale))
	}
	return m.Multiply(Translation(-t.Anchor.X, -t.Anchor.Y))
}

// Apply transforms a point.
func (t Transform) Apply(p Point) Point {
	if t.IsIdentity() {
		return p
	}
	return t.Matrix().Apply(p)
}

// ApplyAll transforms a point slice into a new slice.
func (t Transform) ApplyAll(points []Point) []Point {
	out := make([]Point, len(points))
	if t.IsIdentity() {
		copy(out, points)
		return out
	}
	m := t.Matrix()
	for i, p := range points {
		out[i] = m.Apply(p)
	}
	return out
}
