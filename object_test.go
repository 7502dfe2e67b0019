package markup

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindStroke, "Stroke"},
		{KindRectangle, "Rectangle"},
		{KindEllipse, "Ellipse"},
		{KindArrow, "Arrow"},
		{KindText, "Text"},
		{Kind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNewStroke(t *testing.T) {
	if _, err := NewStroke(nil, DefaultStyle()); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("NewStroke(nil) error = %v, want ErrInvalidGeometry", err)
	}

	points := []Point{{1, 2}, {3, 4}}
	stroke, err := NewStroke(points, DefaultStyle())
	if err != nil {
		t.Fatalf("NewStroke() error = %v", err)
	}
	points[0] = Point{99, 99}
	if stroke.Points[0] != (Point{1, 2}) {
		t.Errorf("stroke shares the caller's point slice")
	}
	if got, want := stroke.Transform.Anchor, (Point{2, 3}); got != want {
		t.Errorf("anchor = %v, want center %v", got, want)
	}
	if stroke.Transform.Scale != 1 {
		t.Errorf("scale = %v, want 1", stroke.Transform.Scale)
	}
}

func TestNewText(t *testing.T) {
	if _, err := NewText(Point{0, 0}, "", TextStyle()); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("NewText with empty content error = %v, want ErrInvalidGeometry", err)
	}

	text, err := NewText(Point{5, 7}, "note", TextStyle())
	if err != nil {
		t.Fatalf("NewText() error = %v", err)
	}
	if text.Transform.Anchor != (Point{5, 7}) {
		t.Errorf("anchor = %v, want the placement point", text.Transform.Anchor)
	}
	if text.Text != "note" {
		t.Errorf("text = %q, want %q", text.Text, "note")
	}
}

func TestValidate(t *testing.T) {
	valid := func(o Object, err error) Object {
		t.Helper()
		if err != nil {
			t.Fatalf("constructor error = %v", err)
		}
		return o
	}
	stroke := valid(NewStroke([]Point{{0, 0}}, DefaultStyle()))
	text := valid(NewText(Point{0, 0}, "x", TextStyle()))
	rect := NewRectangle(Point{0, 0}, Point{1, 1}, DefaultStyle())

	badRect := rect.Clone()
	badRect.Points = badRect.Points[:1]

	badText := text.Clone()
	badText.Text = ""

	badScale := stroke.Clone()
	badScale.Transform.Scale = 0

	badKind := stroke.Clone()
	badKind.Kind = Kind(42)

	tests := []struct {
		name    string
		obj     Object
		wantErr bool
	}{
		{"valid stroke", stroke, false},
		{"valid rectangle", rect, false},
		{"valid text", text, false},
		{"rectangle with one point", badRect, true},
		{"text without content", badText, true},
		{"zero scale", badScale, true},
		{"unknown kind", badKind, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obj.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("Validate() error = %v, want ErrInvalidGeometry", err)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	arrow := NewArrow(Point{0, 0}, Point{10, 0}, DefaultStyle())
	moved := arrow.Translate(Point{3, 4})

	if moved.Points[0] != (Point{3, 4}) || moved.Points[1] != (Point{13, 4}) {
		t.Errorf("moved points = %v, want shifted by (3,4)", moved.Points)
	}
	if got, want := moved.Transform.Anchor, (Point{8, 4}); got != want {
		t.Errorf("moved anchor = %v, want %v", got, want)
	}
	// The receiver is a value snapshot and must stay untouched.
	if arrow.Points[0] != (Point{0, 0}) {
		t.Errorf("original mutated: %v", arrow.Points)
	}
}

func TestScaleBy(t *testing.T) {
	stroke, err := NewStroke([]Point{{0, 0}, {10, 0}}, DefaultStyle())
	if err != nil {
		t.Fatalf("NewStroke() error = %v", err)
	}

	if _, err := stroke.ScaleBy(0, stroke.Transform.Anchor); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("ScaleBy(0) error = %v, want ErrInvalidGeometry", err)
	}
	if _, err := stroke.ScaleBy(-1, stroke.Transform.Anchor); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("ScaleBy(-1) error = %v, want ErrInvalidGeometry", err)
	}

	once, err := stroke.ScaleBy(2, stroke.Transform.Anchor)
	if err != nil {
		t.Fatalf("ScaleBy(2) error = %v", err)
	}
	twice, err := once.ScaleBy(1.5, once.Transform.Anchor)
	if err != nil {
		t.Fatalf("ScaleBy(1.5) error = %v", err)
	}
	if !almostEqual(twice.Transform.Scale, 3) {
		t.Errorf("scale after x2 then x1.5 = %v, want 3", twice.Transform.Scale)
	}
	if !almostEqual(twice.ScaledWidth(), 15) {
		t.Errorf("ScaledWidth() = %v, want 15", twice.ScaledWidth())
	}
	// Control points stay untouched; the transform carries the scale.
	if twice.Points[1] != (Point{10, 0}) {
		t.Errorf("control points changed: %v", twice.Points)
	}
}

func TestWithStyleAndText(t *testing.T) {
	text, err := NewText(Point{0, 0}, "before", TextStyle())
	if err != nil {
		t.Fatalf("NewText() error = %v", err)
	}

	restyled := text.WithStyle(HighlightStyle())
	if restyled.Style != HighlightStyle() {
		t.Errorf("WithStyle() style = %+v, want highlight", restyled.Style)
	}
	if text.Style == HighlightStyle() {
		t.Errorf("WithStyle() mutated the receiver")
	}

	renamed := text.WithText("after")
	if renamed.Text != "after" || text.Text != "before" {
		t.Errorf("WithText() = %q / receiver %q, want after / before", renamed.Text, text.Text)
	}
}

func TestCloneIndependence(t *testing.T) {
	stroke, err := NewStroke([]Point{{1, 1}, {2, 2}}, DefaultStyle())
	if err != nil {
		t.Fatalf("NewStroke() error = %v", err)
	}
	c := stroke.Clone()
	c.Points[0] = Point{9, 9}
	if stroke.Points[0] != (Point{1, 1}) {
		t.Errorf("Clone() shares the point slice")
	}
}

func TestObjectEqual(t *testing.T) {
	base, err := NewStroke([]Point{{0, 0}, {1, 1}}, DefaultStyle())
	if err != nil {
		t.Fatalf("NewStroke() error = %v", err)
	}

	same := base.Clone()
	if !base.Equal(same) {
		t.Errorf("Equal() = false for identical objects")
	}

	tests := []struct {
		name   string
		mutate func(*Object)
	}{
		{"different point", func(o *Object) { o.Points[1] = Point{5, 5} }},
		{"different point count", func(o *Object) { o.Points = o.Points[:1] }},
		{"different style", func(o *Object) { o.Style.Width = 99 }},
		{"different transform", func(o *Object) { o.Transform.Scale = 2 }},
		{"different id", func(o *Object) { o.ID = 7 }},
		{"different layer", func(o *Object) { o.Layer = 7 }},
		{"different text", func(o *Object) { o.Text = "x" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base.Clone()
			tt.mutate(&other)
			if base.Equal(other) {
				t.Errorf("Equal() = true after mutation")
			}
		})
	}
}
