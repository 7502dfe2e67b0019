package markup

// Style carries the visual attributes shared by all object kinds.
// Width doubles as the font size for Text objects and as the head size
// scale for arrows.
type Style struct {
	Color RGBA
	Width float64
	Fill  bool // shapes only: fill instead of outline

	// Text decor. Ignored by non-Text kinds.
	ShowBackground bool
	Background     RGBA
	ShowShadow     bool
	Shadow         RGBA
}

// DefaultStyle returns the stock annotation style: red, 5 px wide, unfilled.
func DefaultStyle() Style {
	return Style{
		Color: Red,
		Width: 5,
	}
}

// HighlightStyle returns the stock highlighter style: translucent yellow,
// 20 px wide.
func HighlightStyle() Style {
	return Style{
		Color: Yellow.WithAlpha(0.4),
		Width: 20,
	}
}

// TextStyle returns the stock text style: red, 24 px, black translucent
// background box and opaque black shadow available but switched off.
func TextStyle() Style {
	return Style{
		Color:      Red,
		Width:      24,
		Background: RGBA{A: 0.5},
		Shadow:     RGBA{A: 1},
	}
}
