package session

import "github.com/gogpu/markup"

// Option configures a Session during creation.
//
// Example:
//
//	// Defaults: 5 px hit tolerance, 20 px eraser, unlimited undo.
//	s := session.New()
//
//	// A session for a 1920x1080 capture with a capped undo stack.
//	s := session.New(
//		session.WithCanvasSize(1920, 1080),
//		session.WithHistoryLimit(256),
//	)
type Option func(*config)

// config holds the session's tunables.
type config struct {
	hitTolerance   float64
	eraserRadius   float64
	strokeStyle    markup.Style
	highlightStyle markup.Style
	textSize       float64
	canvasWidth    int
	canvasHeight   int
	historyLimit   int
}

// defaultConfig returns the default session configuration.
func defaultConfig() config {
	return config{
		hitTolerance:   5,
		eraserRadius:   20,
		strokeStyle:    markup.DefaultStyle(),
		highlightStyle: markup.HighlightStyle(),
		textSize:       24,
	}
}

// WithHitTolerance sets the selection hit radius in pixels.
// Values below zero are treated as zero.
func WithHitTolerance(px float64) Option {
	return func(c *config) {
		if px < 0 {
			px = 0
		}
		c.hitTolerance = px
	}
}

// WithEraserRadius sets the eraser disc radius in pixels.
func WithEraserRadius(px float64) Option {
	return func(c *config) {
		if px > 0 {
			c.eraserRadius = px
		}
	}
}

// WithStrokeStyle sets the pen style used by the draw tool.
func WithStrokeStyle(style markup.Style) Option {
	return func(c *config) {
		c.strokeStyle = style
	}
}

// WithHighlightStyle sets the style used by the highlight tool.
func WithHighlightStyle(style markup.Style) Option {
	return func(c *config) {
		c.highlightStyle = style
	}
}

// WithTextSize sets the font size for placed text, in pixels.
func WithTextSize(px float64) Option {
	return func(c *config) {
		if px > 0 {
			c.textSize = px
		}
	}
}

// WithCanvasSize sets the view dimensions. The emoji tool places
// stickers at the view center, and a fresh base surface uses these
// dimensions.
func WithCanvasSize(width, height int) Option {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.canvasWidth = width
			c.canvasHeight = height
		}
	}
}

// WithHistoryLimit caps the undo stack depth. Zero keeps it unlimited.
func WithHistoryLimit(n int) Option {
	return func(c *config) {
		c.historyLimit = n
	}
}
