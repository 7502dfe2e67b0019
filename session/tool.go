package session

// Tool selects what pointer gestures mean.
type Tool uint8

const (
	// ToolMove selects, drags, and resizes committed objects.
	ToolMove Tool = iota
	// ToolDraw draws freehand strokes with the pen style.
	ToolDraw
	// ToolHighlight draws freehand strokes with the translucent
	// highlighter style.
	ToolHighlight
	// ToolEraser slices freehand strokes along the pointer path.
	ToolEraser
	// ToolArrow drags an arrow from tail to tip.
	ToolArrow
	// ToolRectangle drags a rectangle between two corners.
	ToolRectangle
	// ToolEllipse drags an ellipse inscribed between two corners.
	ToolEllipse
	// ToolText places a text object at the clicked point.
	ToolText
	// ToolEmoji places an emoji sticker at the view center.
	ToolEmoji
)

// toolNames maps Tool values to their string representation.
var toolNames = [...]string{
	ToolMove:      "Move",
	ToolDraw:      "Draw",
	ToolHighlight: "Highlight",
	ToolEraser:    "Eraser",
	ToolArrow:     "Arrow",
	ToolRectangle: "Rectangle",
	ToolEllipse:   "Ellipse",
	ToolText:      "Text",
	ToolEmoji:     "Emoji",
}

// String returns the string representation of a Tool.
func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "Unknown"
}

// State is the session's interaction state. Exactly one pointer gesture
// is in flight outside StateIdle; every state returns to StateIdle
// through commit or cancel.
type State uint8

const (
	// StateIdle accepts the next gesture.
	StateIdle State = iota
	// StateDrawing accumulates a provisional object during a drag.
	StateDrawing
	// StatePlacing waits for externally supplied text or emoji content.
	StatePlacing
	// StateErasing accumulates an eraser gesture, slicing live.
	StateErasing
	// StateSelecting drags a rubber-band selection.
	StateSelecting
	// StateMoving drags the selection with a live preview.
	StateMoving
	// StateResizing scales the selection from an external size control.
	StateResizing
)

// stateNames maps State values to their string representation.
var stateNames = [...]string{
	StateIdle:      "Idle",
	StateDrawing:   "Drawing",
	StatePlacing:   "Placing",
	StateErasing:   "Erasing",
	StateSelecting: "Selecting",
	StateMoving:    "Moving",
	StateResizing:  "Resizing",
}

// String returns the string representation of a State.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}
