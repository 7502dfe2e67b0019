package markup

import "errors"

// Sentinel errors reported by Document and session operations.
// Callers match them with errors.Is; operations that fail leave the
// Document in its last committed state.
var (
	// ErrInvalidGeometry reports a malformed object: wrong point count for
	// the kind, empty text, or a degenerate transform. Construction rejects
	// the object; nothing is committed.
	ErrInvalidGeometry = errors.New("markup: invalid geometry")

	// ErrNotFound reports a reference to a missing object or layer id.
	ErrNotFound = errors.New("markup: not found")

	// ErrLayerLocked reports a mutation attempted on a locked layer.
	// Reads and selection are always allowed regardless of lock state.
	ErrLayerLocked = errors.New("markup: layer locked")

	// ErrEmptyResult reports an operation whose filter matched nothing,
	// such as baking with no objects selected. An eraser split that leaves
	// zero strokes is a normal deletion and does not produce this error.
	ErrEmptyResult = errors.New("markup: empty result")
)
