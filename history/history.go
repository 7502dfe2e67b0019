package history

import (
	"errors"

	"github.com/gogpu/markup"
)

// Sentinel errors for stack navigation.
var (
	// ErrNothingToUndo is returned by Undo on an empty undo stack.
	ErrNothingToUndo = errors.New("history: nothing to undo")
	// ErrNothingToRedo is returned by Redo on an empty redo stack.
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// Stack holds the undo and redo history of a document. Every committed
// command lands on the undo stack; undoing moves it to the redo stack;
// any new command clears the redo stack.
//
// Stack follows the document's single-writer model and is not safe for
// concurrent use.
type Stack struct {
	undo  []Command
	redo  []Command
	limit int // 0 means unlimited
}

// Option configures a Stack.
type Option func(*Stack)

// WithLimit caps the undo depth. When the cap is exceeded the oldest
// command is dropped; its mutation becomes permanent. A limit of 0 means
// unlimited.
func WithLimit(n int) Option {
	return func(s *Stack) {
		if n < 0 {
			n = 0
		}
		s.limit = n
	}
}

// NewStack creates an empty history stack.
func NewStack(opts ...Option) *Stack {
	s := &Stack{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do applies the command to the document and records it. On failure the
// document and the stacks are unchanged.
func (s *Stack) Do(doc *markup.Document, cmd Command) error {
	if err := cmd.Apply(doc); err != nil {
		return err
	}
	s.Record(cmd)
	return nil
}

// Record pushes a command that has already been applied to the document.
// Interactions that mutate live, like an eraser gesture slicing strokes
// on every sample, apply as they go and record the accumulated batch once
// on completion.
func (s *Stack) Record(cmd Command) {
	s.undo = append(s.undo, cmd)
	s.redo = s.redo[:0]
	if s.limit > 0 && len(s.undo) > s.limit {
		n := copy(s.undo, s.undo[len(s.undo)-s.limit:])
		s.undo = s.undo[:n]
	}
	markup.Logger().Debug("command recorded",
		"type", cmd.Type().String(), "undo_depth", len(s.undo))
}

// Undo takes back the most recent command. The command moves to the redo
// stack; redoing it restores the exact state, same ids included.
func (s *Stack) Undo(doc *markup.Document) error {
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	cmd := s.undo[len(s.undo)-1]
	if err := cmd.Invert().Apply(doc); err != nil {
		return err
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, cmd)
	markup.Logger().Debug("command undone", "type", cmd.Type().String())
	return nil
}

// Redo reapplies the most recently undone command.
func (s *Stack) Redo(doc *markup.Document) error {
	if len(s.redo) == 0 {
		return ErrNothingToRedo
	}
	cmd := s.redo[len(s.redo)-1]
	if err := cmd.Apply(doc); err != nil {
		return err
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, cmd)
	markup.Logger().Debug("command redone", "type", cmd.Type().String())
	return nil
}

// CanUndo reports whether the undo stack is non-empty.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// UndoDepth returns the number of commands available to undo.
func (s *Stack) UndoDepth() int { return len(s.undo) }

// RedoDepth returns the number of commands available to redo.
func (s *Stack) RedoDepth() int { return len(s.redo) }

// Clear drops both stacks. Used when the document is replaced wholesale,
// such as loading a file or switching the edited image.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
}
