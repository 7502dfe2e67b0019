// Package history wraps every document mutation in an invertible command
// and keeps the undo/redo stacks.
//
// Each command stores its own delta: the snapshots needed to apply the
// change and to take it back. Applying a command and then its inverse
// restores the document to a state equal to the one before (same layers,
// same objects, same ids); there is no full-document snapshotting.
//
// Commands are typed structs behind a small interface, one variant per
// mutation kind, for inspectability: a debugger or log line can name
// exactly what sits on the stack.
//
// # Replay and locks
//
// Commands replay through the document's restore-grade operations
// (PutObject, TakeObject, SwapObject, PutLayer, TakeLayer), which bypass
// layer locks. Locks constrain user edits at command build time; undoing
// an edit made before a layer was locked must still work.
//
// # Example
//
//	doc := markup.NewDocument()
//	stack := history.NewStack()
//
//	layer := markup.Layer{ID: doc.AllocateLayerID(), Name: "notes", Visible: true}
//	err := stack.Do(doc, history.InsertLayerCommand{Layer: layer})
//	...
//	err = stack.Undo(doc) // the layer is gone again
package history

import (
	"fmt"

	"github.com/gogpu/markup"
)

// CommandType identifies the type of a command.
// Each command type corresponds to a specific document mutation.
type CommandType uint8

const (
	// Object commands
	CmdInsertObject  CommandType = iota // Insert an object into a layer
	CmdRemoveObject                     // Remove an object
	CmdReplaceObject                    // Replace an object's value in place
	CmdMoveObject                       // Move an object between layers

	// Layer commands
	CmdInsertLayer     // Insert a layer with its objects
	CmdRemoveLayer     // Remove a layer, cascading to its objects
	CmdReorderLayer    // Move a layer in the z-order
	CmdSetLayerVisible // Toggle layer visibility
	CmdSetLayerLocked  // Toggle layer locking

	// Grouping
	CmdBatch // Apply several commands as one undo step
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdInsertObject:    "InsertObject",
	CmdRemoveObject:    "RemoveObject",
	CmdReplaceObject:   "ReplaceObject",
	CmdMoveObject:      "MoveObject",
	CmdInsertLayer:     "InsertLayer",
	CmdRemoveLayer:     "RemoveLayer",
	CmdReorderLayer:    "ReorderLayer",
	CmdSetLayerVisible: "SetLayerVisible",
	CmdSetLayerLocked:  "SetLayerLocked",
	CmdBatch:           "Batch",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
// A command mutates the document in Apply and produces its own inverse
// in Invert; the inverse of the inverse is the original mutation.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
	// Apply performs the mutation. A failed Apply leaves the document
	// unchanged.
	Apply(doc *markup.Document) error
	// Invert returns the command that takes the mutation back. It is
	// pure: building the inverse never touches the document.
	Invert() Command
}

// --------------------------------------------------------------------------
// Object Commands
// --------------------------------------------------------------------------

// InsertObjectCommand inserts an object into its layer. The object carries
// a pre-allocated id (markup.Document.AllocateObjectID) so that redo after
// undo restores the exact same id.
type InsertObjectCommand struct {
	// Object is the full value to insert, with ID and Layer set.
	Object markup.Object
	// Index is the position within the layer's object sequence;
	// -1 appends.
	Index int
}

// Type implements Command.
func (InsertObjectCommand) Type() CommandType { return CmdInsertObject }

// Apply implements Command.
func (c InsertObjectCommand) Apply(doc *markup.Document) error {
	return doc.PutObject(c.Object, c.Index)
}

// Invert implements Command.
func (c InsertObjectCommand) Invert() Command {
	return RemoveObjectCommand{Object: c.Object, Index: c.Index}
}

// RemoveObjectCommand removes an object, keeping the full snapshot so the
// inverse can restore it at its former position.
type RemoveObjectCommand struct {
	// Object is the snapshot taken at build time.
	Object markup.Object
	// Index is the object's position within its layer's sequence.
	Index int
}

// Type implements Command.
func (RemoveObjectCommand) Type() CommandType { return CmdRemoveObject }

// Apply implements Command.
func (c RemoveObjectCommand) Apply(doc *markup.Document) error {
	_, _, err := doc.TakeObject(c.Object.ID)
	return err
}

// Invert implements Command.
func (c RemoveObjectCommand) Invert() Command {
	return InsertObjectCommand{Object: c.Object, Index: c.Index}
}

// ReplaceObjectCommand swaps an object's value in place: translate,
// resize, restyle, text edits, and eraser slicing that keeps one stroke
// all reduce to this. Before and After share id and layer.
type ReplaceObjectCommand struct {
	// Before is the value prior to the mutation.
	Before markup.Object
	// After is the value the mutation produces.
	After markup.Object
}

// Type implements Command.
func (ReplaceObjectCommand) Type() CommandType { return CmdReplaceObject }

// Apply implements Command.
func (c ReplaceObjectCommand) Apply(doc *markup.Document) error {
	_, err := doc.SwapObject(c.After)
	return err
}

// Invert implements Command.
func (c ReplaceObjectCommand) Invert() Command {
	return ReplaceObjectCommand{Before: c.After, After: c.Before}
}

// MoveObjectCommand transfers an object between layers, recording both
// endpoints so the transfer replays exactly in either direction.
type MoveObjectCommand struct {
	// ID names the object to move.
	ID markup.ObjectID
	// From is the source layer; FromIndex the position there.
	From      markup.LayerID
	FromIndex int
	// To is the target layer; ToIndex the position to insert at.
	To      markup.LayerID
	ToIndex int
}

// Type implements Command.
func (MoveObjectCommand) Type() CommandType { return CmdMoveObject }

// Apply implements Command.
func (c MoveObjectCommand) Apply(doc *markup.Document) error {
	o, _, err := doc.TakeObject(c.ID)
	if err != nil {
		return err
	}
	o.Layer = c.To
	if err := doc.PutObject(o, c.ToIndex); err != nil {
		// Target layer vanished; put the object back where it was.
		o.Layer = c.From
		if rerr := doc.PutObject(o, c.FromIndex); rerr != nil {
			return fmt.Errorf("history: move rollback failed: %w", rerr)
		}
		return err
	}
	return nil
}

// Invert implements Command.
func (c MoveObjectCommand) Invert() Command {
	return MoveObjectCommand{
		ID:        c.ID,
		From:      c.To,
		FromIndex: c.ToIndex,
		To:        c.From,
		ToIndex:   c.FromIndex,
	}
}

// --------------------------------------------------------------------------
// Layer Commands
// --------------------------------------------------------------------------

// InsertLayerCommand inserts a layer snapshot together with the objects it
// owns. A fresh layer has no objects; the inverse of a layer deletion has
// the cascaded ones.
type InsertLayerCommand struct {
	// Layer is the full snapshot, with ID and Order set.
	Layer markup.Layer
	// Objects are the owned object snapshots, nil for a fresh layer.
	Objects []markup.Object
}

// Type implements Command.
func (InsertLayerCommand) Type() CommandType { return CmdInsertLayer }

// Apply implements Command.
func (c InsertLayerCommand) Apply(doc *markup.Document) error {
	return doc.PutLayer(c.Layer, c.Objects)
}

// Invert implements Command.
func (c InsertLayerCommand) Invert() Command {
	return RemoveLayerCommand{Layer: c.Layer, Objects: c.Objects}
}

// RemoveLayerCommand removes a layer and its objects, keeping their
// snapshots for the inverse.
type RemoveLayerCommand struct {
	// Layer is the snapshot taken at build time.
	Layer markup.Layer
	// Objects are the owned object snapshots in insertion order.
	Objects []markup.Object
}

// Type implements Command.
func (RemoveLayerCommand) Type() CommandType { return CmdRemoveLayer }

// Apply implements Command.
func (c RemoveLayerCommand) Apply(doc *markup.Document) error {
	_, _, err := doc.TakeLayer(c.Layer.ID)
	return err
}

// Invert implements Command.
func (c RemoveLayerCommand) Invert() Command {
	return InsertLayerCommand{Layer: c.Layer, Objects: c.Objects}
}

// ReorderLayerCommand moves a layer in the z-order.
type ReorderLayerCommand struct {
	// ID names the layer to move.
	ID markup.LayerID
	// From is the layer's order before the move, To after.
	From int
	To   int
}

// Type implements Command.
func (ReorderLayerCommand) Type() CommandType { return CmdReorderLayer }

// Apply implements Command.
func (c ReorderLayerCommand) Apply(doc *markup.Document) error {
	return doc.ReorderLayer(c.ID, c.To)
}

// Invert implements Command.
func (c ReorderLayerCommand) Invert() Command {
	return ReorderLayerCommand{ID: c.ID, From: c.To, To: c.From}
}

// SetLayerVisibleCommand toggles layer visibility.
type SetLayerVisibleCommand struct {
	// ID names the layer.
	ID markup.LayerID
	// Visible is the new flag, Was the prior one.
	Visible bool
	Was     bool
}

// Type implements Command.
func (SetLayerVisibleCommand) Type() CommandType { return CmdSetLayerVisible }

// Apply implements Command.
func (c SetLayerVisibleCommand) Apply(doc *markup.Document) error {
	return doc.SetLayerVisible(c.ID, c.Visible)
}

// Invert implements Command.
func (c SetLayerVisibleCommand) Invert() Command {
	return SetLayerVisibleCommand{ID: c.ID, Visible: c.Was, Was: c.Visible}
}

// SetLayerLockedCommand toggles layer locking.
type SetLayerLockedCommand struct {
	// ID names the layer.
	ID markup.LayerID
	// Locked is the new flag, Was the prior one.
	Locked bool
	Was    bool
}

// Type implements Command.
func (SetLayerLockedCommand) Type() CommandType { return CmdSetLayerLocked }

// Apply implements Command.
func (c SetLayerLockedCommand) Apply(doc *markup.Document) error {
	return doc.SetLayerLocked(c.ID, c.Locked)
}

// Invert implements Command.
func (c SetLayerLockedCommand) Invert() Command {
	return SetLayerLockedCommand{ID: c.ID, Locked: c.Was, Was: c.Locked}
}

// --------------------------------------------------------------------------
// Grouping
// --------------------------------------------------------------------------

// BatchCommand applies several commands as one undo step. An eraser
// gesture that slices many strokes and a multi-object move both commit as
// a single batch so one undo takes the whole interaction back.
type BatchCommand struct {
	// Label names the interaction for logs and debugging.
	Label string
	// Commands run in order on Apply.
	Commands []Command
}

// Type implements Command.
func (BatchCommand) Type() CommandType { return CmdBatch }

// Apply implements Command. The batch is atomic: if a command fails, the
// already-applied prefix is rolled back before returning the error.
func (c BatchCommand) Apply(doc *markup.Document) error {
	for i, cmd := range c.Commands {
		if err := cmd.Apply(doc); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := c.Commands[j].Invert().Apply(doc); rerr != nil {
					return fmt.Errorf("history: batch rollback failed at %d: %w", j, rerr)
				}
			}
			return err
		}
	}
	return nil
}

// Invert implements Command. Inverses run in reverse order.
func (c BatchCommand) Invert() Command {
	inv := make([]Command, len(c.Commands))
	for i, cmd := range c.Commands {
		inv[len(c.Commands)-1-i] = cmd.Invert()
	}
	return BatchCommand{Label: c.Label, Commands: inv}
}

// Len returns the number of grouped commands.
func (c BatchCommand) Len() int { return len(c.Commands) }
