package history

import (
	"errors"
	"testing"

	"github.com/gogpu/markup"
)

// buildStroke allocates an id on doc and returns an insert command for a
// stroke on the given layer, the way the edit session builds one.
func buildStroke(t *testing.T, doc *markup.Document, layer markup.LayerID, points ...markup.Point) InsertObjectCommand {
	t.Helper()
	o, err := markup.NewStroke(points, markup.DefaultStyle())
	if err != nil {
		t.Fatalf("NewStroke() error = %v", err)
	}
	o.ID = doc.AllocateObjectID()
	o.Layer = layer
	return InsertObjectCommand{Object: o, Index: -1}
}

func mustObject(t *testing.T, doc *markup.Document, id markup.ObjectID) markup.Object {
	t.Helper()
	o, ok := doc.Object(id)
	if !ok {
		t.Fatalf("Object(%v) missing", id)
	}
	return o
}

func TestUndoRedoInverseLaw(t *testing.T) {
	doc := markup.NewDocument()
	base := doc.CreateLayer("base")
	initial := doc.Clone()

	stack := NewStack()
	do := func(cmd Command) {
		t.Helper()
		if err := stack.Do(doc, cmd); err != nil {
			t.Fatalf("Do(%v) error = %v", cmd.Type(), err)
		}
	}

	// A realistic editing session: draw, restyle, add a layer, shuffle
	// objects and layers around, end with a grouped edit.
	insA := buildStroke(t, doc, base, markup.Point{X: 0, Y: 0}, markup.Point{X: 10, Y: 0})
	do(insA)
	idA := insA.Object.ID

	insB := buildStroke(t, doc, base, markup.Point{X: 5, Y: 5}, markup.Point{X: 15, Y: 5})
	do(insB)
	idB := insB.Object.ID

	before := mustObject(t, doc, idA)
	do(ReplaceObjectCommand{Before: before, After: before.Translate(markup.Point{X: 3, Y: 3})})

	second := markup.Layer{
		ID:      doc.AllocateLayerID(),
		Name:    "details",
		Order:   doc.LayerCount(),
		Visible: true,
	}
	do(InsertLayerCommand{Layer: second})

	do(MoveObjectCommand{
		ID:        idB,
		From:      base,
		FromIndex: 1,
		To:        second.ID,
		ToIndex:   0,
	})

	do(ReorderLayerCommand{ID: second.ID, From: 1, To: 0})
	do(SetLayerVisibleCommand{ID: base, Visible: false, Was: true})
	do(SetLayerVisibleCommand{ID: base, Visible: true, Was: false})
	do(SetLayerLockedCommand{ID: second.ID, Locked: true, Was: false})

	moved := mustObject(t, doc, idA)
	scaled, err := moved.ScaleBy(2, moved.Transform.Anchor)
	if err != nil {
		t.Fatalf("ScaleBy() error = %v", err)
	}
	snapshotB := mustObject(t, doc, idB)
	do(BatchCommand{
		Label: "group edit",
		Commands: []Command{
			ReplaceObjectCommand{Before: moved, After: scaled},
			RemoveObjectCommand{Object: snapshotB, Index: 0},
		},
	})

	final := doc.Clone()
	n := stack.UndoDepth()
	if n != 10 {
		t.Fatalf("UndoDepth = %d, want 10", n)
	}

	for i := 0; i < n; i++ {
		if err := stack.Undo(doc); err != nil {
			t.Fatalf("Undo #%d error = %v", i+1, err)
		}
	}
	if !doc.Equal(initial) {
		t.Errorf("document after full undo differs from the initial state")
	}
	if stack.CanUndo() {
		t.Errorf("CanUndo() = true after full undo")
	}
	if got := stack.RedoDepth(); got != n {
		t.Errorf("RedoDepth = %d, want %d", got, n)
	}

	for i := 0; i < n; i++ {
		if err := stack.Redo(doc); err != nil {
			t.Fatalf("Redo #%d error = %v", i+1, err)
		}
	}
	if !doc.Equal(final) {
		t.Errorf("document after full redo differs from the final state")
	}
	if stack.CanRedo() {
		t.Errorf("CanRedo() = true after full redo")
	}
}

func TestRedoRestoresSameIDs(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("base")
	stack := NewStack()

	ins := buildStroke(t, doc, layer, markup.Point{X: 0, Y: 0})
	if err := stack.Do(doc, ins); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	id := ins.Object.ID

	if err := stack.Undo(doc); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if _, ok := doc.Object(id); ok {
		t.Fatalf("object %v still present after undo", id)
	}
	if err := stack.Redo(doc); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if _, ok := doc.Object(id); !ok {
		t.Errorf("redo restored a different id; %v missing", id)
	}
}

func TestNewCommandClearsRedo(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("base")
	stack := NewStack()

	if err := stack.Do(doc, buildStroke(t, doc, layer, markup.Point{X: 0, Y: 0})); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if err := stack.Do(doc, buildStroke(t, doc, layer, markup.Point{X: 1, Y: 1})); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if err := stack.Undo(doc); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if !stack.CanRedo() {
		t.Fatalf("CanRedo() = false after undo")
	}

	if err := stack.Do(doc, buildStroke(t, doc, layer, markup.Point{X: 2, Y: 2})); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if stack.CanRedo() {
		t.Errorf("CanRedo() = true after a new command; redo stack must clear")
	}
}

func TestUndoRedoEmptyStacks(t *testing.T) {
	doc := markup.NewDocument()
	stack := NewStack()

	if err := stack.Undo(doc); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() on empty stack error = %v, want ErrNothingToUndo", err)
	}
	if err := stack.Redo(doc); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() on empty stack error = %v, want ErrNothingToRedo", err)
	}
}

func TestFailedDoLeavesStacksUntouched(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("base")
	stack := NewStack()

	ins := buildStroke(t, doc, layer, markup.Point{X: 0, Y: 0})
	if err := stack.Do(doc, ins); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	before := doc.Clone()

	// Same id again: PutObject refuses, nothing is recorded.
	if err := stack.Do(doc, ins); err == nil {
		t.Fatalf("Do(duplicate insert) error = nil, want error")
	}
	if !doc.Equal(before) {
		t.Errorf("failed Do changed the document")
	}
	if got := stack.UndoDepth(); got != 1 {
		t.Errorf("UndoDepth = %d, want 1", got)
	}
}

func TestRecordPushesWithoutApplying(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("base")
	stack := NewStack()

	// Apply by hand first, the way a live gesture does.
	ins := buildStroke(t, doc, layer, markup.Point{X: 0, Y: 0}, markup.Point{X: 1, Y: 0})
	if err := ins.Apply(doc); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	applied := doc.Clone()

	stack.Record(ins)
	if !doc.Equal(applied) {
		t.Fatalf("Record() touched the document")
	}
	if err := stack.Undo(doc); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if doc.ObjectCount() != 0 {
		t.Errorf("undo of a recorded command left %d objects", doc.ObjectCount())
	}
}

func TestUndoLimitDropsOldest(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("base")
	stack := NewStack(WithLimit(2))

	first := buildStroke(t, doc, layer, markup.Point{X: 0, Y: 0})
	if err := stack.Do(doc, first); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	for i := 1; i <= 2; i++ {
		cmd := buildStroke(t, doc, layer, markup.Point{X: float64(i), Y: 0})
		if err := stack.Do(doc, cmd); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
	}

	if got := stack.UndoDepth(); got != 2 {
		t.Fatalf("UndoDepth = %d, want 2", got)
	}
	for stack.CanUndo() {
		if err := stack.Undo(doc); err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
	}
	// The first stroke fell off the stack; its insert is permanent now.
	if _, ok := doc.Object(first.Object.ID); !ok {
		t.Errorf("oldest command was undone despite falling off the limited stack")
	}
	if doc.ObjectCount() != 1 {
		t.Errorf("ObjectCount = %d, want 1", doc.ObjectCount())
	}
}

func TestClear(t *testing.T) {
	doc := markup.NewDocument()
	layer := doc.CreateLayer("base")
	stack := NewStack()

	if err := stack.Do(doc, buildStroke(t, doc, layer, markup.Point{X: 0, Y: 0})); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if err := stack.Undo(doc); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	stack.Clear()
	if stack.CanUndo() || stack.CanRedo() {
		t.Errorf("stacks non-empty after Clear: undo=%d redo=%d",
			stack.UndoDepth(), stack.RedoDepth())
	}
}
