// Package session drives the interactive editing loop: a tool state
// machine over a markup.Document, a live eraser engine, selection with
// move/resize previews, and the bake boundary into the raster layer.
//
// A Session is single-threaded by contract. The host delivers pointer
// events, tool switches, and undo requests from its UI goroutine; the
// render adapter reads the document and overlay between events, never
// during one. Provisional and preview geometry lives only in the
// session, so the document always holds committed state.
package session

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/gogpu/markup"
	"github.com/gogpu/markup/emoji"
	"github.com/gogpu/markup/history"
	"github.com/gogpu/markup/raster"
	"github.com/gogpu/markup/render"
)

var (
	// ErrGestureActive reports an operation that needs an idle session.
	ErrGestureActive = errors.New("session: gesture in progress")
	// ErrNoSelection reports a selection-driven operation with nothing
	// selected.
	ErrNoSelection = errors.New("session: nothing selected")
	// ErrNoPlacement reports placed content with no placement pending.
	ErrNoPlacement = errors.New("session: no placement pending")
	// ErrNoResize reports a size control event outside a resize gesture.
	ErrNoResize = errors.New("session: no resize in progress")
	// ErrNoBase reports a base image operation with no base image set.
	ErrNoBase = errors.New("session: no base image")
)

const (
	// dragThreshold is how far a pressed pointer must travel before a
	// click-select becomes a move, in pixels.
	dragThreshold = 3
	// minShapeSpan is the shortest corner-to-corner distance a shape or
	// arrow commit accepts. Anything shorter is an accidental click.
	minShapeSpan = 0.1
	// emojiSizeFactor scales the text size up for emoji stickers.
	emojiSizeFactor = 2
)

// Session owns one annotation editing surface: the document, its undo
// history, the active tool, and the in-flight gesture.
type Session struct {
	cfg  config
	doc  *markup.Document
	hist *history.Stack
	rend *raster.Renderer

	tool        Tool
	state       State
	activeLayer markup.LayerID

	selection []markup.ObjectID

	// Gesture scratch, valid outside StateIdle only.
	provisional  *markup.Object
	pressAt      markup.Point
	bandTo       markup.Point
	dragging     bool
	originals    map[markup.ObjectID]markup.Object
	preview      map[markup.ObjectID]markup.Object
	resizeFactor float64
	eraser       eraserGesture

	base *raster.Surface
}

// New creates a session with an empty document holding one unlocked,
// visible layer. With WithCanvasSize set, a blank base surface of that
// size is allocated so Bake and Flatten have a target from the start.
func New(opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Session{
		cfg:  cfg,
		doc:  markup.NewDocument(),
		hist: history.NewStack(history.WithLimit(cfg.historyLimit)),
		rend: raster.NewRenderer(),
		tool: ToolMove,
	}
	s.activeLayer = s.doc.CreateLayer("Layer 1")
	if cfg.canvasWidth > 0 && cfg.canvasHeight > 0 {
		s.base = raster.NewSurface(cfg.canvasWidth, cfg.canvasHeight)
	}
	return s
}

// Document returns the live document. Callers must treat it as
// read-only; all mutation goes through the session so that undo
// history stays consistent.
func (s *Session) Document() *markup.Document { return s.doc }

// State returns the current interaction state.
func (s *Session) State() State { return s.state }

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SetTool switches the active tool. An in-flight gesture is cancelled
// first, and leaving the move tool drops the selection.
func (s *Session) SetTool(t Tool) {
	if t == s.tool {
		return
	}
	if s.state != StateIdle {
		s.Cancel()
	}
	if s.tool == ToolMove && t != ToolMove {
		s.selection = nil
	}
	markup.Logger().Debug("tool switch", "from", s.tool.String(), "to", t.String())
	s.tool = t
}

// ActiveLayer returns the layer new annotations land on.
func (s *Session) ActiveLayer() markup.LayerID { return s.activeLayer }

// SetActiveLayer picks the layer new annotations land on. Selecting a
// locked layer is allowed; drawing on it fails at gesture start.
func (s *Session) SetActiveLayer(id markup.LayerID) error {
	if _, ok := s.doc.Layer(id); !ok {
		return fmt.Errorf("layer %d: %w", id, markup.ErrNotFound)
	}
	s.activeLayer = id
	return nil
}

// Selection returns the selected object ids in selection order.
func (s *Session) Selection() []markup.ObjectID {
	if len(s.selection) == 0 {
		return nil
	}
	out := make([]markup.ObjectID, len(s.selection))
	copy(out, s.selection)
	return out
}

// ClearSelection deselects everything.
func (s *Session) ClearSelection() { s.selection = nil }

// Overlay returns the transient state the render adapter composes over
// the document: the provisional object, the selection, and any live
// move or resize preview.
func (s *Session) Overlay() *render.Overlay {
	o := &render.Overlay{Selection: s.Selection()}
	if s.provisional != nil {
		p := s.provisional.Clone()
		o.Provisional = &p
	}
	if len(s.preview) > 0 {
		o.Preview = make(map[markup.ObjectID]markup.Object, len(s.preview))
		for id, obj := range s.preview {
			o.Preview[id] = obj
		}
	}
	return o
}

// Frame tessellates the current document and overlay into an ordered
// primitive sequence.
func (s *Session) Frame() []render.Primitive {
	return render.Frame(s.doc, s.Overlay())
}

// RubberBand returns the in-progress selection rectangle. The second
// return is false outside StateSelecting.
func (s *Session) RubberBand() (markup.Rect, bool) {
	if s.state != StateSelecting {
		return markup.EmptyRect(), false
	}
	return markup.RectFromPoints(s.pressAt, s.bandTo), true
}

// --------------------------------------------------------------------------
// Pointer events
// --------------------------------------------------------------------------

// PointerDown begins a gesture at p according to the active tool.
// Drawing tools refuse with ErrLayerLocked when the active layer is
// locked. A press while a placement is pending cancels the placement
// and handles the press fresh.
func (s *Session) PointerDown(p markup.Point) error {
	if s.state == StatePlacing {
		s.Cancel()
	}
	if s.state != StateIdle {
		return nil
	}
	s.pressAt = p

	switch s.tool {
	case ToolDraw, ToolHighlight:
		layer, err := s.activeTarget()
		if err != nil {
			return err
		}
		style := s.cfg.strokeStyle
		if s.tool == ToolHighlight {
			style = s.cfg.highlightStyle
		}
		o, err := markup.NewStroke([]markup.Point{p}, style)
		if err != nil {
			return err
		}
		o.Layer = layer.ID
		s.provisional = &o
		s.state = StateDrawing

	case ToolRectangle, ToolEllipse, ToolArrow:
		layer, err := s.activeTarget()
		if err != nil {
			return err
		}
		var o markup.Object
		switch s.tool {
		case ToolRectangle:
			o = markup.NewRectangle(p, p, s.cfg.strokeStyle)
		case ToolEllipse:
			o = markup.NewEllipse(p, p, s.cfg.strokeStyle)
		default:
			o = markup.NewArrow(p, p, s.cfg.strokeStyle)
		}
		o.Layer = layer.ID
		s.provisional = &o
		s.state = StateDrawing

	case ToolEraser:
		s.eraser.begin()
		s.state = StateErasing
		s.eraseAt(p)

	case ToolMove:
		if id := markup.TopmostHit(s.doc, p, s.cfg.hitTolerance); id != markup.NoObject {
			if !s.isSelected(id) {
				s.selection = []markup.ObjectID{id}
			}
			s.beginDrag()
			s.state = StateMoving
		} else {
			s.selection = nil
			s.bandTo = p
			s.state = StateSelecting
		}

	case ToolText:
		if _, err := s.activeTarget(); err != nil {
			return err
		}
		s.state = StatePlacing

	case ToolEmoji:
		s.state = StatePlacing
	}
	return nil
}

// PointerMove advances the in-flight gesture to p. Outside a gesture it
// does nothing.
func (s *Session) PointerMove(p markup.Point) {
	switch s.state {
	case StateDrawing:
		s.extendProvisional(p)
	case StateErasing:
		s.eraseAt(p)
	case StateMoving:
		if !s.dragging && p.Distance(s.pressAt) < dragThreshold {
			return
		}
		s.dragging = true
		s.previewTranslate(p.Sub(s.pressAt))
	case StateSelecting:
		s.bandTo = p
		s.selection = s.objectsInBand()
	}
}

// PointerUp ends the gesture at p and commits its result: an inserted
// object for drawing, one undo batch for a move or an erase, a final
// selection for a rubber band. Degenerate drawings are discarded
// silently. A pending placement stays pending; it ends through
// PlaceText, PlaceEmoji, or Cancel.
func (s *Session) PointerUp(p markup.Point) error {
	switch s.state {
	case StateDrawing:
		s.extendProvisional(p)
		return s.commitProvisional()
	case StateErasing:
		return s.finishErase()
	case StateMoving:
		return s.finishMove(p)
	case StateSelecting:
		s.bandTo = p
		s.selection = s.objectsInBand()
		s.state = StateIdle
	}
	return nil
}

// Cancel abandons the in-flight gesture and returns to StateIdle. The
// document and the undo history are left exactly as they were before
// the gesture began; a cancelled rubber band deselects.
func (s *Session) Cancel() {
	switch s.state {
	case StateErasing:
		s.abortErase()
	case StateSelecting:
		s.selection = nil
	}
	s.provisional = nil
	s.originals = nil
	s.preview = nil
	s.dragging = false
	s.resizeFactor = 0
	s.state = StateIdle
}

// extendProvisional folds a new sample into the provisional object:
// strokes accumulate points, shapes and arrows track the second corner.
func (s *Session) extendProvisional(p markup.Point) {
	o := s.provisional
	if o == nil {
		return
	}
	if o.Kind == markup.KindStroke {
		if last := o.Points[len(o.Points)-1]; last != p {
			o.Points = append(o.Points, p)
		}
		return
	}
	o.Points[1] = p
}

// commitProvisional rebuilds the finished drawing through its
// constructor, so the scale anchor sits at the final geometry's center,
// and inserts it as one undo step.
func (s *Session) commitProvisional() error {
	o := *s.provisional
	s.provisional = nil
	s.state = StateIdle

	rebuilt, ok := rebuildFinished(o)
	if !ok {
		markup.Logger().Warn("degenerate input discarded", "kind", o.Kind.String())
		return nil
	}
	// The layer may have been locked or removed mid-gesture.
	layer, err := s.activeTarget()
	if err != nil {
		return err
	}
	rebuilt.ID = s.doc.AllocateObjectID()
	rebuilt.Layer = layer.ID
	if err := s.hist.Do(s.doc, history.InsertObjectCommand{Object: rebuilt, Index: -1}); err != nil {
		return err
	}
	markup.Logger().Debug("commit", "kind", rebuilt.Kind.String(), "object", rebuilt.ID)
	return nil
}

// rebuildFinished turns an accumulated provisional into a committable
// object. The second return is false for degenerate input: a stroke
// with fewer than two samples, or a shape shorter than minShapeSpan.
func rebuildFinished(o markup.Object) (markup.Object, bool) {
	switch o.Kind {
	case markup.KindStroke:
		if len(o.Points) < 2 {
			return markup.Object{}, false
		}
		rebuilt, err := markup.NewStroke(o.Points, o.Style)
		if err != nil {
			return markup.Object{}, false
		}
		return rebuilt, true
	case markup.KindRectangle, markup.KindEllipse, markup.KindArrow:
		if o.Points[0].Distance(o.Points[1]) < minShapeSpan {
			return markup.Object{}, false
		}
		switch o.Kind {
		case markup.KindRectangle:
			return markup.NewRectangle(o.Points[0], o.Points[1], o.Style), true
		case markup.KindEllipse:
			return markup.NewEllipse(o.Points[0], o.Points[1], o.Style), true
		default:
			return markup.NewArrow(o.Points[0], o.Points[1], o.Style), true
		}
	}
	return markup.Object{}, false
}

// --------------------------------------------------------------------------
// Move and rubber band
// --------------------------------------------------------------------------

// beginDrag snapshots the selected objects for a move gesture. Objects
// that vanished or sit on locked layers are left out of the gesture but
// stay selected.
func (s *Session) beginDrag() {
	s.dragging = false
	s.originals = make(map[markup.ObjectID]markup.Object, len(s.selection))
	for _, id := range s.selection {
		o, ok := s.doc.Object(id)
		if !ok {
			continue
		}
		if l, ok := s.doc.Layer(o.Layer); !ok || l.Locked {
			continue
		}
		s.originals[id] = o
	}
}

// previewTranslate rebuilds the move preview from the gesture-start
// snapshots, so repeated moves never accumulate error.
func (s *Session) previewTranslate(delta markup.Point) {
	if s.preview == nil {
		s.preview = make(map[markup.ObjectID]markup.Object, len(s.originals))
	}
	for id, orig := range s.originals {
		s.preview[id] = orig.Translate(delta)
	}
}

// finishMove commits the translation as one batch, or resolves a plain
// click-select when the pointer never crossed the drag threshold.
func (s *Session) finishMove(p markup.Point) error {
	dragged := s.dragging
	if dragged {
		s.previewTranslate(p.Sub(s.pressAt))
	}
	cmds := s.replaceCommands()
	s.originals = nil
	s.preview = nil
	s.dragging = false
	s.state = StateIdle
	if !dragged || len(cmds) == 0 {
		return nil
	}
	return s.hist.Do(s.doc, history.BatchCommand{Label: "move", Commands: cmds})
}

// replaceCommands pairs the gesture-start snapshots with their preview
// values, in selection order.
func (s *Session) replaceCommands() []history.Command {
	var cmds []history.Command
	for _, id := range s.selection {
		before, ok := s.originals[id]
		if !ok {
			continue
		}
		after, ok := s.preview[id]
		if !ok {
			continue
		}
		cmds = append(cmds, history.ReplaceObjectCommand{Before: before, After: after})
	}
	return cmds
}

// objectsInBand lists the objects whose painted bounds intersect the
// rubber band, on visible unlocked layers, in paint order.
func (s *Session) objectsInBand() []markup.ObjectID {
	band := markup.RectFromPoints(s.pressAt, s.bandTo)
	var ids []markup.ObjectID
	for _, l := range s.doc.Layers() {
		if !l.Visible || l.Locked {
			continue
		}
		objs, err := s.doc.ObjectsOn(l.ID)
		if err != nil {
			continue
		}
		for _, o := range objs {
			if o.PaintedBounds().Intersects(band) {
				ids = append(ids, o.ID)
			}
		}
	}
	return ids
}

// isSelected reports whether id is in the current selection.
func (s *Session) isSelected(id markup.ObjectID) bool {
	for _, sel := range s.selection {
		if sel == id {
			return true
		}
	}
	return false
}

// --------------------------------------------------------------------------
// Text and emoji placement
// --------------------------------------------------------------------------

// PlaceText commits a text object at the pending placement point, using
// the pen color at the configured text size, then switches to the move
// tool so the new text can be dragged into place. Empty content cancels
// the placement.
func (s *Session) PlaceText(content string) error {
	if s.state != StatePlacing || s.tool != ToolText {
		return ErrNoPlacement
	}
	if content == "" {
		s.Cancel()
		return nil
	}
	style := markup.TextStyle()
	style.Color = s.cfg.strokeStyle.Color
	style.Width = s.cfg.textSize

	s.state = StateIdle
	if err := s.insertText(s.pressAt, content, style, false); err != nil {
		return err
	}
	s.tool = ToolMove
	return nil
}

// PlaceEmoji commits an emoji sticker at the view center: white, at
// double the text size, flagged IsEmoji when the content carries emoji
// code points. It works from StateIdle or from a pending emoji
// placement, and switches to the move tool so the sticker can be
// dragged immediately. Empty content is a no-op.
func (s *Session) PlaceEmoji(content string) error {
	switch s.state {
	case StateIdle:
	case StatePlacing:
		if s.tool != ToolEmoji {
			return ErrNoPlacement
		}
	default:
		return ErrGestureActive
	}
	if content == "" {
		s.Cancel()
		return nil
	}
	style := markup.TextStyle()
	style.Color = markup.White
	style.Width = s.cfg.textSize * emojiSizeFactor

	s.state = StateIdle
	if err := s.insertText(s.viewCenter(), content, style, emoji.ContainsEmoji(content)); err != nil {
		return err
	}
	s.tool = ToolMove
	return nil
}

// insertText builds and inserts a text object as one undo step.
func (s *Session) insertText(at markup.Point, content string, style markup.Style, isEmoji bool) error {
	layer, err := s.activeTarget()
	if err != nil {
		return err
	}
	o, err := markup.NewText(at, content, style)
	if err != nil {
		return err
	}
	o.IsEmoji = isEmoji
	o.ID = s.doc.AllocateObjectID()
	o.Layer = layer.ID
	if err := s.hist.Do(s.doc, history.InsertObjectCommand{Object: o, Index: -1}); err != nil {
		return err
	}
	markup.Logger().Debug("place", "object", o.ID, "emoji", isEmoji)
	return nil
}

// viewCenter returns the center of the base surface, falling back to
// the configured canvas size, then to the origin.
func (s *Session) viewCenter() markup.Point {
	if s.base != nil {
		return markup.Point{
			X: float64(s.base.Width()) / 2,
			Y: float64(s.base.Height()) / 2,
		}
	}
	return markup.Point{
		X: float64(s.cfg.canvasWidth) / 2,
		Y: float64(s.cfg.canvasHeight) / 2,
	}
}

// --------------------------------------------------------------------------
// Resize
// --------------------------------------------------------------------------

// BeginResize opens a resize gesture over the current selection, driven
// by SetResizeFactor. Objects on locked layers are left out; with
// nothing resizable the gesture refuses with ErrNoSelection.
func (s *Session) BeginResize() error {
	if s.state != StateIdle {
		return ErrGestureActive
	}
	if len(s.selection) == 0 {
		return ErrNoSelection
	}
	s.beginDrag()
	if len(s.originals) == 0 {
		s.originals = nil
		return ErrNoSelection
	}
	s.resizeFactor = 1
	s.state = StateResizing
	return nil
}

// SetResizeFactor scales the selection preview to factor times the
// gesture-start size. Each object scales about its own anchor, the
// center it was drawn with.
func (s *Session) SetResizeFactor(factor float64) error {
	if s.state != StateResizing {
		return ErrNoResize
	}
	if factor <= 0 {
		return fmt.Errorf("resize factor %g: %w", factor, markup.ErrInvalidGeometry)
	}
	if s.preview == nil {
		s.preview = make(map[markup.ObjectID]markup.Object, len(s.originals))
	}
	for id, orig := range s.originals {
		scaled, err := orig.ScaleBy(factor, orig.Transform.Anchor)
		if err != nil {
			return err
		}
		s.preview[id] = scaled
	}
	s.resizeFactor = factor
	return nil
}

// EndResize commits the scaled selection as one batch. Ending at factor
// 1 leaves the document and history untouched.
func (s *Session) EndResize() error {
	if s.state != StateResizing {
		return ErrNoResize
	}
	factor := s.resizeFactor
	cmds := s.replaceCommands()
	s.originals = nil
	s.preview = nil
	s.resizeFactor = 0
	s.state = StateIdle
	if factor == 1 || len(cmds) == 0 {
		return nil
	}
	return s.hist.Do(s.doc, history.BatchCommand{Label: "resize", Commands: cmds})
}

// --------------------------------------------------------------------------
// Deletion
// --------------------------------------------------------------------------

// DeleteSelection removes the selected objects as one undo batch. Any
// selected object on a locked layer refuses the whole batch with
// ErrLayerLocked; nothing is deleted partially.
func (s *Session) DeleteSelection() error {
	if s.state != StateIdle {
		return ErrGestureActive
	}
	if len(s.selection) == 0 {
		return ErrNoSelection
	}
	var targets []removal
	for _, id := range s.selection {
		o, ok := s.doc.Object(id)
		if !ok {
			continue
		}
		layer, ok := s.doc.Layer(o.Layer)
		if !ok {
			continue
		}
		if layer.Locked {
			return fmt.Errorf("layer %q: %w", layer.Name, markup.ErrLayerLocked)
		}
		targets = append(targets, removal{obj: o, index: s.objectIndex(o)})
	}
	if len(targets) == 0 {
		s.selection = nil
		return ErrNoSelection
	}
	if err := s.hist.Do(s.doc, removalBatch("delete", targets)); err != nil {
		return err
	}
	s.selection = nil
	return nil
}

// ClearAnnotations removes every object on every unlocked layer,
// hidden ones included, as one undo batch. Locked layers keep their
// objects. Clearing an already empty document is a no-op.
func (s *Session) ClearAnnotations() error {
	if s.state != StateIdle {
		return ErrGestureActive
	}
	var targets []removal
	for _, l := range s.doc.Layers() {
		if l.Locked {
			continue
		}
		objs, err := s.doc.ObjectsOn(l.ID)
		if err != nil {
			continue
		}
		for i, o := range objs {
			targets = append(targets, removal{obj: o, index: i})
		}
	}
	if len(targets) == 0 {
		return nil
	}
	if err := s.hist.Do(s.doc, removalBatch("clear", targets)); err != nil {
		return err
	}
	s.selection = nil
	return nil
}

// removal pairs an object snapshot with its position in its layer.
type removal struct {
	obj   markup.Object
	index int
}

// removalBatch orders removals by descending index, so applying them in
// sequence never shifts a later target, and the inverted batch
// re-inserts in ascending order at the recorded positions.
func removalBatch(label string, targets []removal) history.BatchCommand {
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].index > targets[j].index
	})
	cmds := make([]history.Command, len(targets))
	for i, t := range targets {
		cmds[i] = history.RemoveObjectCommand{Object: t.obj, Index: t.index}
	}
	return history.BatchCommand{Label: label, Commands: cmds}
}

// objectIndex returns o's position within its layer's object sequence.
func (s *Session) objectIndex(o markup.Object) int {
	l, ok := s.doc.Layer(o.Layer)
	if !ok {
		return -1
	}
	for i, id := range l.Objects {
		if id == o.ID {
			return i
		}
	}
	return -1
}

// --------------------------------------------------------------------------
// Layer operations
// --------------------------------------------------------------------------

// AddLayer appends a new visible, unlocked layer on top, as one undo
// step, and returns its id.
func (s *Session) AddLayer(name string) (markup.LayerID, error) {
	if s.state != StateIdle {
		return markup.NoLayer, ErrGestureActive
	}
	layer := markup.Layer{
		ID:      s.doc.AllocateLayerID(),
		Name:    name,
		Order:   s.doc.LayerCount(),
		Visible: true,
	}
	if err := s.hist.Do(s.doc, history.InsertLayerCommand{Layer: layer}); err != nil {
		return markup.NoLayer, err
	}
	return layer.ID, nil
}

// RemoveLayer deletes a layer and everything on it as one undo step.
// Locked layers refuse. When the active layer goes away, the topmost
// remaining layer becomes active.
func (s *Session) RemoveLayer(id markup.LayerID) error {
	if s.state != StateIdle {
		return ErrGestureActive
	}
	layer, ok := s.doc.Layer(id)
	if !ok {
		return fmt.Errorf("layer %d: %w", id, markup.ErrNotFound)
	}
	if layer.Locked {
		return fmt.Errorf("layer %q: %w", layer.Name, markup.ErrLayerLocked)
	}
	objs, err := s.doc.ObjectsOn(id)
	if err != nil {
		return err
	}
	cmd := history.RemoveLayerCommand{Layer: layer, Objects: objs}
	if err := s.hist.Do(s.doc, cmd); err != nil {
		return err
	}
	s.pruneSelection()
	if s.activeLayer == id {
		s.activeLayer = markup.NoLayer
		if layers := s.doc.Layers(); len(layers) > 0 {
			s.activeLayer = layers[len(layers)-1].ID
		}
	}
	return nil
}

// MoveLayer shifts a layer to a new position in the paint order, as one
// undo step.
func (s *Session) MoveLayer(id markup.LayerID, newIndex int) error {
	if s.state != StateIdle {
		return ErrGestureActive
	}
	layer, ok := s.doc.Layer(id)
	if !ok {
		return fmt.Errorf("layer %d: %w", id, markup.ErrNotFound)
	}
	if layer.Order == newIndex {
		return nil
	}
	cmd := history.ReorderLayerCommand{ID: id, From: layer.Order, To: newIndex}
	return s.hist.Do(s.doc, cmd)
}

// SetLayerVisible toggles a layer's visibility as one undo step.
// Setting the current value records nothing.
func (s *Session) SetLayerVisible(id markup.LayerID, visible bool) error {
	if s.state != StateIdle {
		return ErrGestureActive
	}
	layer, ok := s.doc.Layer(id)
	if !ok {
		return fmt.Errorf("layer %d: %w", id, markup.ErrNotFound)
	}
	if layer.Visible == visible {
		return nil
	}
	cmd := history.SetLayerVisibleCommand{ID: id, Visible: visible, Was: layer.Visible}
	return s.hist.Do(s.doc, cmd)
}

// SetLayerLocked toggles a layer's lock as one undo step. Setting the
// current value records nothing. Locking does not deselect; mutating
// gestures skip locked objects at gesture start.
func (s *Session) SetLayerLocked(id markup.LayerID, locked bool) error {
	if s.state != StateIdle {
		return ErrGestureActive
	}
	layer, ok := s.doc.Layer(id)
	if !ok {
		return fmt.Errorf("layer %d: %w", id, markup.ErrNotFound)
	}
	if layer.Locked == locked {
		return nil
	}
	cmd := history.SetLayerLockedCommand{ID: id, Locked: locked, Was: layer.Locked}
	return s.hist.Do(s.doc, cmd)
}

// --------------------------------------------------------------------------
// Undo and redo
// --------------------------------------------------------------------------

// Undo reverts the most recent committed step. An in-flight gesture is
// cancelled first. Selected objects that no longer exist afterwards are
// dropped from the selection.
func (s *Session) Undo() error {
	if s.state != StateIdle {
		s.Cancel()
	}
	if err := s.hist.Undo(s.doc); err != nil {
		return err
	}
	s.pruneSelection()
	return nil
}

// Redo reapplies the most recently undone step. An in-flight gesture is
// cancelled first.
func (s *Session) Redo() error {
	if s.state != StateIdle {
		s.Cancel()
	}
	if err := s.hist.Redo(s.doc); err != nil {
		return err
	}
	s.pruneSelection()
	return nil
}

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// pruneSelection drops selected ids that no longer resolve.
func (s *Session) pruneSelection() {
	kept := s.selection[:0]
	for _, id := range s.selection {
		if _, ok := s.doc.Object(id); ok {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		s.selection = nil
		return
	}
	s.selection = kept
}

// activeTarget resolves the active layer and refuses locked ones.
func (s *Session) activeTarget() (markup.Layer, error) {
	layer, ok := s.doc.Layer(s.activeLayer)
	if !ok {
		return markup.Layer{}, fmt.Errorf("layer %d: %w", s.activeLayer, markup.ErrNotFound)
	}
	if layer.Locked {
		return markup.Layer{}, fmt.Errorf("layer %q: %w", layer.Name, markup.ErrLayerLocked)
	}
	return layer, nil
}

// --------------------------------------------------------------------------
// Base image and the raster boundary
// --------------------------------------------------------------------------

// SetBaseImage replaces the base pixels the annotations sit on, as from
// a capture or a clipboard paste. Passing nil drops the base. The
// change cancels any gesture and clears the selection; it is not an
// undoable document step.
func (s *Session) SetBaseImage(img image.Image) {
	if s.state != StateIdle {
		s.Cancel()
	}
	if img == nil {
		s.base = nil
	} else {
		s.base = raster.FromImage(img)
	}
	s.selection = nil
}

// BaseImage returns the live base surface, nil when none is set. Hosts
// pass it to Bake to burn annotations into the backdrop.
func (s *Session) BaseImage() *raster.Surface { return s.base }

// CropBase crops the base surface to r. Annotation coordinates are left
// alone: objects keep their canvas positions while the pixels shift,
// matching the non-destructive contract that only Bake moves ink into
// the base. Not an undoable document step.
func (s *Session) CropBase(r image.Rectangle) error {
	if s.state != StateIdle {
		s.Cancel()
	}
	if s.base == nil {
		return ErrNoBase
	}
	out, err := raster.Crop(s.base, r)
	if err != nil {
		return err
	}
	s.base = out
	return nil
}

// PixelateBase mosaics the region r of the base surface in place. Not
// an undoable document step.
func (s *Session) PixelateBase(r image.Rectangle, block int) error {
	if s.state != StateIdle {
		s.Cancel()
	}
	if s.base == nil {
		return ErrNoBase
	}
	return raster.Pixelate(s.base, r, block)
}

// Bake rasterizes annotations into dst and removes them from the
// document as one undo batch. A nil filter takes every object on
// visible unlocked layers; an explicit filter names exact objects and
// fails fast with ErrNotFound for missing ids or ErrLayerLocked for
// objects on locked layers, before any pixel is touched. Baking nothing
// fails with ErrEmptyResult. Undoing a bake restores the objects but
// not the pixels.
func (s *Session) Bake(dst *raster.Surface, filter []markup.ObjectID) error {
	if dst == nil {
		return fmt.Errorf("bake into nil surface: %w", markup.ErrInvalidGeometry)
	}
	if s.state != StateIdle {
		s.Cancel()
	}
	targets, err := s.bakeTargets(filter)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("bake: %w", markup.ErrEmptyResult)
	}
	var prims []render.Primitive
	for _, t := range targets {
		prims = append(prims, render.ObjectPrimitives(t.obj)...)
	}
	if err := s.rend.Rasterize(dst, prims); err != nil {
		return fmt.Errorf("bake: %w", err)
	}
	if err := s.hist.Do(s.doc, removalBatch("bake", targets)); err != nil {
		return err
	}
	s.pruneSelection()
	markup.Logger().Info("bake", "objects", len(targets))
	return nil
}

// bakeTargets resolves the bake filter to object snapshots in paint
// order. An explicit filter reaches hidden layers too; only locks and
// missing ids refuse.
func (s *Session) bakeTargets(filter []markup.ObjectID) ([]removal, error) {
	var targets []removal
	if filter == nil {
		for _, l := range s.doc.Layers() {
			if !l.Visible || l.Locked {
				continue
			}
			objs, err := s.doc.ObjectsOn(l.ID)
			if err != nil {
				continue
			}
			for i, o := range objs {
				targets = append(targets, removal{obj: o, index: i})
			}
		}
		return targets, nil
	}

	want := make(map[markup.ObjectID]bool, len(filter))
	for _, id := range filter {
		want[id] = true
	}
	found := make(map[markup.ObjectID]bool, len(filter))
	for _, l := range s.doc.Layers() {
		objs, err := s.doc.ObjectsOn(l.ID)
		if err != nil {
			continue
		}
		for i, o := range objs {
			if !want[o.ID] {
				continue
			}
			if l.Locked {
				return nil, fmt.Errorf("layer %q: %w", l.Name, markup.ErrLayerLocked)
			}
			targets = append(targets, removal{obj: o, index: i})
			found[o.ID] = true
		}
	}
	for _, id := range filter {
		if !found[id] {
			return nil, fmt.Errorf("object %d: %w", id, markup.ErrNotFound)
		}
	}
	return targets, nil
}

// Flatten composites the base surface and the document into a new
// surface, leaving both untouched. Without a base or a configured
// canvas size there is nothing to composite onto and Flatten fails
// with ErrNoBase.
func (s *Session) Flatten(opts raster.FlattenOptions) (*raster.Surface, error) {
	base := s.base
	if base == nil {
		if s.cfg.canvasWidth <= 0 || s.cfg.canvasHeight <= 0 {
			return nil, ErrNoBase
		}
		base = raster.NewSurface(s.cfg.canvasWidth, s.cfg.canvasHeight)
	}
	return s.rend.Flatten(base, s.doc, opts)
}
