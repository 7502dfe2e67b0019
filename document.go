package markup

import (
	"fmt"
	"sort"
)

// Document is the single source of truth for an annotation stack: an
// ordered set of layers plus an id-indexed arena of objects. Layers
// reference objects by id and never embed a copy.
//
// Document is single-writer state. The edit session mutates it through
// the history bridge; renderers only read. It is not safe for concurrent
// use.
type Document struct {
	layers  []*Layer            // sorted by Order ascending; Order stays dense
	objects map[ObjectID]Object // arena; Points slices owned by the arena

	nextObjectID ObjectID
	nextLayerID  LayerID
	version      uint64
}

// NewDocument creates an empty document with no layers.
func NewDocument() *Document {
	return &Document{
		objects:      make(map[ObjectID]Object),
		nextObjectID: 1,
		nextLayerID:  1,
	}
}

// Version returns the revision counter. It increments on every mutation,
// letting hosts cheaply detect that a re-render is needed. The counter is
// allocation state: it is excluded from Equal.
func (d *Document) Version() uint64 {
	return d.version
}

// --------------------------------------------------------------------------
// Lookups
// --------------------------------------------------------------------------

// Object returns a copy of the object with the given id.
func (d *Document) Object(id ObjectID) (Object, bool) {
	o, ok := d.objects[id]
	if !ok {
		return Object{}, false
	}
	return o.Clone(), true
}

// Layer returns a copy of the layer with the given id.
func (d *Document) Layer(id LayerID) (Layer, bool) {
	l := d.layerByID(id)
	if l == nil {
		return Layer{}, false
	}
	return l.Clone(), true
}

// Layers returns copies of all layers in paint order (Order ascending).
func (d *Document) Layers() []Layer {
	out := make([]Layer, len(d.layers))
	for i, l := range d.layers {
		out[i] = l.Clone()
	}
	return out
}

// LayerCount returns the number of layers.
func (d *Document) LayerCount() int {
	return len(d.layers)
}

// ObjectCount returns the number of objects across all layers.
func (d *Document) ObjectCount() int {
	return len(d.objects)
}

// ObjectsOn returns copies of a layer's objects in insertion order.
func (d *Document) ObjectsOn(id LayerID) ([]Object, error) {
	l := d.layerByID(id)
	if l == nil {
		return nil, fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	out := make([]Object, 0, len(l.Objects))
	for _, oid := range l.Objects {
		if o, ok := d.objects[oid]; ok {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (d *Document) layerByID(id LayerID) *Layer {
	for _, l := range d.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Layer operations
// --------------------------------------------------------------------------

// CreateLayer appends a new visible, unlocked layer at the top of the
// z-order and returns its id.
func (d *Document) CreateLayer(name string) LayerID {
	id := d.nextLayerID
	d.nextLayerID++
	d.layers = append(d.layers, &Layer{
		ID:      id,
		Name:    name,
		Order:   len(d.layers),
		Visible: true,
	})
	d.version++
	return id
}

// DeleteLayer removes a layer and cascades to its objects: every owned
// object is deleted with it. Remaining layer orders are renormalized to
// stay dense. Deleting a locked layer is refused.
func (d *Document) DeleteLayer(id LayerID) error {
	l := d.layerByID(id)
	if l == nil {
		return fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	if l.Locked {
		return fmt.Errorf("layer %d: %w", id, ErrLayerLocked)
	}
	_, _, err := d.TakeLayer(id)
	return err
}

// ReorderLayer moves a layer to a new z-order position. The index is
// clamped to the valid range; all orders are renormalized to stay dense.
func (d *Document) ReorderLayer(id LayerID, newIndex int) error {
	l := d.layerByID(id)
	if l == nil {
		return fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(d.layers)-1 {
		newIndex = len(d.layers) - 1
	}
	if l.Order == newIndex {
		return nil
	}
	d.layers = append(d.layers[:l.Order], d.layers[l.Order+1:]...)
	d.layers = append(d.layers, nil)
	copy(d.layers[newIndex+1:], d.layers[newIndex:])
	d.layers[newIndex] = l
	d.renumber()
	d.version++
	return nil
}

// SetLayerVisible toggles layer visibility. Allowed on locked layers:
// lock protects objects, not layer attributes.
func (d *Document) SetLayerVisible(id LayerID, visible bool) error {
	l := d.layerByID(id)
	if l == nil {
		return fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	l.Visible = visible
	d.version++
	return nil
}

// SetLayerLocked toggles layer locking.
func (d *Document) SetLayerLocked(id LayerID, locked bool) error {
	l := d.layerByID(id)
	if l == nil {
		return fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	l.Locked = locked
	d.version++
	return nil
}

// renumber reassigns dense Order values matching slice positions.
func (d *Document) renumber() {
	for i, l := range d.layers {
		l.Order = i
	}
}

// --------------------------------------------------------------------------
// Object operations
// --------------------------------------------------------------------------

// AddObject validates the object, assigns it a fresh id, and appends it to
// the layer. Fails with ErrNotFound for a missing layer, ErrLayerLocked for
// a locked one, and ErrInvalidGeometry for a malformed object; on failure
// nothing changes.
func (d *Document) AddObject(layerID LayerID, obj Object) (ObjectID, error) {
	l := d.layerByID(layerID)
	if l == nil {
		return NoObject, fmt.Errorf("layer %d: %w", layerID, ErrNotFound)
	}
	if l.Locked {
		return NoObject, fmt.Errorf("layer %d: %w", layerID, ErrLayerLocked)
	}
	if err := obj.Validate(); err != nil {
		return NoObject, err
	}
	stored := obj.Clone()
	stored.ID = d.AllocateObjectID()
	stored.Layer = layerID
	d.objects[stored.ID] = stored
	l.Objects = append(l.Objects, stored.ID)
	d.version++
	return stored.ID, nil
}

// RemoveObject deletes an object and returns its final snapshot.
// Fails with ErrLayerLocked when the owning layer is locked.
func (d *Document) RemoveObject(id ObjectID) (Object, error) {
	o, ok := d.objects[id]
	if !ok {
		return Object{}, fmt.Errorf("object %d: %w", id, ErrNotFound)
	}
	if l := d.layerByID(o.Layer); l != nil && l.Locked {
		return Object{}, fmt.Errorf("layer %d: %w", o.Layer, ErrLayerLocked)
	}
	taken, _, err := d.TakeObject(id)
	return taken, err
}

// ReplaceObject swaps in a new value for an existing object, preserving
// its id and owning layer. This is the mutation primitive behind move,
// resize, restyle, and text edits. Returns the prior snapshot.
func (d *Document) ReplaceObject(id ObjectID, obj Object) (Object, error) {
	old, ok := d.objects[id]
	if !ok {
		return Object{}, fmt.Errorf("object %d: %w", id, ErrNotFound)
	}
	if l := d.layerByID(old.Layer); l != nil && l.Locked {
		return Object{}, fmt.Errorf("layer %d: %w", old.Layer, ErrLayerLocked)
	}
	stored := obj.Clone()
	stored.ID = id
	stored.Layer = old.Layer
	if err := stored.Validate(); err != nil {
		return Object{}, err
	}
	d.objects[id] = stored
	d.version++
	return old.Clone(), nil
}

// MoveObjectToLayer transfers an object to the end of another layer,
// preserving its identity. Both the source and target layer must be
// unlocked.
func (d *Document) MoveObjectToLayer(id ObjectID, target LayerID) error {
	o, ok := d.objects[id]
	if !ok {
		return fmt.Errorf("object %d: %w", id, ErrNotFound)
	}
	dst := d.layerByID(target)
	if dst == nil {
		return fmt.Errorf("layer %d: %w", target, ErrNotFound)
	}
	src := d.layerByID(o.Layer)
	if src != nil && src.Locked {
		return fmt.Errorf("layer %d: %w", o.Layer, ErrLayerLocked)
	}
	if dst.Locked {
		return fmt.Errorf("layer %d: %w", target, ErrLayerLocked)
	}
	if src != nil {
		src.remove(id)
	}
	o.Layer = target
	d.objects[id] = o
	dst.Objects = append(dst.Objects, id)
	d.version++
	return nil
}

// --------------------------------------------------------------------------
// History replay operations
// --------------------------------------------------------------------------
//
// The bridge in the history package restores prior states exactly: same
// ids, same positions, same order. These operations bypass lock checks
// (locks constrain user edits, not history restoration) and never assign
// ids. They are not meant for tool code.

// AllocateObjectID reserves and returns the next object id. Commands that
// insert objects allocate the id at build time so redo restores the same
// id the first application used.
func (d *Document) AllocateObjectID() ObjectID {
	id := d.nextObjectID
	d.nextObjectID++
	return id
}

// AllocateLayerID reserves and returns the next layer id, for commands
// that insert layers.
func (d *Document) AllocateLayerID() LayerID {
	id := d.nextLayerID
	d.nextLayerID++
	return id
}

// PutObject inserts an object carrying its final id and layer at the given
// position within the layer's sequence (append when index is -1 or out of
// range). The id must be nonzero and unused.
func (d *Document) PutObject(obj Object, index int) error {
	if obj.ID == NoObject {
		return fmt.Errorf("object without id: %w", ErrInvalidGeometry)
	}
	if _, exists := d.objects[obj.ID]; exists {
		return fmt.Errorf("object %d already present: %w", obj.ID, ErrInvalidGeometry)
	}
	l := d.layerByID(obj.Layer)
	if l == nil {
		return fmt.Errorf("layer %d: %w", obj.Layer, ErrNotFound)
	}
	stored := obj.Clone()
	d.objects[stored.ID] = stored
	l.insertAt(stored.ID, index)
	d.noteObjectID(stored.ID)
	d.version++
	return nil
}

// SwapObject replaces the stored value for obj.ID regardless of layer
// locks, keeping the object's position in its layer sequence. The
// incoming value must name the same owning layer as the stored one.
// Returns the prior snapshot.
func (d *Document) SwapObject(obj Object) (Object, error) {
	old, ok := d.objects[obj.ID]
	if !ok {
		return Object{}, fmt.Errorf("object %d: %w", obj.ID, ErrNotFound)
	}
	if obj.Layer != old.Layer {
		return Object{}, fmt.Errorf("object %d owned by layer %d, not %d: %w",
			obj.ID, old.Layer, obj.Layer, ErrInvalidGeometry)
	}
	d.objects[obj.ID] = obj.Clone()
	d.version++
	return old, nil
}

// TakeObject removes an object regardless of layer locks and returns the
// snapshot together with its former position in the layer sequence.
func (d *Document) TakeObject(id ObjectID) (Object, int, error) {
	o, ok := d.objects[id]
	if !ok {
		return Object{}, -1, fmt.Errorf("object %d: %w", id, ErrNotFound)
	}
	index := -1
	if l := d.layerByID(o.Layer); l != nil {
		index = l.remove(id)
	}
	delete(d.objects, id)
	d.version++
	return o, index, nil
}

// PutLayer re-inserts a layer snapshot at its recorded Order position,
// together with the object snapshots it owned. Orders are renormalized,
// which reproduces the pre-deletion assignment exactly.
func (d *Document) PutLayer(layer Layer, objects []Object) error {
	if layer.ID == NoLayer {
		return fmt.Errorf("layer without id: %w", ErrInvalidGeometry)
	}
	if d.layerByID(layer.ID) != nil {
		return fmt.Errorf("layer %d already present: %w", layer.ID, ErrInvalidGeometry)
	}
	stored := layer.Clone()
	index := stored.Order
	if index < 0 || index > len(d.layers) {
		index = len(d.layers)
	}
	d.layers = append(d.layers, nil)
	copy(d.layers[index+1:], d.layers[index:])
	d.layers[index] = &stored
	d.renumber()
	for _, o := range objects {
		c := o.Clone()
		d.objects[c.ID] = c
		d.noteObjectID(c.ID)
	}
	d.noteLayerID(stored.ID)
	d.version++
	return nil
}

// TakeLayer removes a layer regardless of locks, cascading to its objects.
// Returns the layer snapshot and the owned object snapshots in insertion
// order.
func (d *Document) TakeLayer(id LayerID) (Layer, []Object, error) {
	l := d.layerByID(id)
	if l == nil {
		return Layer{}, nil, fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	snap := l.Clone()
	objects := make([]Object, 0, len(l.Objects))
	for _, oid := range l.Objects {
		if o, ok := d.objects[oid]; ok {
			objects = append(objects, o)
			delete(d.objects, oid)
		}
	}
	d.layers = append(d.layers[:l.Order], d.layers[l.Order+1:]...)
	d.renumber()
	d.version++
	return snap, objects, nil
}

// noteObjectID keeps the id counter ahead of every id ever seen, so
// restored and decoded ids are never reissued.
func (d *Document) noteObjectID(id ObjectID) {
	if id >= d.nextObjectID {
		d.nextObjectID = id + 1
	}
}

// noteLayerID keeps the layer id counter ahead of every id ever seen.
func (d *Document) noteLayerID(id LayerID) {
	if id >= d.nextLayerID {
		d.nextLayerID = id + 1
	}
}

// --------------------------------------------------------------------------
// Snapshot and comparison
// --------------------------------------------------------------------------

// Clone returns a deep copy of the document, including id counters.
func (d *Document) Clone() *Document {
	out := &Document{
		layers:       make([]*Layer, len(d.layers)),
		objects:      make(map[ObjectID]Object, len(d.objects)),
		nextObjectID: d.nextObjectID,
		nextLayerID:  d.nextLayerID,
		version:      d.version,
	}
	for i, l := range d.layers {
		c := l.Clone()
		out.layers[i] = &c
	}
	for id, o := range d.objects {
		out.objects[id] = o.Clone()
	}
	return out
}

// Equal reports whether two documents hold identical content: the same
// layers in the same order and the same objects. Id counters and the
// version are allocation state and deliberately excluded; comparing them
// would force id reuse on undo.
func (d *Document) Equal(other *Document) bool {
	if other == nil {
		return false
	}
	if len(d.layers) != len(other.layers) || len(d.objects) != len(other.objects) {
		return false
	}
	for i := range d.layers {
		if !d.layers[i].Equal(*other.layers[i]) {
			return false
		}
	}
	for id, o := range d.objects {
		oo, ok := other.objects[id]
		if !ok || !o.Equal(oo) {
			return false
		}
	}
	return true
}

// sortLayers restores the Order-ascending invariant after bulk loads.
func (d *Document) sortLayers() {
	sort.SliceStable(d.layers, func(i, j int) bool {
		return d.layers[i].Order < d.layers[j].Order
	})
	d.renumber()
}
