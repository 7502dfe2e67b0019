package markup

// LayerID identifies a layer within a Document.
// Like object ids, layer ids are assigned once and never reused.
type LayerID uint64

// NoLayer is the zero LayerID.
const NoLayer LayerID = 0

// Layer is an ordered slice of the annotation stack. It owns its objects
// by id; the Document arena holds the object values.
type Layer struct {
	ID      LayerID
	Name    string
	Order   int  // paint order among layers; lower paints first
	Visible bool // hidden layers are skipped by rendering and hit testing
	Locked  bool // locked layers refuse object mutation; reads still work

	// Objects lists owned object ids in insertion order, which is the
	// draw order within the layer.
	Objects []ObjectID
}

// Clone returns a deep copy of the layer.
func (l Layer) Clone() Layer {
	out := l
	out.Objects = make([]ObjectID, len(l.Objects))
	copy(out.Objects, l.Objects)
	return out
}

// Equal reports whether two layers are field-wise identical,
// including the object id sequence.
func (l Layer) Equal(other Layer) bool {
	if l.ID != other.ID || l.Name != other.Name || l.Order != other.Order ||
		l.Visible != other.Visible || l.Locked != other.Locked {
		return false
	}
	if len(l.Objects) != len(other.Objects) {
		return false
	}
	for i := range l.Objects {
		if l.Objects[i] != other.Objects[i] {
			return false
		}
	}
	return true
}

// indexOf returns the position of id in the object sequence, or -1.
func (l *Layer) indexOf(id ObjectID) int {
	for i, oid := range l.Objects {
		if oid == id {
			return i
		}
	}
	return -1
}

// insertAt places id at the given position, appending when index is out
// of range. Used by history replay to restore exact positions.
func (l *Layer) insertAt(id ObjectID, index int) {
	if index < 0 || index >= len(l.Objects) {
		l.Objects = append(l.Objects, id)
		return
	}
	l.Objects = append(l.Objects, 0)
	copy(l.Objects[index+1:], l.Objects[index:])
	l.Objects[index] = id
}

// remove deletes id from the object sequence and returns its former
// position, or -1 if absent.
func (l *Layer) remove(id ObjectID) int {
	i := l.indexOf(id)
	if i < 0 {
		return -1
	}
	l.Objects = append(l.Objects[:i], l.Objects[i+1:]...)
	return i
}
