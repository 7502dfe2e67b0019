package markup

import (
	"encoding/json"
	"fmt"
	"io"
)

// formatVersion is the structural form revision written by Encode.
const formatVersion = 1

// The structural form carries exactly the committed document state:
// layers and objects. Undo and redo stacks are session state and never
// persist.

type documentJSON struct {
	Version int          `json:"version"`
	Layers  []layerJSON  `json:"layers"`
	Objects []objectJSON `json:"objects"`
}

type layerJSON struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	OrderIndex int      `json:"order_index"`
	Visible    bool     `json:"visible"`
	Locked     bool     `json:"locked"`
	Objects    []uint64 `json:"objects"`
}

type objectJSON struct {
	ID        uint64        `json:"id"`
	Kind      string        `json:"kind"`
	Points    []pointJSON   `json:"points,omitempty"`
	Transform transformJSON `json:"transform"`
	Style     styleJSON     `json:"style"`
	Text      string        `json:"text_content,omitempty"`
	IsEmoji   bool          `json:"is_emoji,omitempty"`
	LayerID   uint64        `json:"layer_id"`
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type transformJSON struct {
	Anchor   pointJSON `json:"anchor"`
	Scale    float64   `json:"scale"`
	Rotation float64   `json:"rotation,omitempty"`
}

type styleJSON struct {
	Color          rgbaJSON  `json:"color"`
	Width          float64   `json:"width"`
	Fill           bool      `json:"fill,omitempty"`
	ShowBackground bool      `json:"show_background,omitempty"`
	Background     *rgbaJSON `json:"background,omitempty"`
	ShowShadow     bool      `json:"show_shadow,omitempty"`
	Shadow         *rgbaJSON `json:"shadow,omitempty"`
}

type rgbaJSON struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// kindTags maps Kind values to their stable wire names. Wire names are
// part of the persisted format and must never change meaning.
var kindTags = map[Kind]string{
	KindStroke:    "stroke",
	KindRectangle: "rectangle",
	KindEllipse:   "ellipse",
	KindArrow:     "arrow",
	KindText:      "text",
}

func parseKind(tag string) (Kind, bool) {
	for k, t := range kindTags {
		if t == tag {
			return k, true
		}
	}
	return 0, false
}

// EncodeDocument writes the document's structural form as JSON. Layers
// are written in paint order and objects in per-layer insertion order,
// so equal documents encode to identical bytes.
func EncodeDocument(w io.Writer, doc *Document) error {
	out := documentJSON{
		Version: formatVersion,
		Layers:  make([]layerJSON, 0, len(doc.layers)),
		Objects: make([]objectJSON, 0, len(doc.objects)),
	}
	for _, l := range doc.layers {
		lj := layerJSON{
			ID:         uint64(l.ID),
			Name:       l.Name,
			OrderIndex: l.Order,
			Visible:    l.Visible,
			Locked:     l.Locked,
			Objects:    make([]uint64, len(l.Objects)),
		}
		for i, id := range l.Objects {
			lj.Objects[i] = uint64(id)
		}
		out.Layers = append(out.Layers, lj)
		for _, id := range l.Objects {
			o, ok := doc.objects[id]
			if !ok {
				continue
			}
			out.Objects = append(out.Objects, encodeObject(o))
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("markup: encode document: %w", err)
	}
	return nil
}

func encodeObject(o Object) objectJSON {
	oj := objectJSON{
		ID:   uint64(o.ID),
		Kind: kindTags[o.Kind],
		Transform: transformJSON{
			Anchor:   pointJSON{X: o.Transform.Anchor.X, Y: o.Transform.Anchor.Y},
			Scale:    o.Transform.Scale,
			Rotation: o.Transform.Rotation,
		},
		Style: styleJSON{
			Color:          encodeRGBA(o.Style.Color),
			Width:          o.Style.Width,
			Fill:           o.Style.Fill,
			ShowBackground: o.Style.ShowBackground,
			ShowShadow:     o.Style.ShowShadow,
		},
		Text:    o.Text,
		IsEmoji: o.IsEmoji,
		LayerID: uint64(o.Layer),
	}
	if o.Style.Background != (RGBA{}) {
		bg := encodeRGBA(o.Style.Background)
		oj.Style.Background = &bg
	}
	if o.Style.Shadow != (RGBA{}) {
		sh := encodeRGBA(o.Style.Shadow)
		oj.Style.Shadow = &sh
	}
	for _, p := range o.Points {
		oj.Points = append(oj.Points, pointJSON{X: p.X, Y: p.Y})
	}
	return oj
}

func encodeRGBA(c RGBA) rgbaJSON {
	return rgbaJSON{R: c.R, G: c.G, B: c.B, A: c.A}
}

// DecodeDocument reads a structural form produced by EncodeDocument and
// rebuilds the document. Id counters are derived from the highest ids
// seen, so newly created objects never collide with loaded ones. Any
// structural violation fails the load; a partially decoded document is
// never returned.
func DecodeDocument(r io.Reader) (*Document, error) {
	var in documentJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("markup: decode document: %w", err)
	}
	if in.Version != formatVersion {
		return nil, fmt.Errorf("markup: decode document: unsupported version %d", in.Version)
	}

	doc := NewDocument()
	for _, lj := range in.Layers {
		id := LayerID(lj.ID)
		if id == NoLayer {
			return nil, fmt.Errorf("markup: decode document: layer without id")
		}
		if doc.layerByID(id) != nil {
			return nil, fmt.Errorf("markup: decode document: duplicate layer %d", lj.ID)
		}
		l := &Layer{
			ID:      id,
			Name:    lj.Name,
			Order:   lj.OrderIndex,
			Visible: lj.Visible,
			Locked:  lj.Locked,
			Objects: make([]ObjectID, len(lj.Objects)),
		}
		for i, oid := range lj.Objects {
			l.Objects[i] = ObjectID(oid)
		}
		doc.layers = append(doc.layers, l)
		doc.noteLayerID(id)
	}
	doc.sortLayers()

	for _, oj := range in.Objects {
		o, err := decodeObject(oj)
		if err != nil {
			return nil, err
		}
		if _, dup := doc.objects[o.ID]; dup {
			return nil, fmt.Errorf("markup: decode document: duplicate object %d", oj.ID)
		}
		owner := doc.layerByID(o.Layer)
		if owner == nil {
			return nil, fmt.Errorf("markup: decode document: object %d references missing layer %d", oj.ID, oj.LayerID)
		}
		if owner.indexOf(o.ID) < 0 {
			return nil, fmt.Errorf("markup: decode document: object %d not listed by layer %d", oj.ID, oj.LayerID)
		}
		doc.objects[o.ID] = o
		doc.noteObjectID(o.ID)
	}

	// Every id a layer lists must have decoded to an object.
	for _, l := range doc.layers {
		for _, oid := range l.Objects {
			if _, ok := doc.objects[oid]; !ok {
				return nil, fmt.Errorf("markup: decode document: layer %d lists missing object %d", l.ID, oid)
			}
		}
	}
	return doc, nil
}

func decodeObject(oj objectJSON) (Object, error) {
	kind, ok := parseKind(oj.Kind)
	if !ok {
		return Object{}, fmt.Errorf("markup: decode document: object %d has unknown kind %q", oj.ID, oj.Kind)
	}
	o := Object{
		ID:   ObjectID(oj.ID),
		Kind: kind,
		Transform: Transform{
			Anchor:   Point{X: oj.Transform.Anchor.X, Y: oj.Transform.Anchor.Y},
			Scale:    oj.Transform.Scale,
			Rotation: oj.Transform.Rotation,
		},
		Style: Style{
			Color:          decodeRGBA(oj.Style.Color),
			Width:          oj.Style.Width,
			Fill:           oj.Style.Fill,
			ShowBackground: oj.Style.ShowBackground,
			ShowShadow:     oj.Style.ShowShadow,
		},
		Text:    oj.Text,
		IsEmoji: oj.IsEmoji,
		Layer:   LayerID(oj.LayerID),
	}
	if oj.Style.Background != nil {
		o.Style.Background = decodeRGBA(*oj.Style.Background)
	}
	if oj.Style.Shadow != nil {
		o.Style.Shadow = decodeRGBA(*oj.Style.Shadow)
	}
	if o.ID == NoObject {
		return Object{}, fmt.Errorf("markup: decode document: object without id")
	}
	for _, p := range oj.Points {
		o.Points = append(o.Points, Point{X: p.X, Y: p.Y})
	}
	if err := o.Validate(); err != nil {
		return Object{}, fmt.Errorf("markup: decode document: object %d: %w", oj.ID, err)
	}
	return o, nil
}

func decodeRGBA(c rgbaJSON) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
