// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/markup"
	"github.com/gogpu/markup/render"
)

// Renderer draws primitive sequences onto surfaces. It owns the parsed
// font and a face cache keyed by pixel size, so repeated bakes of the
// same document reuse faces instead of re-deriving them.
//
// Renderer is safe for concurrent use; bakes of distinct surfaces may
// run in parallel.
type Renderer struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewRenderer creates a renderer loaded with the bundled Go Regular
// face. Use SetFont to rasterize with a different face.
func NewRenderer() *Renderer {
	r := &Renderer{}
	// The bundled face is known-good; a parse failure here would mean a
	// corrupted toolchain, so it is safe to ignore.
	_ = r.SetFont(goregular.TTF)
	return r
}

// SetFont replaces the text face with the given TTF/OTF data and drops
// the cached sizes.
func (r *Renderer) SetFont(data []byte) error {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("raster: parse font: %w", err)
	}
	r.mu.Lock()
	r.font = parsed
	r.faces = make(map[float64]font.Face)
	r.mu.Unlock()
	return nil
}

// Rasterize draws the primitives onto dst in sequence order. Unknown
// primitive kinds are skipped; a failed glyph face stops the bake.
func (r *Renderer) Rasterize(dst *Surface, prims []render.Primitive) error {
	for _, p := range prims {
		switch prim := p.(type) {
		case render.Polyline:
			StrokePolyline(dst, prim.Points, prim.Width, prim.Color)
		case render.FilledPolygon:
			FillPolygon(dst, prim.Points, FillNonZero, prim.Color)
		case render.OutlinedPolygon:
			StrokePolyline(dst, prim.Points, prim.Width, prim.Color)
		case render.GlyphRun:
			if err := r.drawGlyphRun(dst, prim); err != nil {
				return err
			}
		}
	}
	return nil
}

// drawGlyphRun draws one text run at its baseline origin.
func (r *Renderer) drawGlyphRun(dst *Surface, run render.GlyphRun) error {
	if run.Text == "" {
		return nil
	}
	face, err := r.face(run.Size)
	if err != nil {
		return err
	}

	text := run.Text
	if run.Direction == render.DirectionRTL {
		// The drawer lays runes out left to right; right-to-left runs
		// are emitted in visual order instead. Contextual forms are a
		// shaper concern and out of scope for the CPU bake.
		text = reverseRunes(text)
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(run.Color.Color()),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(run.Origin.X * 64),
			Y: fixed.Int26_6(run.Origin.Y * 64),
		},
	}
	d.DrawString(text)
	return nil
}

// face returns the cached face for a pixel size, deriving it on first
// use.
func (r *Renderer) face(size float64) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: face at size %v: %w", size, err)
	}
	r.faces[size] = f
	return f, nil
}

// Flatten composites the base image and the document's annotations into
// a new surface. The live document is never touched: rendering happens
// against a private clone. Locked layers are included only when opts
// asks for them; hidden layers never render.
func (r *Renderer) Flatten(base *Surface, doc *markup.Document, opts FlattenOptions) (*Surface, error) {
	out := base.Clone()

	work := doc.Clone()
	if !opts.IncludeLocked {
		for _, layer := range work.Layers() {
			if layer.Locked {
				if err := work.SetLayerVisible(layer.ID, false); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := r.Rasterize(out, render.Frame(work, nil)); err != nil {
		return nil, err
	}
	return out, nil
}

// FlattenOptions configures Flatten.
type FlattenOptions struct {
	// IncludeLocked bakes locked layers too. The copy-out path uses
	// this; the default matches bake's visible-and-unlocked filter.
	IncludeLocked bool
}

// reverseRunes returns s with its runes in reverse order.
func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
