// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// ShapedGlyph is one positioned glyph produced by shaping.
// Positions follow the font convention: X grows with the run, Y grows
// upward from the baseline. Hosts drawing in screen space negate Y.
type ShapedGlyph struct {
	// GID is the glyph index in the shaped face.
	GID uint32
	// Cluster is the rune index in the source text this glyph maps to.
	Cluster int
	// X, Y position the glyph relative to the run origin.
	X, Y float64
	// XAdvance is the pen advance this glyph contributes.
	XAdvance float64
}

// ShapedRun is the result of shaping one glyph run.
type ShapedRun struct {
	// Glyphs in visual order.
	Glyphs []ShapedGlyph
	// Advance is the total pen advance of the run.
	Advance float64
}

// Shaper turns GlyphRun primitives into positioned glyphs with full
// OpenType shaping: kerning, ligatures, and right-to-left runs. Hosts
// that draw text on the GPU shape here and rasterize or atlas the
// resulting glyph ids themselves.
//
// Shaper is safe for concurrent use. The parsed font is read-only and
// shared; HarfBuzz shaper instances carry mutable buffers and are pooled
// per call.
type Shaper struct {
	shaperPool sync.Pool

	mu  sync.RWMutex
	fnt *font.Font
}

// NewShaper creates a Shaper loaded with the bundled Go Regular face.
// Use SetFont to shape with a different face.
func NewShaper() *Shaper {
	s := &Shaper{
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
	// The bundled face is known-good; a parse failure here would mean a
	// corrupted toolchain, so it is safe to ignore.
	_ = s.SetFont(goregular.TTF)
	return s
}

// SetFont replaces the shaping face with the given TTF/OTF data.
// The data is parsed once; the parsed font is read-only and cached.
func (s *Shaper) SetFont(data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("render: parse font: %w", err)
	}
	s.mu.Lock()
	s.fnt = face.Font
	s.mu.Unlock()
	return nil
}

// Shape converts a glyph run into positioned glyphs. An empty run shapes
// to an empty result.
func (s *Shaper) Shape(run GlyphRun) (ShapedRun, error) {
	if run.Text == "" {
		return ShapedRun{}, nil
	}

	s.mu.RLock()
	fnt := s.fnt
	s.mu.RUnlock()
	if fnt == nil {
		return ShapedRun{}, fmt.Errorf("render: shaper has no font")
	}

	runes := []rune(run.Text)
	dir := di.DirectionLTR
	if run.Direction == DirectionRTL {
		dir = di.DirectionRTL
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		// font.Face is not safe for concurrent use; each call wraps the
		// shared read-only Font in a fresh Face.
		Face:     font.NewFace(fnt),
		Size:     floatToFixed(run.Size),
		Script:   detectScript(runes),
		Language: language.NewLanguage("en"),
	}

	hb := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.shaperPool.Put(hb)

	return convertGlyphs(output.Glyphs), nil
}

// detectScript inspects the runes and returns the script of the first
// non-space character. Mixed-script text should be split into runs per
// script before shaping.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 font size to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// convertGlyphs lays glyphs onto a pen, applying per-glyph offsets on top
// of the accumulated advance.
func convertGlyphs(glyphs []shaping.Glyph) ShapedRun {
	if len(glyphs) == 0 {
		return ShapedRun{}
	}
	out := ShapedRun{Glyphs: make([]ShapedGlyph, len(glyphs))}
	var x float64
	for i, g := range glyphs {
		adv := fixedToFloat(g.Advance)
		out.Glyphs[i] = ShapedGlyph{
			GID:      uint32(g.GlyphID),
			Cluster:  g.TextIndex(),
			X:        x + fixedToFloat(g.XOffset),
			Y:        fixedToFloat(g.YOffset),
			XAdvance: adv,
		}
		x += adv
	}
	out.Advance = x
	return out
}
