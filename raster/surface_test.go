// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/markup"
)

func colorNear(a, b markup.RGBA, tol float64) bool {
	return math.Abs(a.R-b.R) <= tol && math.Abs(a.G-b.G) <= tol &&
		math.Abs(a.B-b.B) <= tol && math.Abs(a.A-b.A) <= tol
}

func TestSetPixelRoundTrip(t *testing.T) {
	s := NewSurface(4, 4)

	want := markup.RGBA{R: 0.8, G: 0.4, B: 0.2, A: 1}
	s.SetPixel(1, 2, want)

	got := s.Pixel(1, 2)
	if !colorNear(got, want, 0.01) {
		t.Errorf("Pixel(1,2) = %+v, want %+v", got, want)
	}
	if got := s.Pixel(0, 0); got != markup.Transparent {
		t.Errorf("untouched pixel = %+v, want transparent", got)
	}
}

func TestPixelOutOfBounds(t *testing.T) {
	s := NewSurface(2, 2)

	// None of these may panic or write.
	s.SetPixel(-1, 0, markup.Red)
	s.SetPixel(0, 5, markup.Red)
	s.BlendPixel(7, 7, markup.Red)
	if got := s.Pixel(-1, 0); got != markup.Transparent {
		t.Errorf("out-of-bounds read = %+v, want transparent", got)
	}
	for i, b := range s.Data() {
		if b != 0 {
			t.Fatalf("byte %d = %d after out-of-bounds writes, want 0", i, b)
		}
	}
}

func TestBlendPixelSourceOver(t *testing.T) {
	s := NewSurface(1, 1)
	s.SetPixel(0, 0, markup.White)

	// Opaque source replaces.
	s.BlendPixel(0, 0, markup.Red)
	if got := s.Pixel(0, 0); !colorNear(got, markup.Red, 0.01) {
		t.Errorf("opaque blend = %+v, want red", got)
	}

	// Half-transparent black over white lands mid-gray.
	s.SetPixel(0, 0, markup.White)
	s.BlendPixel(0, 0, markup.Black.WithAlpha(0.5))
	want := markup.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	if got := s.Pixel(0, 0); !colorNear(got, want, 0.01) {
		t.Errorf("half blend = %+v, want %+v", got, want)
	}
}

func TestFillSpanClamps(t *testing.T) {
	s := NewSurface(4, 2)
	s.FillSpan(-3, 10, 0, markup.Red)

	for x := 0; x < 4; x++ {
		if got := s.Pixel(x, 0); !colorNear(got, markup.Red, 0.01) {
			t.Errorf("pixel (%d,0) = %+v, want red", x, got)
		}
	}
	if got := s.Pixel(0, 1); got != markup.Transparent {
		t.Errorf("row 1 touched by span on row 0: %+v", got)
	}

	// Fully outside the row range writes nothing.
	s.FillSpan(0, 4, 9, markup.Red)
}

func TestClearAndClone(t *testing.T) {
	s := NewSurface(3, 3)
	s.Clear(markup.Yellow)

	c := s.Clone()
	c.SetPixel(1, 1, markup.Black)

	if got := s.Pixel(1, 1); !colorNear(got, markup.Yellow, 0.01) {
		t.Errorf("clone write leaked into source: %+v", got)
	}
	if got := c.Pixel(0, 0); !colorNear(got, markup.Yellow, 0.01) {
		t.Errorf("clone lost cleared color: %+v", got)
	}
}

func TestImageRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}

	s := FromImage(src)
	out := s.ToImage()

	if got, want := out.Bounds(), src.Bounds(); got != want {
		t.Fatalf("bounds = %v, want %v", got, want)
	}
	for i := range src.Pix {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("byte %d = %d, want %d", i, out.Pix[i], src.Pix[i])
		}
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 13, 12))
	src.SetRGBA(10, 10, color.RGBA{R: 255, A: 255})

	s := FromImage(src)
	if s.Width() != 3 || s.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", s.Width(), s.Height())
	}
	if got := s.Pixel(0, 0); !colorNear(got, markup.Red, 0.01) {
		t.Errorf("pixel (0,0) = %+v, want red from (10,10)", got)
	}
}

func TestFormat(t *testing.T) {
	s := NewSurface(1, 1)
	if got := s.Format(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", got)
	}
}
