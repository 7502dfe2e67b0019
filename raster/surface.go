// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster bakes annotation primitives into CPU pixel buffers.
//
// The package covers the pixel side of the engine: the Surface buffer
// that holds the base image, a scanline rasterizer for the polygon and
// polyline primitives, glyph drawing for text runs, and the mosaic and
// crop operations hosts apply to the base image. Everything here works
// on plain RGBA8 memory; GPU hosts upload the same bytes as a texture.
package raster

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/markup"
)

// Surface is a rectangular RGBA8 pixel buffer. Pixels are stored
// alpha-premultiplied in the same layout as image.RGBA, so stdlib and
// x/image drawing operate on it directly.
type Surface struct {
	width  int
	height int
	data   []uint8 // premultiplied RGBA, 4 bytes per pixel
}

// NewSurface creates a transparent surface with the given dimensions.
// Non-positive dimensions are clamped to zero.
func NewSurface(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Surface{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// FromImage copies an image into a new surface. The fast path shares
// nothing with the source; mutations stay local.
func FromImage(img image.Image) *Surface {
	bounds := img.Bounds()
	s := NewSurface(bounds.Dx(), bounds.Dy())

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < s.height; y++ {
			src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+s.width*4]
			copy(s.data[y*s.width*4:], src)
		}
		return s
	}

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*s.width + x) * 4
			s.data[i+0] = uint8(r >> 8)
			s.data[i+1] = uint8(g >> 8)
			s.data[i+2] = uint8(b >> 8)
			s.data[i+3] = uint8(a >> 8)
		}
	}
	return s
}

// Width returns the width in pixels.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the height in pixels.
func (s *Surface) Height() int {
	return s.height
}

// Data returns the raw premultiplied RGBA bytes.
func (s *Surface) Data() []uint8 {
	return s.data
}

// Format reports the pixel layout for GPU upload.
func (s *Surface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// SetPixel stores a straight-alpha color at (x, y), replacing the pixel.
// Out-of-bounds writes are dropped.
func (s *Surface) SetPixel(x, y int, c markup.RGBA) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	i := (y*s.width + x) * 4
	s.data[i+0] = uint8(clamp255(c.R * c.A * 255))
	s.data[i+1] = uint8(clamp255(c.G * c.A * 255))
	s.data[i+2] = uint8(clamp255(c.B * c.A * 255))
	s.data[i+3] = uint8(clamp255(c.A * 255))
}

// Pixel returns the straight-alpha color at (x, y).
// Out-of-bounds reads return transparent.
func (s *Surface) Pixel(x, y int) markup.RGBA {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return markup.Transparent
	}
	i := (y*s.width + x) * 4
	a := float64(s.data[i+3]) / 255
	if a == 0 {
		return markup.Transparent
	}
	return markup.RGBA{
		R: float64(s.data[i+0]) / 255 / a,
		G: float64(s.data[i+1]) / 255 / a,
		B: float64(s.data[i+2]) / 255 / a,
		A: a,
	}
}

// BlendPixel composites a straight-alpha color over the pixel at (x, y)
// with the source-over operator.
func (s *Surface) BlendPixel(x, y int, c markup.RGBA) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.blend((y*s.width+x)*4, c)
}

// FillSpan composites the color over the half-open pixel span [x1, x2)
// on row y. Coordinates are clamped to the surface.
func (s *Surface) FillSpan(x1, x2, y int, c markup.RGBA) {
	if y < 0 || y >= s.height {
		return
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if x1 < 0 {
		x1 = 0
	}
	if x2 > s.width {
		x2 = s.width
	}
	base := y * s.width * 4
	for x := x1; x < x2; x++ {
		s.blend(base+x*4, c)
	}
}

// blend applies premultiplied source-over at byte offset i.
func (s *Surface) blend(i int, c markup.RGBA) {
	srcA := c.A
	srcR := c.R * srcA
	srcG := c.G * srcA
	srcB := c.B * srcA
	inv := 1.0 - srcA

	outR := srcR + float64(s.data[i+0])/255*inv
	outG := srcG + float64(s.data[i+1])/255*inv
	outB := srcB + float64(s.data[i+2])/255*inv
	outA := srcA + float64(s.data[i+3])/255*inv

	s.data[i+0] = uint8(clamp255(outR * 255))
	s.data[i+1] = uint8(clamp255(outG * 255))
	s.data[i+2] = uint8(clamp255(outB * 255))
	s.data[i+3] = uint8(clamp255(outA * 255))
}

// Clear fills the entire surface with a color.
func (s *Surface) Clear(c markup.RGBA) {
	r := uint8(clamp255(c.R * c.A * 255))
	g := uint8(clamp255(c.G * c.A * 255))
	b := uint8(clamp255(c.B * c.A * 255))
	a := uint8(clamp255(c.A * 255))
	for i := 0; i < len(s.data); i += 4 {
		s.data[i+0] = r
		s.data[i+1] = g
		s.data[i+2] = b
		s.data[i+3] = a
	}
}

// Clone returns an independent copy.
func (s *Surface) Clone() *Surface {
	out := &Surface{
		width:  s.width,
		height: s.height,
		data:   make([]uint8, len(s.data)),
	}
	copy(out.data, s.data)
	return out
}

// ToImage copies the surface into a new image.RGBA.
func (s *Surface) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.data)
	return img
}

// At implements image.Image.
func (s *Surface) At(x, y int) color.Color {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return color.RGBA{}
	}
	i := (y*s.width + x) * 4
	return color.RGBA{R: s.data[i+0], G: s.data[i+1], B: s.data[i+2], A: s.data[i+3]}
}

// Set implements draw.Image, letting stdlib and x/image compositors
// write into the surface.
func (s *Surface) Set(x, y int, c color.Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	r, g, b, a := c.RGBA()
	i := (y*s.width + x) * 4
	s.data[i+0] = uint8(r >> 8)
	s.data[i+1] = uint8(g >> 8)
	s.data[i+2] = uint8(b >> 8)
	s.data[i+3] = uint8(a >> 8)
}

// Bounds implements image.Image.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// ColorModel implements image.Image.
func (s *Surface) ColorModel() color.Model {
	return color.RGBAModel
}

// clamp255 clamps x to the [0, 255] byte range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
