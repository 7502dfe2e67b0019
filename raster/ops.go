// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/markup"
)

// Crop returns a new surface holding the pixels inside r, clamped to the
// surface. A crop that covers no pixels is rejected with
// markup.ErrInvalidGeometry.
func Crop(s *Surface, r image.Rectangle) (*Surface, error) {
	clipped := r.Canon().Intersect(s.Bounds())
	if clipped.Empty() {
		return nil, fmt.Errorf("raster: crop %v of %v: %w", r, s.Bounds(), markup.ErrInvalidGeometry)
	}

	out := NewSurface(clipped.Dx(), clipped.Dy())
	rowBytes := clipped.Dx() * 4
	for y := 0; y < clipped.Dy(); y++ {
		srcOff := ((clipped.Min.Y+y)*s.width + clipped.Min.X) * 4
		copy(out.data[y*rowBytes:(y+1)*rowBytes], s.data[srcOff:srcOff+rowBytes])
	}
	return out, nil
}

// Pixelate mosaics the pixels inside r in place: the region is scaled
// down by block and back up with nearest-neighbor sampling, collapsing
// each block-sized cell to a single color. A block below 2 or a region
// covering no pixels is rejected with markup.ErrInvalidGeometry.
func Pixelate(s *Surface, r image.Rectangle, block int) error {
	if block < 2 {
		return fmt.Errorf("raster: pixelate block %d: %w", block, markup.ErrInvalidGeometry)
	}
	clipped := r.Canon().Intersect(s.Bounds())
	if clipped.Empty() {
		return fmt.Errorf("raster: pixelate %v of %v: %w", r, s.Bounds(), markup.ErrInvalidGeometry)
	}

	smallW := (clipped.Dx() + block - 1) / block
	smallH := (clipped.Dy() + block - 1) / block
	small := image.NewRGBA(image.Rect(0, 0, smallW, smallH))

	xdraw.NearestNeighbor.Scale(small, small.Bounds(), s, clipped, xdraw.Src, nil)
	xdraw.NearestNeighbor.Scale(s, clipped, small, small.Bounds(), xdraw.Src, nil)
	return nil
}
