// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package imageio

import (
	"image"

	"golang.org/x/image/draw"
)

// FitSize returns the largest size with the aspect ratio of size whose
// longer side is at most maxDim. Sizes already within maxDim, and a
// non-positive maxDim, return size unchanged. Neither side drops below 1.
func FitSize(size image.Point, maxDim int) image.Point {
	longest := max(size.X, size.Y)
	if maxDim <= 0 || longest <= maxDim {
		return size
	}
	return image.Point{
		X: max(size.X*maxDim/longest, 1),
		Y: max(size.Y*maxDim/longest, 1),
	}
}

// Resize scales img so its longer side is at most maxDim, using Catmull-Rom
// resampling. The result always starts at the origin. Images that already
// fit are copied without resampling.
func Resize(img image.Image, maxDim int) *image.RGBA {
	src := img.Bounds()
	size := FitSize(src.Size(), maxDim)
	dst := image.NewRGBA(image.Rectangle{Max: size})
	if size == src.Size() {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}
