// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster scan-converts shape footprints into horizontal pixel spans.
//
// A pixel (x, y) belongs to a footprint when its center (x+0.5, y+0.5) lies
// inside the shape. Every function clips its output to a width x height
// canvas, so shapes that extend past the edges produce only on-canvas spans,
// and shapes entirely off the canvas produce none.
package raster

import "math"

// Point is an integer vertex (internal copy to avoid import cycle).
type Point struct {
	X, Y int
}

// Span is the run of pixels [X0, X1) on row Y.
type Span struct {
	Y, X0, X1 int
}

// Len returns the number of pixels in the span.
func (s Span) Len() int {
	return s.X1 - s.X0
}

// Count returns the total number of pixels covered by spans.
func Count(spans []Span) int {
	n := 0
	for _, s := range spans {
		n += s.Len()
	}
	return n
}

// appendSpan clips [x0, x1) on row y to [0, width) and appends it if non-empty.
func appendSpan(dst []Span, y, x0, x1, width int) []Span {
	x0 = max(x0, 0)
	x1 = min(x1, width)
	if x0 >= x1 {
		return dst
	}
	return append(dst, Span{Y: y, X0: x0, X1: x1})
}

// rows clips the inclusive row range [y0, y1] to [0, height).
func rows(y0, y1, height int) (int, int) {
	return max(y0, 0), min(y1, height-1)
}

// Rect appends the spans of the inclusive box (x0, y0)-(x1, y1).
func Rect(dst []Span, x0, y0, x1, y1, width, height int) []Span {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	lo, hi := rows(y0, y1, height)
	for y := lo; y <= hi; y++ {
		dst = appendSpan(dst, y, x0, x1+1, width)
	}
	return dst
}

// Ellipse appends the spans of the ellipse inscribed in the inclusive box
// (x0, y0)-(x1, y1).
func Ellipse(dst []Span, x0, y0, x1, y1, width, height int) []Span {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	cx := float64(x0+x1+1) / 2
	cy := float64(y0+y1+1) / 2
	rx := float64(x1-x0+1) / 2
	ry := float64(y1-y0+1) / 2

	lo, hi := rows(y0, y1, height)
	for y := lo; y <= hi; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		t := 1 - dy*dy
		if t < 0 {
			continue
		}
		half := rx * math.Sqrt(t)
		xs := int(math.Ceil(cx - half - 0.5))
		xe := int(math.Floor(cx + half - 0.5))
		dst = appendSpan(dst, y, xs, xe+1, width)
	}
	return dst
}
