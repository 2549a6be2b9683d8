// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import "golang.org/x/image/math/fixed"

// half is 0.5 in 26.6 fixed point.
const half = fixed.Int26_6(32)

// Edge is a non-horizontal polygon edge with y0 < y1, in 26.6 fixed point.
type Edge struct {
	x0, y0 fixed.Int26_6
	x1, y1 fixed.Int26_6
	dir    int // +1 if the original edge pointed down, -1 if up
}

// NewEdge creates an edge from p0 to p1. ok is false for horizontal edges,
// which never cross a scanline center.
func NewEdge(p0, p1 Point) (e Edge, ok bool) {
	if p0.Y == p1.Y {
		return Edge{}, false
	}
	dir := 1
	if p0.Y > p1.Y {
		dir = -1
		p0, p1 = p1, p0
	}
	return Edge{
		x0:  fixed.I(p0.X),
		y0:  fixed.I(p0.Y),
		x1:  fixed.I(p1.X),
		y1:  fixed.I(p1.Y),
		dir: dir,
	}, true
}

// crosses reports whether the edge spans scanline center y, treating the
// edge as half-open [y0, y1).
func (e *Edge) crosses(y fixed.Int26_6) bool {
	return e.y0 <= y && y < e.y1
}

// XAtY returns the edge's x coordinate at y, rounded toward negative infinity.
func (e *Edge) XAtY(y fixed.Int26_6) fixed.Int26_6 {
	num := int64(e.x1-e.x0) * int64(y-e.y0)
	return e.x0 + fixed.Int26_6(floorDiv(num, int64(e.y1-e.y0)))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// crossing is an edge intersection with the current scanline.
type crossing struct {
	x   fixed.Int26_6
	dir int
}

// ActiveEdgeTable collects the crossings of one scanline.
type ActiveEdgeTable struct {
	crossings []crossing
}

// reset clears the table for the next scanline.
func (aet *ActiveEdgeTable) reset() {
	aet.crossings = aet.crossings[:0]
}

// add records the crossing of e with scanline y.
func (aet *ActiveEdgeTable) add(e *Edge, y fixed.Int26_6) {
	aet.crossings = append(aet.crossings, crossing{x: e.XAtY(y), dir: e.dir})
}

// sort orders crossings by x (insertion sort; polygons here are small).
func (aet *ActiveEdgeTable) sort() {
	c := aet.crossings
	for i := 1; i < len(c); i++ {
		key := c[i]
		j := i - 1
		for j >= 0 && c[j].x > key.x {
			c[j+1] = c[j]
			j--
		}
		c[j+1] = key
	}
}

// Polygon appends the spans of the closed polygon through pts, filled with
// the non-zero winding rule. Fewer than three vertices produce no spans.
func Polygon(dst []Span, pts []Point, width, height int) []Span {
	if len(pts) < 3 {
		return dst
	}

	edges := make([]Edge, 0, len(pts))
	minY, maxY := pts[0].Y, pts[0].Y
	for i, p := range pts {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
		if e, ok := NewEdge(p, pts[(i+1)%len(pts)]); ok {
			edges = append(edges, e)
		}
	}
	if len(edges) == 0 {
		return dst
	}

	var aet ActiveEdgeTable
	lo, hi := rows(minY, maxY-1, height)
	for y := lo; y <= hi; y++ {
		yc := fixed.I(y) + half
		aet.reset()
		for i := range edges {
			if edges[i].crosses(yc) {
				aet.add(&edges[i], yc)
			}
		}
		aet.sort()

		winding := 0
		var xl fixed.Int26_6
		for _, c := range aet.crossings {
			if winding == 0 {
				xl = c.x
			}
			winding += c.dir
			if winding == 0 {
				// Pixel x is inside when xl <= x+0.5 < xr.
				dst = appendSpan(dst, y, (xl - half).Ceil(), (c.x - half).Ceil(), width)
			}
		}
	}
	return dst
}
