package shapefit

import "image"

// The difference metric is the sum over pixels of the absolute per-channel
// differences |r0-r1| + |g0-g1| + |b0-b1|. It is 0 for identical grids and
// at most MaxDifference for grids of the same size.

// Difference returns the difference between two equally sized grids.
// It panics if the dimensions differ; use CheckSize to test first.
func Difference(a, b *Grid) int64 {
	mustSameSize(a, b)
	var sum int64
	pa, pb := a.pix, b.pix
	for i := 0; i < len(pa); i += 3 {
		sum += channelDiff(pa[i], pa[i+1], pa[i+2], pb[i], pb[i+1], pb[i+2])
	}
	return sum
}

// DifferenceIn returns the difference restricted to region. The region is
// clipped to the grid bounds first; only the clipped pixels are visited.
func DifferenceIn(a, b *Grid, region image.Rectangle) int64 {
	mustSameSize(a, b)
	r := region.Intersect(a.Bounds())
	if r.Empty() {
		return 0
	}
	var sum int64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		sum += rowDifference(a, b, r.Min.X, r.Max.X, y)
	}
	return sum
}

// rowDifference sums the difference over pixels [x0, x1) of row y.
func rowDifference(a, b *Grid, x0, x1, y int) int64 {
	lo := (y*a.width + x0) * 3
	hi := (y*a.width + x1) * 3
	pa, pb := a.pix[lo:hi], b.pix[lo:hi]
	var sum int64
	for i := 0; i < len(pa); i += 3 {
		sum += channelDiff(pa[i], pa[i+1], pa[i+2], pb[i], pb[i+1], pb[i+2])
	}
	return sum
}

// MaxDifference returns the largest possible difference between two grids
// of the given size: 255 per channel, 3 channels, every pixel.
func MaxDifference(width, height int) int64 {
	return 765 * int64(width) * int64(height)
}

// NormalizedDifference returns Difference scaled into [0, 1], where 0 means
// identical. Empty grids have a normalized difference of 0.
func NormalizedDifference(a, b *Grid) float64 {
	return normalize(Difference(a, b), a.width, a.height)
}

func normalize(diff int64, width, height int) float64 {
	m := MaxDifference(width, height)
	if m == 0 {
		return 0
	}
	return float64(diff) / float64(m)
}

// AverageColor returns the per-channel mean of every pixel in g, using
// truncating division. An empty grid averages to black.
func AverageColor(g *Grid) RGB {
	var r, gr, b int64
	for i := 0; i < len(g.pix); i += 3 {
		r += int64(g.pix[i])
		gr += int64(g.pix[i+1])
		b += int64(g.pix[i+2])
	}
	n := int64(g.width) * int64(g.height)
	if n == 0 {
		return Black
	}
	return RGB{R: uint8(r / n), G: uint8(gr / n), B: uint8(b / n)}
}

// DifferenceImage returns a grid whose pixels are the absolute per-channel
// differences between a and b. Identical grids give a black image.
// It panics if the dimensions differ.
func DifferenceImage(a, b *Grid) *Grid {
	mustSameSize(a, b)
	out := NewGrid(a.width, a.height)
	for i := range out.pix {
		out.pix[i] = uint8(absDiff(a.pix[i], b.pix[i]))
	}
	return out
}

// CheckSize returns ErrDimensionMismatch if the grids differ in size.
func CheckSize(a, b *Grid) error {
	if !a.SameSize(b) {
		return &SizeError{A: a.Bounds().Size(), B: b.Bounds().Size()}
	}
	return nil
}

func mustSameSize(a, b *Grid) {
	if err := CheckSize(a, b); err != nil {
		panic(err)
	}
}
