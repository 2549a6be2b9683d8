package shapefit

import (
	"math"
	"math/rand/v2"
)

// Generator produces random and evolved candidate shapes for one target.
//
// Every shape a Generator returns has its Color and Area derived from the
// target under the shape's clipped footprint. A Generator draws from its own
// random source and is not safe for concurrent use.
type Generator struct {
	target *Grid
	cfg    Config
	rng    *rand.Rand
	kinds  []Kind
}

// NewGenerator creates a generator for target. A nil rng is replaced by a
// randomly seeded one; pass a seeded source for reproducible output.
func NewGenerator(target *Grid, cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, configErrorf("target is nil")
	}
	if target.width == 0 || target.height == 0 {
		return nil, configErrorf("target is empty (%dx%d)", target.width, target.height)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // not security sensitive
	}
	return &Generator{
		target: target,
		cfg:    cfg,
		rng:    rng,
		kinds:  cfg.kinds(),
	}, nil
}

// RandomShape returns a new shape of a uniformly chosen kind, placed
// anywhere within the canvas extended by the configured margin.
func (g *Generator) RandomShape() Shape {
	s := Shape{Kind: g.kinds[g.rng.IntN(len(g.kinds))]}
	kindTable[s.Kind].random(g, &s)
	g.deriveColor(&s)
	return s
}

// RandomShapes returns n independent random shapes.
func (g *Generator) RandomShapes(n int) []Shape {
	shapes := make([]Shape, n)
	for i := range shapes {
		shapes[i] = g.RandomShape()
	}
	return shapes
}

// EvolveShape returns a copy of s with every coordinate moved by at most
// the mutation magnitude and its color re-derived. s is not modified.
func (g *Generator) EvolveShape(s Shape) Shape {
	out := s.Clone()
	if !out.Kind.Valid() {
		return out
	}
	kindTable[out.Kind].mutate(g, &out)
	g.deriveColor(&out)
	return out
}

// DeriveColor returns s with Color and Area taken from the generator's target.
func (g *Generator) DeriveColor(s Shape) Shape {
	g.deriveColor(&s)
	return s
}

func (g *Generator) deriveColor(s *Shape) {
	s.Color, s.Area = ColorUnder(g.target, *s)
}

// ColorUnder returns the mean target color under the shape's clipped
// footprint and the number of pixels averaged. Each channel is the
// truncated integer mean. A shape with no on-canvas pixels yields black
// and an area of zero.
func ColorUnder(target *Grid, s Shape) (RGB, int) {
	buf := getSpans()
	defer putSpans(buf)
	spans := s.appendSpans((*buf)[:0], target.width, target.height)
	*buf = spans

	var r, gr, b int64
	n := 0
	for _, sp := range spans {
		row := target.pix[(sp.Y*target.width+sp.X0)*3 : (sp.Y*target.width+sp.X1)*3]
		for i := 0; i < len(row); i += 3 {
			r += int64(row[i])
			gr += int64(row[i+1])
			b += int64(row[i+2])
		}
		n += sp.Len()
	}
	if n == 0 {
		return Black, 0
	}
	return RGB{R: uint8(r / int64(n)), G: uint8(gr / int64(n)), B: uint8(b / int64(n))}, n
}

// extent returns the inclusive coordinate range shapes may occupy along an
// axis of the given length.
func (g *Generator) extent(length int) (lo, hi int) {
	return -g.cfg.Margin, length + g.cfg.Margin - 1
}

// size draws a dimension in [MinSize, MaxSize], limited to span pixels.
func (g *Generator) size(span int) int {
	d := g.cfg.MinSize + g.rng.IntN(g.cfg.MaxSize-g.cfg.MinSize+1)
	return max(min(d, span), 1)
}

// delta draws a signed offset in [-MutationMagnitude, MutationMagnitude].
func (g *Generator) delta() int {
	m := g.cfg.MutationMagnitude
	return g.rng.IntN(2*m+1) - m
}

// place draws an interval of length d inside [lo, hi].
func (g *Generator) place(d, lo, hi int) (int, int) {
	start := lo + g.rng.IntN(hi-lo-d+2)
	return start, start + d - 1
}

func randomBox(g *Generator, s *Shape) {
	xlo, xhi := g.extent(g.target.width)
	ylo, yhi := g.extent(g.target.height)
	s.Min.X, s.Max.X = g.place(g.size(xhi-xlo+1), xlo, xhi)
	s.Min.Y, s.Max.Y = g.place(g.size(yhi-ylo+1), ylo, yhi)
}

func mutateBox(g *Generator, s *Shape) {
	xlo, xhi := g.extent(g.target.width)
	ylo, yhi := g.extent(g.target.height)
	s.Min.X, s.Max.X = g.mutateAxis(s.Min.X, s.Max.X, xlo, xhi)
	s.Min.Y, s.Max.Y = g.mutateAxis(s.Min.Y, s.Max.Y, ylo, yhi)
}

// sizeRange returns the allowed interval lengths inside [lo, hi].
func (g *Generator) sizeRange(lo, hi int) (dmin, dmax int) {
	dmax = max(min(g.cfg.MaxSize, hi-lo+1), 1)
	return min(g.cfg.MinSize, dmax), dmax
}

// mutateAxis moves both ends of the interval [a0, b0] by at most
// MutationMagnitude each, keeping it inside [lo, hi] and within the size
// bounds. Intervals that already break those limits are refitted instead.
func (g *Generator) mutateAxis(a0, b0, lo, hi int) (int, int) {
	a, b := a0+g.delta(), b0+g.delta()
	dmin, dmax := g.sizeRange(lo, hi)
	if d0 := b0 - a0 + 1; a0 < lo || b0 > hi || d0 < dmin || d0 > dmax {
		return g.fitAxis(a, b, lo, hi)
	}

	m := g.cfg.MutationMagnitude
	aLo, aHi := max(lo, a0-m), min(hi, a0+m)
	bLo, bHi := max(lo, b0-m), min(hi, b0+m)
	a = clampInt(a, aLo, aHi)
	b = clampInt(b, bLo, bHi)

	// The unmutated interval satisfies every limit, so each repair below
	// stays inside the windows.
	switch d := b - a + 1; {
	case d < dmin:
		b = min(bHi, a+dmin-1)
		a = max(aLo, b-dmin+1)
	case d > dmax:
		b = max(bLo, a+dmax-1)
		a = min(aHi, b-dmax+1)
	}
	return a, b
}

// fitAxis orders an interval, restores its length to the size bounds and
// slides it inside [lo, hi].
func (g *Generator) fitAxis(a, b, lo, hi int) (int, int) {
	if a > b {
		a, b = b, a
	}
	dmin, dmax := g.sizeRange(lo, hi)
	d := min(max(b-a+1, dmin), dmax)
	b = a + d - 1
	if a < lo {
		a, b = lo, lo+d-1
	}
	if b > hi {
		a, b = hi-d+1, hi
	}
	return a, b
}

// randomPolygon builds a regular polygon with a random vertex count and
// rotation, inscribed in a circle whose diameter is a random size.
func randomPolygon(g *Generator, s *Shape) {
	xlo, xhi := g.extent(g.target.width)
	ylo, yhi := g.extent(g.target.height)
	d := g.size(min(xhi-xlo+1, yhi-ylo+1))
	x0, _ := g.place(d, xlo, xhi)
	y0, _ := g.place(d, ylo, yhi)

	sides := minPolygonSides + g.rng.IntN(g.cfg.PolygonSides-minPolygonSides+1)
	rotation := g.rng.Float64() * 2 * math.Pi
	r := float64(d-1) / 2
	cx := float64(x0) + r
	cy := float64(y0) + r

	s.Points = make([]Point, sides)
	for i := range s.Points {
		a := rotation + 2*math.Pi*float64(i)/float64(sides)
		s.Points[i] = Point{
			X: clampInt(int(math.Round(cx+r*math.Cos(a))), xlo, xhi),
			Y: clampInt(int(math.Round(cy+r*math.Sin(a))), ylo, yhi),
		}
	}
}

func mutatePolygon(g *Generator, s *Shape) {
	xlo, xhi := g.extent(g.target.width)
	ylo, yhi := g.extent(g.target.height)
	for i := range s.Points {
		s.Points[i].X = clampInt(s.Points[i].X+g.delta(), xlo, xhi)
		s.Points[i].Y = clampInt(s.Points[i].Y+g.delta(), ylo, yhi)
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
