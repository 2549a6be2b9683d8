package shapefit

import "math"

// WorstFitness is the score of a shape with no on-canvas pixels. It ranks
// below every real score.
const WorstFitness int64 = math.MinInt64

// Scored pairs a candidate with its fitness.
type Scored struct {
	Shape   Shape
	Fitness int64
}

// Fitness returns how much committing s would reduce the difference between
// canvas and target: the difference over the shape's bounds before, minus
// the difference over the same bounds after rendering s on a copy of canvas.
// Positive means the shape helps.
//
// Only footprint pixels change when s is rendered, so the score is summed
// over the footprint alone and canvas is never written. Fitness is safe to
// call concurrently as long as canvas is not being modified.
func Fitness(canvas, target *Grid, s Shape) int64 {
	mustSameSize(canvas, target)

	buf := getSpans()
	defer putSpans(buf)
	spans := s.appendSpans((*buf)[:0], canvas.width, canvas.height)
	*buf = spans
	if len(spans) == 0 {
		return WorstFitness
	}

	c := s.Color
	var before, after int64
	for _, sp := range spans {
		lo := (sp.Y*canvas.width + sp.X0) * 3
		hi := (sp.Y*canvas.width + sp.X1) * 3
		cv, tg := canvas.pix[lo:hi], target.pix[lo:hi]
		for i := 0; i < len(cv); i += 3 {
			before += channelDiff(cv[i], cv[i+1], cv[i+2], tg[i], tg[i+1], tg[i+2])
			after += channelDiff(c.R, c.G, c.B, tg[i], tg[i+1], tg[i+2])
		}
	}
	return before - after
}
