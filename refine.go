package shapefit

import "errors"

// StopReason tells why RunRefinement returned.
type StopReason int

const (
	// StopIterationCap means MaxIterations iterations ran.
	StopIterationCap StopReason = iota
	// StopSimilarity means the canvas got within SimilarityThreshold of the target.
	StopSimilarity
	// StopNoViableCandidate means a search found no shape touching the canvas.
	StopNoViableCandidate
)

func (r StopReason) String() string {
	switch r {
	case StopIterationCap:
		return "iteration cap"
	case StopSimilarity:
		return "similarity threshold"
	case StopNoViableCandidate:
		return "no viable candidate"
	default:
		return "unknown"
	}
}

// Iteration describes one finished refinement iteration.
type Iteration struct {
	// Index counts iterations from 0.
	Index int

	// Best is the shape the search settled on.
	Best Scored

	// Committed reports whether Best was rendered onto the canvas. Shapes
	// that would not reduce the difference are dropped.
	Committed bool

	// Generations is the number of generations the search ran.
	Generations int

	// Difference is the canvas difference after this iteration.
	Difference int64
}

// Result is the outcome of RunRefinement.
type Result struct {
	// Canvas is the refined canvas (the one passed in, modified in place).
	Canvas *Grid

	// Committed lists the shapes rendered onto Canvas, in order.
	Committed []Shape

	// Trace holds the best fitness found in each iteration.
	Trace []int64

	// Iterations is the number of searches run.
	Iterations int

	// Difference is the final difference between Canvas and the target.
	Difference int64

	// Reason tells why the loop stopped.
	Reason StopReason
}

// NormalizedDifference returns Difference scaled into [0, 1].
func (r *Result) NormalizedDifference() float64 {
	return normalize(r.Difference, r.Canvas.width, r.Canvas.height)
}

// RunRefinement repeatedly searches for the best shape and commits it to
// canvas, which is modified in place and must match the target's size.
//
// Each iteration runs RunGeneration and renders its winner if the winner has
// positive fitness, so the difference never grows. The loop ends after
// MaxIterations iterations, once the normalized difference drops below
// SimilarityThreshold, or when a search finds no shape touching the canvas.
func (e *Engine) RunRefinement(canvas *Grid) (*Result, error) {
	if err := CheckSize(canvas, e.target); err != nil {
		return nil, err
	}

	res := &Result{
		Canvas:     canvas,
		Difference: Difference(canvas, e.target),
		Reason:     StopIterationCap,
	}
	for res.Iterations < e.cfg.MaxIterations {
		if normalize(res.Difference, canvas.width, canvas.height) < e.cfg.SimilarityThreshold {
			res.Reason = StopSimilarity
			break
		}

		gen, err := e.RunGeneration(canvas)
		if errors.Is(err, ErrNoViableCandidate) {
			res.Reason = StopNoViableCandidate
			break
		}
		if err != nil {
			return res, err
		}

		it := Iteration{
			Index:       res.Iterations,
			Best:        gen.Best,
			Generations: gen.Generations,
		}
		if gen.Best.Fitness > 0 {
			Render(canvas, gen.Best.Shape)
			res.Difference -= gen.Best.Fitness
			res.Committed = append(res.Committed, gen.Best.Shape)
			it.Committed = true
			Logger().Info("shapefit: commit",
				"iteration", it.Index,
				"shape", gen.Best.Shape.String(),
				"fitness", gen.Best.Fitness)
		}
		it.Difference = res.Difference
		res.Trace = append(res.Trace, gen.Best.Fitness)
		res.Iterations++

		if e.progress != nil {
			e.progress(it)
		}
	}

	Logger().Info("shapefit: refinement finished",
		"reason", res.Reason.String(),
		"iterations", res.Iterations,
		"committed", len(res.Committed),
		"difference", res.NormalizedDifference())
	return res, nil
}
