package shapefit

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/gogpu/shapefit/internal/parallel"
)

// Engine searches for shapes that bring a canvas closer to a fixed target.
//
// An Engine owns its random source and worker pool. It is not safe for
// concurrent use; run one Engine per goroutine. Call Close when done.
type Engine struct {
	target   *Grid
	cfg      Config
	gen      *Generator
	pool     *parallel.WorkerPool
	progress func(Iteration)
}

// NewEngine validates cfg and creates an engine for target.
// Configuration problems are reported here, never during a run.
func NewEngine(target *Grid, cfg Config, opts ...Option) (*Engine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	gen, err := NewGenerator(target, cfg, o.rng)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		target:   target,
		cfg:      cfg,
		gen:      gen,
		progress: o.progress,
	}
	if o.workers != 1 {
		e.pool = parallel.NewWorkerPool(o.workers)
	}
	return e, nil
}

// Close releases the engine's workers. Close is safe to call multiple times.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Target returns the grid being approximated.
func (e *Engine) Target() *Grid {
	return e.target
}

// Generator returns the engine's shape generator. It shares the engine's
// random source, so drawing from it changes later engine output.
func (e *Engine) Generator() *Generator {
	return e.gen
}

// Generation is the outcome of one RunGeneration call.
type Generation struct {
	// Best is the best candidate seen in any generation.
	Best Scored

	// Generations is the number of generations scored.
	Generations int

	// History holds the best-ever fitness after each generation.
	History []int64
}

// Rank scores shapes against canvas and returns them sorted best first.
// Equal scores keep their input order. Shapes without on-canvas pixels get
// WorstFitness and sink to the end.
func (e *Engine) Rank(canvas *Grid, shapes []Shape) []Scored {
	scored := make([]Scored, len(shapes))
	e.pool.ForEach(len(shapes), func(i int) {
		scored[i] = Scored{Shape: shapes[i], Fitness: Fitness(canvas, e.target, shapes[i])}
	})

	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		degenerate := 0
		for _, sc := range scored {
			if sc.Fitness == WorstFitness {
				degenerate++
			}
		}
		if degenerate > 0 {
			l.Debug("shapefit: off-canvas candidates", "count", degenerate, "of", len(scored))
		}
	}

	slices.SortStableFunc(scored, func(a, b Scored) int {
		return cmp.Compare(b.Fitness, a.Fitness)
	})
	return scored
}

// RunGeneration searches for the single best shape to add to canvas.
//
// It seeds PopulationSize random candidates, then repeatedly scores and
// ranks them, keeps the EliteCount best unchanged and refills the rest by
// evolving elites in turn. It stops after GenerationCap generations, or
// when the best fitness grew by less than ImprovementThreshold since the
// previous generation. canvas is only read.
//
// If no seeded candidate touches the canvas, RunGeneration returns
// ErrNoViableCandidate.
func (e *Engine) RunGeneration(canvas *Grid) (Generation, error) {
	if err := CheckSize(canvas, e.target); err != nil {
		return Generation{}, err
	}

	var (
		res  = Generation{Best: Scored{Fitness: WorstFitness}}
		pop  = e.gen.RandomShapes(e.cfg.PopulationSize)
		prev int64
	)
	for {
		ranked := e.Rank(canvas, pop)
		res.Generations++

		prev = res.Best.Fitness
		if ranked[0].Fitness > res.Best.Fitness {
			res.Best = Scored{Shape: ranked[0].Shape.Clone(), Fitness: ranked[0].Fitness}
		}
		res.History = append(res.History, res.Best.Fitness)

		if res.Best.Fitness == WorstFitness {
			return res, ErrNoViableCandidate
		}

		Logger().Debug("shapefit: generation",
			"n", res.Generations,
			"best", res.Best.Fitness,
			"kind", res.Best.Shape.Kind.String())

		if res.Generations >= e.cfg.GenerationCap {
			break
		}
		if res.Generations > 1 && res.Best.Fitness-prev < e.cfg.ImprovementThreshold {
			break
		}
		pop = e.breed(ranked, pop[:0])
	}
	return res, nil
}

// breed builds the next population into dst: the elites unchanged, then
// evolved copies of the elites taken round-robin.
func (e *Engine) breed(ranked []Scored, dst []Shape) []Shape {
	elites := ranked[:e.cfg.EliteCount]
	for _, sc := range elites {
		dst = append(dst, sc.Shape)
	}
	for i := 0; len(dst) < e.cfg.PopulationSize; i++ {
		dst = append(dst, e.gen.EvolveShape(elites[i%len(elites)].Shape))
	}
	return dst
}
