package shapefit

import "math/rand/v2"

// Option configures an Engine during creation.
//
// Example:
//
//	// Reproducible run on four workers
//	eng, err := shapefit.NewEngine(target, cfg,
//	    shapefit.WithSeed(42),
//	    shapefit.WithWorkers(4))
type Option func(*engineOptions)

type engineOptions struct {
	workers  int
	rng      *rand.Rand
	progress func(Iteration)
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		workers: 0, // GOMAXPROCS
	}
}

// WithWorkers sets how many goroutines score candidates. Zero or negative
// uses GOMAXPROCS; 1 scores on the calling goroutine. The worker count never
// changes the result.
func WithWorkers(n int) Option {
	return func(o *engineOptions) {
		o.workers = n
	}
}

// WithSeed makes the engine reproducible: the same seed, target, canvas and
// config always give the same shapes.
func WithSeed(seed uint64) Option {
	return func(o *engineOptions) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // not security sensitive
	}
}

// WithRand sets the random source directly. The engine takes ownership of r.
func WithRand(r *rand.Rand) Option {
	return func(o *engineOptions) {
		o.rng = r
	}
}

// WithProgress registers a callback invoked after every refinement
// iteration, on the goroutine running RunRefinement.
func WithProgress(fn func(Iteration)) Option {
	return func(o *engineOptions) {
		o.progress = fn
	}
}
