// Package shapefit approximates an image with a stack of flat-colored shapes.
//
// # Overview
//
// Starting from a blank canvas, shapefit repeatedly searches for the one
// rectangle, ellipse or polygon that, painted on the canvas in the average
// target color under it, brings the canvas closest to the target image.
// The winning shape is committed and the search starts over. Each search is
// a small evolutionary run: a random population is scored, the best
// candidates survive and the rest are replaced by mutated copies of them.
//
// # Quick Start
//
//	target := shapefit.FromImage(img)
//	canvas := shapefit.NewCanvas(target)
//
//	eng, err := shapefit.NewEngine(target, shapefit.DefaultConfig(), shapefit.WithSeed(1))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	res, err := eng.RunRefinement(canvas)
//
// # Difference Metric
//
// The difference between two grids is the sum over all pixels of
// |r0-r1| + |g0-g1| + |b0-b1|. A shape's fitness is the drop in that sum it
// would cause if painted, computed over its footprint only, so scoring a
// candidate costs time proportional to the shape and not to the image.
//
// # Grid Sizes
//
// Difference, DifferenceIn, DifferenceImage and Fitness require grids of
// equal size and panic otherwise; a mismatch there is a programming error.
// Call CheckSize first when sizes come from outside. Engine methods check
// sizes themselves and return ErrDimensionMismatch.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - A pixel is covered by a shape when the pixel's center is inside it
//
// Shapes may extend past the canvas edges by Config.Margin pixels; only the
// on-canvas part is rendered or scored.
//
// # Concurrency
//
// Candidates are scored in parallel (see WithWorkers). The canvas is only
// read while scoring and only written when a shape is committed. Random
// numbers are drawn on the calling goroutine, so a seeded Engine gives the
// same result for any worker count.
package shapefit
