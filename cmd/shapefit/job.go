package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/shapefit"
	"github.com/gogpu/shapefit/internal/imageio"
)

// job is one target image to approximate.
type job struct {
	target     string
	out        string
	search     shapefit.Config
	seed       uint64
	workers    int
	resize     int
	background string
	plot       bool
	diff       bool
}

// jobFor derives the i-th job from the run options. Jobs get distinct
// seeds so targets sharing a run do not share shapes.
func jobFor(o options, i int, target string) job {
	seed := o.Seed
	if seed != 0 {
		seed += uint64(i)
	}
	return job{
		target:     target,
		out:        o.Out,
		search:     o.Search,
		seed:       seed,
		workers:    o.Workers,
		resize:     o.Resize,
		background: o.Background,
		plot:       o.Plot,
		diff:       o.Diff,
	}
}

// summary reports a finished job.
type summary struct {
	Target          string
	Committed       int
	Iterations      int
	StartDifference int64
	Difference      int64
	Normalized      float64
	Reason          shapefit.StopReason
}

// outputBase returns the output path prefix for target.
func (j job) outputBase() string {
	name := filepath.Base(j.target)
	return filepath.Join(j.out, strings.TrimSuffix(name, filepath.Ext(name)))
}

// startCanvas builds the initial canvas for target.
func (j job) startCanvas(target *shapefit.Grid) (*shapefit.Grid, error) {
	if j.background == "" || strings.EqualFold(j.background, "auto") {
		return shapefit.NewCanvas(target), nil
	}
	c, err := shapefit.ParseHex(j.background)
	if err != nil {
		return nil, err
	}
	return shapefit.NewGridFilled(target.Width(), target.Height(), c), nil
}

func runJob(j job, log *slog.Logger) (summary, error) {
	img, format, err := imageio.Load(j.target)
	if err != nil {
		return summary{}, err
	}
	target := shapefit.FromImage(imageio.Resize(img, j.resize))
	log.Info("loaded target", "format", format,
		"width", target.Width(), "height", target.Height())

	canvas, err := j.startCanvas(target)
	if err != nil {
		return summary{}, err
	}

	var tr trace
	opts := []shapefit.Option{
		shapefit.WithWorkers(j.workers),
		shapefit.WithProgress(func(it shapefit.Iteration) {
			tr.add(it, target.Width(), target.Height())
		}),
	}
	if j.seed != 0 {
		opts = append(opts, shapefit.WithSeed(j.seed))
	}
	eng, err := shapefit.NewEngine(target, j.search, opts...)
	if err != nil {
		return summary{}, err
	}
	defer eng.Close()

	start := shapefit.Difference(canvas, target)
	began := time.Now()
	res, err := eng.RunRefinement(canvas)
	if err != nil {
		return summary{}, err
	}
	log.Info("refined", "elapsed", time.Since(began).Round(time.Millisecond))

	base := j.outputBase()
	if err := imageio.Save(base+".png", res.Canvas.ToImage()); err != nil {
		return summary{}, err
	}
	if err := writeShapes(base+".shapes", res.Committed); err != nil {
		return summary{}, err
	}
	if j.diff {
		if err := imageio.Save(base+".diff.png", shapefit.DifferenceImage(res.Canvas, target).ToImage()); err != nil {
			return summary{}, err
		}
	}
	if j.plot && len(tr.points) > 0 {
		if err := tr.save(base+".trace.png", filepath.Base(j.target)); err != nil {
			return summary{}, err
		}
	}

	return summary{
		Target:          j.target,
		Committed:       len(res.Committed),
		Iterations:      res.Iterations,
		StartDifference: start,
		Difference:      res.Difference,
		Normalized:      res.NormalizedDifference(),
		Reason:          res.Reason,
	}, nil
}

// writeShapes writes one shape per line in the format ParseShape reads.
func writeShapes(path string, shapes []shapefit.Shape) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create shapes file: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, s := range shapes {
		fmt.Fprintln(w, s.String())
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write shapes file: %w", err)
	}
	return f.Close()
}
