package main

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gogpu/shapefit"
)

// trace records the normalized difference after every iteration.
type trace struct {
	points  plotter.XYs
	skipped plotter.XYs
}

func (t *trace) add(it shapefit.Iteration, width, height int) {
	pt := plotter.XY{
		X: float64(it.Index + 1),
		Y: float64(it.Difference) / float64(shapefit.MaxDifference(width, height)),
	}
	t.points = append(t.points, pt)
	if !it.Committed {
		t.skipped = append(t.skipped, pt)
	}
}

// save draws the trace as a line chart, marking iterations that committed
// nothing, and writes it to path. The format follows the extension.
func (t *trace) save(path, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Normalized difference"
	p.Y.Min = 0

	line, err := plotter.NewLine(t.points)
	if err != nil {
		return fmt.Errorf("trace line: %w", err)
	}
	line.Color = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	p.Add(line)
	p.Legend.Add("difference", line)

	if len(t.skipped) > 0 {
		marks, err := plotter.NewScatter(t.skipped)
		if err != nil {
			return fmt.Errorf("trace marks: %w", err)
		}
		marks.Color = color.RGBA{R: 200, G: 40, B: 40, A: 255}
		p.Add(marks)
		p.Legend.Add("not committed", marks)
	}
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save trace: %w", err)
	}
	return nil
}
