package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/trajectory.report/internal/surge"
)

// curvePalette cycles across curve lines so adjacent curves stay
// distinguishable.
var curvePalette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

// WriteCurvePlot renders a family of generated curves to a PNG file.
func WriteCurvePlot(path, title string, curves []surge.Curve) error {
	if len(curves) == 0 {
		return fmt.Errorf("report: no curves to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	for i, c := range curves {
		pts := make(plotter.XYs, len(c.X))
		for j := range c.X {
			pts[j] = plotter.XY{X: c.X[j], Y: c.Y[j]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to build line for curve %d: %w", i, err)
		}
		line.Width = vg.Points(1)
		line.Color = curvePalette[i%len(curvePalette)]
		p.Add(line)
	}

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save curve plot: %w", err)
	}
	return nil
}
