package export

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotPNG renders the state trajectory and the control sequence against the
// time index. The image format follows the file extension.
func PlotPNG(path, title string, states, controls []float64) error {
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "k"
	p.Y.Label.Text = "value"
	p.Add(plotter.NewGrid())

	xs := make(plotter.XYs, len(states))
	for k, x := range states {
		xs[k].X = float64(k)
		xs[k].Y = x
	}
	stateLine, statePoints, err := plotter.NewLinePoints(xs)
	if err != nil {
		return fmt.Errorf("state series: %w", err)
	}
	stateLine.Color = color.RGBA{R: 0, G: 102, B: 204, A: 255}
	statePoints.Color = stateLine.Color
	p.Add(stateLine, statePoints)
	p.Legend.Add("x", stateLine, statePoints)

	if len(controls) > 0 {
		us := make(plotter.XYs, len(controls))
		for k, u := range controls {
			us[k].X = float64(k)
			us[k].Y = u
		}
		controlLine, err := plotter.NewLine(us)
		if err != nil {
			return fmt.Errorf("control series: %w", err)
		}
		controlLine.Color = color.RGBA{R: 204, G: 51, B: 0, A: 255}
		controlLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		controlLine.StepStyle = plotter.PreStep
		p.Add(controlLine)
		p.Legend.Add("u", controlLine)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
