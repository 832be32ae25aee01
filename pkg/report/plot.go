package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/train"
)

// PlotScores draws a bar chart of R² per scored candidate, in catalog order.
// The image format follows the file extension.
func PlotScores(path string, r *train.ScoreReport) error {
	if r.Len() == 0 {
		return fmt.Errorf("report: no scores to plot")
	}
	p := plot.New()
	p.Title.Text = "Held-out R² by model"
	p.Y.Label.Text = "R²"

	values := make(plotter.Values, 0, r.Len())
	for _, s := range r.Scores() {
		values = append(values, s.R2)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	bars.Color = color.RGBA{R: 50, G: 110, B: 200, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars, plotter.NewGrid())
	p.NominalX(r.Names()...)

	width := vg.Length(math.Max(4, float64(r.Len())*1.2)) * vg.Inch
	return save(p, width, 4*vg.Inch, path)
}

// PlotPredictions draws actual against predicted values with the identity
// line for reference.
func PlotPredictions(path string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return fmt.Errorf("report: need equal, non-empty actual and predicted slices")
	}
	p := plot.New()
	p.Title.Text = "Actual vs predicted"
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	pts := make(plotter.XYs, len(yTrue))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range yTrue {
		pts[i].X = yTrue[i]
		pts[i].Y = yPred[i]
		lo = math.Min(lo, math.Min(yTrue[i], yPred[i]))
		hi = math.Max(hi, math.Max(yTrue[i], yPred[i]))
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	s.Color = color.RGBA{B: 255, A: 255, R: 50, G: 50}
	s.Radius = vg.Points(1.5)
	p.Add(s)

	l, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	l.Color = color.RGBA{R: 255, A: 255}
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)

	return save(p, 5*vg.Inch, 5*vg.Inch, path)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errs.IO(err, path, "create chart directory")
	}
	if err := p.Save(w, h, path); err != nil {
		return errs.IO(err, path, "save chart")
	}
	return nil
}
