package regress

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	chartjs "github.com/brentp/go-chartjs"
	"github.com/brentp/go-chartjs/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type vs struct {
	xs []float64
	ys []float64
}

func (v *vs) Xs() []float64 {
	return v.xs
}

func (v *vs) Ys() []float64 {
	return v.ys
}

func (v *vs) Rs() []float64 {
	return nil
}

func (v *vs) Len() int {
	return len(v.xs)
}

// make it meet gonum/plot plotter.XYer

func (v *vs) XY(i int) (x, y float64) {
	return v.xs[i], v.ys[i]
}

// PlotDir is where per-factor plots land under Options.OutputDir.
const PlotDir = "regression_plots"

func plotName(tf string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, tf)
}

// writePlot renders one factor's scatter of expression against motif score
// with the fitted line, as an interactive HTML chart and a PNG.
func writePlot(dir, tf string, xs, ys []float64, res TFResult) error {
	if err := os.MkdirAll(filepath.Join(dir, PlotDir), 0755); err != nil {
		return err
	}
	alpha := stat.Mean(ys, nil) - res.Slope*stat.Mean(xs, nil)
	x0, x1 := floats.Min(xs), floats.Max(xs)
	line := &vs{xs: []float64{x0, x1}, ys: []float64{alpha + res.Slope*x0, alpha + res.Slope*x1}}
	points := &vs{xs: xs, ys: ys}

	chart := chartjs.Chart{Label: tf}
	xa, err := chart.AddXAxis(chartjs.Axis{Type: chartjs.Linear, Position: chartjs.Bottom,
		ScaleLabel: &chartjs.ScaleLabel{FontSize: 16, LabelString: "motif score", Display: chartjs.True}})
	if err != nil {
		return err
	}
	ya, err := chart.AddYAxis(chartjs.Axis{Type: chartjs.Linear, Position: chartjs.Left,
		ScaleLabel: &chartjs.ScaleLabel{FontSize: 16, LabelString: "expression", Display: chartjs.True}})
	if err != nil {
		return err
	}

	pc := &types.RGBA{R: 110, G: 250, B: 59, A: 240}
	scatter := chartjs.Dataset{Data: points, Label: tf, Fill: chartjs.False, ShowLine: chartjs.False,
		PointRadius: 4, PointHoverRadius: 6, PointHitRadius: 6,
		PointBackgroundColor: pc, BackgroundColor: pc, BorderColor: &types.RGBA{R: 150, G: 150, B: 150, A: 150}}
	scatter.XAxisID = xa
	scatter.YAxisID = ya
	chart.AddDataset(scatter)

	lc := &types.RGBA{R: 90, G: 90, B: 90, A: 240}
	fitted := chartjs.Dataset{Data: line, Label: fmt.Sprintf("slope %.3g, p %.3g", res.Slope, res.P),
		Fill: chartjs.False, PointRadius: 0, BorderWidth: 2, BorderColor: lc, BackgroundColor: lc}
	fitted.XAxisID = xa
	fitted.YAxisID = ya
	chart.AddDataset(fitted)

	chart.Options.Responsive = chartjs.False
	chart.Options.Tooltip = &chartjs.Tooltip{Mode: "nearest"}

	base := filepath.Join(dir, PlotDir, plotName(tf))
	wtr, err := os.Create(base + ".html")
	if err != nil {
		return err
	}
	if err := chart.SaveHTML(wtr, map[string]interface{}{"width": 850, "height": 550}); err != nil {
		wtr.Close()
		return err
	}
	if err := wtr.Close(); err != nil {
		return err
	}
	return asPng(base+".png", tf, points, line)
}

func asPng(path, tf string, points, line *vs) error {
	p := plot.New()
	p.Title.Text = tf
	p.X.Label.Text = "motif score"
	p.Y.Label.Text = "expression"

	sc, err := plotter.NewScatter(points)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = color.RGBA{R: 110, G: 250, B: 59, A: 255}
	p.Add(sc)

	l, err := plotter.NewLine(line)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(1)
	l.Color = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	p.Add(l)

	return p.Save(4*vg.Inch, 3*vg.Inch, path)
}
