// Package visualization renders the simulation figures with gonum/plot.
//
// It consumes simulation results strictly read-only: building a figure twice
// from the same table yields the same panels and leaves the table untouched.
package visualization

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/gonformal/conformal"
	"github.com/YuminosukeSato/gonformal/pkg/errors"
	"github.com/YuminosukeSato/gonformal/simulation"
)

// SimulationPanels builds the two panels of the dimension study: mean
// coverage and mean interval width versus dimension, one line per method
// with a translucent +/- standard-error band. The coverage panel carries a
// dashed reference line at the target coverage level.
func SimulationPanels(table *simulation.ResultTable, methods []string, title string, targetCoverage float64) (*plot.Plot, *plot.Plot, error) {
	coverage := plot.New()
	coverage.Title.Text = title
	coverage.X.Label.Text = "Dimension d"
	coverage.Y.Label.Text = "Coverage"
	coverage.Y.Min = 0
	coverage.Y.Max = 1

	width := plot.New()
	width.Title.Text = title
	width.X.Label.Text = "Dimension d"
	width.Y.Label.Text = "Interval width"
	width.Y.Min = 0
	width.Y.Max = 20

	for i, method := range methods {
		s, err := table.Summary(method)
		if err != nil {
			return nil, nil, err
		}

		if err := addMethodSeries(coverage, s.Dimensions, s.CoverageMean, s.CoverageStdErr, method, i); err != nil {
			return nil, nil, err
		}
		if err := addMethodSeries(width, s.Dimensions, s.WidthMean, s.WidthStdErr, method, i); err != nil {
			return nil, nil, err
		}
	}

	if err := addTargetLine(coverage, table.Dimensions(), targetCoverage); err != nil {
		return nil, nil, err
	}

	return coverage, width, nil
}

// addMethodSeries adds one method's mean line and standard-error band.
func addMethodSeries(p *plot.Plot, dims []int, mean, stderr []float64, method string, colorIdx int) error {
	if len(dims) == 0 {
		return errors.NewValueError("addMethodSeries", "empty dimension sweep")
	}

	pts := make(plotter.XYs, len(dims))
	for i, d := range dims {
		pts[i].X = float64(d)
		pts[i].Y = mean[i]
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "building mean line")
	}
	line.Color = plotutil.Color(colorIdx)

	band, err := plotter.NewPolygon(bandRing(dims, mean, stderr))
	if err != nil {
		return errors.Wrap(err, "building standard-error band")
	}
	band.Color = translucent(plotutil.Color(colorIdx))
	band.LineStyle.Width = 0

	p.Add(band, line)
	p.Legend.Add(method, line)

	return nil
}

// bandRing builds the closed polygon ring mean+stderr forward, mean-stderr
// backward.
func bandRing(dims []int, mean, stderr []float64) plotter.XYs {
	n := len(dims)
	ring := make(plotter.XYs, 0, 2*n)
	for i := 0; i < n; i++ {
		ring = append(ring, plotter.XY{X: float64(dims[i]), Y: mean[i] + stderr[i]})
	}
	for i := n - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: float64(dims[i]), Y: mean[i] - stderr[i]})
	}
	return ring
}

// addTargetLine draws the dashed 1-alpha reference across the sweep.
func addTargetLine(p *plot.Plot, dims []int, target float64) error {
	if len(dims) == 0 {
		return errors.NewValueError("addTargetLine", "empty dimension sweep")
	}

	pts := plotter.XYs{
		{X: float64(dims[0]), Y: target},
		{X: float64(dims[len(dims)-1]), Y: target},
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "building target line")
	}
	line.Color = color.Black
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(line)
	return nil
}

// Intervals1D builds the one-dimensional study figure: training scatter,
// true function with its +/- band guides, the prediction line, and the
// shaded predicted interval band.
func Intervals1D(ds *simulation.Dataset1D, iv *conformal.Intervals, title string) (*plot.Plot, error) {
	nTest, _ := ds.XTest.Dims()
	if iv.Len() != nTest {
		return nil, errors.NewDimensionError("Intervals1D", nTest, iv.Len(), 0)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.X.Min = 0
	p.X.Max = 1.1
	p.Y.Min = 0
	p.Y.Max = 1

	nTrain, _ := ds.XTrain.Dims()
	trainPts := make(plotter.XYs, nTrain)
	for i := 0; i < nTrain; i++ {
		trainPts[i].X = ds.XTrain.At(i, 0)
		trainPts[i].Y = ds.YTrain.At(i, 0)
	}
	scatter, err := plotter.NewScatter(trainPts)
	if err != nil {
		return nil, errors.Wrap(err, "building training scatter")
	}
	scatter.GlyphStyle.Color = color.NRGBA{R: 255, A: 80}
	scatter.GlyphStyle.Radius = vg.Points(1.5)

	truth := make(plotter.XYs, nTest)
	truthUp := make(plotter.XYs, nTest)
	truthLow := make(plotter.XYs, nTest)
	pred := make(plotter.XYs, nTest)
	for i := 0; i < nTest; i++ {
		x := ds.XTest.At(i, 0)
		truth[i] = plotter.XY{X: x, Y: ds.YTest[i]}
		truthUp[i] = plotter.XY{X: x, Y: ds.YTest[i] + ds.Band}
		truthLow[i] = plotter.XY{X: x, Y: ds.YTest[i] - ds.Band}
		pred[i] = plotter.XY{X: x, Y: iv.Pred.AtVec(i)}
	}

	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	truthLine, err := plotter.NewLine(truth)
	if err != nil {
		return nil, errors.Wrap(err, "building truth line")
	}
	truthLine.Color = gray

	dashed := []vg.Length{vg.Points(3), vg.Points(3)}
	upLine, err := plotter.NewLine(truthUp)
	if err != nil {
		return nil, errors.Wrap(err, "building upper guide")
	}
	upLine.Color = gray
	upLine.Dashes = dashed

	lowLine, err := plotter.NewLine(truthLow)
	if err != nil {
		return nil, errors.Wrap(err, "building lower guide")
	}
	lowLine.Color = gray
	lowLine.Dashes = dashed

	predLine, err := plotter.NewLine(pred)
	if err != nil {
		return nil, errors.Wrap(err, "building prediction line")
	}
	predLine.Color = plotutil.Color(0)

	ring := make(plotter.XYs, 0, 2*nTest)
	for i := 0; i < nTest; i++ {
		ring = append(ring, plotter.XY{X: ds.XTest.At(i, 0), Y: iv.Upper.AtVec(i)})
	}
	for i := nTest - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: ds.XTest.At(i, 0), Y: iv.Lower.AtVec(i)})
	}
	band, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, errors.Wrap(err, "building interval band")
	}
	band.Color = translucent(plotutil.Color(0))
	band.LineStyle.Width = 0

	p.Add(band, scatter, truthLine, upLine, lowLine, predLine)
	p.Legend.Add("training", scatter)
	p.Legend.Add("true confidence intervals", truthLine)
	p.Legend.Add("prediction intervals", predLine)

	return p, nil
}

// SavePNG writes a panel to disk at the study's default size.
func SavePNG(p *plot.Plot, path string) error {
	if err := p.Save(6*vg.Inch, 4.5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}

// translucent returns c with its alpha lowered for band fills.
func translucent(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: 64,
	}
}
