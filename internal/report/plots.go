package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"clinrisk/internal/calibration"
	"clinrisk/internal/roc"
	"clinrisk/internal/stability"
)

var (
	mutColor      = color.NRGBA{R: 200, A: 255}
	envelopeColor = color.NRGBA{B: 220, A: 40}
	eventColor    = color.NRGBA{R: 200, A: 120}
	nonEventColor = color.NRGBA{G: 150, A: 120}
)

func savePlot(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

func diagonal() (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = color.Gray{Y: 60}
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	return line, nil
}

// PlotInstability draws the risk-stability scatter: model-under-test
// prediction on x, bootstrap predictions on y, coloured by observed
// outcome. A stable model hugs the 45-degree line.
func PlotInstability(path string, points []stability.InstabilityPoint) error {
	p := plot.New()
	p.Title.Text = "Probability stability"
	p.X.Label.Text = "Prediction from model-under-test"
	p.Y.Label.Text = "Predictions from bootstrapped models"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	var events, nonEvents plotter.XYs
	for _, pt := range points {
		xy := plotter.XY{X: pt.Reference, Y: pt.Bootstrap}
		if pt.Outcome == 1 {
			events = append(events, xy)
		} else {
			nonEvents = append(nonEvents, xy)
		}
	}

	line, err := diagonal()
	if err != nil {
		return err
	}
	p.Add(line)

	for _, group := range []struct {
		name string
		xys  plotter.XYs
		col  color.NRGBA
	}{
		{"Did not occur", nonEvents, nonEventColor},
		{"Event occurred", events, eventColor},
	} {
		if len(group.xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(group.xys)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = group.col
		sc.GlyphStyle.Radius = vg.Points(1)
		p.Add(sc)
		p.Legend.Add(group.name, sc)
	}
	return savePlot(p, path)
}

// PlotCalibration draws the model-under-test curve in bold over the faint
// bootstrap envelope.
func PlotCalibration(path string, curves []calibration.Curve) error {
	p := plot.New()
	p.Title.Text = "Calibration-stability curves"
	p.X.Label.Text = "Mean predicted probability"
	p.Y.Label.Text = "Fraction of positives"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	line, err := diagonal()
	if err != nil {
		return err
	}
	p.Add(line)
	p.Legend.Add("Ideal calibration", line)

	for j := len(curves) - 1; j >= 0; j-- {
		xys := make(plotter.XYs, len(curves[j]))
		for i, pt := range curves[j] {
			xys[i] = plotter.XY{X: pt.MeanPredicted, Y: pt.ObservedFreq}
		}
		ln, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		if j == 0 {
			ln.LineStyle.Color = mutColor
			ln.LineStyle.Width = vg.Points(1.5)
			p.Legend.Add("Model-under-test", ln)
		} else {
			ln.LineStyle.Color = envelopeColor
			ln.LineStyle.Width = vg.Points(0.5)
		}
		p.Add(ln)
	}
	return savePlot(p, path)
}

// PlotROC draws the ROC-stability fan with AUC figures in the legend.
func PlotROC(path string, curves []roc.Curve, auc roc.Summary) error {
	p := plot.New()
	p.Title.Text = "ROC-stability curves"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	line, err := diagonal()
	if err != nil {
		return err
	}
	p.Add(line)
	p.Legend.Add("Chance level (AUC = 0.50)", line)

	for j := len(curves) - 1; j >= 0; j-- {
		xys := make(plotter.XYs, len(curves[j]))
		for i, pt := range curves[j] {
			xys[i] = plotter.XY{X: pt.FPR, Y: pt.TPR}
		}
		ln, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		if j == 0 {
			ln.LineStyle.Color = mutColor
			ln.LineStyle.Width = vg.Points(1.5)
			p.Legend.Add(fmt.Sprintf("Model-under-test (AUC = %.2f)", auc.ModelUnderTest), ln)
		} else {
			ln.LineStyle.Color = envelopeColor
			ln.LineStyle.Width = vg.Points(0.5)
		}
		p.Add(ln)
	}
	p.Legend.Add(fmt.Sprintf("Bootstrapped models (AUC = %.2f ± %.2f)", auc.BootstrapMean, auc.BootstrapSD))
	return savePlot(p, path)
}

type distData []calibration.BinStat

func (d distData) Len() int                { return len(d) }
func (d distData) XY(i int) (x, y float64) { return d[i].Center, d[i].Mean }

// YError spans ±2 standard deviations around each bin's mean height.
func (d distData) YError(i int) (float64, float64) { return 2 * d[i].SD, 2 * d[i].SD }

// PlotDistribution draws the predicted-probability histogram averaged over
// the M+1 models, with error bars showing its spread under resampling.
func PlotDistribution(path string, stats []calibration.BinStat) error {
	p := plot.New()
	p.Title.Text = "Distribution of predicted probabilities"
	p.X.Label.Text = "Predicted probability"
	p.Y.Label.Text = "Count"
	p.X.Min, p.X.Max = 0, 1

	d := distData(stats)
	sc, err := plotter.NewScatter(d)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Radius = vg.Points(2)
	bars, err := plotter.NewYErrorBars(d)
	if err != nil {
		return err
	}
	steps := make(plotter.XYs, 0, 2*len(stats))
	width := 1.0 / float64(len(stats))
	for _, s := range stats {
		steps = append(steps,
			plotter.XY{X: s.Center - width/2, Y: s.Mean},
			plotter.XY{X: s.Center + width/2, Y: s.Mean},
		)
	}
	outline, err := plotter.NewLine(steps)
	if err != nil {
		return err
	}
	outline.LineStyle.Color = envelopeColor
	p.Add(outline, sc, bars)
	return savePlot(p, path)
}
