// Package calibration bins predicted probabilities against observed event
// frequencies and measures how stable those curves are under bootstrap
// refitting.
package calibration

import (
	"fmt"
	"math"

	"clinrisk/internal/stability"
)

// Point is one non-empty probability bin: the empirical mean of the
// predictions that fell in it against the fraction of those rows whose
// outcome occurred.
type Point struct {
	MeanPredicted float64
	ObservedFreq  float64
}

// Curve is an ascending sequence of bin points. Empty bins are dropped, so a
// curve has at most as many points as bins.
type Curve []Point

// binIndex maps p in [0,1] to one of n equal-width bins, with the rightmost
// bin closed so p=1 lands in bin n-1.
func binIndex(p float64, n int) int {
	i := int(p * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Compute bins probs into nBins equal-width bins over [0,1] and reports the
// calibration point of every non-empty bin.
func Compute(probs []float64, y []int, nBins int) (Curve, error) {
	if len(probs) != len(y) {
		return nil, &stability.ShapeMismatchError{Rows: len(probs), Outcomes: len(y)}
	}
	if nBins < 1 {
		return nil, fmt.Errorf("bin count must be at least 1, got %d", nBins)
	}
	sums := make([]float64, nBins)
	events := make([]int, nBins)
	counts := make([]int, nBins)
	for i, p := range probs {
		b := binIndex(p, nBins)
		sums[b] += p
		events[b] += y[i]
		counts[b]++
	}
	curve := make(Curve, 0, nBins)
	for b := 0; b < nBins; b++ {
		if counts[b] == 0 {
			continue
		}
		curve = append(curve, Point{
			MeanPredicted: sums[b] / float64(counts[b]),
			ObservedFreq:  float64(events[b]) / float64(counts[b]),
		})
	}
	return curve, nil
}

// BootstrappedCurves returns one calibration curve per matrix column,
// index-aligned: element 0 is the model-under-test reference, elements 1..M
// form the stability envelope.
func BootstrappedCurves(probs stability.ProbMatrix, yTest []int, nBins int) ([]Curve, error) {
	curves := make([]Curve, probs.Models())
	for j := range curves {
		c, err := Compute(probs.Column(j), yTest, nBins)
		if err != nil {
			return nil, err
		}
		curves[j] = c
	}
	return curves, nil
}

// BinStat is the spread of one histogram bar of predicted probabilities
// across the M+1 models: mean count and its standard deviation. Renderers
// draw error bars of ±2 standard deviations around the mean.
type BinStat struct {
	Center float64
	Mean   float64
	SD     float64
}

// PredictionDistribution histograms each model's predictions into nBins
// equal-width bins and reports per-bin mean and standard deviation of the
// counts over all M+1 models, the model-under-test carrying no special
// weight.
func PredictionDistribution(probs stability.ProbMatrix, nBins int) ([]BinStat, error) {
	if nBins < 1 {
		return nil, fmt.Errorf("bin count must be at least 1, got %d", nBins)
	}
	nModels := probs.Models()
	counts := make([][]float64, nModels)
	for j := 0; j < nModels; j++ {
		c := make([]float64, nBins)
		for _, p := range probs.Column(j) {
			c[binIndex(p, nBins)]++
		}
		counts[j] = c
	}
	stats := make([]BinStat, nBins)
	for b := 0; b < nBins; b++ {
		var mean float64
		for j := 0; j < nModels; j++ {
			mean += counts[j][b]
		}
		mean /= float64(nModels)
		var variance float64
		for j := 0; j < nModels; j++ {
			d := counts[j][b] - mean
			variance += d * d
		}
		variance /= float64(nModels)
		stats[b] = BinStat{
			Center: (float64(b) + 0.5) / float64(nBins),
			Mean:   mean,
			SD:     math.Sqrt(variance),
		}
	}
	return stats, nil
}

// AverageError is the mean absolute gap between predicted and observed
// frequency over the non-empty bins, for a single model's predictions
// (typically the model-under-test, column 0).
func AverageError(probs []float64, y []int, nBins int) (float64, error) {
	curve, err := Compute(probs, y, nBins)
	if err != nil {
		return 0, err
	}
	if len(curve) == 0 {
		return 0, nil
	}
	var sum float64
	for _, pt := range curve {
		sum += math.Abs(pt.MeanPredicted - pt.ObservedFreq)
	}
	return sum / float64(len(curve)), nil
}
