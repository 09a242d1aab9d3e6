// Package roc computes ROC curves and rank-based AUC for the stability
// engine, including the bootstrap spread of both across a probability
// matrix.
package roc

import (
	"fmt"
	"math"
	"sort"

	"clinrisk/internal/stability"
)

// DegenerateOutcomeError means ROC/AUC was requested for an outcome vector
// containing a single class. A placeholder AUC of 0.5 is deliberately not
// returned; it would hide the failure.
type DegenerateOutcomeError struct {
	Positives int
	Negatives int
}

func (e *DegenerateOutcomeError) Error() string {
	return fmt.Sprintf("outcomes contain a single class (%d positive, %d negative); ROC is undefined", e.Positives, e.Negatives)
}

// Point is one (false-positive-rate, true-positive-rate) pair.
type Point struct {
	FPR float64
	TPR float64
}

// Curve is an ROC curve swept from threshold 1 down to 0. Both coordinates
// are non-decreasing and the endpoints are (0,0) and (1,1).
type Curve []Point

// Compute sweeps every distinct probability value as a decision threshold.
func Compute(probs []float64, y []int) (Curve, error) {
	type pair struct {
		s float64
		y int
	}
	n := len(y)
	pairs := make([]pair, n)
	var pos, neg int
	for i := 0; i < n; i++ {
		pairs[i] = pair{probs[i], y[i]}
		if y[i] == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil, &DegenerateOutcomeError{Positives: pos, Negatives: neg}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].s > pairs[j].s })

	curve := make(Curve, 0, n+2)
	tp, fp := 0, 0
	prevS := math.Inf(1)
	for i := 0; i < n; i++ {
		if pairs[i].s != prevS {
			curve = append(curve, Point{FPR: float64(fp) / float64(neg), TPR: float64(tp) / float64(pos)})
			prevS = pairs[i].s
		}
		if pairs[i].y == 1 {
			tp++
		} else {
			fp++
		}
	}
	curve = append(curve, Point{FPR: 1, TPR: 1})
	return curve, nil
}

// AUC is the area under Compute's curve by trapezoidal integration, which
// for a full threshold sweep equals the rank-based (Mann-Whitney) estimator
// with tie correction.
func AUC(probs []float64, y []int) (float64, error) {
	curve, err := Compute(probs, y)
	if err != nil {
		return 0, err
	}
	var auc float64
	for i := 1; i < len(curve); i++ {
		auc += (curve[i].FPR - curve[i-1].FPR) * (curve[i].TPR + curve[i-1].TPR) / 2
	}
	return auc, nil
}

// BootstrappedCurves returns one curve per matrix column, index-aligned:
// element 0 is the model-under-test, elements 1..M the bootstrap models.
func BootstrappedCurves(probs stability.ProbMatrix, yTest []int) ([]Curve, error) {
	curves := make([]Curve, probs.Models())
	for j := range curves {
		c, err := Compute(probs.Column(j), yTest)
		if err != nil {
			return nil, err
		}
		curves[j] = c
	}
	return curves, nil
}

// Summary reports the model-under-test AUC next to the mean and standard
// deviation of the bootstrap-model AUCs (columns 1..M, population sd).
type Summary struct {
	ModelUnderTest float64
	BootstrapMean  float64
	BootstrapSD    float64
}

func Summarize(probs stability.ProbMatrix, yTest []int) (Summary, error) {
	mut, err := AUC(probs.Column(0), yTest)
	if err != nil {
		return Summary{}, err
	}
	m := probs.Bootstraps()
	if m == 0 {
		return Summary{ModelUnderTest: mut}, nil
	}
	aucs := make([]float64, m)
	var mean float64
	for j := 1; j <= m; j++ {
		a, err := AUC(probs.Column(j), yTest)
		if err != nil {
			return Summary{}, err
		}
		aucs[j-1] = a
		mean += a
	}
	mean /= float64(m)
	var variance float64
	for _, a := range aucs {
		variance += (a - mean) * (a - mean)
	}
	variance /= float64(m)
	return Summary{ModelUnderTest: mut, BootstrapMean: mean, BootstrapSD: math.Sqrt(variance)}, nil
}
