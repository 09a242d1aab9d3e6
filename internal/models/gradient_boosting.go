package models

import (
	"math"
	"sort"
)

type boostStump struct {
	Feature   int
	Threshold float64
	LeftVal   float64
	RightVal  float64
}

// GradientBoosting fits depth-1 regression stumps to the logistic residuals.
// Fitting is deterministic: threshold candidates come from quantiles, not
// random subsampling. Base holds the initial log-odds of the positive class.
type GradientBoosting struct {
	NEstimators        int
	LearningRate       float64
	MinSamples         int
	MaxThresholdsPerFe int
	Base               float64
	Trees              []boostStump
}

func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{NEstimators: 50, LearningRate: 0.1, MaxThresholdsPerFe: 32}
}

func (gb *GradientBoosting) Name() string { return "GradientBoosting" }

func sigmoid(z float64) float64 { return 1.0 / (1.0 + math.Exp(-z)) }

func (gb *GradientBoosting) Fit(X [][]float64, y []int) error {
	if err := validateXY(X, y); err != nil {
		return err
	}
	n := len(X)
	pos := 0
	for i := 0; i < n; i++ {
		pos += y[i]
	}
	base := float64(pos) / float64(n)
	if base <= 1e-3 {
		base = 1e-3
	}
	if base >= 1-1e-3 {
		base = 1 - 1e-3
	}
	gb.Base = math.Log(base / (1.0 - base))
	F := make([]float64, n)
	for i := 0; i < n; i++ {
		F[i] = gb.Base
	}

	gb.Trees = gb.Trees[:0]
	for m := 0; m < gb.NEstimators; m++ {
		r := make([]float64, n)
		for i := 0; i < n; i++ {
			r[i] = float64(y[i]) - sigmoid(F[i])
		}

		best := boostStump{Feature: -1}
		bestSSE := math.MaxFloat64
		nFeats := len(X[0])
		for j := 0; j < nFeats; j++ {
			for _, thr := range quantileThresholds(X, j, gb.MaxThresholdsPerFe) {
				leftSum, leftCount := 0.0, 0.0
				rightSum, rightCount := 0.0, 0.0
				for i := 0; i < n; i++ {
					if X[i][j] <= thr {
						leftSum += r[i]
						leftCount++
					} else {
						rightSum += r[i]
						rightCount++
					}
				}
				if leftCount == 0 || rightCount == 0 {
					continue
				}
				if int(leftCount) < gb.MinSamples || int(rightCount) < gb.MinSamples {
					continue
				}
				leftAvg := leftSum / leftCount
				rightAvg := rightSum / rightCount

				sse := 0.0
				for i := 0; i < n; i++ {
					d := r[i] - rightAvg
					if X[i][j] <= thr {
						d = r[i] - leftAvg
					}
					sse += d * d
				}
				if sse < bestSSE {
					bestSSE = sse
					best = boostStump{Feature: j, Threshold: thr, LeftVal: leftAvg, RightVal: rightAvg}
				}
			}
		}
		if best.Feature == -1 {
			break
		}
		gb.Trees = append(gb.Trees, best)
		for i := 0; i < n; i++ {
			inc := best.LeftVal
			if X[i][best.Feature] > best.Threshold {
				inc = best.RightVal
			}
			F[i] += gb.LearningRate * inc
		}
	}
	return nil
}

func (gb *GradientBoosting) Predict(X [][]float64) []int { return probaToPred(gb.PredictProba(X)) }

func (gb *GradientBoosting) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		f := gb.Base
		for _, t := range gb.Trees {
			inc := t.LeftVal
			if X[i][t.Feature] > t.Threshold {
				inc = t.RightVal
			}
			f += gb.LearningRate * inc
		}
		out[i] = sigmoid(f)
	}
	return out
}

func quantileThresholds(X [][]float64, j int, nCand int) []float64 {
	if nCand <= 0 {
		nCand = 16
	}
	n := len(X)
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = X[i][j]
	}
	sort.Float64s(vals)
	out := make([]float64, 0, nCand)
	for k := 1; k < nCand; k++ {
		idx := int(math.Round(float64(k) / float64(nCand) * float64(n-1)))
		if idx <= 0 || idx >= n {
			continue
		}
		thr := vals[idx]
		if len(out) == 0 || thr != out[len(out)-1] {
			out = append(out, thr)
		}
	}
	if len(out) == 0 {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += vals[i]
		}
		out = append(out, sum/float64(n))
	}
	return out
}
