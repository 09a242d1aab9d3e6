package models

import (
	"math"
	"math/rand"
)

// RandomForest averages the probabilities of NEstimators trees, each fitted
// on an internal bootstrap of the training rows. MaxFeatures 0 defaults to
// sqrt of the feature count; setting it to the full feature count turns the
// forest into plain bagging.
type RandomForest struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Trees              []*DecisionTree

	rng *rand.Rand
}

func NewRandomForest(rng *rand.Rand) *RandomForest {
	return &RandomForest{NEstimators: 30, MaxDepth: 6, MinSamples: 100, MaxThresholdsPerFe: 32, rng: rng}
}

func (rf *RandomForest) Name() string { return "RandomForest" }

func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if err := validateXY(X, y); err != nil {
		return err
	}
	rf.rng = ensureRNG(rf.rng)
	if rf.NEstimators <= 0 {
		rf.NEstimators = 30
	}
	n := len(X)
	maxFeats := rf.MaxFeatures
	if maxFeats <= 0 {
		nFeats := len(X[0])
		maxFeats = int(math.Max(1, math.Min(float64(nFeats), math.Sqrt(float64(nFeats)))))
	}
	rf.Trees = make([]*DecisionTree, 0, rf.NEstimators)
	for k := 0; k < rf.NEstimators; k++ {
		Xb := make([][]float64, n)
		yb := make([]int, n)
		for i := 0; i < n; i++ {
			j := rf.rng.Intn(n)
			Xb[i] = X[j]
			yb[i] = y[j]
		}
		dt := NewDecisionTree(rf.rng)
		dt.MaxDepth = rf.MaxDepth
		dt.MinSamplesSplit = rf.MinSamples
		dt.MaxThresholdsPerFe = rf.MaxThresholdsPerFe
		dt.MaxFeatures = maxFeats
		if err := dt.Fit(Xb, yb); err != nil {
			return err
		}
		rf.Trees = append(rf.Trees, dt)
	}
	return nil
}

func (rf *RandomForest) Predict(X [][]float64) []int { return probaToPred(rf.PredictProba(X)) }

func (rf *RandomForest) PredictProba(X [][]float64) []float64 {
	n := len(X)
	out := make([]float64, n)
	if len(rf.Trees) == 0 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for _, dt := range rf.Trees {
		p := dt.PredictProba(X)
		for i := 0; i < n; i++ {
			out[i] += p[i]
		}
	}
	m := float64(len(rf.Trees))
	for i := 0; i < n; i++ {
		out[i] /= m
	}
	return out
}
