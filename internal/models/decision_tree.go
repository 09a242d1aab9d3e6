package models

import (
	"math"
	"math/rand"
)

type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	IsLeaf    bool
	Proba     float64
}

// DecisionTree is a CART-style binary classification tree with Gini splits.
// Threshold candidates are subsampled per feature, so fitting is randomised;
// the rng is injected to keep concurrent fits independent and runs
// reproducible. The rng is not part of the persisted model.
type DecisionTree struct {
	MaxDepth           int
	MinSamplesSplit    int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Root               *TreeNode

	rng *rand.Rand
}

func NewDecisionTree(rng *rand.Rand) *DecisionTree {
	return &DecisionTree{MaxDepth: 6, MinSamplesSplit: 100, MaxThresholdsPerFe: 64, rng: rng}
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Fit(X [][]float64, y []int) error {
	if err := validateXY(X, y); err != nil {
		return err
	}
	dt.rng = ensureRNG(dt.rng)
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	dt.Root = dt.build(X, y, idx, 0)
	return nil
}

func (dt *DecisionTree) Predict(X [][]float64) []int { return probaToPred(dt.PredictProba(X)) }

func (dt *DecisionTree) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = dt.predictOne(X[i])
	}
	return out
}

func (dt *DecisionTree) predictOne(x []float64) float64 {
	n := dt.Root
	if n == nil {
		return 0.5
	}
	for !n.IsLeaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
		if n == nil {
			return 0.5
		}
	}
	return n.Proba
}

func (dt *DecisionTree) build(X [][]float64, y []int, idx []int, depth int) *TreeNode {
	node := &TreeNode{}
	if len(idx) < dt.MinSamplesSplit || depth >= dt.MaxDepth {
		node.IsLeaf = true
		node.Proba = classProba(y, idx)
		return node
	}
	p := classProba(y, idx)
	if p == 0 || p == 1 {
		node.IsLeaf = true
		node.Proba = p
		return node
	}

	bestFeature := -1
	bestThr := 0.0
	bestImp := math.MaxFloat64
	var bestLeft, bestRight []int

	feats := dt.pickFeatures(len(X[0]))
	for _, f := range feats {
		for _, thr := range dt.candidateThresholds(X, idx, f) {
			lIdx, rIdx := splitIdx(X, idx, f, thr)
			if len(lIdx) == 0 || len(rIdx) == 0 {
				continue
			}
			imp := giniImpurity(y, lIdx, rIdx)
			if imp < bestImp {
				bestImp = imp
				bestFeature = f
				bestThr = thr
				bestLeft = lIdx
				bestRight = rIdx
			}
		}
	}

	if bestFeature == -1 {
		node.IsLeaf = true
		node.Proba = p
		return node
	}
	node.Feature = bestFeature
	node.Threshold = bestThr
	node.Left = dt.build(X, y, bestLeft, depth+1)
	node.Right = dt.build(X, y, bestRight, depth+1)
	return node
}

func classProba(y []int, idx []int) float64 {
	sum := 0
	for _, i := range idx {
		sum += y[i]
	}
	return float64(sum) / float64(len(idx))
}

func splitIdx(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	l := make([]int, 0, len(idx))
	r := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][f] <= thr {
			l = append(l, i)
		} else {
			r = append(r, i)
		}
	}
	return l, r
}

func giniImpurity(y []int, lIdx, rIdx []int) float64 {
	g := func(ids []int) float64 {
		if len(ids) == 0 {
			return 0
		}
		p := 0.0
		for _, i := range ids {
			p += float64(y[i])
		}
		p = p / float64(len(ids))
		return p * (1 - p)
	}
	wl := float64(len(lIdx))
	wr := float64(len(rIdx))
	n := wl + wr
	return (wl/n)*g(lIdx) + (wr/n)*g(rIdx)
}

func (dt *DecisionTree) candidateThresholds(X [][]float64, idx []int, f int) []float64 {
	values := make([]float64, len(idx))
	for j, i := range idx {
		values[j] = X[i][f]
	}
	dt.rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	m := dt.MaxThresholdsPerFe
	if m > len(values) {
		m = len(values)
	}
	return values[:m]
}

func (dt *DecisionTree) pickFeatures(nFeats int) []int {
	idx := make([]int, nFeats)
	for i := range idx {
		idx[i] = i
	}
	if dt.MaxFeatures <= 0 || dt.MaxFeatures >= nFeats {
		return idx
	}
	dt.rng.Shuffle(nFeats, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	return idx[:dt.MaxFeatures]
}
