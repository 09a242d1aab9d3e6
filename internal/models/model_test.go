package models

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinrisk/internal/stability"
)

// separableData puts positives around x=2 and negatives around x=-2, easy
// for every classifier here.
func separableData(n int, rng *rand.Rand) ([][]float64, []int) {
	X := make([][]float64, n)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		center := -2.0
		if i%2 == 0 {
			center = 2.0
			y[i] = 1
		}
		X[i] = []float64{center + rng.NormFloat64()*0.5, rng.NormFloat64()}
	}
	return X, y
}

func accuracy(mdl Model, X [][]float64, y []int) float64 {
	preds := mdl.Predict(X)
	c := 0
	for i := range y {
		if preds[i] == y[i] {
			c++
		}
	}
	return float64(c) / float64(len(y))
}

func TestLogisticRegressionSeparable(t *testing.T) {
	X, y := separableData(400, rand.New(rand.NewSource(1)))
	lr := NewLogisticRegression()
	require.NoError(t, lr.Fit(X, y))

	assert.Greater(t, accuracy(lr, X, y), 0.95)
	for _, p := range lr.PredictProba(X) {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestLogisticRegressionDeterministic(t *testing.T) {
	X, y := separableData(200, rand.New(rand.NewSource(2)))
	a := NewLogisticRegression()
	b := NewLogisticRegression()
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))
	assert.Equal(t, a.Weights, b.Weights)
	assert.Equal(t, a.Intercept, b.Intercept)
}

func TestDecisionTreeSeparableAndReproducible(t *testing.T) {
	X, y := separableData(400, rand.New(rand.NewSource(3)))

	a := NewDecisionTree(rand.New(rand.NewSource(7)))
	a.MinSamplesSplit = 10
	require.NoError(t, a.Fit(X, y))
	assert.Greater(t, accuracy(a, X, y), 0.95)

	b := NewDecisionTree(rand.New(rand.NewSource(7)))
	b.MinSamplesSplit = 10
	require.NoError(t, b.Fit(X, y))
	assert.Equal(t, a.PredictProba(X), b.PredictProba(X))
}

func TestRandomForestSeparable(t *testing.T) {
	X, y := separableData(400, rand.New(rand.NewSource(4)))
	rf := NewRandomForest(rand.New(rand.NewSource(8)))
	rf.NEstimators = 10
	rf.MinSamples = 10
	require.NoError(t, rf.Fit(X, y))
	assert.Greater(t, accuracy(rf, X, y), 0.95)
}

func TestGradientBoostingUsesBaseRate(t *testing.T) {
	X, y := separableData(400, rand.New(rand.NewSource(5)))
	gb := NewGradientBoosting()
	gb.NEstimators = 30
	gb.MinSamples = 10
	require.NoError(t, gb.Fit(X, y))
	assert.Greater(t, accuracy(gb, X, y), 0.9)
	assert.NotZero(t, len(gb.Trees))

	// With zero boosting rounds the prediction is the base rate.
	flat := NewGradientBoosting()
	flat.NEstimators = 0
	require.NoError(t, flat.Fit(X, y))
	p := flat.PredictProba(X[:1])[0]
	assert.InDelta(t, 0.5, p, 1e-9, "balanced classes give base log-odds 0")
}

func TestFitRejectsBadShapes(t *testing.T) {
	var shape *stability.ShapeMismatchError
	lr := NewLogisticRegression()
	require.ErrorAs(t, lr.Fit([][]float64{{1}, {2}}, []int{1}), &shape)
	require.Error(t, lr.Fit(nil, nil))
}

func TestFactoryOf(t *testing.T) {
	X, y := separableData(100, rand.New(rand.NewSource(6)))
	factory := FactoryOf(func() Model { return NewLogisticRegression() })

	mdl, err := factory(context.Background(), X, y)
	require.NoError(t, err)
	assert.Len(t, mdl.PredictProba(X), len(X))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = factory(ctx, X, y)
	assert.ErrorIs(t, err, context.Canceled)
}

type failingModel struct{ Model }

func (failingModel) Fit(X [][]float64, y []int) error { return errors.New("singular matrix") }
func (failingModel) Name() string                     { return "Failing" }

func TestFactoryOfWrapsFitErrors(t *testing.T) {
	factory := FactoryOf(func() Model { return failingModel{} })
	_, err := factory(context.Background(), [][]float64{{1}}, []int{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failing")
}
