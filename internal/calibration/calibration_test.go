package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinrisk/internal/stability"
)

func TestComputeBinsAndBounds(t *testing.T) {
	probs := []float64{0.05, 0.08, 0.15, 0.18, 0.95, 1.0}
	y := []int{0, 0, 0, 1, 1, 1}

	curve, err := Compute(probs, y, 10)
	require.NoError(t, err)
	require.LessOrEqual(t, len(curve), 10)
	require.Len(t, curve, 3, "only three bins are populated")

	// Bin [0, 0.1): mean 0.065, no events. Bin [0.1, 0.2): mean 0.165, one
	// of two events. Bin [0.9, 1.0]: mean 0.975, all events.
	assert.InDelta(t, 0.065, curve[0].MeanPredicted, 1e-12)
	assert.InDelta(t, 0.0, curve[0].ObservedFreq, 1e-12)
	assert.InDelta(t, 0.165, curve[1].MeanPredicted, 1e-12)
	assert.InDelta(t, 0.5, curve[1].ObservedFreq, 1e-12)
	assert.InDelta(t, 0.975, curve[2].MeanPredicted, 1e-12)
	assert.InDelta(t, 1.0, curve[2].ObservedFreq, 1e-12)

	for i, pt := range curve {
		b := binIndex(pt.MeanPredicted, 10)
		lo := float64(b) / 10
		hi := float64(b+1) / 10
		assert.GreaterOrEqual(t, pt.MeanPredicted, lo, "point %d below its bin", i)
		assert.Less(t, pt.MeanPredicted, hi+1e-12, "point %d above its bin", i)
	}
}

func TestComputeAscending(t *testing.T) {
	probs := []float64{0.9, 0.1, 0.5, 0.3, 0.7}
	y := []int{1, 0, 1, 0, 1}
	curve, err := Compute(probs, y, 5)
	require.NoError(t, err)
	for i := 1; i < len(curve); i++ {
		assert.Greater(t, curve[i].MeanPredicted, curve[i-1].MeanPredicted)
	}
}

func TestComputeRightmostBinClosed(t *testing.T) {
	curve, err := Compute([]float64{1.0}, []int{1}, 10)
	require.NoError(t, err)
	require.Len(t, curve, 1)
	assert.Equal(t, 1.0, curve[0].MeanPredicted)
}

func TestComputeErrors(t *testing.T) {
	var shape *stability.ShapeMismatchError
	_, err := Compute([]float64{0.1, 0.2}, []int{1}, 10)
	require.ErrorAs(t, err, &shape)

	_, err = Compute([]float64{0.1}, []int{1}, 0)
	require.Error(t, err)
}

func TestBootstrappedCurvesAlignment(t *testing.T) {
	probs := stability.ProbMatrix{
		{0.1, 0.3},
		{0.9, 0.7},
	}
	y := []int{0, 1}
	curves, err := BootstrappedCurves(probs, y, 4)
	require.NoError(t, err)
	require.Len(t, curves, 2)

	mut, err := Compute(probs.Column(0), y, 4)
	require.NoError(t, err)
	assert.Equal(t, mut, curves[0])
}

func TestPredictionDistributionConstantModels(t *testing.T) {
	// All three models put both rows in the same bin, so counts do not vary.
	probs := stability.ProbMatrix{
		{0.25, 0.25, 0.25},
		{0.25, 0.25, 0.25},
	}
	stats, err := PredictionDistribution(probs, 4)
	require.NoError(t, err)
	require.Len(t, stats, 4)

	assert.InDelta(t, 2.0, stats[1].Mean, 1e-12)
	assert.Zero(t, stats[1].SD)
	for _, b := range []int{0, 2, 3} {
		assert.Zero(t, stats[b].Mean)
		assert.Zero(t, stats[b].SD)
	}
	assert.InDelta(t, 0.375, stats[1].Center, 1e-12)
}

func TestPredictionDistributionSpread(t *testing.T) {
	// One row; model 0 predicts bin 0, model 1 predicts bin 1. Each bin sees
	// counts {1, 0}: mean 0.5, population sd 0.5.
	probs := stability.ProbMatrix{{0.1, 0.9}}
	stats, err := PredictionDistribution(probs, 2)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	for _, s := range stats {
		assert.InDelta(t, 0.5, s.Mean, 1e-12)
		assert.InDelta(t, 0.5, s.SD, 1e-12)
	}
}

func TestAverageErrorKnownValue(t *testing.T) {
	// Single populated bin: mean predicted 0.3, observed 0.5.
	ace, err := AverageError([]float64{0.25, 0.35}, []int{0, 1}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, ace, 1e-12)
}

func TestAverageErrorPerfectCalibration(t *testing.T) {
	// Predicted 0.5 with one event in two rows: perfectly calibrated.
	ace, err := AverageError([]float64{0.5, 0.5}, []int{1, 0}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, ace, 1e-12)
}
