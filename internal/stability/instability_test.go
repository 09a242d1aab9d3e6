package stability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMAPEIdenticalVectorsIsZero(t *testing.T) {
	assert.Zero(t, SMAPE([]float64{0.1, 0.5, 0.9}, []float64{0.1, 0.5, 0.9}))
	assert.Zero(t, SMAPE([]float64{0, 0, 0}, []float64{0, 0, 0}), "0/0 terms are defined as 0")
	assert.Zero(t, SMAPE(nil, nil))
}

func TestSMAPEKnownValues(t *testing.T) {
	// 2*|0.6-0.2| / (0.2+0.6) = 1.
	assert.InDelta(t, 1.0, SMAPE([]float64{0.2}, []float64{0.6}), 1e-12)
	// One exact term and one 0/0 term average in the denominator.
	assert.InDelta(t, 0.5, SMAPE([]float64{0.2, 0}, []float64{0.6, 0}), 1e-12)
	// Bounded at 2 when one side is zero.
	assert.InDelta(t, 2.0, SMAPE([]float64{0}, []float64{0.4}), 1e-12)
}

func TestAverageInstabilityZeroWhenBootstrapsAgree(t *testing.T) {
	probs := ProbMatrix{
		{0.2, 0.2, 0.2},
		{0.7, 0.7, 0.7},
	}
	assert.Zero(t, AverageInstability(probs))
}

func TestAverageInstabilityKnownValue(t *testing.T) {
	// Column 1 agrees exactly; column 2 differs by SMAPE 2*0.5/1.5 = 2/3.
	probs := ProbMatrix{{0.5, 0.5, 1.0}}
	assert.InDelta(t, 1.0/3.0, AverageInstability(probs), 1e-12)
}

func TestInstabilityPointsShape(t *testing.T) {
	probs := ProbMatrix{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	}
	yTest := []int{1, 0}
	pts := InstabilityPoints(probs, yTest)
	require.Len(t, pts, 4, "one point per (row, bootstrap column) pair")

	assert.Equal(t, InstabilityPoint{Reference: 0.1, Bootstrap: 0.2, Outcome: 1}, pts[0])
	assert.Equal(t, InstabilityPoint{Reference: 0.1, Bootstrap: 0.3, Outcome: 1}, pts[1])
	assert.Equal(t, InstabilityPoint{Reference: 0.4, Bootstrap: 0.5, Outcome: 0}, pts[2])
	assert.Equal(t, InstabilityPoint{Reference: 0.4, Bootstrap: 0.6, Outcome: 0}, pts[3])
}

func TestProbMatrixAccessors(t *testing.T) {
	probs := ProbMatrix{{0.1, 0.2}, {0.3, 0.4}}
	assert.Equal(t, 2, probs.Rows())
	assert.Equal(t, 2, probs.Models())
	assert.Equal(t, 1, probs.Bootstraps())
	assert.Equal(t, []float64{0.2, 0.4}, probs.Column(1))

	var empty ProbMatrix
	assert.Zero(t, empty.Models())
	assert.Zero(t, empty.Bootstraps())
}
