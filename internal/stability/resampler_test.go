package stability

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTrainingSet(n int) TrainingSet {
	X := make([][]float64, n)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		X[i] = []float64{float64(i), float64(i) * 2}
		y[i] = i % 2
	}
	return TrainingSet{X: X, Y: y}
}

func TestResamplesCountSizeAndMembership(t *testing.T) {
	train := smallTrainingSet(5)
	rs, advisory, err := Resamples(train, 5, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, rs, 5)
	require.NotNil(t, advisory)

	original := map[float64]int{}
	for i, row := range train.X {
		original[row[0]] = train.Y[i]
	}
	for _, r := range rs {
		assert.Len(t, r.X, train.Len())
		assert.Len(t, r.Y, train.Len())
		for i, row := range r.X {
			y, ok := original[row[0]]
			require.True(t, ok, "resampled row not from the original set")
			assert.Equal(t, y, r.Y[i], "x and y must be resampled in lockstep")
		}
	}
}

func TestResamplesReproducible(t *testing.T) {
	train := smallTrainingSet(20)
	a, _, err := Resamples(train, 3, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, _, err := Resamples(train, 3, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResamplesShapeMismatch(t *testing.T) {
	train := TrainingSet{X: [][]float64{{1}, {2}, {3}}, Y: []int{0, 1}}
	_, _, err := Resamples(train, 5, nil)
	var shape *ShapeMismatchError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, 3, shape.Rows)
	assert.Equal(t, 2, shape.Outcomes)
}

func TestResamplesRejectsNonPositiveM(t *testing.T) {
	_, _, err := Resamples(smallTrainingSet(5), 0, nil)
	require.Error(t, err)
}

func TestResamplesAdvisoryThreshold(t *testing.T) {
	train := smallTrainingSet(4)
	_, advisory, err := Resamples(train, 199, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NotNil(t, advisory)
	assert.ErrorIs(t, advisory.Err(), ErrInsufficientBootstraps)

	_, advisory, err = Resamples(train, 200, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Nil(t, advisory)
}

func TestResamplesNilRNG(t *testing.T) {
	rs, _, err := Resamples(smallTrainingSet(6), 2, nil)
	require.NoError(t, err)
	assert.Len(t, rs, 2)
}

func TestAdvisoryIsNotAFailure(t *testing.T) {
	adv := &Advisory{Bootstraps: 10}
	assert.True(t, errors.Is(adv.Err(), ErrInsufficientBootstraps))
	assert.Contains(t, adv.String(), "10")
}
