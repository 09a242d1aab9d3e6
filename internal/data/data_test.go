package data

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episodes.csv")
	rng := rand.New(rand.NewSource(1))
	require.NoError(t, GenerateSyntheticEpisodes(500, 0.04, path, rng))

	episodes, err := LoadEpisodes(path)
	require.NoError(t, err)
	require.Len(t, episodes, 500)

	var events int
	for _, e := range episodes {
		assert.GreaterOrEqual(t, e.Age, 30.0)
		assert.LessOrEqual(t, e.Age, 100.0)
		assert.GreaterOrEqual(t, e.EGFR, 5.0)
		assert.LessOrEqual(t, e.EGFR, 120.0)
		assert.GreaterOrEqual(t, e.PriorBleeding, 0)
		events += e.Bleed
	}
	// Latent risk factors push prevalence above the base rate but the
	// outcome must stay rare.
	assert.Greater(t, events, 0)
	assert.Less(t, float64(events)/500, 0.5)
}

func TestGenerateReproducible(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.csv")
	p2 := filepath.Join(dir, "b.csv")
	require.NoError(t, GenerateSyntheticEpisodes(50, 0.04, p1, rand.New(rand.NewSource(9))))
	require.NoError(t, GenerateSyntheticEpisodes(50, 0.04, p2, rand.New(rand.NewSource(9))))

	a, err := LoadEpisodes(p1)
	require.NoError(t, err)
	b, err := LoadEpisodes(p2)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoadEpisodesMissingFile(t *testing.T) {
	_, err := LoadEpisodes(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestStratifiedSplit(t *testing.T) {
	n := 1000
	X := make([][]float64, n)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		X[i] = []float64{float64(i)}
		if i < 100 {
			y[i] = 1
		}
	}

	Xtr, ytr, Xte, yte := StratifiedSplit(X, y, 0.8, rand.New(rand.NewSource(2)))
	assert.Len(t, Xtr, 800)
	assert.Len(t, Xte, 200)
	assert.Len(t, ytr, 800)
	assert.Len(t, yte, 200)

	trPos, tePos := 0, 0
	for _, v := range ytr {
		trPos += v
	}
	for _, v := range yte {
		tePos += v
	}
	assert.Equal(t, 80, trPos, "positive class prevalence preserved in train")
	assert.Equal(t, 20, tePos, "positive class prevalence preserved in test")

	seen := map[float64]bool{}
	for _, row := range Xtr {
		seen[row[0]] = true
	}
	for _, row := range Xte {
		assert.False(t, seen[row[0]], "train and test must be disjoint")
	}
}
