package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinrisk/internal/data"
)

func sampleEpisode() data.Episode {
	return data.Episode{
		PatientID:     "P1",
		EpisodeID:     "E1",
		IndexDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Age:           78,
		Male:          1,
		Haemoglobin:   10.5,
		EGFR:          40,
		PriorBleeding: 2,
		OnAnticoag:    1,
		Bleed:         1,
	}
}

func TestVectorizeShape(t *testing.T) {
	vec, names := Vectorize(sampleEpisode())
	require.Equal(t, len(names), len(vec))
	assert.Equal(t, "Age", names[0])
	assert.Equal(t, 78.0, vec[0])
	assert.Equal(t, 10.5, vec[4])
	assert.Equal(t, 2.0, vec[6])
	assert.Equal(t, 1.0, vec[len(vec)-1])
}

func TestVectorizeExcludesOutcome(t *testing.T) {
	with := sampleEpisode()
	without := with
	without.Bleed = 0
	vWith, _ := Vectorize(with)
	vWithout, _ := Vectorize(without)
	assert.Equal(t, vWith, vWithout, "the outcome must not leak into the features")
}

func TestMatrix(t *testing.T) {
	eps := []data.Episode{sampleEpisode(), sampleEpisode()}
	eps[1].Bleed = 0
	X, y, names := Matrix(eps)
	require.Len(t, X, 2)
	require.Len(t, y, 2)
	assert.Equal(t, []int{1, 0}, y)
	assert.Equal(t, len(names), len(X[0]))
}
