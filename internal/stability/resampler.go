package stability

import (
	"fmt"
	"math/rand"
	"time"
)

// TrainingSet pairs a feature matrix with its binary outcome vector. Rows of
// X and entries of Y correspond one to one.
type TrainingSet struct {
	X [][]float64
	Y []int
}

func (t TrainingSet) Len() int { return len(t.X) }

func (t TrainingSet) validate() error {
	if len(t.X) != len(t.Y) {
		return &ShapeMismatchError{Rows: len(t.X), Outcomes: len(t.Y)}
	}
	return nil
}

// Resample is one with-replacement draw of training rows, the same size as
// the set it was drawn from. X rows and Y values are selected in lockstep so
// the (x, y) pairing is preserved.
type Resample struct {
	X [][]float64
	Y []int
}

// Resamples draws m independent bootstrap resamples of train. The advisory
// is non-nil when m is below RecommendedBootstraps; the resamples are valid
// either way. A nil rng falls back to a time-seeded source.
func Resamples(train TrainingSet, m int, rng *rand.Rand) ([]Resample, *Advisory, error) {
	if err := train.validate(); err != nil {
		return nil, nil, err
	}
	if m < 1 {
		return nil, nil, fmt.Errorf("bootstrap count must be at least 1, got %d", m)
	}
	var advisory *Advisory
	if m < RecommendedBootstraps {
		advisory = &Advisory{Bootstraps: m}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	n := train.Len()
	out := make([]Resample, m)
	for k := 0; k < m; k++ {
		X := make([][]float64, n)
		y := make([]int, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			X[i] = train.X[j]
			y[i] = train.Y[j]
		}
		out[k] = Resample{X: X, Y: y}
	}
	return out, advisory, nil
}
