package models

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"clinrisk/internal/stability"
)

// Model is a binary classifier over numeric feature rows. PredictProba
// returns the probability of the positive class per row; Predict applies a
// 0.5 threshold.
type Model interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) []float64
	Name() string
}

// Builder constructs a fresh, unfitted model. The stability engine fits a
// new model per bootstrap, so configuration is captured here rather than on
// a shared instance.
type Builder func() Model

// FactoryOf adapts a Builder into the engine's opaque fit call.
func FactoryOf(build Builder) stability.Factory {
	return func(ctx context.Context, X [][]float64, y []int) (stability.Model, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mdl := build()
		if err := mdl.Fit(X, y); err != nil {
			return nil, fmt.Errorf("fit %s: %w", mdl.Name(), err)
		}
		return mdl, nil
	}
}

func validateXY(X [][]float64, y []int) error {
	if len(X) != len(y) {
		return &stability.ShapeMismatchError{Rows: len(X), Outcomes: len(y)}
	}
	if len(X) == 0 {
		return errors.New("empty training set")
	}
	return nil
}

func ensureRNG(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func probaToPred(ps []float64) []int {
	out := make([]int, len(ps))
	for i := range ps {
		if ps[i] >= 0.5 {
			out[i] = 1
		}
	}
	return out
}
