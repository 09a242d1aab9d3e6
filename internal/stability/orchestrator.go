package stability

import (
	"context"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Model is the narrow view of a fitted classifier the engine needs: a
// probability of the positive class for each row of X.
type Model interface {
	PredictProba(X [][]float64) []float64
}

// Factory wraps a whole model-development process (cross-validation,
// hyperparameter search, whatever) into a single opaque call that fits on
// (X, y) and returns a usable model. The engine never retries or looks
// inside it; it only requires the call to respect ctx cancellation if it
// runs long.
type Factory func(ctx context.Context, X [][]float64, y []int) (Model, error)

// FitResult holds the model-under-test and its bootstrap companions.
// Bootstraps[k] was fitted on resample k and maps to ProbMatrix column k+1.
type FitResult struct {
	ModelUnderTest Model
	Bootstraps     []Model
	Advisory       *Advisory
}

// FitModels fits the model-under-test on the full training set plus one
// model per bootstrap resample, m+1 fits in total. Fits are independent and
// run concurrently, bounded by GOMAXPROCS. Any failure cancels the remaining
// fits and surfaces as a FitFailureError carrying the failing index; partial
// results are never returned.
func FitModels(ctx context.Context, factory Factory, train TrainingSet, m int, rng *rand.Rand) (*FitResult, error) {
	resamples, advisory, err := Resamples(train, m, rng)
	if err != nil {
		return nil, err
	}

	models := make([]Model, m+1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	fit := func(idx int, X [][]float64, y []int) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mdl, err := factory(ctx, X, y)
			if err != nil {
				return &FitFailureError{Bootstrap: idx, Err: err}
			}
			models[idx] = mdl
			return nil
		})
	}

	fit(0, train.X, train.Y)
	for k, rs := range resamples {
		fit(k+1, rs.X, rs.Y)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &FitResult{
		ModelUnderTest: models[0],
		Bootstraps:     models[1:],
		Advisory:       advisory,
	}, nil
}

// PredictMatrix collects predicted probabilities on the test set from every
// fitted model into one matrix: column 0 from the model-under-test, columns
// 1..M from the bootstrap models in resample order. The caller is
// responsible for having held xTest out of every fit.
func PredictMatrix(ctx context.Context, fitted *FitResult, xTest [][]float64) (ProbMatrix, error) {
	m := len(fitted.Bootstraps)
	cols := make([][]float64, m+1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	predict := func(idx int, mdl Model) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := mdl.PredictProba(xTest)
			if len(p) != len(xTest) {
				return &FitFailureError{Bootstrap: idx, Err: &ShapeMismatchError{Rows: len(xTest), Outcomes: len(p)}}
			}
			cols[idx] = p
			return nil
		})
	}

	predict(0, fitted.ModelUnderTest)
	for k, mdl := range fitted.Bootstraps {
		predict(k+1, mdl)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	probs := make(ProbMatrix, len(xTest))
	for i := range probs {
		row := make([]float64, m+1)
		for j := 0; j <= m; j++ {
			row[j] = cols[j][i]
		}
		probs[i] = row
	}
	return probs, nil
}

// Run is the whole engine in one call: fit everything, then build the
// probability matrix on the test set.
func Run(ctx context.Context, factory Factory, train TrainingSet, xTest [][]float64, m int, rng *rand.Rand) (*FitResult, ProbMatrix, error) {
	fitted, err := FitModels(ctx, factory, train, m, rng)
	if err != nil {
		return nil, nil, err
	}
	probs, err := PredictMatrix(ctx, fitted, xTest)
	if err != nil {
		return nil, nil, err
	}
	return fitted, probs, nil
}
