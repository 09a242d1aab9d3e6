package models

import "math"

// LogisticRegression is the reference classifier: L2-regularised logistic
// regression trained by batch gradient descent on internally standardised
// features. Standardisation parameters are learned from the training set
// only and stored with the model, so prediction applies the same transform.
type LogisticRegression struct {
	Epochs       int
	LearningRate float64
	L2           float64

	Weights   []float64
	Intercept float64
	Means     []float64
	Scales    []float64
}

func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{Epochs: 300, LearningRate: 0.1, L2: 1e-3}
}

func (lr *LogisticRegression) Name() string { return "LogisticRegression" }

func (lr *LogisticRegression) Fit(X [][]float64, y []int) error {
	if err := validateXY(X, y); err != nil {
		return err
	}
	n := len(X)
	p := len(X[0])

	lr.Means = make([]float64, p)
	lr.Scales = make([]float64, p)
	for j := 0; j < p; j++ {
		var mean float64
		for i := 0; i < n; i++ {
			mean += X[i][j]
		}
		mean /= float64(n)
		var variance float64
		for i := 0; i < n; i++ {
			d := X[i][j] - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(n))
		if sd == 0 {
			sd = 1
		}
		lr.Means[j] = mean
		lr.Scales[j] = sd
	}

	Z := make([][]float64, n)
	for i := 0; i < n; i++ {
		z := make([]float64, p)
		for j := 0; j < p; j++ {
			z[j] = (X[i][j] - lr.Means[j]) / lr.Scales[j]
		}
		Z[i] = z
	}

	lr.Weights = make([]float64, p)
	lr.Intercept = 0
	grad := make([]float64, p)
	for epoch := 0; epoch < lr.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradB float64
		for i := 0; i < n; i++ {
			z := lr.Intercept
			for j := 0; j < p; j++ {
				z += lr.Weights[j] * Z[i][j]
			}
			e := sigmoid(z) - float64(y[i])
			for j := 0; j < p; j++ {
				grad[j] += e * Z[i][j]
			}
			gradB += e
		}
		scale := lr.LearningRate / float64(n)
		for j := 0; j < p; j++ {
			lr.Weights[j] -= scale*grad[j] + lr.LearningRate*lr.L2*lr.Weights[j]
		}
		lr.Intercept -= scale * gradB
	}
	return nil
}

func (lr *LogisticRegression) Predict(X [][]float64) []int { return probaToPred(lr.PredictProba(X)) }

func (lr *LogisticRegression) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		z := lr.Intercept
		for j, w := range lr.Weights {
			z += w * (X[i][j] - lr.Means[j]) / lr.Scales[j]
		}
		out[i] = sigmoid(z)
	}
	return out
}
