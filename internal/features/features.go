// Package features maps episodes to numeric feature vectors. Every feature
// is a local, deterministic, non-parametrised function of its own row;
// anything that needs fitting (scaling, imputation, dimension reduction)
// belongs inside a model pipeline, never here, so no test-set information
// can leak into training.
package features

import "clinrisk/internal/data"

// Vectorize maps one episode to its feature vector and the matching feature
// names. The outcome column is deliberately not part of the vector.
func Vectorize(e data.Episode) ([]float64, []string) {
	names := []string{
		"Age", "Male", "STEMI", "PCIPerformed", "Haemoglobin", "EGFR",
		"PriorBleeding", "PriorACS", "PriorRenal", "PriorDiabetes",
		"PriorCOPD", "PriorCancer", "OnAnticoag",
	}
	vec := []float64{
		e.Age,
		float64(e.Male),
		float64(e.STEMI),
		float64(e.PCIPerformed),
		e.Haemoglobin,
		e.EGFR,
		float64(e.PriorBleeding),
		float64(e.PriorACS),
		float64(e.PriorRenal),
		float64(e.PriorDiabetes),
		float64(e.PriorCOPD),
		float64(e.PriorCancer),
		float64(e.OnAnticoag),
	}
	return vec, names
}

// Matrix vectorizes a whole episode slice into (X, y, feature names).
func Matrix(episodes []data.Episode) ([][]float64, []int, []string) {
	X := make([][]float64, len(episodes))
	y := make([]int, len(episodes))
	var names []string
	for i, e := range episodes {
		X[i], names = Vectorize(e)
		y[i] = e.Bleed
	}
	return X, y, names
}
