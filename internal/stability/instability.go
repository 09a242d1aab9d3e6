package stability

import "math"

// SMAPE is the symmetric mean absolute percentage error between a reference
// prediction vector a and a comparison vector f: the mean over rows of
// 2|f-a| / (|a|+|f|), with the term taken as 0 when both values are exactly
// 0. Unlike plain relative error it stays bounded (in [0, 2]) as the
// reference probability approaches 0, which is the norm for rare clinical
// outcomes.
func SMAPE(a, f []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	var sum float64
	for i := range a {
		if a[i] == 0 && f[i] == 0 {
			continue
		}
		sum += 2 * math.Abs(f[i]-a[i]) / (math.Abs(a[i]) + math.Abs(f[i]))
	}
	return sum / float64(len(a))
}

// AverageInstability quantifies how much the bootstrap models disagree with
// the model-under-test: the SMAPE of each bootstrap column against column 0,
// averaged over the M bootstrap columns. Identical predictions give 0.
func AverageInstability(probs ProbMatrix) float64 {
	m := probs.Bootstraps()
	if m == 0 {
		return 0
	}
	ref := probs.Column(0)
	var sum float64
	for j := 1; j <= m; j++ {
		sum += SMAPE(ref, probs.Column(j))
	}
	return sum / float64(m)
}

// InstabilityPoint is one (test row, bootstrap model) pairing for scatter
// rendering: the model-under-test prediction on the x-axis, a bootstrap
// prediction on the y-axis, and the observed outcome for colouring.
type InstabilityPoint struct {
	Reference float64
	Bootstrap float64
	Outcome   int
}

// InstabilityPoints flattens the matrix into one point per (row, bootstrap
// column) pair. A stable model keeps the cloud close to the 45-degree line.
func InstabilityPoints(probs ProbMatrix, yTest []int) []InstabilityPoint {
	m := probs.Bootstraps()
	out := make([]InstabilityPoint, 0, probs.Rows()*m)
	for i := range probs {
		for j := 1; j <= m; j++ {
			out = append(out, InstabilityPoint{
				Reference: probs[i][0],
				Bootstrap: probs[i][j],
				Outcome:   yTest[i],
			})
		}
	}
	return out
}
