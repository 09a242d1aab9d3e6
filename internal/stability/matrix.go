package stability

// ProbMatrix holds predicted probabilities for every test-set row (rows)
// under every model (columns). Column 0 is always the model-under-test;
// columns 1..M are the bootstrap models in resample order. Row order is the
// test-set row order and never changes.
type ProbMatrix [][]float64

func (p ProbMatrix) Rows() int { return len(p) }

// Models is the number of columns, M+1.
func (p ProbMatrix) Models() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

// Bootstraps is M, the number of bootstrap columns.
func (p ProbMatrix) Bootstraps() int {
	n := p.Models()
	if n == 0 {
		return 0
	}
	return n - 1
}

// Column copies out the probabilities of model j across all test rows.
func (p ProbMatrix) Column(j int) []float64 {
	out := make([]float64, len(p))
	for i := range p {
		out[i] = p[i][j]
	}
	return out
}
