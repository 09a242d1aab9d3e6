package stability

import (
	"errors"
	"fmt"
)

// RecommendedBootstraps is the minimum bootstrap count below which stability
// estimates are considered unreliable (Riley and Collins, 2022).
const RecommendedBootstraps = 200

// ErrInsufficientBootstraps is advisory: runs with M below the recommended
// minimum still complete, but callers must surface the warning.
var ErrInsufficientBootstraps = errors.New("bootstrap count below recommended minimum of 200")

// Advisory is a non-fatal warning attached to otherwise successful results,
// so it can never be mistaken for a failure.
type Advisory struct {
	Bootstraps int
}

func (a *Advisory) Err() error {
	return fmt.Errorf("%w: got %d", ErrInsufficientBootstraps, a.Bootstraps)
}

func (a *Advisory) String() string { return a.Err().Error() }

type ShapeMismatchError struct {
	Rows     int
	Outcomes int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("feature matrix has %d rows but outcome vector has %d", e.Rows, e.Outcomes)
}

// FitFailureError aborts a whole stability run. Bootstrap identifies the
// failing model: 0 is the model-under-test, 1..M are bootstrap models in
// resample order.
type FitFailureError struct {
	Bootstrap int
	Err       error
}

func (e *FitFailureError) Error() string {
	if e.Bootstrap == 0 {
		return fmt.Sprintf("model-under-test failed: %v", e.Err)
	}
	return fmt.Sprintf("bootstrap model %d failed: %v", e.Bootstrap, e.Err)
}

func (e *FitFailureError) Unwrap() error { return e.Err }
