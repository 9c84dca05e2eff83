// Package fitting wraps gonum's optimizer as a small least-squares
// curve-fitting primitive: given a model and paired samples, it returns the
// parameters minimizing the sum of squared residuals.
package fitting

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

var (
	// ErrInsufficientData indicates fewer samples than free parameters.
	ErrInsufficientData = errors.New("fitting: fewer samples than free parameters")
	// ErrShapeMismatch indicates x and y sample slices of different lengths.
	ErrShapeMismatch = errors.New("fitting: x and y sample counts differ")
)

// Model evaluates a parameterized curve at a single x sample.
type Model func(params []float64, x float64) float64

// CurveFit finds the parameters minimizing the sum of squared residuals of
// model over the (xs, ys) samples, starting from p0. The initial guess is
// not mutated.
func CurveFit(model Model, xs, ys, p0 []float64) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrShapeMismatch, len(xs), len(ys))
	}
	if len(xs) < len(p0) {
		return nil, fmt.Errorf("%w: %d samples for %d parameters", ErrInsufficientData, len(xs), len(p0))
	}

	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			ssr := 0.0
			for i, x := range xs {
				r := ys[i] - model(params, x)
				ssr += r * r
			}
			return ssr
		},
	}

	initial := append([]float64(nil), p0...)
	// Run the simplex down to float noise; callers expect parameters
	// accurate to ~1e-7.
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{Absolute: 1e-15, Iterations: 50},
	}
	result, err := optimize.Minimize(problem, initial, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("fitting: minimize failed: %w", err)
	}
	if err := result.Status.Err(); err != nil {
		return nil, fmt.Errorf("fitting: solver did not converge: %w", err)
	}
	return result.X, nil
}
