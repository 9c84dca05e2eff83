package fitting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveFitLine(t *testing.T) {
	model := func(p []float64, x float64) float64 { return p[0]*x + p[1] }
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, 3, 5, 7, 9} // y = 2x + 1

	params, err := CurveFit(model, xs, ys, []float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, params[0], 1e-6)
	assert.InDelta(t, 1.0, params[1], 1e-6)
}

func TestCurveFitConstrainedParabola(t *testing.T) {
	const e0 = -0.25
	model := func(p []float64, x float64) float64 { return p[0]*x + e0 }

	xs := []float64{0, 0.01, 0.04, 0.09, 0.16}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3.5*x + e0
	}

	params, err := CurveFit(model, xs, ys, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, params[0], 1e-6)
}

func TestCurveFitErrors(t *testing.T) {
	model := func(p []float64, x float64) float64 { return p[0] * x }

	_, err := CurveFit(model, []float64{1, 2}, []float64{1}, []float64{0})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = CurveFit(model, []float64{1}, []float64{1}, []float64{0, 0})
	assert.ErrorIs(t, err, ErrInsufficientData)
}
