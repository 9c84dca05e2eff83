package bands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
)

func TestPlotBandsHighSymmetryLabels(t *testing.T) {
	calc := twoBandCalc(t)
	require.NoError(t, calc.AddLabels(map[int]string{0: "G", 2: "X"}))

	p := plot.New()
	out, err := calc.PlotBands(p, nil, true, nil)
	require.NoError(t, err)
	assert.Same(t, p, out)

	ticks, ok := p.X.Tick.Marker.(plot.ConstantTicks)
	require.True(t, ok, "expected fixed ticks at the labeled k-points")
	require.Len(t, ticks, 2)
	assert.Equal(t, calc.KPoints().PathAt(0), ticks[0].Value)
	assert.Equal(t, "G", ticks[0].Label)
	assert.Equal(t, calc.KPoints().PathAt(2), ticks[1].Value)
	assert.Equal(t, "X", ticks[1].Label)
}

func TestPlotBandsLabelsSuppressed(t *testing.T) {
	calc := twoBandCalc(t)
	require.NoError(t, calc.AddLabels(map[int]string{0: "G"}))

	p := plot.New()
	_, err := calc.PlotBands(p, nil, false, nil)
	require.NoError(t, err)
	_, ok := p.X.Tick.Marker.(plot.ConstantTicks)
	assert.False(t, ok, "ticks must not be drawn when labels are disabled")
}

func TestPlotBandsLabelIndexOutOfRange(t *testing.T) {
	calc := twoBandCalc(t)
	err := calc.AddLabels(map[int]string{9: "X"})
	assert.Error(t, err)
}
