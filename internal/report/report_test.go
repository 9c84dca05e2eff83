package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/band_analyzer_go/internal/bands"
	"github.com/user/band_analyzer_go/internal/pertfile"
)

func testCalc(t *testing.T) *bands.BandsCalc {
	t.Helper()
	identity := []any{
		[]any{1.0, 0.0, 0.0},
		[]any{0.0, 1.0, 0.0},
		[]any{0.0, 0.0, 1.0},
	}
	raw := map[string]any{
		"input parameters": map[string]any{
			"after conversion": map[string]any{"calc_mode": "bands"},
		},
		"basic data": map[string]any{
			"alat":                       1.0,
			"alat units":                 "bohr",
			"lattice vectors":            identity,
			"reciprocal lattice vectors": identity,
		},
		"bands": map[string]any{
			"k-path coordinate units":  "arbitrary",
			"k-path coordinates":       []any{0.0, 0.5, 1.0},
			"k-point coordinate units": "crystal",
			"k-point coordinates": []any{
				[]any{0.0, 0.0, 0.0},
				[]any{0.0, 0.0, 0.5},
				[]any{0.0, 0.0, 1.0},
			},
			"number of bands": 2,
			"band units":      "eV",
			"band index": map[string]any{
				"1": []any{-1.0, -2.0, -1.5},
				"2": []any{2.0, 1.0, 3.0},
			},
		},
	}
	calc, err := bands.NewBandsCalc(pertfile.FromMap(raw))
	require.NoError(t, err)
	return calc
}

func TestCreateDispersionPlot(t *testing.T) {
	calc := testCalc(t)
	require.NoError(t, calc.AddLabels(map[int]string{0: "G", 2: "X"}))

	img, err := CreateDispersionPlot(calc, nil, true)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")), "expected a PNG image")

	windowed, err := CreateDispersionPlot(calc, &bands.EnergyWindow{Min: -3, Max: 4}, false)
	require.NoError(t, err)
	assert.NotEmpty(t, windowed)
}

func TestCreateDispersionPlotNilCalc(t *testing.T) {
	_, err := CreateDispersionPlot(nil, nil, false)
	assert.Error(t, err)
}

func TestSummarizeGaps(t *testing.T) {
	calc := testCalc(t)

	gaps, err := SummarizeGaps(calc, [][2]int{{1, 2}})
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.InDelta(t, 3.0, gaps[0].Direct, 1e-12)
	assert.InDelta(t, 2.0, gaps[0].Indirect, 1e-12)

	_, err = SummarizeGaps(calc, [][2]int{{2, 1}})
	assert.ErrorIs(t, err, bands.ErrBandOrder)
}

func TestBuildBandReport(t *testing.T) {
	calc := testCalc(t)

	gaps, err := SummarizeGaps(calc, [][2]int{{1, 2}})
	require.NoError(t, err)
	img, err := CreateDispersionPlot(calc, nil, false)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "report.pdf")
	err = BuildBandReport(out, calc.Bands().Units(), gaps, map[string][]byte{"dispersion": img})
	require.NoError(t, err)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
