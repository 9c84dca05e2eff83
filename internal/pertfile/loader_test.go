package pertfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `
input parameters:
  after conversion:
    calc_mode: bands
basic data:
  alat: 10.2
  alat units: bohr
  lattice vectors: [[0.5, 0.5, 0], [0, 0.5, 0.5], [0.5, 0, 0.5]]
  reciprocal lattice vectors: [[1, 1, -1], [-1, 1, 1], [1, -1, 1]]
bands:
  number of bands: 2
  band units: eV
  band index:
    1: [0.0, 1.0]
    2: [2.0, 3.0]
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pert_output.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAndAccess(t *testing.T) {
	f, err := Load(writeSample(t, sampleFile))
	require.NoError(t, err)

	mode, err := f.CalcMode()
	require.NoError(t, err)
	assert.Equal(t, "bands", mode)

	basic, err := f.Basic()
	require.NoError(t, err)
	assert.Equal(t, 10.2, basic.Alat)
	assert.Equal(t, "bohr", basic.AlatUnits)
	assert.Equal(t, 0.5, basic.Lat[0][0])
	assert.Equal(t, -1.0, basic.RecipLat[0][2])

	sec, err := f.Section("bands")
	require.NoError(t, err)

	num, err := AsInt(sec["number of bands"])
	require.NoError(t, err)
	assert.Equal(t, 2, num)

	bandMap, err := AsBandMap(sec["band index"])
	require.NoError(t, err)
	require.Len(t, bandMap, 2)
	assert.Equal(t, []float64{0, 1}, bandMap[1])
	assert.Equal(t, []float64{2, 3}, bandMap[2])
}

func TestMissingSections(t *testing.T) {
	f := FromMap(map[string]any{})

	_, err := f.Section("bands")
	assert.ErrorIs(t, err, ErrMissingKey)
	_, err = f.CalcMode()
	assert.ErrorIs(t, err, ErrMissingKey)
	_, err = f.Basic()
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestCoercions(t *testing.T) {
	f, err := AsFloat(3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	_, err = AsFloat(map[string]any{})
	assert.ErrorIs(t, err, ErrBadValue)

	pts, err := AsPoints([]any{[]any{0, 0, 0.5}})
	require.NoError(t, err)
	assert.Equal(t, [3]float64{0, 0, 0.5}, pts[0])

	_, err = AsPoints([]any{[]any{0, 0}})
	assert.ErrorIs(t, err, ErrBadValue)

	_, err = AsMatrix3([]any{[]any{1, 0, 0}})
	assert.ErrorIs(t, err, ErrBadValue)

	_, err = AsBandMap("not a mapping")
	assert.ErrorIs(t, err, ErrBadValue)
}
