package recip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identity = [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func linePoints(n int, spacing float64) [][3]float64 {
	points := make([][3]float64, n)
	for i := range points {
		points[i] = [3]float64{0, 0, float64(i) * spacing}
	}
	return points
}

func TestDerivedPath(t *testing.T) {
	const spacing = 0.1
	db, err := FromLattice(linePoints(5, spacing), "crystal", identity, nil, nil)
	require.NoError(t, err)

	path := db.Path()
	require.Len(t, path, 5)
	assert.Equal(t, 0.0, path[0])
	for i := 1; i < len(path); i++ {
		assert.GreaterOrEqual(t, path[i], path[i-1])
		assert.InDelta(t, float64(i)*spacing, path[i], 1e-12)
	}
}

func TestSuppliedPathLengthChecked(t *testing.T) {
	_, err := FromLattice(linePoints(3, 0.1), "crystal", identity, []float64{0, 1}, nil)
	assert.ErrorIs(t, err, ErrBadShape)
}

func TestCartesianConversion(t *testing.T) {
	recipLat := [3][3]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}
	db, err := FromLattice([][3]float64{{1, 1, 0}}, "cartesian", recipLat, nil, nil)
	require.NoError(t, err)

	p := db.Point(0)
	assert.InDelta(t, 0.5, p[0], 1e-12)
	assert.InDelta(t, 0.5, p[1], 1e-12)
	assert.InDelta(t, 0.0, p[2], 1e-12)
}

func TestUnknownCoordinateUnits(t *testing.T) {
	_, err := FromLattice(linePoints(2, 0.1), "spherical", identity, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownUnits)
}

func TestWhere(t *testing.T) {
	db, err := FromLattice(linePoints(4, 0.25), "crystal", identity, nil, nil)
	require.NoError(t, err)

	idx, err := db.Where([3]float64{0, 0, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	// Round-off within the lookup tolerance still matches.
	idx, err = db.Where([3]float64{0, 0, 0.5 + 1e-12})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	// No nearest-neighbor fallback.
	_, err = db.Where([3]float64{0, 0, 0.51})
	assert.ErrorIs(t, err, ErrPointNotFound)
}

func TestLabels(t *testing.T) {
	labels := map[int]string{0: "G", 3: "X"}
	db, err := FromLattice(linePoints(4, 0.1), "crystal", identity, nil, labels)
	require.NoError(t, err)
	assert.Equal(t, labels, db.Labels())

	_, err = FromLattice(linePoints(4, 0.1), "crystal", identity, nil, map[int]string{7: "L"})
	assert.ErrorIs(t, err, ErrBadShape)
}

func TestAddLabels(t *testing.T) {
	db, err := FromLattice(linePoints(4, 0.1), "crystal", identity, nil, nil)
	require.NoError(t, err)
	require.Empty(t, db.Labels())

	require.NoError(t, db.AddLabels(map[int]string{0: "G", 3: "X"}))
	assert.Equal(t, map[int]string{0: "G", 3: "X"}, db.Labels())

	err = db.AddLabels(map[int]string{1: "M", -1: "L"})
	assert.ErrorIs(t, err, ErrBadShape)
	// A bad batch leaves the label map untouched.
	assert.Equal(t, map[int]string{0: "G", 3: "X"}, db.Labels())
}

func TestEmptyPoints(t *testing.T) {
	_, err := FromLattice(nil, "crystal", identity, nil, nil)
	assert.ErrorIs(t, err, ErrBadShape)
}
