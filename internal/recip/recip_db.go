// Package recip stores the reciprocal-space points of a calculation: the
// k-point coordinates in a canonical crystal basis, the cumulative path
// length used as the x-axis of dispersion plots, and optional high-symmetry
// point labels. Points and path are fixed at construction; labels may be
// attached later with AddLabels.
package recip

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrPointNotFound indicates a coordinate lookup matched no stored point.
	ErrPointNotFound = errors.New("recip: no k-point matches the given coordinate")
	// ErrBadShape indicates mismatched point/path lengths or malformed coordinates.
	ErrBadShape = errors.New("recip: malformed point or path data")
	// ErrUnknownUnits indicates an unsupported coordinate unit tag.
	ErrUnknownUnits = errors.New("recip: unknown coordinate units")
)

// lookupTol is the componentwise tolerance for Where. Lookups are expected
// to come from coordinates produced by the same pipeline, so this only
// absorbs floating-point round-off, not genuine nearest-neighbor distance.
const lookupTol = 1e-8

// DB holds an immutable set of k-points in crystal coordinates together
// with their 1-D path parameterization.
type DB struct {
	points [][3]float64
	path   []float64
	labels map[int]string
}

// FromLattice builds a DB from raw coordinates. Coordinates tagged as
// cartesian are converted to the crystal basis through the reciprocal
// lattice vectors (given as rows b1, b2, b3). If path is nil the cumulative
// Euclidean path length is derived from the point sequence; otherwise it is
// validated against the point count.
func FromLattice(points [][3]float64, pointUnits string, recipLat [3][3]float64, path []float64, labels map[int]string) (*DB, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: empty point list", ErrBadShape)
	}

	canonical := make([][3]float64, len(points))
	switch normalizeUnits(pointUnits) {
	case "crystal":
		copy(canonical, points)
	case "cartesian":
		inv, err := invertBasis(recipLat)
		if err != nil {
			return nil, err
		}
		for i, p := range points {
			canonical[i] = applyBasis(inv, p)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnits, pointUnits)
	}

	if path == nil {
		path = cumulativePath(canonical)
	} else {
		if len(path) != len(canonical) {
			return nil, fmt.Errorf("%w: %d path values for %d points", ErrBadShape, len(path), len(canonical))
		}
		path = append([]float64(nil), path...)
	}

	db := &DB{points: canonical, path: path, labels: make(map[int]string, len(labels))}
	if err := db.AddLabels(labels); err != nil {
		return nil, err
	}
	return db, nil
}

// AddLabels attaches high-symmetry labels to stored points, replacing any
// existing label at the same index. All indices are range-checked before the
// label map is touched.
func (db *DB) AddLabels(labels map[int]string) error {
	for i := range labels {
		if i < 0 || i >= len(db.points) {
			return fmt.Errorf("%w: label index %d out of range", ErrBadShape, i)
		}
	}
	for i, l := range labels {
		db.labels[i] = l
	}
	return nil
}

func normalizeUnits(u string) string {
	switch strings.ToLower(strings.TrimSpace(u)) {
	case "crystal", "cryst", "frac", "fractional":
		return "crystal"
	case "cartesian", "cart", "tpiba":
		return "cartesian"
	default:
		return ""
	}
}

// invertBasis inverts the matrix whose columns are the basis vectors given
// as rows of recipLat, so that crystal coordinates can be recovered from
// cartesian ones.
func invertBasis(recipLat [3][3]float64) (*mat.Dense, error) {
	b := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			// Row i of recipLat is basis vector b_i; place it in column i.
			b.Set(j, i, recipLat[i][j])
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(b); err != nil {
		return nil, fmt.Errorf("recip: reciprocal lattice is singular: %w", err)
	}
	return &inv, nil
}

func applyBasis(m *mat.Dense, p [3]float64) [3]float64 {
	v := mat.NewVecDense(3, []float64{p[0], p[1], p[2]})
	var out mat.VecDense
	out.MulVec(m, v)
	return [3]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

func cumulativePath(points [][3]float64) []float64 {
	path := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		path[i] = path[i-1] + Distance(points[i-1], points[i])
	}
	return path
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// NumPoints returns the number of stored k-points.
func (db *DB) NumPoints() int { return len(db.points) }

// Point returns the coordinate of the i-th k-point.
func (db *DB) Point(i int) [3]float64 { return db.points[i] }

// Points returns a copy of all k-point coordinates.
func (db *DB) Points() [][3]float64 {
	out := make([][3]float64, len(db.points))
	copy(out, db.points)
	return out
}

// Path returns a copy of the cumulative path coordinates.
func (db *DB) Path() []float64 {
	return append([]float64(nil), db.path...)
}

// PathAt returns the path coordinate of the i-th point.
func (db *DB) PathAt(i int) float64 { return db.path[i] }

// Labels returns a copy of the sparse high-symmetry label map.
func (db *DB) Labels() map[int]string {
	out := make(map[int]string, len(db.labels))
	for i, l := range db.labels {
		out[i] = l
	}
	return out
}

// Where returns the index of the stored point matching coord. The match is
// exact up to floating-point round-off; there is no nearest-neighbor
// fallback, a miss is ErrPointNotFound.
func (db *DB) Where(coord [3]float64) (int, error) {
	for i, p := range db.points {
		if math.Abs(p[0]-coord[0]) < lookupTol &&
			math.Abs(p[1]-coord[1]) < lookupTol &&
			math.Abs(p[2]-coord[2]) < lookupTol {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: (%g, %g, %g)", ErrPointNotFound, coord[0], coord[1], coord[2])
}
