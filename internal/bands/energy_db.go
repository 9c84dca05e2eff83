package bands

import (
	"errors"
	"fmt"
	"sort"

	"github.com/user/band_analyzer_go/internal/units"
)

var (
	// ErrBandShape indicates band data whose shape disagrees with the
	// declared band count or the k-point count.
	ErrBandShape = errors.New("bands: band data shape mismatch")
	// ErrBandIndex indicates a band index outside the valid set.
	ErrBandIndex = errors.New("bands: not a valid band index")
	// ErrBandOrder indicates n_lower > n_upper.
	ErrBandOrder = errors.New("bands: n_lower must be less than or equal to n_upper")
)

// EnergyDB holds per-band energies, one value per k-point, with a declared
// energy unit. Band indices run 1..NumBands. Immutable after construction.
type EnergyDB struct {
	energies map[int][]float64
	indices  []int
	units    string
}

// NewEnergyDB validates and stores a raw per-band energy mapping. The band
// indices must form the contiguous range 1..numBands and every band must
// hold exactly numPoints energies.
func NewEnergyDB(energies map[int][]float64, numBands, numPoints int, energyUnits string) (*EnergyDB, error) {
	if len(energies) != numBands {
		return nil, fmt.Errorf("%w: %d bands supplied, %d declared", ErrBandShape, len(energies), numBands)
	}
	stored := make(map[int][]float64, numBands)
	indices := make([]int, 0, numBands)
	for n := 1; n <= numBands; n++ {
		band, ok := energies[n]
		if !ok {
			return nil, fmt.Errorf("%w: band index %d missing from 1..%d", ErrBandShape, n, numBands)
		}
		if len(band) != numPoints {
			return nil, fmt.Errorf("%w: band %d has %d energies, expected %d", ErrBandShape, n, len(band), numPoints)
		}
		stored[n] = append([]float64(nil), band...)
		indices = append(indices, n)
	}
	sort.Ints(indices)
	return &EnergyDB{energies: stored, indices: indices, units: energyUnits}, nil
}

// Indices returns the sorted set of valid band indices.
func (db *EnergyDB) Indices() []int {
	return append([]int(nil), db.indices...)
}

// HasIndex reports whether n is a valid band index.
func (db *EnergyDB) HasIndex(n int) bool {
	_, ok := db.energies[n]
	return ok
}

// NumBands returns the number of stored bands.
func (db *EnergyDB) NumBands() int { return len(db.indices) }

// Band returns a copy of the energies of band n.
func (db *EnergyDB) Band(n int) ([]float64, error) {
	band, ok := db.energies[n]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBandIndex, n)
	}
	return append([]float64(nil), band...), nil
}

// Units returns the declared energy unit tag.
func (db *EnergyDB) Units() string { return db.units }

// ConvertedBand returns a new slice holding band n converted to the given
// energy unit. The stored data is never modified.
func (db *EnergyDB) ConvertedBand(n int, to string) ([]float64, error) {
	band, err := db.Band(n)
	if err != nil {
		return nil, err
	}
	factor, err := units.EnergyFactor(db.units, to)
	if err != nil {
		return nil, err
	}
	for i := range band {
		band[i] *= factor
	}
	return band, nil
}
