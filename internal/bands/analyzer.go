// Package bands implements the band-structure analysis over a set of
// computed electronic band energies: direct and indirect band gaps,
// longitudinal effective mass by local parabolic fit, and dispersion
// plotting. A BandsCalc owns one reciprocal-point database and one energy
// database, built together from a calculation output file; every derived
// quantity is recomputed on demand from that immutable state.
package bands

import (
	"errors"
	"fmt"
	"math"

	"github.com/user/band_analyzer_go/internal/fitting"
	"github.com/user/band_analyzer_go/internal/pertfile"
	"github.com/user/band_analyzer_go/internal/recip"
	"github.com/user/band_analyzer_go/internal/units"
)

var (
	// ErrCalcMode indicates the output file was produced by a different
	// calculation mode than "bands".
	ErrCalcMode = errors.New("bands: calculation mode must be \"bands\"")
	// ErrDegenerateFit indicates an effective-mass neighborhood with too
	// few points for a stable parabolic fit.
	ErrDegenerateFit = errors.New("bands: not enough k-points near the center for a parabolic fit")
)

// collinearTol is the angular tolerance of the parallel-vector test that
// restricts the effective-mass fit to a 1-D cut through the center
// direction.
const collinearTol = 1e-2

// BandsCalc is the analysis view over one bands calculation.
type BandsCalc struct {
	kpt       *recip.DB
	bands     *EnergyDB
	alat      float64
	alatUnits string
	mode      string
}

var _ pertfile.CalcResult = (*BandsCalc)(nil)

// FromYAML loads a calculation output file and constructs the analyzer.
func FromYAML(path string) (*BandsCalc, error) {
	f, err := pertfile.Load(path)
	if err != nil {
		return nil, err
	}
	return NewBandsCalc(f)
}

// NewBandsCalc validates the mode tag and builds the reciprocal-point and
// energy databases from the raw file. No partial object is returned on
// failure.
func NewBandsCalc(f *pertfile.File) (*BandsCalc, error) {
	mode, err := f.CalcMode()
	if err != nil {
		return nil, err
	}
	if mode != "bands" {
		return nil, fmt.Errorf("%w: got %q", ErrCalcMode, mode)
	}

	basic, err := f.Basic()
	if err != nil {
		return nil, err
	}
	sec, err := f.Section("bands")
	if err != nil {
		return nil, err
	}

	get := func(key string) (any, error) {
		v, ok := sec[key]
		if !ok {
			return nil, fmt.Errorf("%w: \"bands.%s\"", pertfile.ErrMissingKey, key)
		}
		return v, nil
	}

	rawPath, err := get("k-path coordinates")
	if err != nil {
		return nil, err
	}
	kpath, err := pertfile.AsFloatSlice(rawPath)
	if err != nil {
		return nil, err
	}

	rawPoints, err := get("k-point coordinates")
	if err != nil {
		return nil, err
	}
	kpoints, err := pertfile.AsPoints(rawPoints)
	if err != nil {
		return nil, err
	}

	rawUnits, err := get("k-point coordinate units")
	if err != nil {
		return nil, err
	}
	pointUnits, err := pertfile.AsString(rawUnits)
	if err != nil {
		return nil, err
	}

	rawBands, err := get("band index")
	if err != nil {
		return nil, err
	}
	bandMap, err := pertfile.AsBandMap(rawBands)
	if err != nil {
		return nil, err
	}

	rawNum, err := get("number of bands")
	if err != nil {
		return nil, err
	}
	numBands, err := pertfile.AsInt(rawNum)
	if err != nil {
		return nil, err
	}

	rawEnergyUnits, err := get("band units")
	if err != nil {
		return nil, err
	}
	energyUnits, err := pertfile.AsString(rawEnergyUnits)
	if err != nil {
		return nil, err
	}

	kpt, err := recip.FromLattice(kpoints, pointUnits, basic.RecipLat, kpath, nil)
	if err != nil {
		return nil, err
	}
	edb, err := NewEnergyDB(bandMap, numBands, kpt.NumPoints(), energyUnits)
	if err != nil {
		return nil, err
	}

	return &BandsCalc{
		kpt:       kpt,
		bands:     edb,
		alat:      basic.Alat,
		alatUnits: basic.AlatUnits,
		mode:      mode,
	}, nil
}

// Mode returns the calculation mode tag.
func (c *BandsCalc) Mode() string { return c.mode }

// KPoints returns the reciprocal-point database.
func (c *BandsCalc) KPoints() *recip.DB { return c.kpt }

// Bands returns the energy database.
func (c *BandsCalc) Bands() *EnergyDB { return c.bands }

// AddLabels attaches high-symmetry labels, keyed by k-point index, for use
// by PlotBands. The output file carries no labels itself, so callers supply
// them after construction.
func (c *BandsCalc) AddLabels(labels map[int]string) error {
	return c.kpt.AddLabels(labels)
}

// checkBandPair validates the preconditions shared by both gap methods.
// Membership is checked against the energy database's index set, the single
// authoritative source of valid band indices.
func (c *BandsCalc) checkBandPair(nLower, nUpper int) error {
	if !c.bands.HasIndex(nLower) {
		return fmt.Errorf("%w: n_lower=%d", ErrBandIndex, nLower)
	}
	if !c.bands.HasIndex(nUpper) {
		return fmt.Errorf("%w: n_upper=%d", ErrBandIndex, nUpper)
	}
	if nLower > nUpper {
		return fmt.Errorf("%w: got n_lower=%d, n_upper=%d", ErrBandOrder, nLower, nUpper)
	}
	return nil
}

// IndirectGap computes the indirect band gap between two bands: the energy
// difference between the minimum of the upper band and the maximum of the
// lower band, each found independently over all k-points. It returns the
// gap and the k-points hosting the lower band's maximum and the upper
// band's minimum; ties go to the first occurrence in point order.
func (c *BandsCalc) IndirectGap(nLower, nUpper int) (gap float64, lowerKpt, upperKpt [3]float64, err error) {
	if err = c.checkBandPair(nLower, nUpper); err != nil {
		return 0, lowerKpt, upperKpt, err
	}

	lower, _ := c.bands.Band(nLower)
	upper, _ := c.bands.Band(nUpper)

	iMax := argmax(lower)
	iMin := argmin(upper)

	gap = upper[iMin] - lower[iMax]
	return gap, c.kpt.Point(iMax), c.kpt.Point(iMin), nil
}

// DirectGap computes the direct band gap between two bands: the minimum of
// the pointwise energy difference, constrained to a single shared k-point.
// Ties go to the first occurrence in point order.
func (c *BandsCalc) DirectGap(nLower, nUpper int) (gap float64, kpoint [3]float64, err error) {
	if err = c.checkBandPair(nLower, nUpper); err != nil {
		return 0, kpoint, err
	}

	lower, _ := c.bands.Band(nLower)
	upper, _ := c.bands.Band(nUpper)

	transitions := make([]float64, len(lower))
	for i := range lower {
		transitions[i] = upper[i] - lower[i]
	}
	iMin := argmin(transitions)
	return transitions[iMin], c.kpt.Point(iMin), nil
}

// MassFitOptions controls the optional rendering of the effective-mass fit.
// A nil options value disables plotting entirely.
type MassFitOptions struct {
	ShowPlot bool
	PlotPath string // defaults to "effective_mass_fit.png"
}

// EffectiveMass computes the longitudinal effective mass of band n at a
// k-point by a constrained parabolic fit E(q) = a*q^2 + E0 over the
// k-points within maxDistance of the center that lie on the line through
// the center and the origin. E0 is pinned to the energy at the center
// point; the returned mass is 1/(2a) in atomic units (energies are
// converted to hartree and the lattice parameter to bohr before fitting).
func (c *BandsCalc) EffectiveMass(n int, kpoint [3]float64, maxDistance float64, opts *MassFitOptions) (float64, error) {
	if !c.bands.HasIndex(n) {
		return 0, fmt.Errorf("%w: %d", ErrBandIndex, n)
	}
	if maxDistance <= 0 {
		return 0, fmt.Errorf("bands: max distance must be positive, got %g", maxDistance)
	}

	centerIdx, err := c.kpt.Where(kpoint)
	if err != nil {
		return 0, err
	}

	energies, err := c.bands.ConvertedBand(n, units.AtomicEnergy)
	if err != nil {
		return 0, err
	}
	lengthFactor, err := units.LengthFactor(c.alatUnits, units.AtomicLength)
	if err != nil {
		return 0, err
	}
	alat := c.alat * lengthFactor
	e0 := energies[centerIdx]

	center := c.kpt.Point(centerIdx)
	centerNorm := math.Sqrt(center[0]*center[0] + center[1]*center[1] + center[2]*center[2])

	scale := (2 * math.Pi / alat) * (2 * math.Pi / alat)
	var indices []int
	var distSquared, fitEnergies []float64
	for i := 0; i < c.kpt.NumPoints(); i++ {
		p := c.kpt.Point(i)
		d := recip.Distance(p, center)
		if d >= maxDistance {
			continue
		}
		if i != centerIdx && !collinear(center, centerNorm, p) {
			continue
		}
		indices = append(indices, i)
		distSquared = append(distSquared, d*d*scale)
		fitEnergies = append(fitEnergies, energies[i])
	}

	if len(indices) < 2 {
		return 0, fmt.Errorf("%w: %d point(s) within %g of the center", ErrDegenerateFit, len(indices), maxDistance)
	}

	model := func(params []float64, qsq float64) float64 {
		return params[0]*qsq + e0
	}
	params, err := fitting.CurveFit(model, distSquared, fitEnergies, []float64{initialCurvature(distSquared, fitEnergies, e0)})
	if err != nil {
		return 0, err
	}
	a := params[0]
	if a == 0 {
		return 0, fmt.Errorf("%w: fitted curvature is zero", ErrDegenerateFit)
	}
	mass := 1 / (2 * a)

	if opts != nil && opts.ShowPlot {
		pathCoords := make([]float64, len(indices))
		fitted := make([]float64, len(indices))
		for j, i := range indices {
			pathCoords[j] = c.kpt.PathAt(i)
			fitted[j] = a*distSquared[j] + e0
		}
		if err := saveMassFitPlot(pathCoords, fitEnergies, fitted, opts.PlotPath); err != nil {
			return 0, err
		}
	}

	return mass, nil
}

// collinear reports whether p lies along the center-to-origin direction,
// within the angular tolerance of the normalized dot product.
func collinear(center [3]float64, centerNorm float64, p [3]float64) bool {
	pNorm := math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
	if centerNorm == 0 || pNorm == 0 {
		return false
	}
	dot := center[0]*p[0] + center[1]*p[1] + center[2]*p[2]
	return math.Abs(dot/(centerNorm*pNorm)-1) < collinearTol
}

// initialCurvature seeds the fit with the curvature implied by the sample
// farthest from the center, which is exact for a noiseless parabola.
func initialCurvature(distSquared, energies []float64, e0 float64) float64 {
	best := 0
	for i, q := range distSquared {
		if q > distSquared[best] {
			best = i
		}
	}
	if distSquared[best] == 0 {
		return 1.0
	}
	return (energies[best] - e0) / distSquared[best]
}

func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

func argmin(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x < xs[best] {
			best = i
		}
	}
	return best
}
