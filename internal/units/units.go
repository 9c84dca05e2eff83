// Package units provides conversion factors between the energy and length
// unit systems that appear in calculation output files. Conversions are
// explicit: callers multiply by the returned factor and keep the original
// data untouched.
package units

import (
	"fmt"
	"strings"
)

// Physical constants (CODATA 2018).
const (
	hartreeToEV    = 27.211386245988
	bohrToAngstrom = 0.529177210903
)

// Canonical atomic units used by the effective-mass fit.
const (
	AtomicEnergy = "hartree"
	AtomicLength = "bohr"
)

// energyInHartree maps a normalized energy unit name to its value in hartree.
var energyInHartree = map[string]float64{
	"hartree": 1.0,
	"ha":      1.0,
	"ry":      0.5,
	"rydberg": 0.5,
	"ev":      1.0 / hartreeToEV,
	"mev":     1.0 / (hartreeToEV * 1000),
}

// lengthInBohr maps a normalized length unit name to its value in bohr.
var lengthInBohr = map[string]float64{
	"bohr":     1.0,
	"a.u":      1.0,
	"au":       1.0,
	"angstrom": 1.0 / bohrToAngstrom,
	"a":        1.0 / bohrToAngstrom,
	"nm":       10.0 / bohrToAngstrom,
}

func normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// EnergyFactor returns the factor converting an energy value from one unit
// to another. An unrecognized unit name is an error, never a silent 1.0.
func EnergyFactor(from, to string) (float64, error) {
	f, ok := energyInHartree[normalize(from)]
	if !ok {
		return 0, fmt.Errorf("units: unknown energy unit %q", from)
	}
	t, ok := energyInHartree[normalize(to)]
	if !ok {
		return 0, fmt.Errorf("units: unknown energy unit %q", to)
	}
	return f / t, nil
}

// LengthFactor returns the factor converting a length value from one unit
// to another.
func LengthFactor(from, to string) (float64, error) {
	f, ok := lengthInBohr[normalize(from)]
	if !ok {
		return 0, fmt.Errorf("units: unknown length unit %q", from)
	}
	t, ok := lengthInBohr[normalize(to)]
	if !ok {
		return 0, fmt.Errorf("units: unknown length unit %q", to)
	}
	return f / t, nil
}
