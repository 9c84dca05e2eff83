package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergyFactor(t *testing.T) {
	f, err := EnergyFactor("hartree", "hartree")
	require.NoError(t, err)
	assert.Equal(t, 1.0, f)

	f, err = EnergyFactor("hartree", "eV")
	require.NoError(t, err)
	assert.InDelta(t, 27.211386245988, f, 1e-9)

	f, err = EnergyFactor("Ry", "hartree")
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	f, err = EnergyFactor("meV", "eV")
	require.NoError(t, err)
	assert.InDelta(t, 1e-3, f, 1e-15)
}

func TestEnergyFactorRoundTrip(t *testing.T) {
	forward, err := EnergyFactor("eV", "hartree")
	require.NoError(t, err)
	back, err := EnergyFactor("hartree", "eV")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, forward*back, 1e-12)
}

func TestLengthFactor(t *testing.T) {
	f, err := LengthFactor("bohr", "angstrom")
	require.NoError(t, err)
	assert.InDelta(t, 0.529177210903, f, 1e-12)

	f, err = LengthFactor("angstrom", "bohr")
	require.NoError(t, err)
	assert.InDelta(t, 1/0.529177210903, f, 1e-9)
}

func TestUnknownUnits(t *testing.T) {
	_, err := EnergyFactor("furlongs", "eV")
	assert.Error(t, err)

	_, err = EnergyFactor("eV", "furlongs")
	assert.Error(t, err)

	_, err = LengthFactor("parsec", "bohr")
	assert.Error(t, err)
}
