package material

import (
	"fmt"
	"math/rand/v2"

	"materialsmc/pkg/nuclide"
	"materialsmc/pkg/sampling"
)

// SampleInteractingNuclide picks the nuclide a neutron at energy collides
// with, weighting each nuclide by its macroscopic total cross section. The
// same seed always selects the same nuclide.
func (m *Material) SampleInteractingNuclide(energy float64, seed uint64) (string, error) {
	return m.SampleInteractingNuclideRand(energy, sampling.NewRand(seed))
}

// SampleInteractingNuclideRand is SampleInteractingNuclide drawing from rng.
// Nuclides are weighted in sorted name order. It fails with
// sampling.ErrZeroTotalWeight when every weight is zero.
func (m *Material) SampleInteractingNuclideRand(energy float64, rng *rand.Rand) (string, error) {
	names, weights, err := m.nuclideTotals(nuclide.Neutron, energy)
	if err != nil {
		return "", err
	}
	i, err := sampling.Choose(weights, rng)
	if err != nil {
		return "", fmt.Errorf("sample interacting nuclide at %g eV: %w", energy, err)
	}
	return names[i], nil
}

// SampleDistanceToCollision draws the distance (cm) a neutron at energy
// travels before its next collision. It reports false when the total cross
// section is undefined or zero.
func (m *Material) SampleDistanceToCollision(energy float64, seed uint64) (float64, bool) {
	return m.SampleDistanceToCollisionRand(energy, sampling.NewRand(seed))
}

// SampleDistanceToCollisionRand is SampleDistanceToCollision drawing from rng.
func (m *Material) SampleDistanceToCollisionRand(energy float64, rng *rand.Rand) (float64, bool) {
	sigma, ok := m.sigmaT(nuclide.Neutron, energy)
	if !ok {
		return 0, false
	}
	return sampling.Distance(sigma, rng), true
}
