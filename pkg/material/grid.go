package material

import (
	"sort"

	"materialsmc/pkg/nuclide"
)

// GridTolerance is the absolute energy difference (eV) below which two grid
// points are merged.
const GridTolerance = 1e-12

// UnifiedGrid merges the energy points of every curve of every dataset at
// (particle, temperature) into one ascending axis. Of two points closer than
// GridTolerance the lower is kept. Datasets without data at that temperature
// contribute nothing, so the result may be empty.
func UnifiedGrid(datasets []*nuclide.Dataset, p nuclide.Particle, temperature string) []float64 {
	var all []float64
	for _, ds := range datasets {
		for _, c := range ds.Curves(p, temperature) {
			all = append(all, c.Energy...)
		}
	}
	if len(all) == 0 {
		return []float64{}
	}
	sort.Float64s(all)
	out := all[:1]
	for _, e := range all[1:] {
		if e-out[len(out)-1] >= GridTolerance {
			out = append(out, e)
		}
	}
	return out
}

// UnifiedEnergyGrid returns the unified grid of the attached datasets at the
// material's temperature. The result is cached until the temperature or the
// composition changes; callers must not modify it.
func (m *Material) UnifiedEnergyGrid(p nuclide.Particle) []float64 {
	if g, ok := m.grids[p]; ok {
		return g
	}
	g := UnifiedGrid(m.attached(), p, m.temperature)
	m.grids[p] = g
	return g
}

// attached returns the datasets of the composition in sorted name order.
func (m *Material) attached() []*nuclide.Dataset {
	var out []*nuclide.Dataset
	for _, n := range m.Nuclides() {
		if ds, ok := m.datasets[n]; ok {
			out = append(out, ds)
		}
	}
	return out
}
