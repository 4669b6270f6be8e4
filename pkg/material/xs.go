package material

import (
	"sort"

	"materialsmc/pkg/element"
	"materialsmc/pkg/errdefs"
	"materialsmc/pkg/nuclide"
	"materialsmc/pkg/reaction"
)

const (
	// Avogadro is the number of atoms per mole.
	Avogadro = 6.02214076e23
	// BarnToCm2 converts barns to square centimetres.
	BarnToCm2 = 1e-24
)

// XS maps reaction identifiers to values sampled on an energy grid.
type XS map[reaction.MT][]float64

// Macroscopic is a macroscopic cross-section result on the unified grid.
type Macroscopic struct {
	Energy []float64
	// XS holds values in cm^-1.
	XS XS
	// NuclideTotal holds each nuclide's contribution to MT 1 when requested.
	NuclideTotal map[string][]float64
}

// massOf returns the atomic mass of name: the element table first, then the
// mass number of the attached dataset, then the mass number in the name.
func (m *Material) massOf(name string) (float64, bool) {
	if mass, ok := element.AtomicMass(name); ok {
		return mass, true
	}
	if ds, ok := m.datasets[name]; ok && ds.MassNumber > 0 {
		return float64(ds.MassNumber), true
	}
	if _, a, ok := element.Split(name); ok {
		return float64(a), true
	}
	return 0, false
}

// AtomsPerCC returns the atom number density (atoms/cm3) of each nuclide.
// Fractions are atom fractions:
//
//	N_i = N_A * rho * f_i / sum_j(f_j * m_j)
//
// A nuclide of unknown mass counts as 1.0 when other masses are known. When no
// mass is known at all the result is f_i * rho, an unnormalised
// approximation. It fails with a configuration error when no density is set.
func (m *Material) AtomsPerCC() (map[string]float64, error) {
	if m.density <= 0 {
		return nil, errdefs.Configuration("atoms_per_cc", "", "density not set")
	}
	out := make(map[string]float64, len(m.composition))
	if len(m.composition) == 0 {
		return out, nil
	}
	masses := make(map[string]float64, len(m.composition))
	known := false
	for n := range m.composition {
		if mass, ok := m.massOf(n); ok {
			masses[n] = mass
			known = true
		}
	}
	if !known {
		for n, f := range m.composition {
			out[n] = f * m.density
		}
		return out, nil
	}
	var denom float64
	for _, n := range m.Nuclides() {
		mass, ok := masses[n]
		if !ok {
			mass = 1.0
			masses[n] = mass
		}
		denom += m.composition[n] * mass
	}
	for n, f := range m.composition {
		if denom == 0 {
			out[n] = 0
			continue
		}
		out[n] = Avogadro * m.density * f / denom
	}
	return out, nil
}

// requiredDatasets returns the attached datasets of the composition in sorted
// name order, failing when a nuclide has no data or lacks the material
// temperature.
func (m *Material) requiredDatasets(op string, p nuclide.Particle) ([]string, []*nuclide.Dataset, error) {
	names := m.Nuclides()
	out := make([]*nuclide.Dataset, len(names))
	for i, n := range names {
		ds, ok := m.datasets[n]
		if !ok {
			return nil, nil, errdefs.Configuration(op, n, "nuclide data not loaded")
		}
		if !ds.HasTemperature(p, m.temperature) {
			return nil, nil, errdefs.Configuration(op, n, "no %s data at temperature %q (available %v)",
				p, m.temperature, ds.AvailableTemperatures)
		}
		out[i] = ds
	}
	return names, out, nil
}

// expand returns requested (or, when empty, every identifier present in
// datasets) together with all sum-rule descendants in post-order.
func (m *Material) expand(datasets []*nuclide.Dataset, p nuclide.Particle, requested []reaction.MT) ([]reaction.MT, error) {
	if len(requested) == 0 {
		seen := make(map[reaction.MT]struct{})
		for _, ds := range datasets {
			for _, mt := range ds.MTsAt(p, m.temperature) {
				seen[mt] = struct{}{}
			}
		}
		for mt := range seen {
			requested = append(requested, mt)
		}
		sort.Slice(requested, func(i, j int) bool { return requested[i] < requested[j] })
	}
	return m.rules.Order(requested)
}

// evaluate samples each reaction of order on grid for one nuclide. A composite
// with at least one constituent already evaluated is the sum of those
// constituents; otherwise a reaction with tabulated data uses its curve.
// Reactions with neither are omitted.
func (m *Material) evaluate(ds *nuclide.Dataset, p nuclide.Particle, grid []float64, order []reaction.MT) XS {
	out := make(XS)
	for _, mt := range order {
		if sum, ok := sumConstituents(out, m.rules.Constituents(mt), len(grid)); ok {
			out[mt] = sum
			continue
		}
		if c, ok := ds.Curve(p, m.temperature, mt); ok {
			vals := make([]float64, len(grid))
			for k, e := range grid {
				vals[k] = c.At(e)
			}
			out[mt] = vals
		}
	}
	return out
}

func sumConstituents(evaluated XS, children []reaction.MT, n int) ([]float64, bool) {
	var sum []float64
	for _, child := range children {
		v, ok := evaluated[child]
		if !ok {
			continue
		}
		if sum == nil {
			sum = make([]float64, n)
		}
		for k := range sum {
			sum[k] += v[k]
		}
	}
	return sum, sum != nil
}

// MicroscopicXS returns, per nuclide, the microscopic cross sections (barns)
// on the unified grid for mts and their sum-rule descendants. An empty mts
// selects every reaction present. Below a reaction's threshold the value is
// zero.
func (m *Material) MicroscopicXS(p nuclide.Particle, mts []reaction.MT) (map[string]XS, error) {
	names, datasets, err := m.requiredDatasets("microscopic_xs", p)
	if err != nil {
		return nil, err
	}
	order, err := m.expand(datasets, p, mts)
	if err != nil {
		return nil, err
	}
	grid := m.UnifiedEnergyGrid(p)
	out := make(map[string]XS, len(names))
	for i, n := range names {
		out[n] = m.evaluate(datasets[i], p, grid, order)
	}
	return out, nil
}

// MacroscopicXS returns macroscopic cross sections (cm^-1) on the unified
// grid for mts and their sum-rule descendants, summed over nuclides in sorted
// order. With byNuclide each nuclide's total is reported as well. The result
// replaces the material's cached one. An empty composition gives an empty
// result.
func (m *Material) MacroscopicXS(p nuclide.Particle, mts []reaction.MT, byNuclide bool) (*Macroscopic, error) {
	if len(m.composition) == 0 {
		return &Macroscopic{Energy: []float64{}, XS: XS{}}, nil
	}
	atoms, err := m.AtomsPerCC()
	if err != nil {
		return nil, errdefs.Configuration("macroscopic_xs", "", "density not set")
	}
	names, datasets, err := m.requiredDatasets("macroscopic_xs", p)
	if err != nil {
		return nil, err
	}
	order, err := m.expand(datasets, p, mts)
	if err != nil {
		return nil, err
	}
	if byNuclide {
		// the per-nuclide breakdown needs MT 1 even when not requested
		order, err = m.rules.Order(append(order, reaction.Total))
		if err != nil {
			return nil, err
		}
	}
	grid := m.UnifiedEnergyGrid(p)
	res := &Macroscopic{Energy: grid, XS: make(XS)}
	if byNuclide {
		res.NuclideTotal = make(map[string][]float64, len(names))
	}
	for i, n := range names {
		scale := atoms[n] * BarnToCm2
		micro := m.evaluate(datasets[i], p, grid, order)
		for _, mt := range order {
			v, ok := micro[mt]
			if !ok {
				continue
			}
			acc, ok := res.XS[mt]
			if !ok {
				acc = make([]float64, len(grid))
				res.XS[mt] = acc
			}
			for k := range acc {
				acc[k] += v[k] * scale
			}
			if byNuclide && mt == reaction.Total {
				tot := make([]float64, len(grid))
				for k := range tot {
					tot[k] = v[k] * scale
				}
				res.NuclideTotal[n] = tot
			}
		}
	}
	m.macro[p] = res
	return res, nil
}

// MacroscopicXSCached returns the last MacroscopicXS result for p, if it is
// still valid.
func (m *Material) MacroscopicXSCached(p nuclide.Particle) (*Macroscopic, bool) {
	res, ok := m.macro[p]
	return res, ok
}

// TotalXS returns the macroscopic total cross section (cm^-1) on the unified
// grid.
func (m *Material) TotalXS(p nuclide.Particle) (energy, sigmaT []float64, err error) {
	res, err := m.MacroscopicXS(p, []reaction.MT{reaction.Total}, false)
	if err != nil {
		return nil, nil, err
	}
	return res.Energy, res.XS[reaction.Total], nil
}

// nuclideTotals evaluates each nuclide's macroscopic total cross section at a
// single energy. Names are in sorted order.
func (m *Material) nuclideTotals(p nuclide.Particle, energy float64) ([]string, []float64, error) {
	atoms, err := m.AtomsPerCC()
	if err != nil {
		return nil, nil, err
	}
	names, datasets, err := m.requiredDatasets("total_xs", p)
	if err != nil {
		return nil, nil, err
	}
	order, err := m.rules.Order([]reaction.MT{reaction.Total})
	if err != nil {
		return nil, nil, err
	}
	at := []float64{energy}
	weights := make([]float64, len(names))
	for i, n := range names {
		if v, ok := m.evaluate(datasets[i], p, at, order)[reaction.Total]; ok {
			weights[i] = v[0] * atoms[n] * BarnToCm2
		}
	}
	return names, weights, nil
}

// MeanFreePath returns 1/Sigma_t (cm) for neutrons at energy. It reports false
// when the total cross section cannot be determined or is not positive.
func (m *Material) MeanFreePath(energy float64) (float64, bool) {
	sigma, ok := m.sigmaT(nuclide.Neutron, energy)
	if !ok {
		return 0, false
	}
	return 1 / sigma, true
}

func (m *Material) sigmaT(p nuclide.Particle, energy float64) (float64, bool) {
	if len(m.composition) == 0 {
		return 0, false
	}
	_, weights, err := m.nuclideTotals(p, energy)
	if err != nil {
		return 0, false
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	return sum, sum > 0
}
