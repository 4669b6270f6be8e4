// Package nuclide holds the reaction data of a single nuclide: per particle and
// temperature label, one cross-section curve per reaction identifier.
//
// A Dataset is immutable once returned by Parse or LoadFile. The slices it
// exposes (energy grids, curve arrays) are shared with every holder and must
// not be modified.
package nuclide

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"materialsmc/pkg/errdefs"
	"materialsmc/pkg/interp"
	"materialsmc/pkg/reaction"
)

// Particle names the incident particle a reaction group applies to.
type Particle string

// Neutron is the only particle carried by the supported data files.
const Neutron Particle = "neutron"

// Curve is one reaction's tabulated cross section.
type Curve struct {
	MT reaction.MT
	// Energy is the curve's absolute energy window in eV: the nuclide grid
	// sliced from ThresholdIdx.
	Energy []float64
	// CrossSection holds values in barns, parallel to Energy.
	CrossSection []float64
	ThresholdIdx int
	Law          interp.Law
}

// At returns the cross section at energy. Reactions with a threshold are zero
// below their first energy point; otherwise the value is interpolated with the
// curve's law and flat beyond either end.
func (c *Curve) At(energy float64) float64 {
	if len(c.Energy) == 0 {
		return 0
	}
	if c.ThresholdIdx > 0 && energy < c.Energy[0] {
		return 0
	}
	return interp.Interpolate(c.Law, c.Energy, c.CrossSection, energy)
}

type group struct {
	energy []float64
	curves map[reaction.MT]*Curve
}

// Dataset is the loaded reaction data of one nuclide.
type Dataset struct {
	Name          string
	Element       string
	AtomicSymbol  string
	AtomicNumber  int
	NeutronNumber int
	MassNumber    int
	Library       string
	Fissionable   bool
	// AvailableTemperatures lists every temperature present in the source,
	// even those a filtered load skipped.
	AvailableTemperatures []string
	// Source is the local path the data was read from, if any.
	Source string

	groups map[Particle]map[string]*group
}

// Temperatures returns the loaded temperature labels in ascending order.
func (d *Dataset) Temperatures() []string {
	seen := make(map[string]struct{})
	for _, temps := range d.groups {
		for t := range temps {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Particles returns the particles with loaded data.
func (d *Dataset) Particles() []Particle {
	out := make([]Particle, 0, len(d.groups))
	for p := range d.groups {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasTemperature reports whether data is loaded for (particle, temperature).
func (d *Dataset) HasTemperature(p Particle, temperature string) bool {
	_, ok := d.groups[p][temperature]
	return ok
}

// EnergyGrid returns the nuclide-wide energy grid for (particle, temperature).
func (d *Dataset) EnergyGrid(p Particle, temperature string) ([]float64, bool) {
	g, ok := d.groups[p][temperature]
	if !ok {
		return nil, false
	}
	return g.energy, true
}

// Curve returns the curve for mt at (particle, temperature).
func (d *Dataset) Curve(p Particle, temperature string, mt reaction.MT) (*Curve, bool) {
	g, ok := d.groups[p][temperature]
	if !ok {
		return nil, false
	}
	c, ok := g.curves[mt]
	return c, ok
}

// Curves returns every curve at (particle, temperature) ordered by MT.
func (d *Dataset) Curves(p Particle, temperature string) []*Curve {
	g, ok := d.groups[p][temperature]
	if !ok {
		return nil
	}
	out := make([]*Curve, 0, len(g.curves))
	for _, c := range g.curves {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MT < out[j].MT })
	return out
}

// MTsAt returns the reaction identifiers present at (particle, temperature).
func (d *Dataset) MTsAt(p Particle, temperature string) []reaction.MT {
	curves := d.Curves(p, temperature)
	out := make([]reaction.MT, len(curves))
	for i, c := range curves {
		out[i] = c.MT
	}
	return out
}

// MTs returns the sorted union of reaction identifiers over all loaded data.
func (d *Dataset) MTs() []reaction.MT {
	seen := make(map[reaction.MT]struct{})
	for _, temps := range d.groups {
		for _, g := range temps {
			for mt := range g.curves {
				seen[mt] = struct{}{}
			}
		}
	}
	out := make([]reaction.MT, 0, len(seen))
	for mt := range seen {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// resolveTemperature maps an optional temperature label onto a loaded one.
// An empty label selects the single loaded temperature. A label that is not
// loaded is retried with a "K" suffix.
func (d *Dataset) resolveTemperature(p Particle, temperature string) (string, error) {
	temps := d.groups[p]
	if temperature == "" {
		switch len(temps) {
		case 0:
			return "", errdefs.Configuration("microscopic_cross_section", d.Name, "no temperatures loaded")
		case 1:
			for t := range temps {
				return t, nil
			}
		}
		loaded := make([]string, 0, len(temps))
		for t := range temps {
			loaded = append(loaded, t)
		}
		sort.Strings(loaded)
		return "", errdefs.Configuration("microscopic_cross_section", d.Name,
			"multiple temperatures loaded (%s), one must be specified", strings.Join(loaded, ", "))
	}
	if _, ok := temps[temperature]; ok {
		return temperature, nil
	}
	if _, ok := temps[temperature+"K"]; ok {
		return temperature + "K", nil
	}
	return "", errdefs.Configuration("microscopic_cross_section", d.Name, "temperature %q not loaded", temperature)
}

// MicroscopicCrossSection returns the cross section (barns) and energy grid
// (eV) of mt. An empty temperature selects the only loaded temperature.
func (d *Dataset) MicroscopicCrossSection(p Particle, mt reaction.MT, temperature string) (xs, energy []float64, err error) {
	temp, err := d.resolveTemperature(p, temperature)
	if err != nil {
		return nil, nil, err
	}
	c, ok := d.Curve(p, temp, mt)
	if !ok {
		return nil, nil, errdefs.Configuration("microscopic_cross_section", d.Name, "MT %d not found at temperature %q", mt, temp)
	}
	return c.CrossSection, c.Energy, nil
}

// SampleReaction picks a reaction at energy by weighting absorption, elastic
// and (for fissionable nuclides) fission by their cross sections, with
// non-elastic taking the remainder of the total. It reports false when the
// total cross section is missing or zero.
func (d *Dataset) SampleReaction(p Particle, temperature string, energy float64, rng *rand.Rand) (*Curve, bool) {
	xsAt := func(mt reaction.MT) float64 {
		if c, ok := d.Curve(p, temperature, mt); ok {
			return c.At(energy)
		}
		return 0
	}
	total := xsAt(reaction.Total)
	if total <= 0 {
		return nil, false
	}
	xi := rng.Float64() * total
	candidates := []reaction.MT{reaction.Absorption, reaction.Elastic}
	if d.Fissionable {
		candidates = append(candidates, reaction.Fission)
	}
	var accum float64
	for _, mt := range candidates {
		v := xsAt(mt)
		accum += v
		if v > 0 && xi < accum {
			c, _ := d.Curve(p, temperature, mt)
			return c, true
		}
	}
	c, ok := d.Curve(p, temperature, reaction.Nonelastic)
	return c, ok
}

func (d *Dataset) String() string {
	return fmt.Sprintf("Nuclide(%s, Z=%d, A=%d, temperatures=%v)", d.Name, d.AtomicNumber, d.MassNumber, d.Temperatures())
}

// CrossSectionAt evaluates mt at energy. A reaction the nuclide lacks is zero.
func (d *Dataset) CrossSectionAt(p Particle, temperature string, mt reaction.MT, energy float64) float64 {
	c, ok := d.Curve(p, temperature, mt)
	if !ok {
		return 0
	}
	return c.At(energy)
}
