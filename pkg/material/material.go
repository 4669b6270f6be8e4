// Package material models a material as a composition of nuclides and
// computes the cross sections, atom densities and random draws a transport
// code needs from it.
//
// A Material borrows its nuclide data: the *nuclide.Dataset values it holds
// are shared, read-only handles handed out by a Provider. Derived results
// (the unified energy grid and macroscopic cross sections) are cached on the
// material and cleared whenever an input they depend on changes.
//
// A Material is not safe for concurrent use.
package material

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"materialsmc/pkg/element"
	"materialsmc/pkg/errdefs"
	"materialsmc/pkg/nuclide"
	"materialsmc/pkg/reaction"
)

// DefaultTemperature is the temperature label of a new material.
const DefaultTemperature = "294"

// Density units accepted by SetDensity.
const (
	UnitGramsPerCC      = "g/cm3"
	UnitGramsPerCCShort = "g/cc"
	UnitKilogramsPerM3  = "kg/m3"
)

// Provider hands out shared nuclide datasets. Repeated requests for one name
// return the same *nuclide.Dataset.
type Provider interface {
	// Dataset resolves name through the provider's configuration.
	Dataset(ctx context.Context, name string) (*nuclide.Dataset, error)
	// DatasetFrom resolves name from an explicit source (path, URL or keyword).
	DatasetFrom(ctx context.Context, name, source string) (*nuclide.Dataset, error)
}

// Option configures a Material.
type Option func(*Material)

// WithSumRules replaces the reaction sum rules used to derive composite
// reactions.
func WithSumRules(g *reaction.Graph) Option {
	return func(m *Material) {
		if g != nil {
			m.rules = g
		}
	}
}

// Material is a mixture of nuclides with a density, an optional volume and a
// temperature label.
type Material struct {
	composition map[string]float64
	datasets    map[string]*nuclide.Dataset

	density      float64 // g/cm3, zero when unset
	densityValue float64
	densityUnit  string
	volume       float64
	temperature  string

	rules *reaction.Graph

	grids map[nuclide.Particle][]float64
	macro map[nuclide.Particle]*Macroscopic
}

// New returns an empty material at DefaultTemperature.
func New(opts ...Option) *Material {
	m := &Material{
		composition: make(map[string]float64),
		datasets:    make(map[string]*nuclide.Dataset),
		temperature: DefaultTemperature,
		rules:       reaction.DefaultGraph(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.clearDerived()
	return m
}

func (m *Material) clearDerived() {
	m.grids = make(map[nuclide.Particle][]float64)
	m.macro = make(map[nuclide.Particle]*Macroscopic)
}

func validFraction(f float64) bool {
	return f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// AddNuclide sets the atom fraction of name. Adding a nuclide already in the
// composition overwrites its fraction.
func (m *Material) AddNuclide(name string, fraction float64) error {
	if strings.TrimSpace(name) == "" {
		return errdefs.Validation("add_nuclide", "nuclide name is empty")
	}
	if !validFraction(fraction) {
		return &errdefs.Error{Kind: errdefs.KindValidation, Op: "add_nuclide", Nuclide: name,
			Err: fmt.Errorf("fraction %g must be a non-negative number", fraction)}
	}
	m.composition[name] = fraction
	m.clearDerived()
	return nil
}

// AddElement adds every naturally occurring isotope of symbol, each at
// fraction times its natural abundance.
func (m *Material) AddElement(symbol string, fraction float64) error {
	if !validFraction(fraction) {
		return errdefs.Validation("add_element", "fraction %g for %s must be a non-negative number", fraction, symbol)
	}
	isos := element.Nuclides(symbol)
	if len(isos) == 0 {
		return errdefs.Validation("add_element", "element %q has no known natural isotopes", symbol)
	}
	for _, iso := range isos {
		ab, _ := element.Abundance(iso)
		m.composition[iso] = fraction * ab
	}
	m.clearDerived()
	return nil
}

// SetDensity sets the mass density. unit is one of UnitGramsPerCC,
// UnitGramsPerCCShort or UnitKilogramsPerM3; value must be positive. A
// rejected call leaves the previous density in place.
func (m *Material) SetDensity(unit string, value float64) error {
	if !(value > 0) || math.IsInf(value, 0) {
		return errdefs.Validation("set_density", "density %g must be positive", value)
	}
	var gcc float64
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case UnitGramsPerCC, UnitGramsPerCCShort:
		gcc = value
	case UnitKilogramsPerM3:
		gcc = value / 1000
	default:
		return errdefs.Validation("set_density", "unsupported density unit %q", unit)
	}
	m.density, m.densityValue, m.densityUnit = gcc, value, unit
	m.macro = make(map[nuclide.Particle]*Macroscopic)
	return nil
}

// Density returns the density as set and reports whether one is set.
func (m *Material) Density() (value float64, unit string, ok bool) {
	return m.densityValue, m.densityUnit, m.density > 0
}

// SetVolume sets the material volume in cm3.
func (m *Material) SetVolume(v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return errdefs.Validation("set_volume", "volume %g must be positive", v)
	}
	m.volume = v
	return nil
}

// Volume returns the volume and reports whether one is set.
func (m *Material) Volume() (float64, bool) {
	return m.volume, m.volume > 0
}

// SetTemperature changes the temperature label. Cached derived results are
// discarded when the label changes.
func (m *Material) SetTemperature(label string) error {
	if strings.TrimSpace(label) == "" {
		return errdefs.Validation("set_temperature", "temperature label is empty")
	}
	if label != m.temperature {
		m.temperature = label
		m.clearDerived()
	}
	return nil
}

// Temperature returns the current temperature label.
func (m *Material) Temperature() string { return m.temperature }

// Nuclides returns the composition's nuclide names in sorted order.
func (m *Material) Nuclides() []string {
	out := make([]string, 0, len(m.composition))
	for n := range m.composition {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Fraction returns the fraction of name.
func (m *Material) Fraction(name string) (float64, bool) {
	f, ok := m.composition[name]
	return f, ok
}

// Dataset returns the shared dataset attached for name.
func (m *Material) Dataset(name string) (*nuclide.Dataset, bool) {
	ds, ok := m.datasets[name]
	return ds, ok
}

func (m *Material) attach(name string, ds *nuclide.Dataset) {
	if m.datasets[name] == ds {
		return
	}
	m.datasets[name] = ds
	m.clearDerived()
}

// LoadNuclides attaches data for every nuclide in the composition, resolving
// each name through p's configuration.
func (m *Material) LoadNuclides(ctx context.Context, p Provider) error {
	return m.LoadNuclidesFrom(ctx, p, nil)
}

// LoadNuclidesFrom is LoadNuclides with explicit sources for some nuclides.
// Names missing from sources fall back to p's configuration.
func (m *Material) LoadNuclidesFrom(ctx context.Context, p Provider, sources map[string]string) error {
	for _, name := range m.Nuclides() {
		ds, err := load(ctx, p, name, sources)
		if err != nil {
			return err
		}
		m.attach(name, ds)
	}
	return nil
}

func load(ctx context.Context, p Provider, name string, sources map[string]string) (*nuclide.Dataset, error) {
	var (
		ds  *nuclide.Dataset
		err error
	)
	if src, ok := sources[name]; ok {
		ds, err = p.DatasetFrom(ctx, name, src)
	} else {
		ds, err = p.Dataset(ctx, name)
	}
	if err != nil {
		return nil, errdefs.WithNuclide(err, name)
	}
	return ds, nil
}

// ReactionMTs returns the sorted union of reaction identifiers over every
// attached dataset.
func (m *Material) ReactionMTs() []reaction.MT {
	seen := make(map[reaction.MT]struct{})
	for _, name := range m.Nuclides() {
		ds, ok := m.datasets[name]
		if !ok {
			continue
		}
		for _, mt := range ds.MTs() {
			seen[mt] = struct{}{}
		}
	}
	out := make([]reaction.MT, 0, len(seen))
	for mt := range seen {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m *Material) String() string {
	var b strings.Builder
	b.WriteString("Material(nuclides=[")
	for i, n := range m.Nuclides() {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s:%g", n, m.composition[n])
	}
	b.WriteString("]")
	if m.density > 0 {
		fmt.Fprintf(&b, ", density=%g %s", m.densityValue, m.densityUnit)
	}
	if m.volume > 0 {
		fmt.Fprintf(&b, ", volume=%g", m.volume)
	}
	fmt.Fprintf(&b, ", temperature=%s)", m.temperature)
	return b.String()
}
