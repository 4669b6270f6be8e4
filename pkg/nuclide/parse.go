package nuclide

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"materialsmc/pkg/element"
	"materialsmc/pkg/errdefs"
	"materialsmc/pkg/interp"
	"materialsmc/pkg/reaction"
)

const opLoad = "load_nuclide"

// ParseOption customises Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	temperatures map[string]struct{}
	name         string
	source       string
}

// WithTemperatures restricts which temperatures are materialised. An empty
// list loads every temperature.
func WithTemperatures(temps ...string) ParseOption {
	return func(o *parseOptions) {
		if len(temps) == 0 {
			return
		}
		o.temperatures = make(map[string]struct{}, len(temps))
		for _, t := range temps {
			o.temperatures[t] = struct{}{}
		}
	}
}

// WithName sets the name used in errors and as the dataset name when the
// record carries none.
func WithName(name string) ParseOption {
	return func(o *parseOptions) { o.name = name }
}

// WithSource records where the data came from.
func WithSource(path string) ParseOption {
	return func(o *parseOptions) { o.source = path }
}

// labels accepts temperature labels written as strings or numbers.
type labels []string

func (l *labels) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(r, &n); err != nil {
			return fmt.Errorf("temperature label %s is neither string nor number", r)
		}
		out = append(out, n.String())
	}
	*l = out
	return nil
}

type rawCurve struct {
	CrossSection  []float64 `json:"cross_section"`
	XS            []float64 `json:"xs"`
	ThresholdIdx  int       `json:"threshold_idx"`
	Interpolation []int     `json:"interpolation"`
	Energy        []float64 `json:"energy"`
}

type rawDataset struct {
	Name          string                         `json:"name"`
	Element       string                         `json:"element"`
	AtomicSymbol  string                         `json:"atomic_symbol"`
	AtomicNumber  *int                           `json:"atomic_number"`
	NeutronNumber *int                           `json:"neutron_number"`
	MassNumber    *int                           `json:"mass_number"`
	Library       string                         `json:"library"`
	Particle      string                         `json:"particle"`
	Temperatures  labels                         `json:"temperatures"`
	Energy        map[string][]float64           `json:"energy"`
	Reactions     map[string]map[string]rawCurve `json:"reactions"`
}

// LoadFile reads and parses the dataset stored at path.
func LoadFile(path string, opts ...ParseOption) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		name := nameHint(opts)
		return nil, ioError(name, fmt.Errorf("read %s: %w", path, err))
	}
	return ParseBytes(b, append([]ParseOption{WithSource(path)}, opts...)...)
}

// ParseBytes parses a dataset held in memory.
func ParseBytes(b []byte, opts ...ParseOption) (*Dataset, error) {
	return Parse(bytes.NewReader(b), opts...)
}

// Parse decodes one nuclide record from r and validates it.
func Parse(r io.Reader, opts ...ParseOption) (*Dataset, error) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}
	var raw rawDataset
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, parseError(o.name, fmt.Errorf("decode: %w", err))
	}
	d, err := build(&raw, &o)
	if err != nil {
		return nil, parseError(firstNonEmpty(d.Name, o.name), err)
	}
	return d, nil
}

func build(raw *rawDataset, o *parseOptions) (*Dataset, error) {
	d := &Dataset{
		Name:         raw.Name,
		Element:      raw.Element,
		AtomicSymbol: raw.AtomicSymbol,
		Library:      raw.Library,
		Source:       o.source,
		groups:       make(map[Particle]map[string]*group),
	}
	if raw.AtomicNumber != nil {
		d.AtomicNumber = *raw.AtomicNumber
	}
	if raw.MassNumber != nil {
		d.MassNumber = *raw.MassNumber
	}
	switch {
	case raw.NeutronNumber != nil:
		d.NeutronNumber = *raw.NeutronNumber
	case raw.MassNumber != nil && raw.AtomicNumber != nil:
		d.NeutronNumber = d.MassNumber - d.AtomicNumber
	}
	if d.Name == "" {
		if d.AtomicSymbol != "" && d.MassNumber > 0 {
			d.Name = d.AtomicSymbol + strconv.Itoa(d.MassNumber)
		} else {
			d.Name = o.name
		}
	}
	if d.Element == "" && d.AtomicSymbol != "" {
		d.Element = strings.ToLower(element.Name(d.AtomicSymbol))
	}

	available := make(map[string]struct{})
	for _, t := range raw.Temperatures {
		available[t] = struct{}{}
	}
	for t := range raw.Reactions {
		available[t] = struct{}{}
	}
	for t := range raw.Energy {
		available[t] = struct{}{}
	}
	d.AvailableTemperatures = sortedKeys(available)

	keep := func(t string) bool {
		if o.temperatures == nil {
			return true
		}
		_, ok := o.temperatures[t]
		return ok
	}

	energies := make(map[string][]float64)
	for t, e := range raw.Energy {
		if keep(t) {
			energies[t] = e
		}
	}
	reactions := make(map[string]map[string]rawCurve)
	for t, rs := range raw.Reactions {
		if keep(t) && len(rs) > 0 {
			reactions[t] = rs
		}
	}
	if err := agree(reactions, energies); err != nil {
		return d, err
	}

	particle := Neutron
	if raw.Particle != "" {
		particle = Particle(strings.ToLower(raw.Particle))
	}
	temps := make(map[string]*group, len(reactions))
	for _, t := range sortedKeys(reactions) {
		g, err := buildGroup(t, energies[t], reactions[t])
		if err != nil {
			return d, err
		}
		temps[t] = g
	}
	if len(temps) > 0 {
		d.groups[particle] = temps
	}

	for _, g := range temps {
		for _, mt := range reaction.FissionMTs {
			if _, ok := g.curves[mt]; ok {
				d.Fissionable = true
			}
		}
	}
	return d, nil
}

// agree checks that the reaction and energy temperature sets match whenever a
// top-level energy map is present.
func agree(reactions map[string]map[string]rawCurve, energies map[string][]float64) error {
	if len(energies) == 0 {
		return nil
	}
	if len(reactions) == 0 {
		return fmt.Errorf("energy grids have temperatures %v but no reactions were loaded", sortedKeys(energies))
	}
	var onlyReactions, onlyEnergy []string
	for t := range reactions {
		if _, ok := energies[t]; !ok {
			onlyReactions = append(onlyReactions, t)
		}
	}
	for t := range energies {
		if _, ok := reactions[t]; !ok {
			onlyEnergy = append(onlyEnergy, t)
		}
	}
	if len(onlyReactions) == 0 && len(onlyEnergy) == 0 {
		return nil
	}
	sort.Strings(onlyReactions)
	sort.Strings(onlyEnergy)
	return fmt.Errorf("temperature mismatch between reactions and energy grids: only in reactions %v, only in energy %v",
		onlyReactions, onlyEnergy)
}

func buildGroup(temp string, grid []float64, rs map[string]rawCurve) (*group, error) {
	if len(grid) > 0 {
		if err := increasing(grid); err != nil {
			return nil, fmt.Errorf("energy grid at %s: %w", temp, err)
		}
	}
	g := &group{energy: grid, curves: make(map[reaction.MT]*Curve, len(rs))}
	for key, rc := range rs {
		mt, err := strconv.Atoi(key)
		if err != nil || mt <= 0 {
			return nil, fmt.Errorf("reaction key %q at %s is not a positive MT number", key, temp)
		}
		c, err := buildCurve(reaction.MT(mt), grid, rc)
		if err != nil {
			return nil, fmt.Errorf("MT %d at %s: %w", mt, temp, err)
		}
		g.curves[c.MT] = c
	}
	if len(grid) == 0 {
		g.energy = unionEnergies(g.curves)
	}
	return g, nil
}

func buildCurve(mt reaction.MT, grid []float64, rc rawCurve) (*Curve, error) {
	xs := rc.CrossSection
	if xs == nil {
		xs = rc.XS
	}
	if rc.ThresholdIdx < 0 {
		return nil, fmt.Errorf("negative threshold index %d", rc.ThresholdIdx)
	}
	c := &Curve{MT: mt, CrossSection: xs, ThresholdIdx: rc.ThresholdIdx, Law: lawOf(rc.Interpolation)}
	switch {
	case len(rc.Energy) > 0:
		if err := increasing(rc.Energy); err != nil {
			return nil, err
		}
		c.Energy = rc.Energy
	case len(grid) == 0:
		return nil, fmt.Errorf("no energy grid for reaction")
	case rc.ThresholdIdx >= len(grid):
		return nil, fmt.Errorf("threshold index %d outside energy grid of %d points", rc.ThresholdIdx, len(grid))
	default:
		c.Energy = grid[rc.ThresholdIdx:len(grid):len(grid)]
	}
	if len(c.Energy) != len(c.CrossSection) {
		return nil, fmt.Errorf("energy has %d points but cross section has %d", len(c.Energy), len(c.CrossSection))
	}
	return c, nil
}

// lawOf picks the interpolation law of a curve. A curve tagged with a single
// consistent ENDF law uses it; anything else is lin-lin.
func lawOf(codes []int) interp.Law {
	if len(codes) == 0 {
		return interp.LawLinLin
	}
	law := codes[0]
	for _, c := range codes[1:] {
		if c != law {
			return interp.LawLinLin
		}
	}
	if law < int(interp.LawHistogram) || law > int(interp.LawLogLog) {
		return interp.LawLinLin
	}
	return interp.Law(law)
}

func increasing(e []float64) error {
	for i := 1; i < len(e); i++ {
		if !(e[i] > e[i-1]) {
			return fmt.Errorf("energies not strictly increasing at index %d (%g after %g)", i, e[i], e[i-1])
		}
	}
	return nil
}

func unionEnergies(curves map[reaction.MT]*Curve) []float64 {
	var all []float64
	for _, c := range curves {
		all = append(all, c.Energy...)
	}
	sort.Float64s(all)
	out := all[:0]
	for i, e := range all {
		if i == 0 || e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func parseError(name string, err error) error { return errdefs.Parse(opLoad, name, err) }

func ioError(name string, err error) error { return errdefs.IO(opLoad, name, err) }

func nameHint(opts []ParseOption) string {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o.name
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
