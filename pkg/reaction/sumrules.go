package reaction

import (
	"fmt"
	"sort"

	"materialsmc/pkg/errdefs"
)

// Graph maps a composite reaction to its direct constituents. A Graph is
// read-only after construction and safe for concurrent use.
type Graph struct {
	rules map[MT][]MT
}

// NewGraph builds a Graph from rules. The input is copied.
func NewGraph(rules map[MT][]MT) *Graph {
	g := &Graph{rules: make(map[MT][]MT, len(rules))}
	for parent, children := range rules {
		g.rules[parent] = append([]MT(nil), children...)
	}
	return g
}

func span(lo, hi MT) []MT {
	out := make([]MT, 0, hi-lo+1)
	for mt := lo; mt <= hi; mt++ {
		out = append(out, mt)
	}
	return out
}

func join(parts ...[]MT) []MT {
	var out []MT
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var defaultGraph = NewGraph(map[MT][]MT{
	Total: {Elastic, Nonelastic},
	Nonelastic: join(
		[]MT{Inelastic, Anything, 11, N2N, N3N, 22, 23, N2NAlpha, 25, 27, NNP, 29, 30, 32, 33, 34, 35, 36, 37, 41, 42, 44, 45},
		[]MT{152, 153, 154}, span(156, 181), span(183, 190), []MT{194, 195, 196, 198, 199, 200},
	),
	Inelastic:  span(50, 91),
	N2N:        span(875, 891),
	Fission:    {NF, NNF, N2NF, N3NF},
	27:         {Fission, Absorption},
	Absorption: join([]MT{Capture, NP, ND, NT, NHe3, NAlpha, N2Alpha, 109}, span(111, 117), []MT{155, 182, 191, 192, 193, 197}),
	NP:         span(600, 649),
	ND:         span(650, 699),
	NT:         span(700, 749),
	NHe3:       span(750, 799),
	NAlpha:     span(800, 849),
})

// DefaultGraph returns the ENDF-6 sum rules for neutron reactions.
func DefaultGraph() *Graph { return defaultGraph }

// Constituents returns the direct constituents of mt, or nil if mt is not a
// composite reaction.
func (g *Graph) Constituents(mt MT) []MT {
	return append([]MT(nil), g.rules[mt]...)
}

// IsComposite reports whether mt is defined by a sum rule.
func (g *Graph) IsComposite(mt MT) bool {
	_, ok := g.rules[mt]
	return ok
}

// Composites returns every composite identifier in ascending order.
func (g *Graph) Composites() []MT {
	out := make([]MT, 0, len(g.rules))
	for mt := range g.rules {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Descendants returns the transitive constituents of mt in ascending order.
// It fails with a configuration error when the rules contain a cycle through mt.
func (g *Graph) Descendants(mt MT) ([]MT, error) {
	order, err := g.Order([]MT{mt})
	if err != nil {
		return nil, err
	}
	out := make([]MT, 0, len(order))
	for _, d := range order {
		if d != mt {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Order expands requested with every transitive constituent and returns the
// result in post-order: each reaction appears after all of its constituents.
// Duplicate requests are collapsed. A cycle is reported as a configuration
// error naming the reaction that closes it.
func (g *Graph) Order(requested []MT) ([]MT, error) {
	const (
		unseen = iota
		active
		done
	)
	state := make(map[MT]int)
	var order []MT

	var visit func(mt MT) error
	visit = func(mt MT) error {
		switch state[mt] {
		case done:
			return nil
		case active:
			return errdefs.Configuration("sum_rules", "", "reaction sum rules contain a cycle through MT %d", mt)
		}
		state[mt] = active
		for _, c := range g.rules[mt] {
			if err := visit(c); err != nil {
				return err
			}
		}
		state[mt] = done
		order = append(order, mt)
		return nil
	}

	for _, mt := range requested {
		if err := visit(mt); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Contributes reports whether child is a transitive constituent of parent.
func (g *Graph) Contributes(child, parent MT) (bool, error) {
	ds, err := g.Descendants(parent)
	if err != nil {
		return false, err
	}
	i := sort.Search(len(ds), func(i int) bool { return ds[i] >= child })
	return i < len(ds) && ds[i] == child, nil
}

func (g *Graph) String() string {
	return fmt.Sprintf("reaction.Graph(%d composites)", len(g.rules))
}
