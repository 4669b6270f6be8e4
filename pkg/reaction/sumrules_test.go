package reaction

import (
	"errors"
	"testing"

	"materialsmc/pkg/errdefs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(order []MT, mt MT) int {
	for i, m := range order {
		if m == mt {
			return i
		}
	}
	return -1
}

func TestOrderPlacesConstituentsBeforeComposites(t *testing.T) {
	g := DefaultGraph()
	order, err := g.Order([]MT{Total})
	require.NoError(t, err)

	seen := make(map[MT]bool)
	for _, mt := range order {
		assert.False(t, seen[mt], "MT %d listed twice", mt)
		seen[mt] = true
	}
	assert.Equal(t, Total, order[len(order)-1])
	for _, parent := range g.Composites() {
		pi := indexOf(order, parent)
		if pi < 0 {
			continue
		}
		for _, child := range g.Constituents(parent) {
			ci := indexOf(order, child)
			require.GreaterOrEqual(t, ci, 0, "child %d of %d missing", child, parent)
			assert.Less(t, ci, pi, "child %d must precede parent %d", child, parent)
		}
	}
}

func TestOrderOfLeafIsItself(t *testing.T) {
	order, err := DefaultGraph().Order([]MT{Capture, Capture})
	require.NoError(t, err)
	assert.Equal(t, []MT{Capture}, order)
}

func TestDescendants(t *testing.T) {
	g := DefaultGraph()
	ds, err := g.Descendants(Fission)
	require.NoError(t, err)
	assert.Equal(t, []MT{NF, NNF, N2NF, N3NF}, ds)

	ok, err := g.Contributes(Capture, Total)
	require.NoError(t, err)
	assert.True(t, ok, "capture contributes to total through 3 -> 27 -> 101")

	ok, err = g.Contributes(Elastic, Absorption)
	require.NoError(t, err)
	assert.False(t, ok)

	leaf, err := g.Descendants(Capture)
	require.NoError(t, err)
	assert.Empty(t, leaf)
}

func TestCycleIsConfigurationError(t *testing.T) {
	g := NewGraph(map[MT][]MT{
		1: {2, 3},
		3: {4},
		4: {3},
	})
	_, err := g.Order([]MT{1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrConfiguration))

	_, err = g.Descendants(4)
	assert.True(t, errors.Is(err, errdefs.ErrConfiguration))
}

func TestNewGraphCopiesInput(t *testing.T) {
	rules := map[MT][]MT{1: {2, 3}}
	g := NewGraph(rules)
	rules[1][0] = 99
	assert.Equal(t, []MT{2, 3}, g.Constituents(1))
	assert.True(t, g.IsComposite(1))
	assert.False(t, g.IsComposite(2))
}

func TestParse(t *testing.T) {
	cases := map[string]MT{
		"102":       Capture,
		"MT18":      Fission,
		"(n,gamma)": Capture,
		"(N,GAMMA)": Capture,
		"elastic":   Elastic,
		" 1 ":       Total,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "-3", "(n,unobtainium)"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "(n,gamma)", Capture.Name())
	assert.Equal(t, "(n,n3)", MT(53).Name())
	assert.Equal(t, "MT999", MT(999).Name())
	assert.Equal(t, "102", Capture.String())
}
