package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNuclidesOfIron(t *testing.T) {
	assert.Equal(t, []string{"Fe54", "Fe56", "Fe57", "Fe58"}, Nuclides("Fe"))
}

func TestUnknownElement(t *testing.T) {
	assert.Empty(t, Nuclides("Xx"))
	assert.Equal(t, "", Name("Xx"))
}

func TestAbundancesSumToOne(t *testing.T) {
	for sym, isos := range byElement {
		var sum float64
		for _, n := range isos {
			f, ok := Abundance(n)
			assert.True(t, ok)
			sum += f
		}
		assert.InDelta(t, 1.0, sum, 2e-3, "element %s", sym)
	}
}

func TestLithium(t *testing.T) {
	assert.Equal(t, []string{"Li6", "Li7"}, Nuclides("Li"))
	f, ok := Abundance("Li6")
	assert.True(t, ok)
	assert.InDelta(t, 0.07589, f, 1e-9)
	m, ok := AtomicMass("Li6")
	assert.True(t, ok)
	assert.InDelta(t, 6.015122, m, 1e-5)
	assert.Equal(t, "lithium", Name("Li"))
}

func TestSplit(t *testing.T) {
	cases := []struct {
		in   string
		sym  string
		mass int
		ok   bool
	}{
		{"Fe56", "Fe", 56, true},
		{"U235", "U", 235, true},
		{"Am242_m1", "Am", 242, true},
		{"CustomNuclide", "", 0, false},
		{"42", "", 0, false},
		{"", "", 0, false},
	}
	for _, tc := range cases {
		sym, a, ok := Split(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.sym, sym, tc.in)
		assert.Equal(t, tc.mass, a, tc.in)
	}
}
