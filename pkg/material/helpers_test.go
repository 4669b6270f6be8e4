package material

import (
	"context"
	"testing"

	"materialsmc/pkg/errdefs"
	"materialsmc/pkg/nuclide"

	"github.com/stretchr/testify/require"
)

const li6Doc = `{
  "name": "Li6", "atomic_symbol": "Li", "atomic_number": 3, "mass_number": 6,
  "energy": {"294": [1, 10, 100, 1000], "600": [1, 10, 100, 1000]},
  "reactions": {
    "294": {
      "2":   {"cross_section": [4, 4, 4, 4], "threshold_idx": 0},
      "102": {"cross_section": [6, 4, 2, 1], "threshold_idx": 0},
      "105": {"cross_section": [1, 2], "threshold_idx": 2}
    },
    "600": {
      "2":   {"cross_section": [8, 8, 8, 8], "threshold_idx": 0},
      "102": {"cross_section": [12, 8, 4, 2], "threshold_idx": 0}
    }
  }
}`

const li7Doc = `{
  "name": "Li7", "atomic_symbol": "Li", "atomic_number": 3, "mass_number": 7,
  "energy": {"294": [5, 50, 500]},
  "reactions": {"294": {
    "2":   {"cross_section": [1, 1, 1], "threshold_idx": 0},
    "102": {"cross_section": [0.5, 0.5, 0.5], "threshold_idx": 0}
  }}
}`

// two single-reaction nuclides whose total cross sections are 2 and 1 barns
const heavyDoc = `{"name": "Aa1", "energy": {"294": [1, 1000]},
  "reactions": {"294": {"1": {"cross_section": [2, 2], "threshold_idx": 0}}}}`
const lightDoc = `{"name": "Bb1", "energy": {"294": [1, 1000]},
  "reactions": {"294": {"1": {"cross_section": [1, 1], "threshold_idx": 0}}}}`

type fakeProvider struct {
	data  map[string]*nuclide.Dataset
	calls map[string]int
}

func newFakeProvider(t *testing.T, docs ...string) *fakeProvider {
	t.Helper()
	p := &fakeProvider{data: make(map[string]*nuclide.Dataset), calls: make(map[string]int)}
	for _, doc := range docs {
		ds, err := nuclide.ParseBytes([]byte(doc))
		require.NoError(t, err)
		p.data[ds.Name] = ds
	}
	return p
}

func (p *fakeProvider) Dataset(_ context.Context, name string) (*nuclide.Dataset, error) {
	p.calls[name]++
	ds, ok := p.data[name]
	if !ok {
		return nil, errdefs.Configuration("resolve_nuclide", "", "no cross-section source configured")
	}
	return ds, nil
}

func (p *fakeProvider) DatasetFrom(ctx context.Context, name, _ string) (*nuclide.Dataset, error) {
	return p.Dataset(ctx, name)
}

func loaded(t *testing.T, p *fakeProvider, density float64, fractions map[string]float64) *Material {
	t.Helper()
	m := New()
	for n, f := range fractions {
		require.NoError(t, m.AddNuclide(n, f))
	}
	if density > 0 {
		require.NoError(t, m.SetDensity(UnitGramsPerCC, density))
	}
	require.NoError(t, m.LoadNuclides(context.Background(), p))
	return m
}
