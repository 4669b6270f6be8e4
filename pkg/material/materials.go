package material

import (
	"context"
	"sort"

	"materialsmc/pkg/nuclide"
)

// Materials is an ordered collection of materials that share nuclide data.
type Materials struct {
	items []*Material
}

// Append adds m to the end of the collection.
func (c *Materials) Append(m *Material) { c.items = append(c.items, m) }

// Get returns the material at index i.
func (c *Materials) Get(i int) (*Material, bool) {
	if i < 0 || i >= len(c.items) {
		return nil, false
	}
	return c.items[i], true
}

// Remove deletes and returns the material at index i.
func (c *Materials) Remove(i int) (*Material, bool) {
	if i < 0 || i >= len(c.items) {
		return nil, false
	}
	m := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	return m, true
}

// Len returns the number of materials.
func (c *Materials) Len() int { return len(c.items) }

// All returns the materials in insertion order.
func (c *Materials) All() []*Material { return append([]*Material(nil), c.items...) }

// LoadNuclides resolves every nuclide used by any material once and attaches
// the shared dataset to each material that uses it.
func (c *Materials) LoadNuclides(ctx context.Context, p Provider) error {
	return c.LoadNuclidesFrom(ctx, p, nil)
}

// LoadNuclidesFrom is LoadNuclides with explicit sources for some nuclides.
func (c *Materials) LoadNuclidesFrom(ctx context.Context, p Provider, sources map[string]string) error {
	users := make(map[string][]*Material)
	for _, m := range c.items {
		for n := range m.composition {
			users[n] = append(users[n], m)
		}
	}
	names := make([]string, 0, len(users))
	for n := range users {
		names = append(names, n)
	}
	sort.Strings(names)
	loaded := make(map[string]*nuclide.Dataset, len(names))
	for _, n := range names {
		ds, err := load(ctx, p, n, sources)
		if err != nil {
			return err
		}
		loaded[n] = ds
	}
	for _, n := range names {
		for _, m := range users[n] {
			m.attach(n, loaded[n])
		}
	}
	return nil
}
