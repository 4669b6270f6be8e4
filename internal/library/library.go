// Package library is the process-wide nuclide cache. Each nuclide is parsed at
// most once; every material that needs it receives the same read-only
// *nuclide.Dataset.
package library

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"materialsmc/internal/config"
	"materialsmc/internal/observability"
	"materialsmc/internal/resolver"
	"materialsmc/pkg/errdefs"
	"materialsmc/pkg/nuclide"
)

// Library maps nuclide names to loaded datasets. Entries are only added; a
// failed load leaves no entry so a later call can retry.
type Library struct {
	cfg      *config.Store
	resolver *resolver.Resolver
	obs      observability.Observer
	temps    []string

	mu       sync.RWMutex
	datasets map[string]*nuclide.Dataset
	loads    singleflight.Group
}

// Option configures a Library.
type Option func(*Library)

// WithObserver sets logging, metrics and tracing hooks.
func WithObserver(o observability.Observer) Option { return func(l *Library) { l.obs = o } }

// WithTemperatures limits every parsed dataset to the given temperature
// labels. Datasets still report all labels in AvailableTemperatures.
func WithTemperatures(temps ...string) Option {
	return func(l *Library) { l.temps = append([]string(nil), temps...) }
}

// New returns an empty library resolving names through cfg and fetching bytes
// with r. A nil cfg uses config.Default(); a nil r caches downloads in memory.
func New(cfg *config.Store, r *resolver.Resolver, opts ...Option) *Library {
	if cfg == nil {
		cfg = config.Default()
	}
	if r == nil {
		r = resolver.New(nil)
	}
	l := &Library{cfg: cfg, resolver: r, datasets: make(map[string]*nuclide.Dataset)}
	for _, opt := range opts {
		opt(l)
	}
	l.obs = l.obs.Normalize()
	return l
}

// Config returns the source mapping the library resolves names through.
func (l *Library) Config() *config.Store { return l.cfg }

// Dataset returns the shared dataset for name, loading it from the configured
// source on first use.
func (l *Library) Dataset(ctx context.Context, name string) (*nuclide.Dataset, error) {
	if ds, ok := l.Lookup(name); ok {
		return ds, nil
	}
	source, ok := l.cfg.Get(name)
	if !ok {
		return nil, errdefs.Configuration(observability.OpResolve, name, "no cross section source configured")
	}
	return l.load(ctx, name, source)
}

// DatasetFrom is Dataset with an explicit source. A name that is already
// loaded is returned as is, whatever source it came from.
func (l *Library) DatasetFrom(ctx context.Context, name, source string) (*nuclide.Dataset, error) {
	if ds, ok := l.Lookup(name); ok {
		return ds, nil
	}
	return l.load(ctx, name, source)
}

// Lookup returns a loaded dataset without resolving anything.
func (l *Library) Lookup(name string) (*nuclide.Dataset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ds, ok := l.datasets[name]
	return ds, ok
}

// Names lists the loaded nuclides, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	out := make([]string, 0, len(l.datasets))
	for name := range l.datasets {
		out = append(out, name)
	}
	l.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Len is the number of loaded nuclides.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.datasets)
}

// load runs one fetch per name. The shared flight ignores the first caller's
// cancellation so waiters behind it are not failed by a context they don't own.
func (l *Library) load(ctx context.Context, name, source string) (*nuclide.Dataset, error) {
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := l.loads.Do(name, func() (any, error) {
		if ds, ok := l.Lookup(name); ok {
			return ds, nil
		}
		ds, err := l.fetchAndParse(flightCtx, name, source)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		if existing, ok := l.datasets[name]; ok {
			return existing, nil
		}
		l.datasets[name] = ds
		return ds, nil
	})
	if err != nil {
		return nil, errdefs.WithNuclide(err, name)
	}
	ds, ok := v.(*nuclide.Dataset)
	if !ok {
		return nil, fmt.Errorf("library: unexpected load result %T", v)
	}
	return ds, nil
}

func (l *Library) fetchAndParse(ctx context.Context, name, source string) (*nuclide.Dataset, error) {
	data, res, err := l.resolver.Fetch(ctx, name, source)
	if err != nil {
		l.obs.Logger.Warn("resolving nuclide failed", "nuclide", name, "source", source, "error", err)
		return nil, err
	}
	ds, err := l.parse(ctx, name, res, data)
	if err != nil {
		// a corrupt cached copy would otherwise fail every later load
		if res.CacheKey != "" {
			if _, evictErr := l.resolver.Evict(ctx, name, source); evictErr != nil {
				l.obs.Logger.Warn("evicting cached nuclide failed", "nuclide", name, "error", evictErr)
			}
		}
		l.obs.Logger.Warn("parsing nuclide failed", "nuclide", name, "source", source, "error", err)
		return nil, err
	}
	l.obs.Logger.Info("nuclide loaded", "nuclide", name, "source", source,
		"temperatures", len(ds.Temperatures()), "cache_hit", res.CacheHit)
	return ds, nil
}

func (l *Library) parse(ctx context.Context, name string, res resolver.Resolved, data []byte) (ds *nuclide.Dataset, err error) {
	_, done := l.obs.Track(ctx, observability.OpParse)
	defer func() { done(err) }()
	opts := []nuclide.ParseOption{nuclide.WithName(name), nuclide.WithTemperatures(l.temps...)}
	if res.Kind == resolver.KindPath {
		opts = append(opts, nuclide.WithSource(res.Location))
	}
	return nuclide.Parse(bytes.NewReader(data), opts...)
}
