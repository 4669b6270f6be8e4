// Package engine wires the nuclide source mapping, the download cache, the
// fetch ledger and the shared nuclide library into one handle. Binding layers
// create materials and load nuclide data through it.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"materialsmc/internal/blob"
	"materialsmc/internal/config"
	"materialsmc/internal/ledger"
	"materialsmc/internal/library"
	"materialsmc/internal/observability"
	"materialsmc/internal/resolver"
	"materialsmc/pkg/material"
	"materialsmc/pkg/nuclide"
)

// Engine owns the infrastructure behind nuclide loading.
type Engine struct {
	settings config.Settings
	cfg      *config.Store
	cache    blob.Store
	ledger   ledger.Store
	resolver *resolver.Resolver
	lib      *library.Library
	logger   *slog.Logger
	metrics  *observability.ExpvarMetricsRecorder

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	cfg          *config.Store
	cache        blob.Store
	logger       *slog.Logger
	logWriter    io.Writer
	httpClient   *http.Client
	registerer   prometheus.Registerer
	tracer       observability.Tracer
	temperatures []string
}

// Option customises New.
type Option func(*options)

// WithConfig resolves nuclide names through store instead of a fresh one.
func WithConfig(store *config.Store) Option { return func(o *options) { o.cfg = store } }

// WithCache replaces the cache selected by the settings.
func WithCache(store blob.Store) Option { return func(o *options) { o.cache = store } }

// WithLogger sets the logger; otherwise one is built from the settings.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithLogWriter sends the settings-built logger to w.
func WithLogWriter(w io.Writer) Option { return func(o *options) { o.logWriter = w } }

// WithHTTPClient sets the client used for downloads.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.httpClient = c } }

// WithPrometheus also records operation metrics in reg.
func WithPrometheus(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithTracer traces resolve, download and parse operations.
func WithTracer(t observability.Tracer) Option { return func(o *options) { o.tracer = t } }

// WithTemperatures loads only the listed temperature labels of each nuclide.
func WithTemperatures(temps ...string) Option {
	return func(o *options) { o.temperatures = temps }
}

// New validates settings and builds an Engine. Close releases the ledger.
func New(ctx context.Context, settings config.Settings, opts ...Option) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("engine settings: %w", err)
	}
	if settings.HTTPTimeout <= 0 {
		settings.HTTPTimeout = config.DefaultHTTPTimeout
	}

	logger := o.logger
	if logger == nil {
		logger = observability.NewLogger(observability.LogConfig{
			Level: settings.LogLevel, Format: settings.LogFormat, Writer: o.logWriter, Component: "materialsmc",
		})
	}
	expvarRec := observability.NewExpvarMetricsRecorder("")
	metrics := observability.MultiRecorder{expvarRec}
	if o.registerer != nil {
		prom, err := observability.NewPrometheusRecorder(o.registerer)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, prom)
	}
	obs := observability.Observer{Logger: logger, Metrics: metrics, Tracer: o.tracer}

	cfg := o.cfg
	if cfg == nil {
		cfg = config.NewStore()
	}
	if err := settings.Apply(cfg); err != nil {
		return nil, fmt.Errorf("cross section sources: %w", err)
	}

	cache := o.cache
	if cache == nil {
		var err error
		if cache, err = blob.Open(ctx, settings.Cache); err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}
	led, err := ledger.Open(ctx, settings.LedgerDriver, settings.LedgerDSN)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	client := o.httpClient
	if client == nil {
		client = &http.Client{Timeout: settings.HTTPTimeout}
	}
	res := resolver.New(cache,
		resolver.WithHTTPClient(client),
		resolver.WithLedger(led),
		resolver.WithObserver(obs),
		resolver.WithS3Config(settings.Cache.S3),
	)
	logger.Debug("engine ready", "cache", string(cache.Driver()), "ledger", string(led.Driver()))
	return &Engine{
		settings: settings,
		cfg:      cfg,
		cache:    cache,
		ledger:   led,
		resolver: res,
		lib:      library.New(cfg, res, library.WithObserver(obs), library.WithTemperatures(o.temperatures...)),
		logger:   logger,
		metrics:  expvarRec,
	}, nil
}

// FromEnv builds an Engine from the process environment and optional .env
// files.
func FromEnv(ctx context.Context, opts ...Option) (*Engine, error) {
	settings, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return New(ctx, settings, append([]Option{WithConfig(config.Default())}, opts...)...)
}

var (
	defaultMu     sync.Mutex
	defaultEngine *Engine
)

// Default returns the process-wide Engine, building it from the environment
// on first use. A failed build is retried by the next call.
func Default() (*Engine, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEngine != nil {
		return defaultEngine, nil
	}
	e, err := FromEnv(context.Background())
	if err != nil {
		return nil, err
	}
	defaultEngine = e
	return e, nil
}

// Config is the nuclide name to source mapping.
func (e *Engine) Config() *config.Store { return e.cfg }

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() config.Settings { return e.settings }

// Library is the shared nuclide cache materials load from.
func (e *Engine) Library() material.Provider { return e.lib }

// Metrics returns a snapshot of the engine's operation counters.
func (e *Engine) Metrics() observability.ExpvarMetricsSnapshot { return e.metrics.Snapshot() }

// SetCrossSections maps nuclide names to sources.
func (e *Engine) SetCrossSections(sources map[string]string) { e.cfg.SetAll(sources) }

// SetDefaultSource applies source to every nuclide without an explicit entry.
func (e *Engine) SetDefaultSource(source string) { e.cfg.SetDefault(source) }

// NewMaterial returns an empty material.
func (e *Engine) NewMaterial(opts ...material.Option) *material.Material {
	return material.New(opts...)
}

// LoadNuclide returns the shared dataset for name.
func (e *Engine) LoadNuclide(ctx context.Context, name string) (*nuclide.Dataset, error) {
	return e.lib.Dataset(ctx, name)
}

// LoadNuclideFrom returns the shared dataset for name read from source.
func (e *Engine) LoadNuclideFrom(ctx context.Context, name, source string) (*nuclide.Dataset, error) {
	return e.lib.DatasetFrom(ctx, name, source)
}

// LoadMaterials attaches nuclide data to every material, loading each nuclide
// once.
func (e *Engine) LoadMaterials(ctx context.Context, mats ...*material.Material) error {
	var c material.Materials
	for _, m := range mats {
		c.Append(m)
	}
	return c.LoadNuclides(ctx, e.lib)
}

// LoadedNuclides lists the nuclides held by the library.
func (e *Engine) LoadedNuclides() []string { return e.lib.Names() }

// Fetches lists the downloads recorded in the ledger.
func (e *Engine) Fetches(ctx context.Context) ([]ledger.Record, error) {
	return e.ledger.List(ctx)
}

// Evict drops the cached download of name from source so the next load of a
// new engine fetches it again. Datasets already in the library are kept.
func (e *Engine) Evict(ctx context.Context, name, source string) (bool, error) {
	return e.resolver.Evict(ctx, name, source)
}

// Close releases the ledger.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() { e.closeErr = e.ledger.Close() })
	return e.closeErr
}
