package engine

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"materialsmc/internal/blob"
	"materialsmc/internal/config"
	"materialsmc/internal/ledger"
	"materialsmc/internal/observability"
	"materialsmc/pkg/errdefs"
	"materialsmc/pkg/material"
	"materialsmc/pkg/nuclide"
)

var docs = map[string]string{
	"/Li6.json": `{"name": "Li6", "atomic_symbol": "Li", "atomic_number": 3, "mass_number": 6,
  "energy": {"294": [1, 10, 100]},
  "reactions": {"294": {
    "2":   {"cross_section": [4, 4, 4], "threshold_idx": 0},
    "102": {"cross_section": [6, 4, 2], "threshold_idx": 0}}}}`,
	"/Li7.json": `{"name": "Li7", "atomic_symbol": "Li", "atomic_number": 3, "mass_number": 7,
  "energy": {"294": [1, 50, 100]},
  "reactions": {"294": {
    "2":   {"cross_section": [1, 1, 1], "threshold_idx": 0}}}}`,
}

func newServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		doc, ok := docs[req.URL.Path]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testSettings(t *testing.T) config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.Cache = blob.Config{Driver: blob.DriverFilesystem, Root: t.TempDir()}
	s.LedgerDriver = ledger.DriverSQLite
	s.LedgerDSN = filepath.Join(t.TempDir(), "ledger.db")
	return s
}

func newEngine(t *testing.T, settings config.Settings, opts ...Option) *Engine {
	t.Helper()
	var logs bytes.Buffer
	opts = append([]Option{WithLogWriter(&logs)}, opts...)
	e, err := New(context.Background(), settings, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestMaterialsShareDownloadedNuclides(t *testing.T) {
	srv, hits := newServer(t)
	reg := prometheus.NewRegistry()
	e := newEngine(t, testSettings(t), WithHTTPClient(srv.Client()), WithPrometheus(reg))
	e.SetDefaultSource(srv.URL + "/")

	breeder := e.NewMaterial()
	require.NoError(t, breeder.AddElement("Li", 1))
	require.NoError(t, breeder.SetDensity(material.UnitGramsPerCC, 0.534))
	enriched := e.NewMaterial()
	require.NoError(t, enriched.AddNuclide("Li6", 1))
	require.NoError(t, enriched.SetDensity(material.UnitGramsPerCC, 0.5))

	require.NoError(t, e.LoadMaterials(context.Background(), breeder, enriched))
	assert.Equal(t, []string{"Li6", "Li7"}, e.LoadedNuclides())
	assert.Equal(t, int32(2), hits.Load())

	a, _ := breeder.Dataset("Li6")
	b, _ := enriched.Dataset("Li6")
	require.NotNil(t, a)
	assert.Same(t, a, b)

	macro, err := breeder.MacroscopicXS(nuclide.Neutron, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 10, 50, 100}, macro.Energy)

	fetches, err := e.Fetches(context.Background())
	require.NoError(t, err)
	require.Len(t, fetches, 2)
	assert.Equal(t, "direct/Li6.json", fetches[0].Key)
	assert.Equal(t, srv.URL+"/Li6.json", fetches[0].URL)

	snap := e.Metrics()
	assert.Equal(t, int64(2), snap.Results[observability.OpParse]["success"])
	// resolve, download and parse each succeeded
	series, err := promtest.GatherAndCount(reg, "materialsmc_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, series)
}

func TestDiskCacheSurvivesNewEngine(t *testing.T) {
	srv, hits := newServer(t)
	settings := testSettings(t)
	first := newEngine(t, settings, WithHTTPClient(srv.Client()))
	_, err := first.LoadNuclideFrom(context.Background(), "Li6", srv.URL+"/Li6.json")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := newEngine(t, settings, WithHTTPClient(srv.Client()))
	_, err = second.LoadNuclideFrom(context.Background(), "Li6", srv.URL+"/Li6.json")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "cached file reused across engines")

	fetches, err := second.Fetches(context.Background())
	require.NoError(t, err)
	assert.Len(t, fetches, 1, "ledger persisted in sqlite")

	removed, err := second.Evict(context.Background(), "Li6", srv.URL+"/Li6.json")
	require.NoError(t, err)
	assert.True(t, removed)
	fetches, _ = second.Fetches(context.Background())
	assert.Empty(t, fetches)
}

func TestCrossSectionsFileAndMissingSource(t *testing.T) {
	dir := t.TempDir()
	li6 := filepath.Join(dir, "Li6.json")
	require.NoError(t, os.WriteFile(li6, []byte(docs["/Li6.json"]), 0o600))
	yamlPath := filepath.Join(dir, "sources.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("cross_sections:\n  Li6: "+li6+"\n"), 0o600))

	settings := testSettings(t)
	settings.CrossSections = yamlPath
	e := newEngine(t, settings)
	src, ok := e.Config().Get("Li6")
	require.True(t, ok)
	assert.Equal(t, li6, src)

	ds, err := e.LoadNuclide(context.Background(), "Li6")
	require.NoError(t, err)
	assert.Equal(t, li6, ds.Source)

	_, err = e.LoadNuclide(context.Background(), "Be9")
	assert.True(t, errors.Is(err, errdefs.ErrConfiguration))
}

func TestNewRejectsBadSettings(t *testing.T) {
	settings := testSettings(t)
	settings.LedgerDriver = "etcd"
	_, err := New(context.Background(), settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "etcd")

	settings = testSettings(t)
	settings.CrossSections = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = New(context.Background(), settings)
	require.Error(t, err)
}

func TestWithCacheAndLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{Level: "debug", Writer: &logs})
	settings := testSettings(t)
	settings.LedgerDriver = ledger.DriverMemory
	cache := blob.NewMemory()
	e := newEngine(t, settings, WithCache(cache), WithLogger(logger), WithConfig(config.NewStore()))
	srv, _ := newServer(t)
	e.SetCrossSections(map[string]string{"Li7": srv.URL + "/Li7.json"})
	_, err := e.LoadNuclide(context.Background(), "Li7")
	require.NoError(t, err)
	cached, err := cache.List(context.Background(), "direct/")
	require.NoError(t, err)
	assert.Len(t, cached, 1)
	assert.True(t, strings.Contains(logs.String(), "nuclide loaded"))
	assert.Equal(t, ledger.DriverMemory, e.Settings().LedgerDriver)
}

func TestDefaultIsSingleton(t *testing.T) {
	t.Setenv(config.EnvCacheDriver, "memory")
	t.Setenv(config.EnvLedgerDriver, "memory")
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Same(t, config.Default(), a.Config())
}
