package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"materialsmc/internal/blob"
	"materialsmc/internal/ledger"
)

func TestStoreGetFallsBackToDefault(t *testing.T) {
	s := NewStore()
	_, ok := s.Get("Li6")
	assert.False(t, ok)

	s.Set(" Li6 ", " ./Li6.json ")
	s.SetDefault("tendl-21")
	src, ok := s.Get("Li6")
	assert.True(t, ok)
	assert.Equal(t, "./Li6.json", src)
	src, ok = s.Get("Fe56")
	assert.True(t, ok)
	assert.Equal(t, "tendl-21", src)
	assert.Equal(t, "tendl-21", s.DefaultSource())

	s.SetAll(map[string]string{"Li7": "fendl-3.2c", "Li6": "jeff-3.3"})
	assert.Equal(t, []string{"Li6", "Li7"}, s.Names())
	snap := s.Snapshot()
	snap["Li6"] = "mutated"
	src, _ = s.Get("Li6")
	assert.Equal(t, "jeff-3.3", src)

	s.Clear()
	_, ok = s.Get("Fe56")
	assert.False(t, ok)
	assert.Empty(t, s.Snapshot())
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Set("Li6", "tendl-21")
			_, _ = s.Get("Li6")
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()
	src, _ := s.Get("Li6")
	assert.Equal(t, "tendl-21", src)
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestLoadFileAppliesMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default: tendl-21\ncross_sections:\n  Li6: ./data/Li6.json\n  Fe56: fendl-3.2c\n"), 0o600))
	s := NewStore()
	require.NoError(t, LoadInto(s, path))
	src, _ := s.Get("Li6")
	assert.Equal(t, "./data/Li6.json", src)
	src, _ = s.Get("U235")
	assert.Equal(t, "tendl-21", src)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("cross_sections: [1, 2"), 0o600))
	assert.Error(t, LoadInto(s, bad))
	assert.Error(t, LoadInto(s, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestFromLookup(t *testing.T) {
	env := map[string]string{
		EnvCacheDriver:          "S3",
		EnvCacheDir:             "/tmp/xs",
		"MATERIALSMC_S3_BUCKET": "nuclear",
		EnvLedgerDriver:         "sqlite",
		EnvDefaultSource:        "tendl-21",
		EnvHTTPTimeout:          "30s",
		EnvLogLevel:             "debug",
	}
	s, err := FromLookup(func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, blob.DriverS3, s.Cache.Driver)
	assert.Equal(t, "nuclear", s.Cache.S3.Bucket)
	assert.Equal(t, ledger.DriverSQLite, s.LedgerDriver)
	assert.Equal(t, filepath.Join("/tmp/xs", "ledger.db"), s.LedgerDSN)
	assert.Equal(t, 30*time.Second, s.HTTPTimeout)
	assert.Equal(t, "debug", s.LogLevel)
	require.NoError(t, s.Validate())

	env[EnvHTTPTimeout] = "soon"
	_, err = FromLookup(func(k string) string { return env[k] })
	assert.Error(t, err)
}

func TestFromEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("MATERIALSMC_LEDGER_DSN=/tmp/from-dotenv.db\n"), 0o600))
	t.Setenv(EnvLedgerDSN, "")
	require.NoError(t, os.Unsetenv(EnvLedgerDSN))
	t.Setenv(EnvCacheDriver, "memory")

	s, err := FromEnv(envFile, filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", s.LedgerDSN)
	assert.Equal(t, blob.DriverMemory, s.Cache.Driver)
}

func TestValidateRejectsUnknownDrivers(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	s.Cache.Driver = "tape"
	assert.Error(t, s.Validate())
	s = DefaultSettings()
	s.Cache.Driver = blob.DriverS3
	assert.Error(t, s.Validate(), "s3 without bucket")
	s = DefaultSettings()
	s.LedgerDriver = "mongo"
	assert.Error(t, s.Validate())
}

func TestSettingsApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cross_sections:\n  Li6: a.json\n"), 0o600))
	s := DefaultSettings()
	s.CrossSections = path
	s.DefaultSource = "jeff-3.3"
	store := NewStore()
	require.NoError(t, s.Apply(store))
	src, _ := store.Get("Li6")
	assert.Equal(t, "a.json", src)
	assert.Equal(t, "jeff-3.3", store.DefaultSource())
}
