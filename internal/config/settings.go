package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"materialsmc/internal/blob"
	"materialsmc/internal/ledger"
)

// Settings are the process-level knobs of the engine.
type Settings struct {
	Cache         blob.Config
	LedgerDriver  ledger.Driver
	LedgerDSN     string
	CrossSections string // optional YAML file applied to the source mapping
	DefaultSource string
	LogLevel      string
	LogFormat     string
	HTTPTimeout   time.Duration
}

// DefaultHTTPTimeout bounds a single nuclide download.
const DefaultHTTPTimeout = 2 * time.Minute

// Environment variables read by FromEnv.
const (
	EnvCacheDriver   = "MATERIALSMC_CACHE_DRIVER"
	EnvCacheDir      = "MATERIALSMC_CACHE_DIR"
	EnvLedgerDriver  = "MATERIALSMC_LEDGER_DRIVER"
	EnvLedgerDSN     = "MATERIALSMC_LEDGER_DSN"
	EnvCrossSections = "MATERIALSMC_CROSS_SECTIONS"
	EnvDefaultSource = "MATERIALSMC_DEFAULT_SOURCE"
	EnvLogLevel      = "MATERIALSMC_LOG_LEVEL"
	EnvLogFormat     = "MATERIALSMC_LOG_FORMAT"
	EnvHTTPTimeout   = "MATERIALSMC_HTTP_TIMEOUT"
)

// DefaultSettings caches downloads on the local filesystem and keeps the
// ledger in memory.
func DefaultSettings() Settings {
	return Settings{
		Cache:        blob.Config{Driver: blob.DriverFilesystem},
		LedgerDriver: ledger.DriverMemory,
		LogLevel:     "info",
		HTTPTimeout:  DefaultHTTPTimeout,
	}
}

// FromEnv loads the given .env files (".env" when none are named; missing
// files are ignored) and reads Settings from the process environment.
// Variables already set in the environment win over .env values.
func FromEnv(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, err
		}
	}
	return FromLookup(os.Getenv)
}

// FromLookup reads Settings through getenv.
func FromLookup(getenv func(string) string) (Settings, error) {
	s := DefaultSettings()
	if v := getenv(EnvCacheDriver); v != "" {
		s.Cache.Driver = blob.Driver(strings.ToLower(v))
	}
	s.Cache.Root = getenv(EnvCacheDir)
	s.Cache.S3 = blob.S3ConfigFromEnv(getenv)
	if v := getenv(EnvLedgerDriver); v != "" {
		s.LedgerDriver = ledger.Driver(strings.ToLower(v))
	}
	s.LedgerDSN = getenv(EnvLedgerDSN)
	if s.LedgerDriver == ledger.DriverSQLite && s.LedgerDSN == "" && s.Cache.Root != "" {
		s.LedgerDSN = filepath.Join(s.Cache.Root, "ledger.db")
	}
	s.CrossSections = getenv(EnvCrossSections)
	s.DefaultSource = getenv(EnvDefaultSource)
	if v := getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
	s.LogFormat = getenv(EnvLogFormat)
	if v := getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Settings{}, errors.New(EnvHTTPTimeout + ": " + err.Error())
		}
		s.HTTPTimeout = d
	}
	return s, nil
}

// Validate reports unknown drivers.
func (s Settings) Validate() error {
	switch s.Cache.Driver {
	case blob.DriverFilesystem, blob.DriverMemory, "":
	case blob.DriverS3:
		if s.Cache.S3.Bucket == "" {
			return errors.New("s3 cache requires MATERIALSMC_S3_BUCKET")
		}
	default:
		return errors.New("unknown cache driver " + string(s.Cache.Driver))
	}
	switch s.LedgerDriver {
	case ledger.DriverMemory, ledger.DriverSQLite, ledger.DriverPostgres, "":
	default:
		return errors.New("unknown ledger driver " + string(s.LedgerDriver))
	}
	return nil
}

// Apply loads the CrossSections file and default source into store.
func (s Settings) Apply(store *Store) error {
	if s.CrossSections != "" {
		if err := LoadInto(store, s.CrossSections); err != nil {
			return err
		}
	}
	if s.DefaultSource != "" {
		store.SetDefault(s.DefaultSource)
	}
	return nil
}
