// Package core defines the fetch ledger: one row per nuclide file placed in the
// download cache. Drivers live under internal/infra/persistence.
package core

import (
	"context"
	"errors"
	"time"
)

// Driver identifies a ledger backend.
type Driver string

const (
	// DriverMemory keeps records for the life of the process (default).
	DriverMemory Driver = "memory"
	// DriverSQLite persists records in a local SQLite file.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres persists records in a shared Postgres database.
	DriverPostgres Driver = "postgres"
)

// Record describes one cached download.
type Record struct {
	Key       string    `json:"key"` // blob cache key, unique
	Nuclide   string    `json:"nuclide"`
	Source    string    `json:"source"` // keyword or URL as configured
	URL       string    `json:"url"`    // location actually fetched
	SHA256    string    `json:"sha256"`
	Size      int64     `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Validate reports a record that cannot be stored.
func (r Record) Validate() error {
	if r.Key == "" {
		return errors.New("ledger record requires key")
	}
	if r.Nuclide == "" {
		return errors.New("ledger record requires nuclide")
	}
	return nil
}

// Store persists records. Put replaces any record with the same key.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, key string) (Record, bool, error)
	// List returns records ordered by key.
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
	Close() error
}
