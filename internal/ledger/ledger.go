// Package ledger selects the fetch ledger driver. Callers depend on Store only.
package ledger

import (
	"context"
	"fmt"

	"materialsmc/internal/infra/persistence/memory"
	"materialsmc/internal/infra/persistence/postgres"
	"materialsmc/internal/infra/persistence/sqlite"
	"materialsmc/internal/ledger/core"
)

type (
	// Driver identifies a ledger backend.
	Driver = core.Driver
	// Record describes one cached download.
	Record = core.Record
	// Store persists records.
	Store = core.Store
)

const (
	DriverMemory   = core.DriverMemory
	DriverSQLite   = core.DriverSQLite
	DriverPostgres = core.DriverPostgres
)

// Open returns the ledger for driver. dsn is the SQLite file path or the
// Postgres connection string; drivers apply their own default when empty.
func Open(ctx context.Context, driver Driver, dsn string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return memory.New(), nil
	case DriverSQLite:
		return sqlite.New(ctx, dsn)
	case DriverPostgres:
		return postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown ledger driver %s", driver)
	}
}
