package ledger

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"materialsmc/internal/infra/persistence/postgres"
	pgstub "materialsmc/internal/infra/persistence/postgres/testutil"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	mem, err := Open(ctx, "", "")
	if err != nil || mem.Driver() != DriverMemory {
		t.Fatalf("default driver: %v %v", mem, err)
	}
	lite, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil || lite.Driver() != DriverSQLite {
		t.Fatalf("sqlite driver: %v", err)
	}
	defer func() { _ = lite.Close() }()

	db, _ := pgstub.NewStubDB()
	restore := postgres.OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	pg, err := Open(ctx, DriverPostgres, "")
	if err != nil || pg.Driver() != DriverPostgres {
		t.Fatalf("postgres driver: %v", err)
	}
	if _, err := Open(ctx, "mongo", ""); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestRecordRoundTripThroughSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	if err := store.Put(ctx, Record{Key: "jeff-3.3/U235.json", Nuclide: "U235", Source: "jeff-3.3"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil || len(list) != 1 || list[0].Nuclide != "U235" {
		t.Fatalf("list: %v %+v", err, list)
	}
}
