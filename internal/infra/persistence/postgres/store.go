// Package postgres persists the fetch ledger in Postgres so several hosts
// sharing an S3 cache also share one record of what was fetched.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"materialsmc/internal/infra/persistence/memory"
	"materialsmc/internal/ledger/core"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/materialsmc?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store writes through to Postgres and serves reads from an in-memory mirror
// loaded at startup.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// New opens the ledger at dsn (defaultDSN when empty), ensures the table
// exists and hydrates the mirror.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureTable(ctx, db); err != nil {
		return nil, err
	}
	recs, err := loadRecords(ctx, db)
	if err != nil {
		return nil, err
	}
	mem := memory.New()
	mem.Import(recs)
	return &Store{Store: mem, db: db}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverPostgres }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

func ensureTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS fetches (
		key TEXT PRIMARY KEY,
		nuclide TEXT NOT NULL,
		source TEXT NOT NULL,
		url TEXT NOT NULL,
		sha256 TEXT NOT NULL,
		size BIGINT NOT NULL,
		fetched_at BIGINT NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure fetches table: %w", err)
	}
	return nil
}

func loadRecords(ctx context.Context, db *sql.DB) ([]core.Record, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, nuclide, source, url, sha256, size, fetched_at FROM fetches`)
	if err != nil {
		return nil, fmt.Errorf("select fetches: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []core.Record
	for rows.Next() {
		var rec core.Record
		var nanos int64
		if err := rows.Scan(&rec.Key, &rec.Nuclide, &rec.Source, &rec.URL, &rec.SHA256, &rec.Size, &nanos); err != nil {
			return nil, fmt.Errorf("scan fetches: %w", err)
		}
		rec.FetchedAt = time.Unix(0, nanos).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fetches: %w", err)
	}
	return out, nil
}

// Put upserts rec in Postgres, then in the mirror.
func (s *Store) Put(ctx context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `INSERT INTO fetches(key,nuclide,source,url,sha256,size,fetched_at) VALUES($1,$2,$3,$4,$5,$6,$7) ON CONFLICT(key) DO UPDATE SET nuclide=EXCLUDED.nuclide, source=EXCLUDED.source, url=EXCLUDED.url, sha256=EXCLUDED.sha256, size=EXCLUDED.size, fetched_at=EXCLUDED.fetched_at`,
		rec.Key, rec.Nuclide, rec.Source, rec.URL, rec.SHA256, rec.Size, rec.FetchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.Key, err)
	}
	return s.Store.Put(ctx, rec)
}

// Delete removes key from Postgres, then from the mirror.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fetches WHERE key=$1`, key); err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	return s.Store.Delete(ctx, key)
}

func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
