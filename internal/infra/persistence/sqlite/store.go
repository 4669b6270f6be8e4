// Package sqlite persists the fetch ledger in a local SQLite file using the
// pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"materialsmc/internal/ledger/core"
)

// DefaultPath is used when New receives an empty path.
const DefaultPath = "materialsmc-ledger.db"

const schema = `CREATE TABLE IF NOT EXISTS fetches (
	key        TEXT PRIMARY KEY,
	nuclide    TEXT NOT NULL,
	source     TEXT NOT NULL,
	url        TEXT NOT NULL,
	sha256     TEXT NOT NULL,
	size       INTEGER NOT NULL,
	fetched_at INTEGER NOT NULL
)`

// Store implements core.Store on a SQLite table.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the ledger database at path.
func New(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; concurrent resolvers serialize through the pool
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create fetches table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

func (s *Store) Driver() core.Driver { return core.DriverSQLite }

func (s *Store) Put(ctx context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO fetches(key,nuclide,source,url,sha256,size,fetched_at) VALUES(?,?,?,?,?,?,?)
		ON CONFLICT(key) DO UPDATE SET nuclide=excluded.nuclide, source=excluded.source, url=excluded.url,
		sha256=excluded.sha256, size=excluded.size, fetched_at=excluded.fetched_at`,
		rec.Key, rec.Nuclide, rec.Source, rec.URL, rec.SHA256, rec.Size, rec.FetchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.Key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (core.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT key, nuclide, source, url, sha256, size, fetched_at FROM fetches WHERE key = ?`, key)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, false, nil
	}
	if err != nil {
		return core.Record{}, false, fmt.Errorf("select %s: %w", key, err)
	}
	return rec, true, nil
}

func (s *Store) List(ctx context.Context) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, nuclide, source, url, sha256, size, fetched_at FROM fetches ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("select fetches: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fetches WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (core.Record, error) {
	var rec core.Record
	var nanos int64
	if err := sc.Scan(&rec.Key, &rec.Nuclide, &rec.Source, &rec.URL, &rec.SHA256, &rec.Size, &nanos); err != nil {
		return core.Record{}, err
	}
	rec.FetchedAt = time.Unix(0, nanos).UTC()
	return rec, nil
}
