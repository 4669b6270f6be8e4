package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"materialsmc/internal/infra/persistence/postgres/testutil"
	"materialsmc/internal/ledger/core"
)

func openStub(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(driverName, _ string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Fatalf("unexpected driver %s", driverName)
		}
		return db, nil
	})
	defer restore()
	s, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, conn
}

func TestNewEnsuresTableAndLoadsRows(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.Tables["fetches"] = []map[string]any{{
		"key": "tendl-21/Li6.json", "nuclide": "Li6", "source": "tendl-21", "url": "https://x/Li6.json",
		"sha256": "abc", "size": int64(10), "fetched_at": int64(1_700_000_000_000_000_000),
	}}
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	s, err := New(context.Background(), "postgres://db/ledger")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var sawDDL bool
	for _, stmt := range conn.Execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE IF NOT EXISTS FETCHES") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected fetches DDL, got %v", conn.Execs)
	}
	rec, ok, err := s.Get(context.Background(), "tendl-21/Li6.json")
	if err != nil || !ok || rec.Size != 10 || rec.FetchedAt.Unix() != 1_700_000_000 {
		t.Fatalf("unexpected mirrored record %+v %v %v", rec, ok, err)
	}
	if s.Driver() != core.DriverPostgres || s.DB() != db {
		t.Fatalf("unexpected store identity")
	}
}

func TestPutAndDeleteWriteThrough(t *testing.T) {
	s, conn := openStub(t)
	ctx := context.Background()
	rec := core.Record{Key: "fendl-3.2c/Fe56.json", Nuclide: "Fe56", Source: "fendl-3.2c", Size: 5, FetchedAt: time.Unix(10, 0)}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec.Size = 6
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("second put: %v", err)
	}
	rows := conn.Tables["fetches"]
	if len(rows) != 1 || rows[0]["size"] != int64(6) {
		t.Fatalf("expected one upserted row, got %v", rows)
	}
	if got, ok, _ := s.Get(ctx, rec.Key); !ok || got.Size != 6 {
		t.Fatalf("mirror not updated: %+v", got)
	}
	if ok, err := s.Delete(ctx, rec.Key); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if len(conn.Tables["fetches"]) != 0 {
		t.Fatalf("expected row removed, got %v", conn.Tables["fetches"])
	}
	if err := s.Put(ctx, core.Record{Key: "x"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestFailuresSurface(t *testing.T) {
	s, conn := openStub(t)
	conn.FailTables = map[string]bool{"fetches": true}
	err := s.Put(context.Background(), core.Record{Key: "k", Nuclide: "Li6"})
	if err == nil || !strings.Contains(err.Error(), "upsert k") {
		t.Fatalf("expected upsert failure, got %v", err)
	}
	if _, ok, _ := s.Get(context.Background(), "k"); ok {
		t.Fatalf("mirror must not change when the database write fails")
	}

	db, conn2 := testutil.NewStubDB()
	conn2.FailExec = true
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := New(context.Background(), ""); err == nil {
		t.Fatalf("expected ping failure")
	}

	restoreOpen := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return nil, errors.New("no driver") })
	defer restoreOpen()
	if _, err := New(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open failure, got %v", err)
	}
}
