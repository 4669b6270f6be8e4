package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"materialsmc/internal/ledger/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "nested", "ledger.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := New(ctx, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fetched := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := core.Record{Key: "tendl-21/Li6.json", Nuclide: "Li6", Source: "tendl-21",
		URL: "https://example.org/Li6.json", SHA256: "abc", Size: 1234, FetchedAt: fetched}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	again, err := New(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = again.Close() }()
	got, ok, err := again.Get(ctx, rec.Key)
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if !got.FetchedAt.Equal(rec.FetchedAt) {
		t.Fatalf("time mismatch %v vs %v", got.FetchedAt, rec.FetchedAt)
	}
	got.FetchedAt = rec.FetchedAt
	if got != rec {
		t.Fatalf("record mismatch\n got %+v\nwant %+v", got, rec)
	}
	if again.Path() != path || again.Driver() != core.DriverSQLite {
		t.Fatalf("unexpected store identity")
	}
}

func TestStoreUpsertListDelete(t *testing.T) {
	ctx := context.Background()
	s := newTempStore(t)
	for _, r := range []core.Record{
		{Key: "b", Nuclide: "Li7", Size: 1},
		{Key: "a", Nuclide: "Li6", Size: 1},
		{Key: "b", Nuclide: "Li7", Size: 2},
	} {
		if err := s.Put(ctx, r); err != nil {
			t.Fatalf("put %s: %v", r.Key, err)
		}
	}
	list, err := s.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %v %+v", err, list)
	}
	if list[0].Key != "a" || list[1].Size != 2 {
		t.Fatalf("unexpected list %+v", list)
	}
	if ok, err := s.Delete(ctx, "a"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := s.Delete(ctx, "a"); err != nil || ok {
		t.Fatalf("second delete: %v %v", ok, err)
	}
	if _, ok, err := s.Get(ctx, "a"); err != nil || ok {
		t.Fatalf("expected missing record: %v %v", ok, err)
	}
}

func TestStoreRejectsInvalidRecord(t *testing.T) {
	s := newTempStore(t)
	if err := s.Put(context.Background(), core.Record{Nuclide: "Li6"}); err == nil {
		t.Fatalf("expected validation error")
	}
}
