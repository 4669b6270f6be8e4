package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"materialsmc/internal/blob/core"
)

func TestStore_MissingHeadGet(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found from head, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found from get, got %v", err)
	}
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected delete false")
	}
}

func TestStore_AllBranches(t *testing.T) {
	store := New()
	ctx := context.Background()
	info, err := store.Put(ctx, "tendl-21/Li6.json", bytes.NewReader([]byte(`{"name":"Li6"}`)), core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"source": "tendl-21"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.ETag == "" || info.Size != 14 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "tendl-21/Li6.json", bytes.NewReader([]byte("v2")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected exists error, got %v", err)
	}
	if _, err := store.Put(ctx, "tendl-21/Li7.json", bytes.NewReader([]byte("{}")), core.PutOptions{}); err != nil {
		t.Fatalf("put li7: %v", err)
	}
	if _, err := store.Put(ctx, "fendl-3.2c/Li6.json", bytes.NewReader([]byte("{}")), core.PutOptions{}); err != nil {
		t.Fatalf("put fendl: %v", err)
	}
	if list, err := store.List(ctx, ""); err != nil || len(list) != 3 {
		t.Fatalf("list all: %v %d", err, len(list))
	}
	list, err := store.List(ctx, "tendl-21/")
	if err != nil || len(list) != 2 {
		t.Fatalf("list prefix: %v %d", err, len(list))
	}
	if list[0].Key != "tendl-21/Li6.json" || list[1].Key != "tendl-21/Li7.json" {
		t.Fatalf("expected sorted keys, got %+v", list)
	}
	got, rc, err := store.Get(ctx, "tendl-21/Li6.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != `{"name":"Li6"}` || got.ETag != info.ETag {
		t.Fatalf("unexpected get %q %+v", b, got)
	}
	got.Metadata["source"] = "mutated"
	head, _ := store.Head(ctx, "tendl-21/Li6.json")
	if head.Metadata["source"] != "tendl-21" {
		t.Fatalf("metadata leaked through copy")
	}
	if ok, err := store.Delete(ctx, "tendl-21/Li6.json"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStore_PutReadErrorAndDriver(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
	if _, err := store.Put(context.Background(), " ", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
	if _, err := store.Head(context.Background(), "bad"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("failed put must not leave an entry")
	}
}
