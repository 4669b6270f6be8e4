// Package memory implements the fetch ledger in process memory. The Postgres
// driver reuses it as a read-through mirror.
package memory

import (
	"context"
	"sort"
	"sync"

	"materialsmc/internal/ledger/core"
)

// Store implements core.Store backed by a map.
type Store struct {
	mu   sync.RWMutex
	recs map[string]core.Record
}

// New returns an empty ledger.
func New() *Store { return &Store{recs: make(map[string]core.Record)} }

func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Put stores rec, replacing any record with the same key.
func (s *Store) Put(_ context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.recs[rec.Key] = rec
	s.mu.Unlock()
	return nil
}

func (s *Store) Get(_ context.Context, key string) (core.Record, bool, error) {
	s.mu.RLock()
	rec, ok := s.recs[key]
	s.mu.RUnlock()
	return rec, ok, nil
}

func (s *Store) List(_ context.Context) ([]core.Record, error) {
	s.mu.RLock()
	out := make([]core.Record, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.recs[key]
	delete(s.recs, key)
	return ok, nil
}

// Import replaces the contents with recs.
func (s *Store) Import(recs []core.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = make(map[string]core.Record, len(recs))
	for _, r := range recs {
		s.recs[r.Key] = r
	}
}

func (s *Store) Close() error { return nil }
