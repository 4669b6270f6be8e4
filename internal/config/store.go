// Package config holds the nuclide name -> data source mapping and the
// process settings read from the environment.
package config

import (
	"sort"
	"strings"
	"sync"
)

// Store maps nuclide names to sources: a local path, an http(s) or s3 URL,
// or a keyword such as "tendl-21". It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	sources map[string]string
	def     string
}

// NewStore returns an empty mapping.
func NewStore() *Store { return &Store{sources: make(map[string]string)} }

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the process-wide store used when no store is injected.
func Default() *Store {
	defaultOnce.Do(func() { defaultStore = NewStore() })
	return defaultStore
}

// Get returns the source for name, falling back to the default source.
func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if src, ok := s.sources[name]; ok {
		return src, true
	}
	if s.def != "" {
		return s.def, true
	}
	return "", false
}

// Set maps name to source, replacing any previous entry.
func (s *Store) Set(name, source string) {
	s.mu.Lock()
	s.sources[strings.TrimSpace(name)] = strings.TrimSpace(source)
	s.mu.Unlock()
}

// SetAll merges sources into the mapping.
func (s *Store) SetAll(sources map[string]string) {
	s.mu.Lock()
	for name, src := range sources {
		s.sources[strings.TrimSpace(name)] = strings.TrimSpace(src)
	}
	s.mu.Unlock()
}

// SetDefault sets the source used for names without an explicit entry. An
// empty source removes it.
func (s *Store) SetDefault(source string) {
	s.mu.Lock()
	s.def = strings.TrimSpace(source)
	s.mu.Unlock()
}

// DefaultSource returns the fallback source, if any.
func (s *Store) DefaultSource() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.def
}

// Clear removes every entry and the default.
func (s *Store) Clear() {
	s.mu.Lock()
	s.sources = make(map[string]string)
	s.def = ""
	s.mu.Unlock()
}

// Snapshot returns a copy of the explicit entries.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.sources))
	for k, v := range s.sources {
		out[k] = v
	}
	return out
}

// Names returns the explicitly mapped nuclide names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.sources))
	for k := range s.sources {
		out = append(out, k)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}
