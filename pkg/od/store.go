package od

import (
	"errors"
	"sort"
	"sync"
)

// ErrParameterUnknown is returned when a Store lookup misses.
var ErrParameterUnknown = errors.New("od: parameter not found")

// Store is the ordered, concurrency-safe collection of every Parameter a
// device session knows about. Entries are populated from a parameter-list
// exchange or added individually with Put; SDO uploads and downloads only
// act on entries already present.
type Store struct {
	mu     sync.RWMutex
	byKey  map[Key]*Parameter
	sorted []Key // kept sorted; rebuilt lazily on insert
	dirty  bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{byKey: make(map[Key]*Parameter)}
}

// Put inserts or replaces a parameter descriptor.
func (s *Store) Put(p *Parameter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byKey[p.Key]; !exists {
		s.dirty = true
	}
	s.byKey[p.Key] = p
}

// Get returns the parameter at key, or ErrParameterUnknown.
func (s *Store) Get(key Key) (*Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byKey[key]
	if !ok {
		return nil, ErrParameterUnknown
	}
	return p, nil
}

// Find is a convenience wrapper over Get taking index/subindex directly.
func (s *Store) Find(index uint16, subIndex uint8) (*Parameter, error) {
	return s.Get(Key{Index: index, SubIndex: subIndex})
}

// Delete removes a parameter from the store, if present.
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byKey[key]; ok {
		delete(s.byKey, key)
		s.dirty = true
	}
}

// Len returns the number of parameters currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

// Clear removes every parameter from the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey = make(map[Key]*Parameter)
	s.sorted = nil
	s.dirty = false
}

// All returns every parameter in ascending (index, subindex) order.
func (s *Store) All() []*Parameter {
	s.mu.Lock()
	s.rebuildLocked()
	keys := s.sorted
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Parameter, 0, len(keys))
	for _, k := range keys {
		if p, ok := s.byKey[k]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) rebuildLocked() {
	if !s.dirty && s.sorted != nil {
		return
	}
	keys := make([]Key, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	s.sorted = keys
	s.dirty = false
}
