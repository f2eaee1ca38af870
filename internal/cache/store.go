package cache

import (
	"context"
	"sync"
)

// Store is the backend holding encoded entries per region.
type Store interface {
	Get(ctx context.Context, region Region, key string) ([]byte, bool, error)
	Set(ctx context.Context, region Region, key string, value []byte) error
	Flush(ctx context.Context, region Region) error
}

// MemoryStore keeps entries in process memory. Each region has its own lock so
// traffic on one entity family never blocks another. Entries have no TTL.
type MemoryStore struct {
	mu      sync.RWMutex
	regions map[Region]*memoryRegion
}

type memoryRegion struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{regions: make(map[Region]*memoryRegion)}
}

func (s *MemoryStore) region(name Region) *memoryRegion {
	s.mu.RLock()
	r, ok := s.regions[name]
	s.mu.RUnlock()
	if ok {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok = s.regions[name]; !ok {
		r = &memoryRegion{entries: make(map[string][]byte)}
		s.regions[name] = r
	}
	return r
}

func (s *MemoryStore) Get(_ context.Context, region Region, key string) ([]byte, bool, error) {
	r := s.region(region)
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemoryStore) Set(_ context.Context, region Region, key string, value []byte) error {
	r := s.region(region)
	v := make([]byte, len(value))
	copy(v, value)

	r.mu.Lock()
	r.entries[key] = v
	r.mu.Unlock()
	return nil
}

func (s *MemoryStore) Flush(_ context.Context, region Region) error {
	r := s.region(region)
	r.mu.Lock()
	r.entries = make(map[string][]byte)
	r.mu.Unlock()
	return nil
}

// Len reports the number of entries held in region.
func (s *MemoryStore) Len(region Region) int {
	r := s.region(region)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
