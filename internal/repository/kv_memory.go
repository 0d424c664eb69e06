package repository

import (
	"context"
	"sync"
)

// MemoryKV is a thread-safe, in-memory implementation of KVStore.
type MemoryKV struct {
	sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (s *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	s.RLock()
	defer s.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryKV) Set(ctx context.Context, key, value string) error {
	s.Lock()
	defer s.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryKV) Delete(ctx context.Context, key string) error {
	s.Lock()
	defer s.Unlock()
	delete(s.values, key)
	return nil
}
