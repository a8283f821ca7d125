package kv

import (
	"context"
	"sync"
)

// MemoryStore is the session-only fallback used in tests and when no
// Redis address is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailSaves makes every Save return ErrUnavailable, for exercising
	// the degraded-persistence path in tests.
	FailSaves bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	if s.FailSaves {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}
