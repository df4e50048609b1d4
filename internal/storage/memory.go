// Package storage provides the key/value persistence backends, the typed
// pantry collections built on top of them, and the photo archive.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Compile-time interface check.
var _ domain.KVStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory key/value store. Safe for concurrent access.
// Values are copied in and out so callers never share a buffer.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	log    *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
		log:    log,
	}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		s.log.Debug("memory: key not found: %s", key)
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores value under key, overwriting anything already there.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("memory: set %s (%d bytes)", key, len(value))
	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.values, key)
	s.log.Debug("memory: deleted %s", key)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
