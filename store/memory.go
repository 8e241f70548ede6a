package store

import (
	"context"
	"sync"
)

// MemoryStore is a thread-safe in-memory option store.
type MemoryStore struct {
	options map[string]string
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		options: make(map[string]string),
	}
}

// Get retrieves a value from the store.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.options[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores a value in the store.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options[key] = value
	return nil
}

// Delete removes a value from the store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.options, key)
	return nil
}

// Len returns the number of stored options.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.options)
}

// Verify MemoryStore implements KeyValueStore
var _ KeyValueStore = (*MemoryStore)(nil)
