package store

import (
	"fmt"
	"sync"

	"slinger/internal/domain"
)

// MemoryStore is an in-process KeyStore, used by tests and embedders that
// bring their own persistence.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blobs[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return append([]byte{}, b...), nil
}

func (s *MemoryStore) Put(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[path] = append([]byte{}, data...)
	return nil
}

func (s *MemoryStore) Create(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[path]; ok {
		return fmt.Errorf("%s: %w", path, domain.ErrAlreadyExists)
	}
	s.blobs[path] = append([]byte{}, data...)
	return nil
}

func (s *MemoryStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, path)
	return nil
}

// Compile-time assertion that MemoryStore implements domain.KeyStore.
var _ domain.KeyStore = (*MemoryStore)(nil)
