package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"slinger/internal/domain"
)

// BlobFileStore persists opaque blobs as files under a base directory.
type BlobFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewBlobFileStore returns a BlobFileStore rooted at dir.
func NewBlobFileStore(dir string) *BlobFileStore {
	return &BlobFileStore{dir: dir}
}

// Get reads the blob at path.
func (s *BlobFileStore) Get(path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(full)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return b, nil
}

// Put writes data at path, replacing any existing blob.
func (s *BlobFileStore) Put(path string, data []byte) error {
	full, err := s.prepare(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return writeFile(full, data, 0o600)
}

// Create writes data at path only if nothing is stored there yet.
func (s *BlobFileStore) Create(path string, data []byte) error {
	full, err := s.prepare(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := createFile(full, data, 0o600); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, domain.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

// Delete removes the blob at path. A missing blob is not an error.
func (s *BlobFileStore) Delete(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *BlobFileStore) resolve(path string) (string, error) {
	rel := filepath.FromSlash(path)
	if path == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("store: path %q escapes the store", path)
	}
	return filepath.Join(s.dir, rel), nil
}

// prepare resolves path and makes sure its parent directory exists.
func (s *BlobFileStore) prepare(path string) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o700); err != nil {
		return "", err
	}
	return full, nil
}

// Compile-time assertion that BlobFileStore implements domain.KeyStore.
var _ domain.KeyStore = (*BlobFileStore)(nil)
