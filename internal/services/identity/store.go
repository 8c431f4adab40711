package identity

import (
	"errors"
	"fmt"

	"slinger/internal/domain"
	"slinger/internal/services/directory"
)

// Store is an opened local identity.
//
// Open either loads the identity already on disk, after checking the
// passphrase, or bootstraps a new one. The handle carries the bundle and
// loans private keys through the vault; nothing is cached in clear.
type Store struct {
	vault   domain.CredentialVault
	bundle  domain.PublicKeyBundle
	created bool
}

// Open loads or bootstraps the identity.
//
// Loading unlocks the encryption key to check passphrase. A public record
// lost after its private key was locked, as when a bootstrap stopped between
// the two writes, is rebuilt from the private key.
func (s *Service) Open(bits int, passphrase string) (*Store, error) {
	exists, err := s.vault.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		b, err := s.EnsureIdentity(bits, passphrase)
		if err != nil {
			return nil, err
		}
		return &Store{vault: s.vault, bundle: b, created: true}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, role := range domain.Roles() {
		if role != domain.Encryption {
			missing, err := s.recordMissing(role)
			if err != nil {
				return nil, err
			}
			if !missing {
				continue
			}
		}
		if err := s.resume(role, passphrase); err != nil {
			return nil, fmt.Errorf("open identity: %w", err)
		}
	}
	b, err := s.dir.Bundle()
	if err != nil {
		return nil, err
	}
	return &Store{vault: s.vault, bundle: b}, nil
}

func (s *Service) recordMissing(role domain.Role) (bool, error) {
	_, err := s.store.Get(directory.RecordPath(role))
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, domain.ErrNotFound):
		return true, nil
	default:
		return false, err
	}
}

// Bundle returns the identity's public key bundle.
func (st *Store) Bundle() domain.PublicKeyBundle { return st.bundle }

// KeyID returns the identity key id.
func (st *Store) KeyID() domain.KeyID { return st.bundle.KeyID }

// Created reports whether Open generated the identity.
func (st *Store) Created() bool { return st.created }

// Unlock loans the private key for role. The caller must wipe it.
func (st *Store) Unlock(passphrase string, role domain.Role) ([]byte, error) {
	return st.vault.Unlock(passphrase, role)
}
