package interfaces

import (
	"context"
	"time"

	domaintypes "slinger/internal/domain/types"
)

// CredentialVault wraps private keys under a passphrase.
type CredentialVault interface {
	Exists() (bool, error)
	HasRole(role domaintypes.Role) (bool, error)
	Lock(passphrase string, plaintextKey []byte, role domaintypes.Role) error
	// Unlock returns a loan the caller must wipe before returning.
	Unlock(passphrase string, role domaintypes.Role) ([]byte, error)
	VerifyPassphrase(passphrase string, role domaintypes.Role) bool
	Rewrap(oldPassphrase, newPassphrase string, role domaintypes.Role) error
	Erase(role domaintypes.Role) error
}

// IdentityService creates and resets the local identity.
type IdentityService interface {
	EnsureIdentity(bits int, passphrase string) (domaintypes.PublicKeyBundle, error)
	Reset(passphrase string) error
	ChangePassphrase(oldPassphrase, newPassphrase string) error
}

// KeyDirectory answers read-only questions about the local identity.
type KeyDirectory interface {
	KeyID() (domaintypes.KeyID, error)
	CreationDate() (time.Time, error)
	PublicKey(role domaintypes.Role) ([]byte, error)
	Bundle() (domaintypes.PublicKeyBundle, error)
	PackedPublicKeyBundle() ([]byte, error)
	PrivateKeySize(role domaintypes.Role) (int, error)
	VerificationPhrase() (string, error)
}

// ExchangeService seals packets for peers and opens packets from them.
type ExchangeService interface {
	Seal(ctx context.Context, passphrase string, req domaintypes.SealRequest) ([]byte, error)
	Open(ctx context.Context, passphrase string, packet []byte) (domaintypes.Opened, error)
	ImportPeer(ctx context.Context, packedBundle []byte) (domaintypes.PublicKeyBundle, error)
}
