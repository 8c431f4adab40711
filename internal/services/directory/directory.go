package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tyler-smith/go-bip39"

	"slinger/internal/crypto"
	"slinger/internal/domain"
	"slinger/internal/protocol/bundle"
)

// Directory implements domain.KeyDirectory over a domain.KeyStore.
type Directory struct {
	store domain.KeyStore
}

// New returns a Directory reading records from store.
func New(store domain.KeyStore) *Directory { return &Directory{store: store} }

// RecordPath returns the key-store path of the public record for role.
func RecordPath(role domain.Role) string { return "keys/" + role.String() + ".pub.json" }

// Record loads and checks the public key record for role.
//
// A missing record means the identity was never created; like an unparsable
// or inconsistent record it is reported as domain.ErrCorruptedKeyStore.
func (d *Directory) Record(role domain.Role) (domain.KeyRecord, error) {
	data, err := d.store.Get(RecordPath(role))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.KeyRecord{}, fmt.Errorf("%w: no %s key: identity not created", domain.ErrCorruptedKeyStore, role)
		}
		return domain.KeyRecord{}, err
	}
	var rec domain.KeyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.KeyRecord{}, fmt.Errorf("%w: %s record: %v", domain.ErrCorruptedKeyStore, role, err)
	}
	if rec.Role != role {
		return domain.KeyRecord{}, fmt.Errorf("%w: %s record holds %s key", domain.ErrCorruptedKeyStore, role, rec.Role)
	}
	if !crypto.KeyID(rec.PublicKey).Equal(rec.KeyID) {
		return domain.KeyRecord{}, fmt.Errorf("%w: %s key id does not match public key", domain.ErrCorruptedKeyStore, role)
	}
	bits, err := crypto.RSAPublicKeyBits(rec.PublicKey)
	if err != nil || bits != rec.Bits {
		return domain.KeyRecord{}, fmt.Errorf("%w: %s public key unusable", domain.ErrCorruptedKeyStore, role)
	}
	return rec, nil
}

// Bundle assembles the identity's public key bundle.
func (d *Directory) Bundle() (domain.PublicKeyBundle, error) {
	enc, err := d.Record(domain.Encryption)
	if err != nil {
		return domain.PublicKeyBundle{}, err
	}
	sig, err := d.Record(domain.Signing)
	if err != nil {
		return domain.PublicKeyBundle{}, err
	}
	created := enc.CreatedAt
	if sig.CreatedAt.Before(created) {
		created = sig.CreatedAt
	}
	return domain.PublicKeyBundle{
		KeyID:         crypto.IdentityKeyID(enc.PublicKey, sig.PublicKey),
		CreatedAt:     created.UTC().Truncate(time.Second),
		EncryptionKey: enc.PublicKey,
		SigningKey:    sig.PublicKey,
	}, nil
}

// KeyID returns the identity key id.
func (d *Directory) KeyID() (domain.KeyID, error) {
	b, err := d.Bundle()
	if err != nil {
		return nil, err
	}
	return b.KeyID, nil
}

// DisplayKeyID returns the identity key id in base58.
func (d *Directory) DisplayKeyID() (string, error) {
	id, err := d.KeyID()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// CreationDate returns when the identity was generated, to the second.
func (d *Directory) CreationDate() (time.Time, error) {
	b, err := d.Bundle()
	if err != nil {
		return time.Time{}, err
	}
	return b.CreatedAt, nil
}

func (d *Directory) PublicKey(role domain.Role) ([]byte, error) {
	rec, err := d.Record(role)
	if err != nil {
		return nil, err
	}
	return rec.PublicKey, nil
}

// PackedPublicKeyBundle returns the wire form of Bundle.
func (d *Directory) PackedPublicKeyBundle() ([]byte, error) {
	b, err := d.Bundle()
	if err != nil {
		return nil, err
	}
	return bundle.Pack(b)
}

// PrivateKeySize returns the RSA modulus size in bits of the key for role.
func (d *Directory) PrivateKeySize(role domain.Role) (int, error) {
	rec, err := d.Record(role)
	if err != nil {
		return 0, err
	}
	return rec.Bits, nil
}

// VerificationPhrase renders the identity key id as BIP-39 words for
// reading aloud when comparing identities out of band.
func (d *Directory) VerificationPhrase() (string, error) {
	id, err := d.KeyID()
	if err != nil {
		return "", err
	}
	return Phrase(id)
}

// Phrase renders any 20-byte key id as 15 BIP-39 words.
func Phrase(id domain.KeyID) (string, error) {
	if len(id) != crypto.KeyIDSize {
		return "", fmt.Errorf("key id is %d bytes, want %d", len(id), crypto.KeyIDSize)
	}
	return bip39.NewMnemonic(id)
}

// Compile-time assertion that Directory implements domain.KeyDirectory.
var _ domain.KeyDirectory = (*Directory)(nil)
