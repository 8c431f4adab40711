package vault

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"slinger/internal/crypto"
	"slinger/internal/domain"
	"slinger/internal/util/memzero"
)

const (
	// The current supported version of the wrapped-key format stored on disk.
	keystoreFormatVersion = 1
)

// blob is the on‑disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V    int         `json:"v"`
	Role domain.Role `json:"role"`
	crypto.KDFParams
	Salt     []byte `json:"salt"`
	PlainLen int    `json:"plain_len"`
	Cipher   []byte `json:"cipher"`
}

// seal derives a key from passphrase and wraps raw into a JSON blob. The role
// name is bound as associated data so blobs cannot be swapped between roles.
func seal(passphrase string, raw []byte, role domain.Role, params crypto.KDFParams) ([]byte, error) {
	salt := make([]byte, crypto.SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	kek, err := crypto.DeriveKEK(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(kek)

	ct, err := crypto.EncryptAESWithAD(raw, kek, []byte(role.String()))
	if err != nil {
		return nil, err
	}
	return json.Marshal(blob{
		V:         keystoreFormatVersion,
		Role:      role,
		KDFParams: params.Only(),
		Salt:      salt,
		PlainLen:  len(raw),
		Cipher:    ct,
	})
}

// unseal opens a blob written by seal.
//
// Anything structurally wrong with the blob is domain.ErrCorruptedKeyStore
// and is reported before the KDF runs. An authentication failure is
// domain.ErrInvalidPassphrase.
func unseal(passphrase string, data []byte, role domain.Role) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(data, &bl); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptedKeyStore, err)
	}
	switch {
	case bl.V != keystoreFormatVersion:
		return nil, fmt.Errorf("%w: unsupported keystore version %d", domain.ErrCorruptedKeyStore, bl.V)
	case bl.Role != role:
		return nil, fmt.Errorf("%w: blob holds %s key", domain.ErrCorruptedKeyStore, bl.Role)
	case len(bl.Salt) != crypto.SaltBytes:
		return nil, fmt.Errorf("%w: salt is %d bytes", domain.ErrCorruptedKeyStore, len(bl.Salt))
	case bl.PlainLen < 0 || len(bl.Cipher) != crypto.AESNonceSize+bl.PlainLen+crypto.AESTagSize:
		return nil, fmt.Errorf("%w: ciphertext does not match plain_len", domain.ErrCorruptedKeyStore)
	}

	kek, err := crypto.DeriveKEK(passphrase, bl.Salt, bl.KDFParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptedKeyStore, err)
	}
	defer memzero.Zero(kek)

	pt, err := crypto.DecryptAESWithAD(bl.Cipher, kek, []byte(role.String()), bl.PlainLen)
	if err != nil {
		return nil, domain.ErrInvalidPassphrase
	}
	return pt, nil
}
