package crypto

import (
	"crypto/sha256"
	"encoding/binary"

	"slinger/internal/domain"
)

// KeyIDSize is the length of every key id in bytes.
const KeyIDSize = 20

const identityKeyIDContext = "slinger/identity/v1"

// KeyID returns the id of a single public key: SHA-256 truncated to 20 bytes.
func KeyID(publicKey []byte) domain.KeyID {
	sum := sha256.Sum256(publicKey)
	return domain.KeyID(sum[:KeyIDSize])
}

// IdentityKeyID binds both identity public keys into one id.
//
// Each key is length-prefixed so the split between them is unambiguous.
func IdentityKeyID(encryptionKey, signingKey []byte) domain.KeyID {
	h := sha256.New()
	h.Write([]byte(identityKeyIDContext))
	var n [4]byte
	for _, k := range [][]byte{encryptionKey, signingKey} {
		binary.BigEndian.PutUint32(n[:], uint32(len(k)))
		h.Write(n[:])
		h.Write(k)
	}
	return domain.KeyID(h.Sum(nil)[:KeyIDSize])
}
