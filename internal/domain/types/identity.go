package types

import (
	"bytes"
	"time"
)

// PublicKeyBundle is the out-of-band exchanged artifact that lets a peer
// address and verify an identity.
type PublicKeyBundle struct {
	KeyID         KeyID
	CreatedAt     time.Time // second precision, UTC
	EncryptionKey []byte    // PKIX DER
	SigningKey    []byte    // PKIX DER
}

// Equal compares every field, with CreatedAt compared as an instant.
func (b PublicKeyBundle) Equal(o PublicKeyBundle) bool {
	return b.KeyID.Equal(o.KeyID) &&
		b.CreatedAt.Equal(o.CreatedAt) &&
		bytes.Equal(b.EncryptionKey, o.EncryptionKey) &&
		bytes.Equal(b.SigningKey, o.SigningKey)
}
