package bundle

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/crypto/cryptobyte"

	"slinger/internal/crypto"
	"slinger/internal/domain"
)

// Pack serialises b. CreatedAt is truncated to whole seconds.
func Pack(b domain.PublicKeyBundle) ([]byte, error) {
	switch {
	case len(b.KeyID) == 0:
		return nil, fmt.Errorf("%w: empty key id", domain.ErrMalformedBundle)
	case len(b.KeyID) > math.MaxUint8:
		return nil, fmt.Errorf("%w: key id is %d bytes", domain.ErrPayloadTooLarge, len(b.KeyID))
	case len(b.EncryptionKey) > math.MaxUint16, len(b.SigningKey) > math.MaxUint16:
		return nil, fmt.Errorf("%w: public key exceeds %d bytes", domain.ErrPayloadTooLarge, math.MaxUint16)
	}

	out := cryptobyte.NewBuilder(make([]byte, 0, 1+len(b.KeyID)+8+2+len(b.EncryptionKey)+2+len(b.SigningKey)))
	out.AddUint8LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(b.KeyID) })
	out.AddUint64(uint64(b.CreatedAt.Unix()))
	out.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(b.EncryptionKey) })
	out.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(b.SigningKey) })
	return out.Bytes()
}

// Unpack parses a bundle produced by Pack. Short reads and trailing bytes are
// domain.ErrMalformedBundle.
func Unpack(data []byte) (domain.PublicKeyBundle, error) {
	s := cryptobyte.String(data)
	var (
		keyID, encKey, sigKey cryptobyte.String
		created               uint64
	)
	if !s.ReadUint8LengthPrefixed(&keyID) ||
		!s.ReadUint64(&created) ||
		!s.ReadUint16LengthPrefixed(&encKey) ||
		!s.ReadUint16LengthPrefixed(&sigKey) {
		return domain.PublicKeyBundle{}, fmt.Errorf("%w: truncated", domain.ErrMalformedBundle)
	}
	if !s.Empty() {
		return domain.PublicKeyBundle{}, fmt.Errorf("%w: %d trailing bytes", domain.ErrMalformedBundle, len(s))
	}
	if len(keyID) == 0 {
		return domain.PublicKeyBundle{}, fmt.Errorf("%w: empty key id", domain.ErrMalformedBundle)
	}
	return domain.PublicKeyBundle{
		KeyID:         domain.KeyID(clone(keyID)),
		CreatedAt:     time.Unix(int64(created), 0).UTC(),
		EncryptionKey: clone(encKey),
		SigningKey:    clone(sigKey),
	}, nil
}

// VerifyKeyID checks that b's key id is the identity fingerprint of its two
// public keys.
func VerifyKeyID(b domain.PublicKeyBundle) error {
	if !crypto.IdentityKeyID(b.EncryptionKey, b.SigningKey).Equal(b.KeyID) {
		return fmt.Errorf("%w: key id does not match keys", domain.ErrMalformedBundle)
	}
	return nil
}

func clone(s cryptobyte.String) []byte { return append([]byte{}, s...) }
