package packet

import (
	"fmt"
	"math"

	"golang.org/x/crypto/cryptobyte"

	"slinger/internal/domain"
)

// Encode serialises p. Fields wider than their length prefix are
// domain.ErrPayloadTooLarge.
func Encode(p domain.Packet) ([]byte, error) {
	switch {
	case len(p.SenderKeyID) == 0:
		return nil, fmt.Errorf("%w: empty sender key id", domain.ErrMalformedPacket)
	case len(p.SenderKeyID) > math.MaxUint8:
		return nil, fmt.Errorf("%w: sender key id is %d bytes", domain.ErrPayloadTooLarge, len(p.SenderKeyID))
	case len(p.WrappedKey) > math.MaxUint16:
		return nil, fmt.Errorf("%w: wrapped key is %d bytes", domain.ErrPayloadTooLarge, len(p.WrappedKey))
	case len(p.Signature) > math.MaxUint16:
		return nil, fmt.Errorf("%w: signature is %d bytes", domain.ErrPayloadTooLarge, len(p.Signature))
	case uint64(len(p.Ciphertext)) > math.MaxUint32:
		return nil, fmt.Errorf("%w: ciphertext is %d bytes", domain.ErrPayloadTooLarge, len(p.Ciphertext))
	}

	size := 1 + len(p.SenderKeyID) + 2 + len(p.WrappedKey) + 2 + len(p.Signature) + 4 + len(p.Ciphertext)
	b := cryptobyte.NewBuilder(make([]byte, 0, size))
	b.AddUint8LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(p.SenderKeyID) })
	b.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(p.WrappedKey) })
	b.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(p.Signature) })
	b.AddUint32LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(p.Ciphertext) })
	return b.Bytes()
}

// Decode parses the packet structure without touching any cryptography.
// The returned slices alias data.
func Decode(data []byte) (domain.Packet, error) {
	s := cryptobyte.String(data)
	var keyID, wrapped, sig, ct cryptobyte.String
	if !s.ReadUint8LengthPrefixed(&keyID) ||
		!s.ReadUint16LengthPrefixed(&wrapped) ||
		!s.ReadUint16LengthPrefixed(&sig) ||
		!s.ReadUint32LengthPrefixed(&ct) {
		return domain.Packet{}, fmt.Errorf("%w: truncated", domain.ErrMalformedPacket)
	}
	if !s.Empty() {
		return domain.Packet{}, fmt.Errorf("%w: %d trailing bytes", domain.ErrMalformedPacket, len(s))
	}
	if len(keyID) == 0 {
		return domain.Packet{}, fmt.Errorf("%w: empty sender key id", domain.ErrMalformedPacket)
	}
	return domain.Packet{
		SenderKeyID: domain.KeyID(keyID).Clone(),
		WrappedKey:  wrapped,
		Signature:   sig,
		Ciphertext:  ct,
	}, nil
}

// ExtractKeyID returns the sender key id from the packet prefix. It reads
// nothing past the key id, so it works on packets the local identity cannot
// open.
func ExtractKeyID(data []byte) (domain.KeyID, error) {
	s := cryptobyte.String(data)
	var keyID cryptobyte.String
	if !s.ReadUint8LengthPrefixed(&keyID) || len(keyID) == 0 {
		return nil, fmt.Errorf("%w: no sender key id", domain.ErrMalformedPacket)
	}
	return domain.KeyID(keyID).Clone(), nil
}
