package packet

import (
	"fmt"
	"math"

	"golang.org/x/crypto/cryptobyte"

	"slinger/internal/domain"
)

func envelopeSize(p domain.Payload) (int, error) {
	fields := []struct {
		name  string
		n     int
		limit uint64
	}{
		{"sender username", len(p.SenderUsername), math.MaxUint16},
		{"message", len(p.Message), math.MaxUint32},
		{"attachment name", len(p.AttachmentName), math.MaxUint16},
		{"attachment", len(p.Attachment), math.MaxUint32},
		{"mime type", len(p.MimeType), math.MaxUint8},
	}
	total := uint64(2 + 4 + 4 + 2 + 4 + 1)
	for _, f := range fields {
		if uint64(f.n) > f.limit {
			return 0, fmt.Errorf("%w: %s is %d bytes", domain.ErrPayloadTooLarge, f.name, f.n)
		}
		total += uint64(f.n)
	}
	if total > math.MaxUint32 {
		return 0, fmt.Errorf("%w: envelope is %d bytes", domain.ErrPayloadTooLarge, total)
	}
	return int(total), nil
}

func encodeEnvelope(p domain.Payload) ([]byte, error) {
	size, err := envelopeSize(p)
	if err != nil {
		return nil, err
	}
	b := cryptobyte.NewBuilder(make([]byte, 0, size))
	b.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes([]byte(p.SenderUsername)) })
	b.AddUint32(uint32(size))
	b.AddUint32LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes([]byte(p.Message)) })
	b.AddUint16LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes([]byte(p.AttachmentName)) })
	b.AddUint32LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes(p.Attachment) })
	b.AddUint8LengthPrefixed(func(c *cryptobyte.Builder) { c.AddBytes([]byte(p.MimeType)) })
	return b.Bytes()
}

// decodeEnvelope returns the payload and the plainLen the sender recorded.
// The payload shares no memory with data.
func decodeEnvelope(data []byte) (domain.Payload, uint32, error) {
	s := cryptobyte.String(data)
	var (
		user, msg, name, att, mime cryptobyte.String
		plainLen                   uint32
	)
	if !s.ReadUint16LengthPrefixed(&user) ||
		!s.ReadUint32(&plainLen) ||
		!s.ReadUint32LengthPrefixed(&msg) ||
		!s.ReadUint16LengthPrefixed(&name) ||
		!s.ReadUint32LengthPrefixed(&att) ||
		!s.ReadUint8LengthPrefixed(&mime) {
		return domain.Payload{}, 0, fmt.Errorf("%w: truncated envelope", domain.ErrMalformedPacket)
	}
	if !s.Empty() {
		return domain.Payload{}, 0, fmt.Errorf("%w: %d trailing envelope bytes", domain.ErrMalformedPacket, len(s))
	}
	var attachment []byte
	if len(att) > 0 {
		attachment = append([]byte{}, att...)
	}
	return domain.Payload{
		SenderUsername: domain.Username(user),
		Message:        string(msg),
		AttachmentName: string(name),
		Attachment:     attachment,
		MimeType:       string(mime),
	}, plainLen, nil
}
