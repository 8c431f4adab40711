package bundle_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"slinger/internal/crypto"
	"slinger/internal/domain"
	"slinger/internal/protocol/bundle"
)

func sample() domain.PublicKeyBundle {
	enc := bytes.Repeat([]byte{0xE1}, 294)
	sig := bytes.Repeat([]byte{0x51}, 294)
	return domain.PublicKeyBundle{
		KeyID:         crypto.IdentityKeyID(enc, sig),
		CreatedAt:     time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC),
		EncryptionKey: enc,
		SigningKey:    sig,
	}
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	in := sample()
	packed, err := bundle.Pack(in)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if want := 1 + 20 + 8 + 2 + 294 + 2 + 294; len(packed) != want {
		t.Fatalf("packed length = %d, want %d", len(packed), want)
	}
	out, err := bundle.Unpack(packed)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
	again, _ := bundle.Pack(out)
	if !bytes.Equal(again, packed) {
		t.Fatal("repacking is not byte-exact")
	}
	if err := bundle.VerifyKeyID(out); err != nil {
		t.Fatalf("VerifyKeyID: %v", err)
	}
}

func TestPack_Layout(t *testing.T) {
	b := domain.PublicKeyBundle{
		KeyID:         domain.KeyID{0xAA, 0xBB},
		CreatedAt:     time.Unix(0x0102030405, 0),
		EncryptionKey: []byte{1},
		SigningKey:    []byte{2, 3},
	}
	got, err := bundle.Pack(b)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		2, 0xAA, 0xBB,
		0, 0, 0, 0x01, 0x02, 0x03, 0x04, 0x05,
		0, 1, 1,
		0, 2, 2, 3,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Pack = % x, want % x", got, want)
	}
}

func TestUnpack_Malformed(t *testing.T) {
	packed, _ := bundle.Pack(sample())
	tests := map[string][]byte{
		"empty":          nil,
		"truncated":      packed[:len(packed)-1],
		"header only":    packed[:21],
		"trailing bytes": append(append([]byte{}, packed...), 0),
		"empty key id":   {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := bundle.Unpack(data); !errors.Is(err, domain.ErrMalformedBundle) {
				t.Fatalf("err = %v, want ErrMalformedBundle", err)
			}
		})
	}
}

func TestPack_Limits(t *testing.T) {
	b := sample()
	b.KeyID = make(domain.KeyID, 256)
	if _, err := bundle.Pack(b); !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Errorf("long key id err = %v", err)
	}
	b = sample()
	b.SigningKey = make([]byte, 1<<16)
	if _, err := bundle.Pack(b); !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Errorf("long key err = %v", err)
	}
}

func TestVerifyKeyID_Mismatch(t *testing.T) {
	b := sample()
	b.EncryptionKey, b.SigningKey = b.SigningKey, b.EncryptionKey
	if err := bundle.VerifyKeyID(b); !errors.Is(err, domain.ErrMalformedBundle) {
		t.Fatalf("err = %v, want ErrMalformedBundle", err)
	}
}
