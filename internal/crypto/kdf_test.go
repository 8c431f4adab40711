package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func fastArgon() KDFParams {
	return KDFParams{Name: KDFArgon2id, Time: 1, MemoryKB: 64, Threads: 1}
}

func fastScrypt() KDFParams {
	return KDFParams{Name: KDFScrypt, ScryptN: 1 << 4, ScryptR: 8, ScryptP: 1}
}

func TestDeriveKEK(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, SaltBytes)
	for _, p := range []KDFParams{fastArgon(), fastScrypt()} {
		t.Run(p.Name, func(t *testing.T) {
			a, err := DeriveKEK("correct horse", salt, p)
			if err != nil {
				t.Fatalf("DeriveKEK error = %v", err)
			}
			if len(a) != KEKBytes {
				t.Fatalf("len = %d, want %d", len(a), KEKBytes)
			}
			b, _ := DeriveKEK("correct horse", salt, p)
			if !bytes.Equal(a, b) {
				t.Fatal("derivation is not deterministic")
			}
			c, _ := DeriveKEK("correct horsf", salt, p)
			if bytes.Equal(a, c) {
				t.Fatal("different passphrases derive the same key")
			}
			d, _ := DeriveKEK("correct horse", bytes.Repeat([]byte{8}, SaltBytes), p)
			if bytes.Equal(a, d) {
				t.Fatal("different salts derive the same key")
			}
		})
	}
}

func TestKDFParams_Validate(t *testing.T) {
	if err := DefaultKDFParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	bad := []KDFParams{
		{Name: "pbkdf2"},
		{Name: KDFArgon2id, Time: 0, MemoryKB: 64, Threads: 1},
		{Name: KDFArgon2id, Time: 1, MemoryKB: 4, Threads: 1},
		{Name: KDFArgon2id, Time: 1, MemoryKB: 1 << 21, Threads: 1},
		{Name: KDFArgon2id, Time: 1, MemoryKB: 64, Threads: 0},
		{Name: KDFScrypt, ScryptN: 1000, ScryptR: 8, ScryptP: 1},
		{Name: KDFScrypt, ScryptN: 1 << 23, ScryptR: 8, ScryptP: 1},
		{Name: KDFScrypt, ScryptN: 1 << 4, ScryptR: 0, ScryptP: 1},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrUnsupportedKDF) {
			t.Errorf("Validate(%+v) = %v, want ErrUnsupportedKDF", p, err)
		}
		if _, err := DeriveKEK("pw", make([]byte, SaltBytes), p); err == nil {
			t.Errorf("DeriveKEK(%+v) succeeded", p)
		}
	}
}

func TestKDFParams_Only(t *testing.T) {
	p := DefaultKDFParams().Only()
	if p.ScryptN != 0 || p.Time != 3 {
		t.Fatalf("argon2id Only() = %+v", p)
	}
	s := DefaultKDFParams()
	s.Name = KDFScrypt
	if got := s.Only(); got.Time != 0 || got.ScryptN != 1<<15 {
		t.Fatalf("scrypt Only() = %+v", got)
	}
}
