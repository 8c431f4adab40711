package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"

	"slinger/internal/util/memzero"
)

const (
	KDFArgon2id = "argon2id"
	KDFScrypt   = "scrypt"

	// KEKBytes is the size of every derived key-encryption key.
	KEKBytes = 32
	// SaltBytes is the salt size used when wrapping.
	SaltBytes = 16
)

// Upper bounds keep a tampered blob from requesting unbounded work.
const (
	maxArgonTime     = 64
	maxArgonMemoryKB = 1 << 20
	maxArgonThreads  = 64
	maxScryptN       = 1 << 22
)

// KDFParams selects and tunes the passphrase derivation.
type KDFParams struct {
	Name     string `yaml:"name" json:"kdf"`
	Time     uint32 `yaml:"time" json:"kdf_time,omitempty"`
	MemoryKB uint32 `yaml:"memory_kb" json:"kdf_memory_kb,omitempty"`
	Threads  uint8  `yaml:"threads" json:"kdf_threads,omitempty"`
	ScryptN  int    `yaml:"scrypt_n" json:"scrypt_n,omitempty"`
	ScryptR  int    `yaml:"scrypt_r" json:"scrypt_r,omitempty"`
	ScryptP  int    `yaml:"scrypt_p" json:"scrypt_p,omitempty"`
}

// DefaultKDFParams returns argon2id with t=3, m=64MiB, p=1, plus the scrypt
// tunables used when scrypt is selected.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Name:     KDFArgon2id,
		Time:     3,
		MemoryKB: 64 * 1024,
		Threads:  1,
		ScryptN:  1 << 15,
		ScryptR:  8,
		ScryptP:  1,
	}
}

// Validate checks the parameters of the selected KDF only.
func (p KDFParams) Validate() error {
	switch p.Name {
	case KDFArgon2id:
		if p.Time < 1 || p.Time > maxArgonTime {
			return fmt.Errorf("%w: argon2id time %d", ErrUnsupportedKDF, p.Time)
		}
		if p.Threads < 1 || p.Threads > maxArgonThreads {
			return fmt.Errorf("%w: argon2id threads %d", ErrUnsupportedKDF, p.Threads)
		}
		if p.MemoryKB < 8*uint32(p.Threads) || p.MemoryKB > maxArgonMemoryKB {
			return fmt.Errorf("%w: argon2id memory %d KiB", ErrUnsupportedKDF, p.MemoryKB)
		}
	case KDFScrypt:
		n := p.ScryptN
		if n <= 1 || n > maxScryptN || n&(n-1) != 0 {
			return fmt.Errorf("%w: scrypt N %d", ErrUnsupportedKDF, n)
		}
		if p.ScryptR < 1 || p.ScryptP < 1 || uint64(p.ScryptR)*uint64(p.ScryptP) >= 1<<30 {
			return fmt.Errorf("%w: scrypt r=%d p=%d", ErrUnsupportedKDF, p.ScryptR, p.ScryptP)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedKDF, p.Name)
	}
	return nil
}

// Only returns p with the fields of the unselected KDF cleared, as stored in
// a wrapped blob.
func (p KDFParams) Only() KDFParams {
	switch p.Name {
	case KDFArgon2id:
		return KDFParams{Name: p.Name, Time: p.Time, MemoryKB: p.MemoryKB, Threads: p.Threads}
	case KDFScrypt:
		return KDFParams{Name: p.Name, ScryptN: p.ScryptN, ScryptR: p.ScryptR, ScryptP: p.ScryptP}
	}
	return p
}

// DeriveKEK derives a key-encryption key from a passphrase and salt.
func DeriveKEK(passphrase string, salt []byte, p KDFParams) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	pw := []byte(passphrase)
	defer memzero.Zero(pw)

	switch p.Name {
	case KDFScrypt:
		return scrypt.Key(pw, salt, p.ScryptN, p.ScryptR, p.ScryptP, KEKBytes)
	default:
		return argon2.IDKey(pw, salt, p.Time, p.MemoryKB, p.Threads, KEKBytes), nil
	}
}
