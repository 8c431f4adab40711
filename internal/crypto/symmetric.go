package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"slinger/internal/domain"
)

const (
	// AESKeySize is the default AES key size in bytes (AES-256).
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16
)

// ValidAESKeySize reports whether size selects AES-128, AES-192 or AES-256.
func ValidAESKeySize(size int) bool {
	return size == 16 || size == 24 || size == 32
}

// GenerateAESKey returns size random bytes suitable as an AES key.
func GenerateAESKey(size int) ([]byte, error) {
	if !ValidAESKeySize(size) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeySize, size)
	}
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}
	return key, nil
}

// EncryptAES encrypts plaintext with AES-GCM under key.
// Returns: nonce (12 bytes) || ciphertext || tag (16 bytes)
func EncryptAES(plaintext, key []byte) ([]byte, error) {
	return EncryptAESWithAD(plaintext, key, nil)
}

// EncryptAESWithAD is EncryptAES with associated data bound into the tag.
func EncryptAESWithAD(plaintext, key, ad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, AESNonceSize, AESNonceSize+len(plaintext)+AESTagSize)
	if _, err := rand.Read(out); err != nil {
		return nil, err
	}
	return gcm.Seal(out, out[:AESNonceSize], plaintext, ad), nil
}

// OpenAES authenticates and decrypts the output of EncryptAES.
func OpenAES(ciphertext, key []byte) ([]byte, error) {
	return OpenAESWithAD(ciphertext, key, nil)
}

// OpenAESWithAD is OpenAES for ciphertexts sealed with associated data.
func OpenAESWithAD(ciphertext, key, ad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < AESNonceSize+AESTagSize {
		return nil, fmt.Errorf("%w: ciphertext too short", domain.ErrDecryption)
	}
	plaintext, err := gcm.Open(nil, ciphertext[:AESNonceSize], ciphertext[AESNonceSize:], ad)
	if err != nil {
		return nil, domain.ErrDecryption
	}
	return plaintext, nil
}

// DecryptAES opens ciphertext and requires the result to be exactly
// expectedPlainLength bytes long.
func DecryptAES(ciphertext, key []byte, expectedPlainLength int) ([]byte, error) {
	return DecryptAESWithAD(ciphertext, key, nil, expectedPlainLength)
}

// DecryptAESWithAD is DecryptAES for ciphertexts sealed with associated data.
func DecryptAESWithAD(ciphertext, key, ad []byte, expectedPlainLength int) ([]byte, error) {
	if expectedPlainLength < 0 {
		return nil, fmt.Errorf("%w: negative plaintext length", domain.ErrDecryption)
	}
	if len(ciphertext) != AESNonceSize+expectedPlainLength+AESTagSize {
		return nil, fmt.Errorf("%w: length mismatch", domain.ErrDecryption)
	}
	plaintext, err := OpenAESWithAD(ciphertext, key, ad)
	if err != nil {
		return nil, err
	}
	if len(plaintext) != expectedPlainLength {
		return nil, fmt.Errorf("%w: length mismatch", domain.ErrDecryption)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if !ValidAESKeySize(len(key)) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
