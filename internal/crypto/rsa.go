package crypto

import (
	stdcrypto "crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
	"slices"

	"slinger/internal/domain"
)

// oaepOverhead is 2*hLen + 2 for OAEP with SHA-256.
const oaepOverhead = 2*sha256.Size + 2

var allowedRSABits = []int{2048, 3072, 4096}

// AllowedRSABits lists the accepted RSA modulus sizes.
func AllowedRSABits() []int { return slices.Clone(allowedRSABits) }

// ValidRSABits reports whether bits is an accepted modulus size.
func ValidRSABits(bits int) bool { return slices.Contains(allowedRSABits, bits) }

// OAEPCapacity is the largest message EncryptRSA accepts for a key of bits.
func OAEPCapacity(bits int) int { return (bits+7)/8 - oaepOverhead }

// GenerateRSAKeyPair returns a fresh RSA key pair as PKIX (public) and
// PKCS#8 (private) DER.
func GenerateRSAKeyPair(bits int) (publicKey, privateKey []byte, err error) {
	if !ValidRSABits(bits) {
		return nil, nil, fmt.Errorf("%w: %d bits (allowed %v)", domain.ErrUnsupportedKeySize, bits, allowedRSABits)
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}
	publicKey, err = x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}
	privateKey, err = x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}
	return publicKey, privateKey, nil
}

// RSAPublicKeyBits returns the modulus size of a PKIX DER public key.
func RSAPublicKeyBits(publicKey []byte) (int, error) {
	pk, err := parseRSAPublicKey(publicKey)
	if err != nil {
		return 0, err
	}
	return pk.N.BitLen(), nil
}

// RSAPublicKeyFromPrivate returns the PKIX DER public half of a PKCS#8 DER
// private key and its modulus size.
func RSAPublicKeyFromPrivate(privateKey []byte) ([]byte, int, error) {
	key, err := parseRSAPrivateKey(privateKey)
	if err != nil {
		return nil, 0, err
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, 0, err
	}
	return pub, key.N.BitLen(), nil
}

// EncryptRSA encrypts data for publicKey with RSA-OAEP (SHA-256).
//
// bits must match the key's modulus size. Data larger than one OAEP block is
// rejected with domain.ErrPayloadTooLarge rather than truncated.
func EncryptRSA(publicKey []byte, bits int, data []byte) ([]byte, error) {
	pk, err := parseRSAPublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	if pk.N.BitLen() != bits {
		return nil, fmt.Errorf("%w: key is %d bits, want %d", domain.ErrInvalidPublicKey, pk.N.BitLen(), bits)
	}
	if limit := pk.Size() - oaepOverhead; len(data) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrPayloadTooLarge, len(data), limit)
	}
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pk, data, nil)
}

// DecryptRSA reverses EncryptRSA. Any failure is domain.ErrDecryption.
func DecryptRSA(privateKey, ciphertext []byte) ([]byte, error) {
	key, err := parseRSAPrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryption, err)
	}
	plaintext, err := rsa.DecryptOAEP(sha256.New(), nil, key, ciphertext, nil)
	if err != nil {
		return nil, domain.ErrDecryption
	}
	return plaintext, nil
}

// SignRSA signs SHA-256(data) with RSA-PSS.
func SignRSA(privateKey, data []byte) ([]byte, error) {
	key, err := parseRSAPrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(data)
	return rsa.SignPSS(rand.Reader, key, stdcrypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
}

// VerifyRSA reports whether sig is a valid SignRSA signature over data.
//
// A mismatch, malformed key or wrong modulus size is a false result, never an
// error.
func VerifyRSA(publicKey []byte, bits int, sig, data []byte) bool {
	pk, err := parseRSAPublicKey(publicKey)
	if err != nil || pk.N.BitLen() != bits {
		return false
	}
	digest := sha256.Sum256(data)
	return rsa.VerifyPSS(pk, stdcrypto.SHA256, digest[:], sig, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	}) == nil
}

func parseRSAPublicKey(der []byte) (*rsa.PublicKey, error) {
	k, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPublicKey, err)
	}
	pk, ok := k.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", domain.ErrInvalidPublicKey)
	}
	return pk, nil
}

func parseRSAPrivateKey(der []byte) (*rsa.PrivateKey, error) {
	k, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	key, ok := k.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("parse private key: not an RSA key")
	}
	return key, nil
}
