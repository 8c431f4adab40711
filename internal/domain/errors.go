package domain

import "errors"

var (
	// ErrKeyGeneration is returned when the RNG or RSA engine fails.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrUnsupportedKeySize is returned for RSA sizes outside the allowed set.
	ErrUnsupportedKeySize = errors.New("unsupported key size")

	// ErrAlreadyExists is returned when identity bootstrap would clobber an
	// existing identity, or a create-only write finds its target present.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidPassphrase is returned when a wrapped key does not open
	// under the supplied passphrase.
	ErrInvalidPassphrase = errors.New("invalid passphrase")

	// ErrWeakPassphrase is returned when a new passphrase fails the policy.
	ErrWeakPassphrase = errors.New("passphrase too weak")

	// ErrCorruptedKeyStore is returned when an entry is present but cannot be
	// parsed, or when the identity has not been created yet.
	ErrCorruptedKeyStore = errors.New("corrupted key store")

	// ErrPayloadTooLarge is returned when data exceeds an RSA block or a
	// length prefix.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrInvalidPublicKey is returned when public key bytes cannot be used.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrDecryption is returned when ciphertext fails to decrypt or
	// authenticate.
	ErrDecryption = errors.New("decryption failed")

	// ErrSignatureVerification is returned when a packet signature does not
	// match its content.
	ErrSignatureVerification = errors.New("signature verification failed")

	// ErrMalformedPacket is returned for structural or length-prefix
	// inconsistencies in a packet or its envelope.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrMalformedBundle is returned for a truncated or garbled public key
	// bundle.
	ErrMalformedBundle = errors.New("malformed public key bundle")

	// ErrUnknownSender is returned when a packet's key id resolves to no
	// known peer.
	ErrUnknownSender = errors.New("unknown sender")

	// ErrNotFound is returned by a KeyStore for a missing path.
	ErrNotFound = errors.New("not found")

	// ErrUnlockThrottled is returned when unlock attempts exceed the
	// configured rate.
	ErrUnlockThrottled = errors.New("too many unlock attempts")
)
