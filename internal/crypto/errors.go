package crypto

import "errors"

var (
	// ErrInvalidKeySize is returned when an AES key is not 16, 24 or 32 bytes.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrUnsupportedKDF is returned for an unknown or out-of-range KDF setting.
	ErrUnsupportedKDF = errors.New("unsupported kdf")
)
