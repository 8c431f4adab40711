package types

import (
	"bytes"
	"errors"

	"github.com/mr-tron/base58"
)

// Username is the sender-chosen display name carried inside a packet.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// KeyID is a deterministic short fingerprint of public key material.
type KeyID []byte

// String renders the key id in base58.
func (id KeyID) String() string { return base58.Encode(id) }

// Equal reports whether id and other hold the same bytes.
func (id KeyID) Equal(other KeyID) bool { return bytes.Equal(id, other) }

// Clone returns a copy that does not alias id.
func (id KeyID) Clone() KeyID { return append(KeyID(nil), id...) }

// ParseKeyID decodes the base58 form produced by KeyID.String.
func ParseKeyID(s string) (KeyID, error) {
	if s == "" {
		return nil, errors.New("empty key id")
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	return KeyID(b), nil
}

// Role names the purpose of one of the two identity key pairs.
//
// The zero Role is invalid. Only Encryption and Signing exist; the field is
// unexported so no other value can be constructed outside this package.
type Role struct {
	name string
}

var (
	// Encryption is the key pair used to wrap packet keys.
	Encryption = Role{name: "encryption"}
	// Signing is the key pair used to sign packet envelopes.
	Signing = Role{name: "signing"}
)

// Roles lists every role in a stable order.
func Roles() []Role { return []Role{Encryption, Signing} }

// String returns the role name.
func (r Role) String() string {
	if r.name == "" {
		return "invalid"
	}
	return r.name
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool { return r == Encryption || r == Signing }

// MarshalText encodes the role name.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, errors.New("invalid key role")
	}
	return []byte(r.name), nil
}

// UnmarshalText accepts only the declared role names.
func (r *Role) UnmarshalText(b []byte) error {
	switch string(b) {
	case Encryption.name:
		*r = Encryption
	case Signing.name:
		*r = Signing
	default:
		return errors.New("unknown key role " + string(b))
	}
	return nil
}
