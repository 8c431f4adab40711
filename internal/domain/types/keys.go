package types

import "time"

// KeyPair is one freshly generated identity key pair.
//
// PrivateKey is PKCS#8 DER and only ever held transiently; it is wiped once
// the vault has locked it.
type KeyPair struct {
	Role       Role
	PublicKey  []byte // PKIX DER
	PrivateKey []byte // PKCS#8 DER
	Bits       int
	KeyID      KeyID
	CreatedAt  time.Time
}

// KeyRecord is the public half of a KeyPair as persisted next to the
// wrapped private key.
type KeyRecord struct {
	Role      Role      `json:"role"`
	PublicKey []byte    `json:"public_key"`
	Bits      int       `json:"bits"`
	KeyID     KeyID     `json:"key_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Record strips the private half.
func (kp KeyPair) Record() KeyRecord {
	return KeyRecord{
		Role:      kp.Role,
		PublicKey: append([]byte(nil), kp.PublicKey...),
		Bits:      kp.Bits,
		KeyID:     kp.KeyID.Clone(),
		CreatedAt: kp.CreatedAt,
	}
}
