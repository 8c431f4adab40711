package domain

import (
	interfaces "slinger/internal/domain/interfaces"
	types "slinger/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username        = types.Username
	KeyID           = types.KeyID
	Role            = types.Role
	KeyPair         = types.KeyPair
	KeyRecord       = types.KeyRecord
	PublicKeyBundle = types.PublicKeyBundle
	Payload         = types.Payload
	Packet          = types.Packet
	Opened          = types.Opened
	SealRequest     = types.SealRequest
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	KeyStore        = interfaces.KeyStore
	PeerStore       = interfaces.PeerStore
	CredentialVault = interfaces.CredentialVault
	IdentityService = interfaces.IdentityService
	KeyDirectory    = interfaces.KeyDirectory
	ExchangeService = interfaces.ExchangeService
)

// The two key roles.
var (
	Encryption = types.Encryption
	Signing    = types.Signing
)

// Roles lists every role in a stable order.
func Roles() []Role { return types.Roles() }

// ParseKeyID decodes a base58 key id.
func ParseKeyID(s string) (KeyID, error) { return types.ParseKeyID(s) }
