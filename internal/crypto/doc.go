// Package crypto exposes the primitives slinger composes into its identity
// and packet formats.
//
// Contents
//
//   - AES-GCM key generation, encryption and decryption over byte buffers
//     (GenerateAESKey, EncryptAES, OpenAES, DecryptAES)
//   - RSA key generation, OAEP encryption and PSS signatures over DER key
//     bytes (GenerateRSAKeyPair, EncryptRSA, DecryptRSA, SignRSA, VerifyRSA)
//   - Deterministic key ids for public keys and identities (KeyID,
//     IdentityKeyID)
//   - Passphrase key derivation with argon2id or scrypt (DeriveKEK)
//
// # Notes
//
// Public keys travel as PKIX DER and private keys as PKCS#8 DER. Callers own
// every private key buffer they pass in and should wipe it with
// memzero.Zero once done.
//
// DecryptAES takes the expected plaintext length explicitly. The packet and
// vault formats descend from a padded block mode in which the ciphertext
// length does not reveal the pre-padding length, so both formats carry the
// length themselves and callers check it here.
package crypto
