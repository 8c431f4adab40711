// Package packet builds and parses the hybrid-encrypted, signed packets
// exchanged between peers.
//
// A packet carries the sender's identity key id in clear, an AES key wrapped
// with RSA-OAEP for the recipient, an RSA-PSS signature by the sender, and
// the AES-GCM encrypted envelope:
//
//	[keyIDLen:u8][senderKeyID][wrappedKeyLen:u16][wrappedKey]
//	[sigLen:u16][signature][cipherLen:u32][ciphertext]
//
// The envelope inside the ciphertext is
//
//	[usernameLen:u16][username][plainLen:u32][msgLen:u32][message]
//	[attachNameLen:u16][attachName][attachLen:u32][attachment][mimeLen:u8][mime]
//
// where plainLen is the length of the whole serialised envelope.
//
// # Signature
//
// The signature covers the plaintext envelope, not the ciphertext, so it
// binds the content the sender wrote independently of the one-time AES key.
// Parse verifies it before any field is returned; a failed verification
// wipes the decrypted envelope.
package packet
