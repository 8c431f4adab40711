// Package directory answers read-only questions about the local identity:
// key ids, creation date, public keys, key sizes and the packed public key
// bundle handed to peers.
//
// It reads the public key records the identity service writes next to the
// wrapped private keys and never touches private material.
package directory
