// Package exchange seals packets for known peers and opens packets from them.
//
// It is the application-facing composition of the vault, the key directory,
// the peer store and the packet codec. Private keys are unlocked per call and
// wiped before the call returns.
package exchange
