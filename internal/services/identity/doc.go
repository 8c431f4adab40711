// Package identity creates, re-protects and resets the local identity.
//
// An identity is two RSA key pairs, one for encryption and one for signing.
// Private halves go straight into the credential vault, locked under the
// user's passphrase; public halves are written as JSON records that the
// directory package reads. Creation never silently replaces an existing
// identity: the vault's create-only write decides races, and Reset is the
// only path that removes keys.
package identity
