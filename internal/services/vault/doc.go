// Package vault wraps identity private keys under a passphrase.
//
// Each role's private key is stored as a JSON blob at keys/<role>.key.enc in
// the injected domain.KeyStore. The wrapping key is derived with argon2id or
// scrypt from the passphrase and a fresh 16-byte salt, and the private key is
// sealed with AES-256-GCM under it. The vault never caches unwrapped keys:
// every Unlock hands out a fresh copy that the caller must wipe.
package vault
