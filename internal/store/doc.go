// Package store provides the persistence collaborators for slinger.
//
// BlobFileStore and MemoryStore implement domain.KeyStore, an opaque blob
// store addressed by relative slash-separated paths. PeerFileStore keeps the
// public key bundles of known peers as JSON. All methods are
// concurrency-safe via internal locking, and file writes land atomically
// through a temp file that is renamed (Put) or hard-linked (Create) onto the
// target.
package store
