package interfaces

import domaintypes "slinger/internal/domain/types"

// KeyStore is the opaque blob store the identity is persisted in.
//
// Paths are relative and slash-separated. A single Put or Create either fully
// lands or not at all.
type KeyStore interface {
	// Get returns domain.ErrNotFound when nothing is stored at path.
	Get(path string) ([]byte, error)
	// Put writes data, replacing any existing blob.
	Put(path string, data []byte) error
	// Create writes data only if path is empty, else domain.ErrAlreadyExists.
	Create(path string, data []byte) error
	// Delete removes the blob; deleting a missing blob is not an error.
	Delete(path string) error
}

// PeerStore keeps the public key bundles of known peers.
type PeerStore interface {
	SavePeerBundle(bundle domaintypes.PublicKeyBundle) error
	LoadPeerBundle(id domaintypes.KeyID) (domaintypes.PublicKeyBundle, bool, error)
	ListPeerBundles() ([]domaintypes.PublicKeyBundle, error)
}
