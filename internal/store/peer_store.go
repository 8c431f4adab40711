package store

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"slinger/internal/domain"
)

const peersFilename = "peers.json"

type peerRecord struct {
	KeyID         domain.KeyID `json:"key_id"`
	CreatedAt     int64        `json:"created_at"`
	EncryptionKey []byte       `json:"encryption_key"`
	SigningKey    []byte       `json:"signing_key"`
	ImportedAt    int64        `json:"imported_at"`
}

// PeerFileStore persists imported peer bundles to disk, keyed by base58
// key id.
type PeerFileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewPeerFileStore returns a PeerFileStore rooted at dir.
func NewPeerFileStore(dir string) *PeerFileStore {
	return &PeerFileStore{dir: dir, now: time.Now}
}

// SavePeerBundle stores or replaces the bundle for its key id.
func (s *PeerFileStore) SavePeerBundle(bundle domain.PublicKeyBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	path := filepath.Join(s.dir, peersFilename)
	peers := map[string]peerRecord{}
	if err := readJSON(path, &peers); err != nil {
		return err
	}
	peers[bundle.KeyID.String()] = peerRecord{
		KeyID:         bundle.KeyID.Clone(),
		CreatedAt:     bundle.CreatedAt.Unix(),
		EncryptionKey: bundle.EncryptionKey,
		SigningKey:    bundle.SigningKey,
		ImportedAt:    s.now().Unix(),
	}
	return writeJSON(path, peers, 0o600)
}

// LoadPeerBundle retrieves the bundle stored for id.
func (s *PeerFileStore) LoadPeerBundle(id domain.KeyID) (domain.PublicKeyBundle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peers := map[string]peerRecord{}
	if err := readJSON(filepath.Join(s.dir, peersFilename), &peers); err != nil {
		return domain.PublicKeyBundle{}, false, err
	}
	rec, ok := peers[id.String()]
	if !ok {
		return domain.PublicKeyBundle{}, false, nil
	}
	return rec.bundle(), true, nil
}

// ListPeerBundles returns every stored bundle ordered by base58 key id.
func (s *PeerFileStore) ListPeerBundles() ([]domain.PublicKeyBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peers := map[string]peerRecord{}
	if err := readJSON(filepath.Join(s.dir, peersFilename), &peers); err != nil {
		return nil, err
	}
	out := make([]domain.PublicKeyBundle, 0, len(peers))
	for _, rec := range peers {
		out = append(out, rec.bundle())
	}
	slices.SortFunc(out, func(a, b domain.PublicKeyBundle) int {
		return strings.Compare(a.KeyID.String(), b.KeyID.String())
	})
	return out, nil
}

func (r peerRecord) bundle() domain.PublicKeyBundle {
	return domain.PublicKeyBundle{
		KeyID:         r.KeyID,
		CreatedAt:     time.Unix(r.CreatedAt, 0).UTC(),
		EncryptionKey: r.EncryptionKey,
		SigningKey:    r.SigningKey,
	}
}

// Compile-time assertion that PeerFileStore implements domain.PeerStore.
var _ domain.PeerStore = (*PeerFileStore)(nil)
